package domain

// View экран (в API - группа маршрутов), доступ к которому проверяет session guard
type View string

const (
	ViewAuth                View = "auth"
	ViewUserDashboard       View = "user_dashboard"
	ViewAstrologerDashboard View = "astrologer_dashboard"
	ViewAdminPanel          View = "admin_panel"
	ViewChat                View = "chat"
)

func (v View) IsValid() bool {
	switch v {
	case ViewAuth, ViewUserDashboard, ViewAstrologerDashboard, ViewAdminPanel, ViewChat:
		return true
	default:
		return false
	}
}

// RouteDecision результат проверки доступа к экрану
type RouteDecision struct {
	Allow      bool `json:"allow"`
	Forbidden  bool `json:"forbidden"`
	RedirectTo View `json:"redirect_to,omitempty"`
}

func allow() RouteDecision           { return RouteDecision{Allow: true} }
func redirect(to View) RouteDecision { return RouteDecision{RedirectTo: to} }
func forbidden(fallback View) RouteDecision {
	return RouteDecision{Forbidden: true, RedirectTo: fallback}
}

// ResolveView решает, пускать ли сессию на экран или куда её перенаправить
func ResolveView(session *Session, requested View) RouteDecision {
	role := session.Role()
	if role == "" {
		if requested == ViewAuth {
			return allow()
		}
		return redirect(ViewAuth)
	}

	switch requested {
	case ViewAuth:
		return redirect(role.HomeView())
	case ViewAdminPanel:
		if role != RoleAdmin {
			return forbidden(role.HomeView())
		}
		return allow()
	case ViewUserDashboard:
		if role == RoleAstrologer {
			return redirect(ViewAstrologerDashboard)
		}
		return allow()
	case ViewAstrologerDashboard:
		if role != RoleAstrologer {
			return redirect(ViewUserDashboard)
		}
		return allow()
	case ViewChat:
		return allow()
	default:
		return redirect(role.HomeView())
	}
}

var viewPaths = map[View]string{
	ViewAuth:                "/auth",
	ViewUserDashboard:       "/dashboard",
	ViewAstrologerDashboard: "/astrologer-dashboard",
	ViewAdminPanel:          "/admin",
	ViewChat:                "/chat",
}

// Path адрес экрана на клиенте, используется в Location при редиректе
func (v View) Path() string {
	if p, ok := viewPaths[v]; ok {
		return p
	}
	return "/"
}
