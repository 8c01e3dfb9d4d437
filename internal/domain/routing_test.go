package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sessionWithRole(role Role) *Session {
	id := uuid.New()
	return &Session{ProfileID: id, Profile: &Profile{ID: id, Role: role}}
}

func TestResolveView(t *testing.T) {
	tests := []struct {
		name      string
		session   *Session
		requested View
		want      RouteDecision
	}{
		{"anonymous on auth", nil, ViewAuth, RouteDecision{Allow: true}},
		{"anonymous on dashboard", nil, ViewUserDashboard, RouteDecision{RedirectTo: ViewAuth}},
		{"anonymous on chat", nil, ViewChat, RouteDecision{RedirectTo: ViewAuth}},
		{"anonymous on admin", nil, ViewAdminPanel, RouteDecision{RedirectTo: ViewAuth}},
		{"session without profile", &Session{ProfileID: uuid.New()}, ViewChat, RouteDecision{RedirectTo: ViewAuth}},

		{"user on auth", sessionWithRole(RoleUser), ViewAuth, RouteDecision{RedirectTo: ViewUserDashboard}},
		{"astrologer on auth", sessionWithRole(RoleAstrologer), ViewAuth, RouteDecision{RedirectTo: ViewAstrologerDashboard}},
		{"admin on auth", sessionWithRole(RoleAdmin), ViewAuth, RouteDecision{RedirectTo: ViewAdminPanel}},

		{"user on admin", sessionWithRole(RoleUser), ViewAdminPanel, RouteDecision{Forbidden: true, RedirectTo: ViewUserDashboard}},
		{"astrologer on admin", sessionWithRole(RoleAstrologer), ViewAdminPanel, RouteDecision{Forbidden: true, RedirectTo: ViewAstrologerDashboard}},
		{"admin on admin", sessionWithRole(RoleAdmin), ViewAdminPanel, RouteDecision{Allow: true}},

		{"user on user dashboard", sessionWithRole(RoleUser), ViewUserDashboard, RouteDecision{Allow: true}},
		{"astrologer on user dashboard", sessionWithRole(RoleAstrologer), ViewUserDashboard, RouteDecision{RedirectTo: ViewAstrologerDashboard}},
		{"admin on user dashboard", sessionWithRole(RoleAdmin), ViewUserDashboard, RouteDecision{Allow: true}},

		{"astrologer on astrologer dashboard", sessionWithRole(RoleAstrologer), ViewAstrologerDashboard, RouteDecision{Allow: true}},
		{"user on astrologer dashboard", sessionWithRole(RoleUser), ViewAstrologerDashboard, RouteDecision{RedirectTo: ViewUserDashboard}},
		{"admin on astrologer dashboard", sessionWithRole(RoleAdmin), ViewAstrologerDashboard, RouteDecision{RedirectTo: ViewUserDashboard}},

		{"user on chat", sessionWithRole(RoleUser), ViewChat, RouteDecision{Allow: true}},
		{"astrologer on chat", sessionWithRole(RoleAstrologer), ViewChat, RouteDecision{Allow: true}},

		{"unknown view", sessionWithRole(RoleUser), View("settings"), RouteDecision{RedirectTo: ViewUserDashboard}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveView(tt.session, tt.requested))
		})
	}
}

func TestViewPath(t *testing.T) {
	assert.Equal(t, "/auth", ViewAuth.Path())
	assert.Equal(t, "/dashboard", ViewUserDashboard.Path())
	assert.Equal(t, "/astrologer-dashboard", ViewAstrologerDashboard.Path())
	assert.Equal(t, "/admin", ViewAdminPanel.Path())
	assert.Equal(t, "/", View("nowhere").Path())
}
