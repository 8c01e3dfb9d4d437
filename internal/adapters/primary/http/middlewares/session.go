package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/response"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/ports/usecase"
	"github.com/gin-gonic/gin"
)

const (
	sessionKey        = "session"
	SessionCookieName = "cc_session"
)

// Session один раз на запрос разбирает токен (Bearer или cookie) и кладёт сессию в контекст gin.
// Без токена запрос идёт дальше анонимным, решает RequireView.
func Session(auth usecase.IAuthService, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookieName)
		}
		if token == "" {
			c.Next()
			return
		}

		session, err := auth.Session(c.Request.Context(), token)
		if err != nil {
			if response.Status(err) != http.StatusUnauthorized {
				response.Error(c, logger.FromContext(c.Request.Context(), log), err)
				return
			}
			logger.FromContext(c.Request.Context(), log).Debug("invalid session token", "error", err)
			c.Next()
			return
		}

		SetSession(c, session)
		c.Next()
	}
}

// SetSession кладёт сессию в контекст запроса
func SetSession(c *gin.Context, session *domain.Session) {
	c.Set(sessionKey, session)
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// SessionFrom сессия текущего запроса или nil
func SessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*domain.Session)
	return session
}

// RequireView пускает на группу маршрутов экрана по ResolveView:
// нет сессии - 401, запрещено - 403, перенаправление - 303 с Location
func RequireView(view domain.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		decision := domain.ResolveView(session, view)

		switch {
		case decision.Allow:
			c.Next()
		case session == nil:
			c.Header("Location", domain.ViewAuth.Path())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       domain.ErrUnauthenticated.Error(),
				"redirect_to": domain.ViewAuth,
			})
		case decision.Forbidden:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":       domain.ErrForbidden.Error(),
				"redirect_to": decision.RedirectTo,
			})
		default:
			c.Header("Location", decision.RedirectTo.Path())
			c.AbortWithStatusJSON(http.StatusSeeOther, gin.H{
				"redirect_to": decision.RedirectTo,
			})
		}
	}
}
