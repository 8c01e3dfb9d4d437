package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	"github.com/admin/cosmic-connect/internal/adapters/primary/http/response"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/ports/usecase"
	"github.com/gin-gonic/gin"
)

type Controller struct {
	AuthService  usecase.IAuthService
	SecureCookie bool
	Log          *slog.Logger
}

func New(authService usecase.IAuthService, secureCookie bool, log *slog.Logger) *Controller {
	return &Controller{
		AuthService:  authService,
		SecureCookie: secureCookie,
		Log:          log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/signup", c.signUp)
		auth.POST("/signin", c.signIn)
		auth.POST("/signout", c.signOut)
	}

	router.GET("/api/v1/session", c.session)
	router.GET("/api/v1/session/route", c.route)
}

func (c *Controller) signUp(ctx *gin.Context) {
	log := logger.FromContext(ctx.Request.Context(), c.Log)

	var req SignUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Debug("failed to bind sign up request", "error", err)
		response.BadRequest(ctx, "email, password and full_name are required")
		return
	}

	tok, err := c.AuthService.SignUp(ctx.Request.Context(), domain.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		response.Error(ctx, log, err)
		return
	}

	c.setCookie(ctx, tok)
	response.Created(ctx, tok)
}

func (c *Controller) signIn(ctx *gin.Context) {
	log := logger.FromContext(ctx.Request.Context(), c.Log)

	var req SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Debug("failed to bind sign in request", "error", err)
		response.BadRequest(ctx, "email and password are required")
		return
	}

	tok, err := c.AuthService.SignIn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(ctx, log, err)
		return
	}

	c.setCookie(ctx, tok)
	response.OK(ctx, tok)
}

func (c *Controller) signOut(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middlewares.SessionCookieName, "", -1, "/", "", c.SecureCookie, true)
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) setCookie(ctx *gin.Context, tok *domain.AuthToken) {
	maxAge := int(time.Until(tok.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middlewares.SessionCookieName, tok.Token, maxAge, "/", "", c.SecureCookie, true)
}

// session профиль текущей сессии
func (c *Controller) session(ctx *gin.Context) {
	session := middlewares.SessionFrom(ctx)
	if session == nil {
		response.Error(ctx, c.Log, domain.ErrUnauthenticated)
		return
	}

	home := session.Role().HomeView()
	response.OK(ctx, SessionResponse{
		Profile:  session.Profile,
		HomeView: home,
		HomePath: home.Path(),
	})
}

// route решение guard'а без перехода на экран, для клиента
func (c *Controller) route(ctx *gin.Context) {
	view := domain.View(ctx.Query("view"))
	if !view.IsValid() {
		response.BadRequest(ctx, fmt.Sprintf("unknown view %q", view))
		return
	}

	session := middlewares.SessionFrom(ctx)
	decision := domain.ResolveView(session, view)

	out := RouteResponse{View: view, Allow: decision.Allow, Status: http.StatusOK}
	switch {
	case decision.Allow:
	case session == nil:
		out.Status = http.StatusUnauthorized
		out.Redirect = domain.ViewAuth
	case decision.Forbidden:
		out.Status = http.StatusForbidden
		out.Redirect = decision.RedirectTo
	default:
		out.Status = http.StatusSeeOther
		out.Redirect = decision.RedirectTo
	}
	if out.Redirect != "" {
		out.Location = out.Redirect.Path()
	}

	response.OK(ctx, out)
}
