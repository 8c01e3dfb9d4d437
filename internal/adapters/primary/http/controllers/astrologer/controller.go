package astrologer

import (
	"log/slog"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	"github.com/admin/cosmic-connect/internal/adapters/primary/http/response"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/ports/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Controller struct {
	AstrologerService usecase.IAstrologerService
	Log               *slog.Logger
}

func New(astrologerService usecase.IAstrologerService, log *slog.Logger) *Controller {
	return &Controller{
		AstrologerService: astrologerService,
		Log:               log,
	}
}

// UpdateProfileRequest отсутствующее поле не меняется
type UpdateProfileRequest struct {
	Bio             *string          `json:"bio"`
	Expertise       []string         `json:"expertise"`
	Specialties     *string          `json:"specialties"`
	ExperienceYears *int             `json:"experience_years"`
	RatePerMinute   *decimal.Decimal `json:"rate_per_minute"`
	Languages       []string         `json:"languages"`
}

type SetOnlineRequest struct {
	Online *bool `json:"online" binding:"required"`
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	dashboard := router.Group("/api/v1/astrologer", middlewares.RequireView(domain.ViewAstrologerDashboard))
	{
		dashboard.GET("/profile", c.getProfile)
		dashboard.PUT("/profile", c.updateProfile)
		dashboard.POST("/online", c.setOnline)
		dashboard.GET("/chats", c.listChats)
	}
}

func (c *Controller) getProfile(ctx *gin.Context) {
	session := middlewares.SessionFrom(ctx)
	profile, err := c.AstrologerService.GetOrCreateProfile(ctx.Request.Context(), session.ProfileID)
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.OK(ctx, profile)
}

func (c *Controller) updateProfile(ctx *gin.Context) {
	log := logger.FromContext(ctx.Request.Context(), c.Log)
	session := middlewares.SessionFrom(ctx)

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Debug("failed to bind astrologer profile", "error", err)
		response.BadRequest(ctx, "invalid profile payload")
		return
	}

	patch := domain.AstrologerPatch{
		Bio:             req.Bio,
		Specialties:     req.Specialties,
		ExperienceYears: req.ExperienceYears,
		RatePerMinute:   req.RatePerMinute,
	}
	if req.Expertise != nil {
		patch.Expertise = domain.StringList(req.Expertise)
	}
	if req.Languages != nil {
		patch.Languages = domain.StringList(req.Languages)
	}

	profile, err := c.AstrologerService.UpdateProfile(ctx.Request.Context(), session.ProfileID, patch)
	if err != nil {
		response.Error(ctx, log, err)
		return
	}
	response.OK(ctx, profile)
}

func (c *Controller) setOnline(ctx *gin.Context) {
	log := logger.FromContext(ctx.Request.Context(), c.Log)
	session := middlewares.SessionFrom(ctx)

	var req SetOnlineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "online is required")
		return
	}

	if err := c.AstrologerService.SetOnline(ctx.Request.Context(), session.ProfileID, *req.Online); err != nil {
		response.Error(ctx, log, err)
		return
	}
	response.OK(ctx, gin.H{"online": *req.Online})
}

func (c *Controller) listChats(ctx *gin.Context) {
	session := middlewares.SessionFrom(ctx)
	chats, err := c.AstrologerService.ListActiveChats(ctx.Request.Context(), session.ProfileID)
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.OK(ctx, chats)
}
