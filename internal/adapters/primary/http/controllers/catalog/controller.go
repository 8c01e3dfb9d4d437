package catalog

import (
	"log/slog"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	"github.com/admin/cosmic-connect/internal/adapters/primary/http/response"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/ports/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller дашборд пользователя: каталог астрологов и свои чаты
type Controller struct {
	CatalogService usecase.ICatalogService
	Log            *slog.Logger
}

func New(catalogService usecase.ICatalogService, log *slog.Logger) *Controller {
	return &Controller{
		CatalogService: catalogService,
		Log:            log,
	}
}

type StartChatRequest struct {
	AstrologerID string `json:"astrologer_id" binding:"required"`
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	dashboard := router.Group("/api/v1", middlewares.RequireView(domain.ViewUserDashboard))
	{
		dashboard.GET("/astrologers", c.listAstrologers)
		dashboard.POST("/chats", c.startChat)
		dashboard.GET("/chats", c.listChats)
	}
}

func (c *Controller) listAstrologers(ctx *gin.Context) {
	cards, err := c.CatalogService.ListAstrologers(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.OK(ctx, cards)
}

func (c *Controller) startChat(ctx *gin.Context) {
	log := logger.FromContext(ctx.Request.Context(), c.Log)
	session := middlewares.SessionFrom(ctx)

	var req StartChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "astrologer_id is required")
		return
	}
	astrologerID, err := uuid.Parse(req.AstrologerID)
	if err != nil {
		response.BadRequest(ctx, "astrologer_id must be a uuid")
		return
	}

	chat, err := c.CatalogService.StartChat(ctx.Request.Context(), session.ProfileID, astrologerID)
	if err != nil {
		response.Error(ctx, log, err)
		return
	}
	response.Created(ctx, chat)
}

func (c *Controller) listChats(ctx *gin.Context) {
	session := middlewares.SessionFrom(ctx)
	chats, err := c.CatalogService.ListMyChats(ctx.Request.Context(), session.ProfileID)
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.OK(ctx, chats)
}
