package chat

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	"github.com/admin/cosmic-connect/internal/adapters/primary/http/response"
	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/admin/cosmic-connect/internal/ports/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultHeartbeat = 25 * time.Second

// Controller экран чата: сообщения, живой канал (SSE), загрузка пруфа оплаты
type Controller struct {
	ChatService    usecase.IChatService
	MaxUploadBytes int64
	Heartbeat      time.Duration
	Log            *slog.Logger
}

func New(chatService usecase.IChatService, maxUploadBytes int64, log *slog.Logger) *Controller {
	return &Controller{
		ChatService:    chatService,
		MaxUploadBytes: maxUploadBytes,
		Heartbeat:      defaultHeartbeat,
		Log:            log,
	}
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	chat := router.Group("/api/v1/chats/:id", middlewares.RequireView(domain.ViewChat))
	{
		chat.GET("", c.getChat)
		chat.GET("/messages", c.listMessages)
		chat.POST("/messages", c.sendMessage)
		chat.POST("/read", c.markRead)
		chat.GET("/stream", c.stream)
		chat.POST("/payments", c.submitProof)
	}
}

func chatID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "chat id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) getChat(ctx *gin.Context) {
	id, ok := chatID(ctx)
	if !ok {
		return
	}
	session := middlewares.SessionFrom(ctx)

	details, err := c.ChatService.GetChat(ctx.Request.Context(), id, session.ProfileID)
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.OK(ctx, details)
}

func (c *Controller) listMessages(ctx *gin.Context) {
	id, ok := chatID(ctx)
	if !ok {
		return
	}
	session := middlewares.SessionFrom(ctx)

	messages, err := c.ChatService.ListMessages(ctx.Request.Context(), id, session.ProfileID)
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.OK(ctx, messages)
}

func (c *Controller) sendMessage(ctx *gin.Context) {
	id, ok := chatID(ctx)
	if !ok {
		return
	}
	session := middlewares.SessionFrom(ctx)

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "invalid message payload")
		return
	}

	message, err := c.ChatService.SendMessage(ctx.Request.Context(), id, session.ProfileID, req.Message)
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.Created(ctx, message)
}

func (c *Controller) markRead(ctx *gin.Context) {
	id, ok := chatID(ctx)
	if !ok {
		return
	}
	session := middlewares.SessionFrom(ctx)

	n, err := c.ChatService.MarkRead(ctx.Request.Context(), id, session.ProfileID)
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.OK(ctx, gin.H{"marked": n})
}

// resumeCursor Last-Event-ID от браузера при переподключении, иначе ?after=
func resumeCursor(ctx *gin.Context) (int64, bool) {
	raw := ctx.GetHeader("Last-Event-ID")
	if raw == "" {
		raw = ctx.Query("after")
	}
	if raw == "" {
		return 0, true
	}
	after, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || after < 0 {
		return 0, false
	}
	return after, true
}
