package chat

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	"github.com/admin/cosmic-connect/internal/adapters/primary/http/response"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// совпадает с тем, что выставляет sse.Event при рендере
const eventStreamContentType = "text/event-stream;charset=utf-8"

// stream живой канал чата в виде Server-Sent Events; id события - seq сообщения
func (c *Controller) stream(ctx *gin.Context) {
	id, ok := chatID(ctx)
	if !ok {
		return
	}
	after, ok := resumeCursor(ctx)
	if !ok {
		response.BadRequest(ctx, "resume cursor must be a non-negative integer")
		return
	}

	reqCtx := ctx.Request.Context()
	log := logger.FromContext(reqCtx, c.Log)
	session := middlewares.SessionFrom(ctx)

	messages, err := c.ChatService.Subscribe(reqCtx, id, session.ProfileID, after)
	if err != nil {
		response.Error(ctx, log, err)
		return
	}

	// WriteTimeout сервера не должен обрывать долгий стрим
	if err := http.NewResponseController(ctx.Writer).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("write deadline not adjustable for stream", "error", err)
	}

	ctx.Header("Content-Type", eventStreamContentType)
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")
	ctx.Status(http.StatusOK)
	ctx.Writer.WriteHeaderNow()
	ctx.Writer.Flush()

	heartbeat := c.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	log.Debug("live stream opened", "chat_id", id, "after_seq", after)
	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-reqCtx.Done():
			return false
		case m, ok := <-messages:
			if !ok {
				return false
			}
			ctx.Render(-1, sse.Event{
				Id:    strconv.FormatInt(m.Seq, 10),
				Event: "message",
				Data:  m,
			})
			return true
		case <-ticker.C:
			ctx.Render(-1, sse.Event{Event: "ping", Data: time.Now().UTC().Format(time.RFC3339)})
			return true
		}
	})
	log.Debug("live stream closed", "chat_id", id)
}
