package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/gin-gonic/gin"
)

// внутренние ошибки наружу не отдаются
const internalMessage = "something went wrong, please try again"

// Status HTTP-статус для ошибки use case'а
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrChatInactive),
		errors.Is(err, domain.ErrPaymentExists),
		errors.Is(err, domain.ErrChatClosed),
		errors.Is(err, domain.ErrInvalidPaymentTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error пишет {"error": "..."}; 5xx логируются с полной ошибкой, клиенту уходит общее сообщение
func Error(c *gin.Context, log *slog.Logger, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
		c.AbortWithStatusJSON(status, gin.H{"error": internalMessage})
		return
	}

	log.Debug("request rejected", "error", err, "status", status, "path", c.FullPath())
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// BadRequest невалидное тело или параметры запроса
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// TooLarge тело запроса превышает лимит загрузки
func TooLarge(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": message})
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}
