package admin

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

// Controller панель админа: очередь оплат на проверку
type Controller struct {
	PaymentService usecase.IPaymentReviewService
	Log            *slog.Logger
}

func New(
	paymentService usecase.IPaymentReviewService,
	log *slog.Logger,
) *Controller {
	return &Controller{
		PaymentService: paymentService,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	admin := router.Group("/api/v1/admin", middlewares.RequireView(domain.ViewAdminPanel))
	{
		admin.GET("/payments", c.listPending)
		admin.POST("/payments/:id/verify", c.verify)
		admin.POST("/payments/:id/reject", c.reject)
	}
}

// listPending pending оплаты, новые сверху
func (c *Controller) listPending(ctx *gin.Context) {
	pending, err := c.PaymentService.ListPending(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, logger.FromContext(ctx.Request.Context(), c.Log), err)
		return
	}
	response.OK(ctx, pending)
}

type resolveFunc func(ctx *gin.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error)

func (c *Controller) resolve(ctx *gin.Context, action string, fn resolveFunc) {
	log := logger.FromContext(ctx.Request.Context(), c.Log)

	paymentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "payment id must be a uuid")
		return
	}
	session := middlewares.SessionFrom(ctx)

	payment, err := fn(ctx, paymentID, session.ProfileID)
	if err != nil {
		log.Warn("payment review action failed",
			"action", action,
			"payment_id", paymentID,
			"admin_id", session.ProfileID,
			"error", err,
		)
		response.Error(ctx, log, err)
		return
	}
	response.OK(ctx, payment)
}

func (c *Controller) verify(ctx *gin.Context) {
	c.resolve(ctx, "verify", func(ctx *gin.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error) {
		return c.PaymentService.Verify(ctx.Request.Context(), paymentID, adminID)
	})
}

func (c *Controller) reject(ctx *gin.Context) {
	c.resolve(ctx, "reject", func(ctx *gin.Context, paymentID, adminID uuid.UUID) (*domain.Payment, error) {
		return c.PaymentService.Reject(ctx.Request.Context(), paymentID, adminID)
	})
}
