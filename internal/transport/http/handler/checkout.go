package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studio-marketplace/internal/domain"
	"studio-marketplace/internal/service"
	"studio-marketplace/internal/transport/http/ez"
	mdw "studio-marketplace/internal/transport/http/middleware"
)

// Checkout covers the purchase flow and the buyer's enrollments.
type Checkout struct {
	Purchases   *service.PurchaseService
	Enrollments *service.EnrollmentService
	Log         *zap.Logger
	// SignatureHeader carries the processor's webhook signature.
	SignatureHeader string
}

func (h *Checkout) Priority() int { return 50 }

type checkoutIn struct {
	CourseID uint `json:"courseId" binding:"required"`
}

type confirmIn struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

func (h *Checkout) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.Log)

	ez.RegisterAction(e, ez.Action[checkoutIn, *service.Checkout]{
		Method: http.MethodPost,
		Path:   "/checkout",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *checkoutIn) (*service.Checkout, error) {
			return h.Purchases.Initiate(c.Request.Context(), mdw.ActorFrom(c), in.CourseID)
		},
	})

	ez.RegisterAction(e, ez.Action[confirmIn, *service.Outcome]{
		Method: http.MethodPost,
		Path:   "/checkout/confirm",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *confirmIn) (*service.Outcome, error) {
			return h.Purchases.ConfirmIntent(c.Request.Context(), mdw.ActorFrom(c), in.PaymentIntentID)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.CourseEnrollment]{
		Method: http.MethodGet,
		Path:   "/me/enrollments",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.CourseEnrollment, error) {
			return h.Enrollments.ListMine(c.Request.Context(), mdw.ActorFrom(c))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.CourseEnrollment]{
		Method: http.MethodPost,
		Path:   "/me/enrollments/:id/complete",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.CourseEnrollment, error) {
			id, err := ez.IDParam(c)
			if err != nil {
				return nil, err
			}
			return h.Enrollments.Complete(c.Request.Context(), mdw.ActorFrom(c), id)
		},
	})

	g.POST("/payments/webhook", h.webhook)
}

// webhook answers with plain HTTP statuses: the processor retries on
// anything but 2xx, so only storage failures ask for a retry.
func (h *Checkout) webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	out, err := h.Purchases.HandleWebhook(c.Request.Context(), payload, c.GetHeader(h.SignatureHeader))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, out)
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrPayment):
		h.Log.Warn("webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
	case errors.Is(err, domain.ErrValidation):
		h.Log.Warn("webhook not actionable", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"received": true, "enrolled": false})
	default:
		_ = c.Error(err)
		h.Log.Error("webhook failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
