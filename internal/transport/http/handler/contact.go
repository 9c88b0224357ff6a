package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studio-marketplace/internal/domain"
	"studio-marketplace/internal/service"
	"studio-marketplace/internal/transport/http/ez"
	mdw "studio-marketplace/internal/transport/http/middleware"
)

type Contact struct {
	Svc *service.ContactService
	Log *zap.Logger
	// SubmitLimit guards the public form, typically mdw.RateLimitPerIP.
	SubmitLimit gin.HandlerFunc
}

func (h *Contact) MountAPI(g *gin.RouterGroup) {
	var mws []gin.HandlerFunc
	if h.SubmitLimit != nil {
		mws = append(mws, h.SubmitLimit)
	}
	ez.RegisterAction(ez.New(g, h.Log), ez.Action[domain.ContactInput, *domain.ContactSubmission]{
		Method:      http.MethodPost,
		Path:        "/contact",
		Binder:      ez.BindJSON,
		Middlewares: mws,
		Handler: func(c *gin.Context, in *domain.ContactInput) (*domain.ContactSubmission, error) {
			return h.Svc.Submit(c.Request.Context(), mdw.ActorFrom(c), *in)
		},
	})
}

func (h *Contact) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.Log)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.ContactSubmission]{
		Method: http.MethodGet,
		Path:   "/contacts",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ContactSubmission, error) {
			return h.Svc.List(c.Request.Context(), mdw.ActorFrom(c))
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPut,
		Path:   "/contacts/:id/respond",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.IDParam(c)
			if err != nil {
				return nil, err
			}
			if err := h.Svc.MarkResponded(c.Request.Context(), mdw.ActorFrom(c), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id, "responded": true}, nil
		},
	})
}
