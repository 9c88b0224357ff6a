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

type Portfolio struct {
	Svc *service.PortfolioService
	Log *zap.Logger
}

type portfolioQuery struct {
	Category string `form:"category"`
}

func (h *Portfolio) list(c *gin.Context, q *portfolioQuery) ([]domain.PortfolioItem, error) {
	return h.Svc.List(c.Request.Context(), mdw.ActorFrom(c), q.Category)
}

func (h *Portfolio) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g, h.Log), ez.Action[portfolioQuery, []domain.PortfolioItem]{
		Method:  http.MethodGet,
		Path:    "/portfolio",
		Binder:  ez.BindQuery,
		Handler: h.list,
	})
}

func (h *Portfolio) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.Log)

	ez.RegisterAction(e, ez.Action[portfolioQuery, []domain.PortfolioItem]{
		Method:  http.MethodGet,
		Path:    "/portfolio",
		Binder:  ez.BindQuery,
		Handler: h.list,
	})

	ez.RegisterAction(e, ez.Action[domain.PortfolioItemInput, *domain.PortfolioItem]{
		Method: http.MethodPost,
		Path:   "/portfolio",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.PortfolioItemInput) (*domain.PortfolioItem, error) {
			return h.Svc.Create(c.Request.Context(), mdw.ActorFrom(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[domain.PortfolioItemPatch, *domain.PortfolioItem]{
		Method: http.MethodPut,
		Path:   "/portfolio/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.PortfolioItemPatch) (*domain.PortfolioItem, error) {
			id, err := ez.IDParam(c)
			if err != nil {
				return nil, err
			}
			return h.Svc.Update(c.Request.Context(), mdw.ActorFrom(c), id, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/portfolio/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.IDParam(c)
			if err != nil {
				return nil, err
			}
			if err := h.Svc.Delete(c.Request.Context(), mdw.ActorFrom(c), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
