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

type Course struct {
	Svc *service.CourseService
	Log *zap.Logger
}

func (h *Course) get(c *gin.Context, _ *struct{}) (*domain.Course, error) {
	id, err := ez.IDParam(c)
	if err != nil {
		return nil, err
	}
	return h.Svc.Get(c.Request.Context(), mdw.ActorFrom(c), id)
}

func (h *Course) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.Log)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Course]{
		Method: http.MethodGet,
		Path:   "/courses",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Course, error) {
			return h.Svc.ListPublished(c.Request.Context(), mdw.ActorFrom(c))
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Course]{
		Method:  http.MethodGet,
		Path:    "/courses/:id",
		Binder:  ez.BindNone,
		Handler: h.get,
	})
}

func (h *Course) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.Log)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Course]{
		Method: http.MethodGet,
		Path:   "/courses",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Course, error) {
			return h.Svc.ListAll(c.Request.Context(), mdw.ActorFrom(c))
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Course]{
		Method:  http.MethodGet,
		Path:    "/courses/:id",
		Binder:  ez.BindNone,
		Handler: h.get,
	})
	ez.RegisterAction(e, ez.Action[domain.CourseInput, *domain.Course]{
		Method: http.MethodPost,
		Path:   "/courses",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.CourseInput) (*domain.Course, error) {
			return h.Svc.Create(c.Request.Context(), mdw.ActorFrom(c), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[domain.CoursePatch, *domain.Course]{
		Method: http.MethodPut,
		Path:   "/courses/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.CoursePatch) (*domain.Course, error) {
			id, err := ez.IDParam(c)
			if err != nil {
				return nil, err
			}
			return h.Svc.Update(c.Request.Context(), mdw.ActorFrom(c), id, *in)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/courses/:id",
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
