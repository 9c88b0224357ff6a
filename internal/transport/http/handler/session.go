package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studio-marketplace/internal/core/auth"
	"studio-marketplace/internal/domain"
	"studio-marketplace/internal/identity"
	"studio-marketplace/internal/service"
	"studio-marketplace/internal/transport/http/ez"
	mdw "studio-marketplace/internal/transport/http/middleware"
)

// Session exchanges an identity-provider assertion for a session token.
type Session struct {
	Identity identity.Provider
	Users    *service.UserService
	JWT      *auth.JWTer
	Log      *zap.Logger
}

func (h *Session) Priority() int { return 10 }

type sessionIn struct {
	Assertion string `json:"assertion" binding:"required"`
}

type sessionOut struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

func (h *Session) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.Log)

	ez.RegisterAction(e, ez.Action[sessionIn, sessionOut]{
		Method: http.MethodPost,
		Path:   "/auth/session",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *sessionIn) (sessionOut, error) {
			p, err := h.Identity.Verify(c.Request.Context(), in.Assertion)
			if err != nil {
				return sessionOut{}, err
			}
			u, err := h.Users.SignIn(c.Request.Context(), *p)
			if err != nil {
				return sessionOut{}, err
			}
			tok, exp, err := h.JWT.Issue(u.ID)
			if err != nil {
				return sessionOut{}, err
			}
			return sessionOut{Token: tok, ExpiresAt: exp, User: u}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.Users.Me(c.Request.Context(), mdw.ActorFrom(c))
		},
	})
}
