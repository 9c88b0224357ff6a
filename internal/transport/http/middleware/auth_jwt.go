package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/core/auth"
	"studio-marketplace/internal/domain"
	resp "studio-marketplace/internal/transport/http/response"
)

const KeyActor = "actor"

// ActorResolver 把令牌主体解析成当前的 actor
type ActorResolver interface {
	ResolveActor(ctx context.Context, uid string) (access.Actor, error)
}

// Session 从可选的 bearer token 解析调用方。没有 token 按匿名继续，token 无效直接拒绝
func Session(j *auth.JWTer, r ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			c.Set(KeyActor, access.Anonymous)
			c.Next()
			return
		}
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "malformed authorization header"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		actor, err := r.ResolveActor(c.Request.Context(), claims.UID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unknown user"))
			return
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
			return
		}
		c.Set(KeyActor, actor)
		c.Next()
	}
}

// RequireAdmin 保护整个路由组，service 层还会再校验一次
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		a := ActorFrom(c)
		switch {
		case !a.Authenticated():
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
		case a.Level() < access.LevelAdmin:
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "admin only"))
		default:
			c.Next()
		}
	}
}

// ActorFrom 取 Session 写入的 actor，没有则为匿名
func ActorFrom(c *gin.Context) access.Actor {
	if v, ok := c.Get(KeyActor); ok {
		if a, ok := v.(access.Actor); ok {
			return a
		}
	}
	return access.Anonymous
}
