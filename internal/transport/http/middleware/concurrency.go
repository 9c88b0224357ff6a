package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "studio-marketplace/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时处理的请求数，保护数据库
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServiceUnavailable, "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
