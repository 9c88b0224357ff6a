package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "studio-marketplace/internal/transport/http/middleware"
)

// NewAdminEngine 挂载 /admin/v1，所有路由都要求管理员
func NewAdminEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := base(l, "admin", d)
	admin := r.Group("/admin/v1")
	admin.Use(mdw.RequireAdmin())
	if d.Modules != nil {
		d.Modules.MountAdmin(admin)
	}
	return r
}
