package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule 和 AdminModule 由 handler 实现，一个模块可以同时实现两者
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 没有 Priority 的模块按 100 处理，小的先挂载
type prioritizer interface{ Priority() int }

// Registry 把模块排序后挂到 API 和管理端
type Registry struct {
	api   []APIModule
	admin []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register 按 mod 实现的接口登记到对应入口
func (r *Registry) Register(mod any) {
	if m, ok := mod.(APIModule); ok {
		r.api = append(r.api, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.admin = append(r.admin, m)
	}
}

func (r *Registry) MountAPI(g *gin.RouterGroup) {
	mods := append([]APIModule(nil), r.api...)
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func (r *Registry) MountAdmin(g *gin.RouterGroup) {
	mods := append([]AdminModule(nil), r.admin...)
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAdmin(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
