package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"studio-marketplace/internal/core/auth"
	"studio-marketplace/internal/core/server"
	mdw "studio-marketplace/internal/transport/http/middleware"
	resp "studio-marketplace/internal/transport/http/response"
)

// Pinger 检查依赖是否可达
type Pinger interface {
	Ping(ctx context.Context) error
}

type Limits struct {
	RatePerSec     float64
	Burst          int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.RatePerSec <= 0 {
		l.RatePerSec = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.MaxConcurrent <= 0 {
		l.MaxConcurrent = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = 10 * time.Second
	}
	return l
}

type Deps struct {
	JWT     *auth.JWTer
	Actors  mdw.ActorResolver
	Limits  Limits
	Origins []string
	// /health 逐个 ping，nil 跳过
	Health  map[string]Pinger
	Modules *Registry
}

// base 构建两个入口共用的 engine
func base(l *zap.Logger, name string, d Deps) *gin.Engine {
	lim := d.Limits.withDefaults()
	r := server.NewRouter(l, d.Origins)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RatePerSec), lim.Burst),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.RequestTimeout),
		mdw.Metrics(name),
		mdw.AccessLog(l),
		mdw.Session(d.JWT, d.Actors),
	)
	r.GET("/health", health(d.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := base(l, "api", d)
	api := r.Group("/api/v1")
	if d.Modules != nil {
		d.Modules.MountAPI(api)
	}
	return r
}

func health(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		status := gin.H{}
		healthy := true
		for name, p := range deps {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				status[name] = err.Error()
				healthy = false
				continue
			}
			status[name] = "ok"
		}
		if !healthy {
			c.JSON(http.StatusOK, resp.ErrorWithData(resp.CodeServiceUnavailable, "unhealthy", status))
			return
		}
		c.JSON(http.StatusOK, resp.OK(status))
	}
}
