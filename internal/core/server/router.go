package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "studio-marketplace/internal/transport/http/middleware"
)

// NewRouter 装好 panic 恢复和 CORS；origins 为空时放行所有来源
func NewRouter(l *zap.Logger, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(mdw.Recovery(l))
	r.Use(cors.New(corsConfig(origins)))
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", mdw.KeyRequestID)
	c.ExposeHeaders = []string{mdw.KeyRequestID}
	c.MaxAge = 12 * time.Hour
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20,
	}
}

// Run 一直服务到 ctx 结束，然后最多等待 grace 让进行中的请求收尾
func Run(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		if err := StartHTTP(srv, l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	l.Info("http stopped", zap.String("addr", srv.Addr))
	return nil
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
