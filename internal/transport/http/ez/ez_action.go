package ez

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studio-marketplace/internal/domain"
	mdw "studio-marketplace/internal/transport/http/middleware"
	resp "studio-marketplace/internal/transport/http/response"
)

// EZ 在路由组上注册 action，并把错误映射成统一响应
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // read c.Param / c.Query in the handler
)

// AErr 是 handler 内部错误，自带业务码
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }

// Action 的 I 是绑定的入参，O 是 data 载荷
type Action[I any, O any] struct {
	Method      string
	Path        string
	Binder      Binder
	Middlewares []gin.HandlerFunc
	Handler     func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "invalid request body: "+bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Middlewares...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default:
		e.g.POST(a.Path, handlers...)
	}
}

// Fail 把 err 写成统一响应。存储错误和未知错误只记日志，不向外暴露细节
func (e EZ) Fail(c *gin.Context, err error) {
	var (
		ae *AErr
		ve *domain.ValidationError
	)
	switch {
	case errors.As(err, &ae):
		c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
	case errors.As(err, &ve):
		c.JSON(http.StatusOK, resp.ErrorWithData(resp.CodeBadRequest, "validation failed", gin.H{"fields": ve.Fields}))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, err.Error()))
	case errors.Is(err, domain.ErrUnauthorized):
		if mdw.ActorFrom(c).Authenticated() {
			c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
		} else {
			c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "sign in required"))
		}
	case errors.Is(err, domain.ErrPayment):
		e.log.Warn("payment error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusOK, resp.Error(resp.CodePaymentRequired, "payment could not be processed"))
	default:
		_ = c.Error(err)
		e.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
	}
}

// IDParam 解析路径里的 :id
func IDParam(c *gin.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, BadRequest("id must be a positive integer")
	}
	return uint(n), nil
}
