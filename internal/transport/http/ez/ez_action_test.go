package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/domain"
	mdw "studio-marketplace/internal/transport/http/middleware"
	resp "studio-marketplace/internal/transport/http/response"
)

func fail(t *testing.T, actor access.Actor, err error) (resp.Resp, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Set(mdw.KeyActor, actor)

	New(nil, zap.NewNop()).Fail(c, err)

	require.Equal(t, http.StatusOK, w.Code)
	var r resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r, w.Body.String()
}

func TestFailMapsErrors(t *testing.T) {
	user := access.Actor{UserID: "u1"}
	tests := []struct {
		name  string
		actor access.Actor
		err   error
		code  int
	}{
		{"not found", user, domain.NotFound("course"), resp.CodeNotFound},
		{"anonymous denied", access.Anonymous, domain.ErrUnauthorized, resp.CodeUnauthorized},
		{"signed-in denied", user, domain.ErrUnauthorized, resp.CodeForbidden},
		{"validation", user, domain.NewValidationError("title", "is required"), resp.CodeBadRequest},
		{"payment", user, domain.PaymentError("create intent", errors.New("card declined")), resp.CodePaymentRequired},
		{"bad request", user, BadRequest("id must be a positive integer"), resp.CodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := fail(t, tt.actor, tt.err)
			assert.Equal(t, tt.code, r.Code)
		})
	}
}

func TestFailHidesStorageCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	r, body := fail(t, access.Anonymous, domain.StorageError("list courses", cause))

	assert.Equal(t, resp.CodeServerError, r.Code)
	assert.Equal(t, "internal error", r.Msg)
	assert.NotContains(t, body, "10.0.0.5")
	assert.NotContains(t, body, "list courses")
}

func TestValidationCarriesFields(t *testing.T) {
	_, body := fail(t, access.Anonymous, domain.NewValidationError("price", "must be a decimal amount"))
	assert.JSONEq(t, `{"code":400,"msg":"validation failed","data":{"fields":{"price":"must be a decimal amount"}}}`, body)
}
