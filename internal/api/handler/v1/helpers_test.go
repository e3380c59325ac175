package v1

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/response"
	"github.com/predictifylabs/predictify-api/internal/api/middleware"
	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/service"
)

const testUserHeader = "X-Test-User"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter authenticates requests from the X-Test-User header instead of a JWT.
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if raw := ctx.GetHeader(testUserHeader); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err == nil {
				ctx.Set(middleware.ContextUserID, uint(id))
			}
		}
		ctx.Next()
	})

	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, userID uint, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(uint64(userID), 10))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) response.Err {
	t.Helper()

	var e response.Err
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))

	return e
}

type fakeUserService struct {
	users map[uint]domain.User
}

func (f *fakeUserService) GetUser(_ context.Context, id uint) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}

	return u, nil
}
