package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zaptest.NewLogger(t)), ClientID())
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := GetClientID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func TestClientIDKeepsValidHeader(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(ClientIDHeader, id.String())
	w := httptest.NewRecorder()
	newRouter(t).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())
	assert.Equal(t, id.String(), w.Header().Get(ClientIDHeader))
}

func TestClientIDReplacesInvalidHeader(t *testing.T) {
	for _, header := range []string{"", "not-a-uuid"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set(ClientIDHeader, header)
		}
		w := httptest.NewRecorder()
		newRouter(t).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		got, err := uuid.Parse(w.Body.String())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, got)
		assert.Equal(t, got.String(), w.Header().Get(ClientIDHeader))
	}
}

func TestGetClientIDWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	id, ok := GetClientID(c)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
}
