package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/pkg/jwt"
)

func newTestRouter(m *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ClientIPMiddleware())

	r.GET("/me", AuthMiddleware(m), func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	r.GET("/admin", AuthMiddleware(m), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/ip", func(c *gin.Context) {
		c.String(http.StatusOK, GetClientIPFromContext(c.Request.Context()))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour, time.Hour)
	r := newTestRouter(m)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID.String(), "u@shop.vn", "user")
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		adminToken, err := m.GenerateAccessToken(uuid.NewString(), "a@shop.vn", RoleAdmin)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestClientIPMiddleware(t *testing.T) {
	r := newTestRouter(jwt.NewManager("s", time.Hour, time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.ServeHTTP(w, req)

	assert.Equal(t, "203.0.113.7", w.Body.String())
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"SYS_001","message":"Internal server error"}}`, w.Body.String())
}
