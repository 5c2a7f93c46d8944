package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeprakhar/tours-backend/internal/config"
	"github.com/princeprakhar/tours-backend/internal/utils"
)

const secret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, key, userID, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func protected(roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(secret)}
	if len(roles) > 0 {
		handlers = append(handlers, RestrictTo(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
	})
	r.GET("/private", handlers...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protected()

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(req *http.Request) {
			req.Header.Set("Authorization", "Token abc")
		}, http.StatusUnauthorized},
		{"wrong secret", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+sign(t, "other", "u1", "user"))
		}, http.StatusUnauthorized},
		{"bearer token", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+sign(t, secret, "u1", "user"))
		}, http.StatusOK},
		{"cookie token", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "jwt", Value: sign(t, secret, "u1", "user")})
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			tt.setup(req)
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"user":"u1"`)
			}
		})
	}
}

func TestRestrictTo(t *testing.T) {
	r := protected("admin", "lead-guide")

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, secret, "u1", "user"))
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, secret, "u2", "lead-guide"))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRateLimitMiddleware_MemoryStore(t *testing.T) {
	mw, err := RateLimitMiddleware(&config.Config{RateLimitRequests: 1, RateLimitPeriod: time.Minute}, nil)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/limited", mw, func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestCORS(t *testing.T) {
	t.Run("listed origin", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS([]string{"https://natours.example"}))
		r.GET("/tours", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodOptions, "/tours", nil)
		req.Header.Set("Origin", "https://natours.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := serve(r, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://natours.example", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/tours", nil)
		req.Header.Set("Origin", "https://evil.example")
		assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
	})

	t.Run("wildcard", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS([]string{"*"}))
		r.GET("/tours", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/tours", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(log.WithField("component", "http")))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, 500, hook.LastEntry().Data["status"])
}
