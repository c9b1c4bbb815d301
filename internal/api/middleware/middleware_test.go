package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/jwt"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
	"game-portal-cms/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newAuthEngine(tokens *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		user := c.MustGet(constants.ContextKeyUser).(*dto.UserInfo)
		utils.Success(c, user)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwt.NewManager(config.JWTConfig{Secret: "secret", AccessTokenExpire: 60, RefreshTokenExpire: 600})
	identity := jwt.Identity{Username: "admin", AuthType: constants.AuthTypeLocal}
	access, err := tokens.GenerateAccessToken(identity)
	require.NoError(t, err)
	refresh, err := tokens.GenerateRefreshToken(identity)
	require.NoError(t, err)

	r := newAuthEngine(tokens)

	cases := []struct {
		name   string
		header string
		cookie string
		code   int
	}{
		{"bearer header", constants.HeaderBearerPrefix + access, "", pkgErrors.CodeSuccess},
		{"cookie", "", access, pkgErrors.CodeSuccess},
		{"missing", "", "", pkgErrors.CodeUnauthorized},
		{"not bearer", "Basic abc", access, pkgErrors.CodeUnauthorized},
		{"refresh token", constants.HeaderBearerPrefix + refresh, "", pkgErrors.CodeUnauthorized},
		{"garbage", constants.HeaderBearerPrefix + "garbage", "", pkgErrors.CodeUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: constants.TokenCookieName, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.code, decode(t, w).Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	clock := time.Now()
	rl.now = func() time.Time { return clock }

	r := gin.New()
	r.POST("/comments", rl.Middleware(), func(c *gin.Context) { utils.Success(c, nil) })

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/comments", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return decode(t, w).Code
	}

	assert.Equal(t, pkgErrors.CodeSuccess, post("10.0.0.1"))
	assert.Equal(t, pkgErrors.CodeSuccess, post("10.0.0.1"))
	assert.Equal(t, pkgErrors.CodeTooManyRequests, post("10.0.0.1"))
	assert.Equal(t, pkgErrors.CodeSuccess, post("10.0.0.2"), "不同 IP 独立计数")

	clock = clock.Add(time.Second)
	assert.Equal(t, pkgErrors.CodeSuccess, post("10.0.0.1"))
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	clock := time.Now()

	rl.getLimiter("10.0.0.1", clock)
	clock = clock.Add(limiterIdleTTL + time.Second)
	rl.getLimiter("10.0.0.2", clock)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.limiters, "10.0.0.1")
	assert.Contains(t, rl.limiters, "10.0.0.2")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://admin.example.com"}))
	r.GET("/ping", func(c *gin.Context) { utils.Success(c, nil) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoggerMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/ping", func(c *gin.Context) { utils.Success(c, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w).Data)
}
