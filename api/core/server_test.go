package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anoixa/postboard/api/middleware"
	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/database"
	"github.com/anoixa/postboard/database/repo/accounts"
	postsrepo "github.com/anoixa/postboard/database/repo/posts"
	"github.com/anoixa/postboard/internal/auth"
	"github.com/anoixa/postboard/internal/posts"
	"github.com/anoixa/postboard/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestServer(t *testing.T, opts ...func(*RouterDependencies)) (*gin.Engine, *RouterDependencies) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		ServerHost:          "127.0.0.1",
		ServerPort:          4202,
		UploadMaxSizeMB:     1,
		RateLimitApiRPS:     1000,
		RateLimitApiBurst:   1000,
		RateLimitAuthRPS:    1000,
		RateLimitAuthBurst:  1000,
		RateLimitExpireTime: time.Minute,
	}

	jwtService, err := auth.NewJWTService("router-test-secret-0123456789abcdefghij", time.Hour)
	require.NoError(t, err)

	deps := &RouterDependencies{
		DB:          db,
		Storage:     store,
		JWTService:  jwtService,
		AuthService: auth.NewService(accounts.NewRepository(db), jwtService),
		PostsService: posts.NewService(postsrepo.NewRepository(db), store, posts.Options{
			BaseURL:     cfg.BaseURL(),
			MaxFiles:    cfg.MaxFiles(),
			MaxFileSize: 1 << 20,
		}),
		Config: cfg,
	}

	for _, opt := range opts {
		opt(deps)
	}

	router, cleanup := NewRouter(deps)
	t.Cleanup(cleanup)
	return router, deps
}

func doRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "ok", body.Checks["storage"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler(nil, nil).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not initialized")
}

func TestBasicRoutes(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(router, http.MethodGet, "/version", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), config.Version)

	w = doRequest(router, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "request_count")
	assert.Contains(t, w.Body.String(), `"uploads":{"capacity":8`)

	w = doRequest(router, http.MethodGet, "/posts", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/posts"},
		{http.MethodPut, "/posts/some-id"},
		{http.MethodDelete, "/posts/some-id"},
		{http.MethodPost, "/posts/image"},
		{http.MethodPost, "/posts/images"},
		{http.MethodGet, "/me"},
	}

	for _, r := range routes {
		w := doRequest(router, r.method, r.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}
}

func TestRegisterLoginCreateFlow(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(router, http.MethodPost, "/register", map[string]string{
		"name": "Writer", "email": "writer@example.com", "password": "writer-pass",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(router, http.MethodPost, "/login", map[string]string{
		"email": "writer@example.com", "password": "writer-pass",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	token := login.Data.Token
	require.NotEmpty(t, token)

	w = doRequest(router, http.MethodPost, "/posts", map[string]interface{}{
		"title":       "Hello from the router",
		"content":     "Body text that is long enough.",
		"description": "A description",
		"isPublished": true,
		"isFrontPage": true,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var created struct {
		Data struct {
			ID       string `json:"id"`
			AuthorID string `json:"authorId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, login.Data.User.ID, created.Data.AuthorID)

	w = doRequest(router, http.MethodGet, "/posts/"+created.Data.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "writer@example.com")

	w = doRequest(router, http.MethodGet, "/posts/front-page", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello from the router")

	w = doRequest(router, http.MethodDelete, "/posts/"+created.Data.ID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/posts/"+created.Data.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthRateLimit(t *testing.T) {
	router, _ := setupTestServer(t, func(deps *RouterDependencies) {
		deps.AuthRateLimiter = middleware.NewIPRateLimiter(0.001, 1, time.Minute)
	})

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}
