package core

import (
	"net/http"
	"time"

	"github.com/anoixa/postboard/api/middleware"
	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	uploadQueueTimeout = 10 * time.Second
	maxConcurrency     = 100
)

// NewRouter 创建 gin 引擎，返回停止后台任务的清理函数
func NewRouter(deps *RouterDependencies) (*gin.Engine, func()) {
	cfg := deps.Config

	// 仅在开发版本时启用 gin 日志
	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := router.SetTrustedProxies(nil); err != nil {
		utils.LogIfDevf("Failed to set trusted proxies: %v", err)
	}

	maxFileBytes := int64(cfg.UploadMaxSizeMB) << 20
	if maxFileBytes <= 0 {
		maxFileBytes = 10 << 20
	}
	// 限制 multipart 内存占用
	router.MaxMultipartMemory = maxFileBytes

	// 请求体上限：单次图库上传的全部文件再加 1MB 表单开销
	router.Use(middleware.BodyLimit(maxFileBytes*int64(cfg.MaxFiles()) + 1<<20))

	concurrencyLimiter := middleware.NewConcurrencyLimiter(maxConcurrency)
	router.Use(concurrencyLimiter.Middleware())

	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	if deps.AuthRateLimiter == nil {
		deps.AuthRateLimiter = middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	}
	if deps.APIRateLimiter == nil {
		deps.APIRateLimiter = middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	}
	cleanup := func() {
		deps.AuthRateLimiter.StopCleanup()
		deps.APIRateLimiter.StopCleanup()
	}

	RegisterRoutes(router, deps)

	return router, cleanup
}

// StartServer 创建 http.Server
func StartServer(deps *RouterDependencies) (*http.Server, func()) {
	cfg := deps.Config
	router, cleanup := NewRouter(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, cleanup
}
