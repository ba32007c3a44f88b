package core

import (
	"net/http"

	"github.com/anoixa/postboard/api/common"
	handlerAuth "github.com/anoixa/postboard/api/handler/auth"
	handlerPosts "github.com/anoixa/postboard/api/handler/posts"
	"github.com/anoixa/postboard/api/middleware"
	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/database/models"
	"github.com/anoixa/postboard/internal/auth"
	"github.com/anoixa/postboard/internal/posts"
	"github.com/anoixa/postboard/storage"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// maxConcurrentUploads 同时处理的上传请求上限
const maxConcurrentUploads = 8

// RouterDependencies 路由注册依赖
type RouterDependencies struct {
	DB              *gorm.DB
	Storage         storage.Provider
	JWTService      *auth.JWTService
	AuthService     *auth.Service
	PostsService    *posts.Service
	AuthRateLimiter *middleware.IPRateLimiter
	APIRateLimiter  *middleware.IPRateLimiter
	Config          *config.Config
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps *RouterDependencies) {
	common.RegisterValidators()

	uploadLimiter := middleware.NewConcurrencyLimiter(maxConcurrentUploads)

	registerBasicRoutes(router, deps, uploadLimiter)
	registerAuthRoutes(router, deps)
	registerPostRoutes(router, deps, uploadLimiter)
}

// registerBasicRoutes 注册基础路由
func registerBasicRoutes(router *gin.Engine, deps *RouterDependencies, uploadLimiter *middleware.ConcurrencyLimiter) {
	healthHandler := NewHealthHandler(deps.DB, deps.Storage)
	router.GET("/health", healthHandler.Handle)

	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	router.GET("/metrics", func(context *gin.Context) {
		metrics := middleware.GetMetrics()
		metrics["uploads"] = uploadLimiter.Stats()
		context.JSON(http.StatusOK, metrics)
	})

	if !config.IsProduction() {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// registerAuthRoutes 注册、登录与当前用户
func registerAuthRoutes(router *gin.Engine, deps *RouterDependencies) {
	authHandler := handlerAuth.NewHandler(deps.AuthService)

	authGroup := router.Group("")
	if deps.AuthRateLimiter != nil {
		authGroup.Use(deps.AuthRateLimiter.Middleware())
	}
	{
		authGroup.POST("/register", authHandler.Register) // POST /register
		authGroup.POST("/login", authHandler.Login)       // POST /login
	}

	router.GET("/me", middleware.BearerAuth(deps.JWTService, deps.AuthService), authHandler.Me)
}

// registerPostRoutes 注册文章与上传路由
func registerPostRoutes(router *gin.Engine, deps *RouterDependencies, uploadLimiter *middleware.ConcurrencyLimiter) {
	postHandler := handlerPosts.NewHandler(deps.PostsService)

	postsGroup := router.Group("/posts")
	if deps.APIRateLimiter != nil {
		postsGroup.Use(deps.APIRateLimiter.Middleware())
	}
	{
		postsGroup.GET("", postHandler.ListPosts)                     // GET /posts?page&posts_per_page&filter
		postsGroup.GET("/newest", postHandler.NewestPosts)            // GET /posts/newest
		postsGroup.GET("/front-page", postHandler.FrontPagePosts)     // GET /posts/front-page
		postsGroup.GET("/postImages/:fileId", postHandler.ServeImage) // GET /posts/postImages/{fileId}
		postsGroup.GET("/:id", postHandler.GetPost)                   // GET /posts/{id}

		authed := postsGroup.Group("")
		authed.Use(middleware.BearerAuth(deps.JWTService, deps.AuthService))
		authed.Use(middleware.RequireRole(models.RoleBasic, models.RoleAdmin))
		authed.Use(func(context *gin.Context) {
			context.Header("Cache-Control", "no-store")
			context.Next()
		})
		{
			authed.POST("", postHandler.CreatePost)       // POST /posts
			authed.PUT("/:id", postHandler.UpdatePost)    // PUT /posts/{id}
			authed.DELETE("/:id", postHandler.DeletePost) // DELETE /posts/{id}

			uploads := authed.Group("")
			uploads.Use(uploadLimiter.MiddlewareWithBlock(uploadQueueTimeout))
			{
				uploads.POST("/image", postHandler.UploadImage)   // POST /posts/image
				uploads.POST("/images", postHandler.UploadImages) // POST /posts/images
			}
		}
	}
}
