package app

import (
	"context"
	"fmt"

	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/database"
	"github.com/anoixa/postboard/database/repo/accounts"
	postsrepo "github.com/anoixa/postboard/database/repo/posts"
	"github.com/anoixa/postboard/internal/auth"
	"github.com/anoixa/postboard/internal/posts"
	"github.com/anoixa/postboard/storage"
	"github.com/anoixa/postboard/utils"
	"gorm.io/gorm"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config  *config.Config
	db      *gorm.DB
	storage storage.Provider

	AccountsRepo *accounts.Repository
	PostsRepo    *postsrepo.Repository

	JWTService   *auth.JWTService
	AuthService  *auth.Service
	PostsService *posts.Service
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// Init 初始化数据库、存储与全部服务
func (c *Container) Init() error {
	if err := c.InitDatabase(); err != nil {
		return err
	}
	if err := c.InitStorage(); err != nil {
		return err
	}
	if err := c.InitServices(); err != nil {
		return err
	}
	return nil
}

// InitDatabase 打开数据库并初始化仓库
func (c *Container) InitDatabase() error {
	utils.LogIfDev("Initializing DI container...")

	db, err := database.NewDB(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.db = db

	c.initRepositories()
	return nil
}

// Migrate 执行表结构迁移与角色初始化
func (c *Container) Migrate(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return database.Migrate(ctx, c.db)
}

// InitStorage 根据配置创建存储提供者
func (c *Container) InitStorage() error {
	provider, err := storage.NewProvider(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.storage = provider
	return nil
}

// InitServices 初始化业务服务，依赖数据库和存储
func (c *Container) InitServices() error {
	if c.db == nil || c.storage == nil {
		return fmt.Errorf("database and storage must be initialized before services")
	}

	jwtService, err := auth.NewJWTService(c.config.JWTSecret, c.config.JWTExpiresIn)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT: %w", err)
	}
	c.JWTService = jwtService
	c.AuthService = auth.NewService(c.AccountsRepo, jwtService)

	c.PostsService = posts.NewService(c.PostsRepo, c.storage, posts.Options{
		BaseURL:     c.config.BaseURL(),
		MaxFiles:    c.config.MaxFiles(),
		MaxFileSize: int64(c.config.UploadMaxSizeMB) << 20,
	})

	utils.LogIfDev("Services initialized")
	return nil
}

// initRepositories 初始化所有仓库
func (c *Container) initRepositories() {
	c.AccountsRepo = accounts.NewRepository(c.db)
	c.PostsRepo = postsrepo.NewRepository(c.db)
	utils.LogIfDev("Repositories initialized")
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Storage 获取存储提供者
func (c *Container) Storage() storage.Provider {
	return c.storage
}

// GetConfig 获取配置
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close 关闭所有服务
func (c *Container) Close() error {
	utils.LogIfDev("Closing DI container...")

	if c.db != nil {
		if err := database.Close(c.db); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	utils.LogIfDev("DI container closed")
	return nil
}
