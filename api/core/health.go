package core

import (
	"context"
	"net/http"
	"time"

	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/database"
	"github.com/anoixa/postboard/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var startTime = time.Now()

const healthCheckTimeout = 3 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	db      *gorm.DB
	storage storage.Provider
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db *gorm.DB, provider storage.Provider) *HealthHandler {
	return &HealthHandler{db: db, storage: provider}
}

// Handle 检查数据库与存储，任一失败返回 503
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := gin.H{
		"database": checkDatabaseHealth(ctx, h.db),
		"storage":  checkStorageHealth(ctx, h.storage),
	}

	status := "ok"
	httpStatus := http.StatusOK
	for _, result := range checks {
		if result != "ok" {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":  status,
		"uptime":  time.Since(startTime).Round(time.Second).String(),
		"version": config.Version,
		"checks":  checks,
	})
}

func checkDatabaseHealth(ctx context.Context, db *gorm.DB) string {
	if db == nil {
		return "not initialized"
	}
	if err := database.Ping(ctx, db); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkStorageHealth(ctx context.Context, provider storage.Provider) string {
	if provider == nil {
		return "not initialized"
	}
	if err := provider.Health(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
