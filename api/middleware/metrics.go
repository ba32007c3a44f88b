package middleware

import (
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	requestCount    atomic.Int64
	requestErrors   atomic.Int64
	requestDuration atomic.Int64 // ms
	startedAt       = time.Now()
)

// Metrics 基础请求计数中间件
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		requestDuration.Add(time.Since(start).Milliseconds())
		requestCount.Add(1)
		if c.Writer.Status() >= 500 {
			requestErrors.Add(1)
		}
	}
}

// GetMetrics 获取当前指标
func GetMetrics() map[string]interface{} {
	count := requestCount.Load()
	duration := requestDuration.Load()

	avg := 0.0
	if count > 0 {
		avg = float64(duration) / float64(count)
	}

	return map[string]interface{}{
		"request_count":       count,
		"request_errors":      requestErrors.Load(),
		"request_duration_ms": duration,
		"avg_duration_ms":     avg,
		"uptime_seconds":      int64(time.Since(startedAt).Seconds()),
	}
}

// ResetMetrics 重置指标
func ResetMetrics() {
	requestCount.Store(0)
	requestErrors.Store(0)
	requestDuration.Store(0)
}
