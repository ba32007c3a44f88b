package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/anoixa/postboard/api/common"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimiter 限制同时处理的请求数，用于上传等重 IO 路由
type ConcurrencyLimiter struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
	waiting  atomic.Int64
	rejected atomic.Int64
}

// LimiterStats 并发限制器快照
type LimiterStats struct {
	Capacity int64 `json:"capacity"`
	InFlight int64 `json:"in_flight"`
	Waiting  int64 `json:"waiting"`
	Rejected int64 `json:"rejected"`
}

// NewConcurrencyLimiter 并发限制器
func NewConcurrencyLimiter(maxConcurrency int64) *ConcurrencyLimiter {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &ConcurrencyLimiter{
		sem:      semaphore.NewWeighted(maxConcurrency),
		capacity: maxConcurrency,
	}
}

// Stats 返回当前占用与排队情况
func (cl *ConcurrencyLimiter) Stats() LimiterStats {
	return LimiterStats{
		Capacity: cl.capacity,
		InFlight: cl.inFlight.Load(),
		Waiting:  cl.waiting.Load(),
		Rejected: cl.rejected.Load(),
	}
}

// Middleware 立即拒绝超出并发上限的请求
func (cl *ConcurrencyLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.sem.TryAcquire(1) {
			cl.rejected.Add(1)
			common.RespondErrorAbort(c, http.StatusServiceUnavailable, "Server is busy, please try again later")
			return
		}
		cl.run(c)
	}
}

// MiddlewareWithBlock 排队等待，超时或客户端断开后返回 503
func (cl *ConcurrencyLimiter) MiddlewareWithBlock(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.sem.TryAcquire(1) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
			cl.waiting.Add(1)
			err := cl.sem.Acquire(ctx, 1)
			cl.waiting.Add(-1)
			cancel()

			if err != nil {
				cl.rejected.Add(1)
				common.RespondErrorAbort(c, http.StatusServiceUnavailable, "Upload queue is full, please try again later")
				return
			}
		}
		cl.run(c)
	}
}

func (cl *ConcurrencyLimiter) run(c *gin.Context) {
	cl.inFlight.Add(1)
	defer func() {
		cl.inFlight.Add(-1)
		cl.sem.Release(1)
	}()

	c.Next()
}
