package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anoixa/postboard/api/common"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // UnixNano
}

// IPRateLimiter 基于客户端 IP 的令牌桶限流
type IPRateLimiter struct {
	rps        float64       // 每秒请求数
	burst      int           // 令牌桶的容量
	expireTime time.Duration // 过期时间
	limiterMap *sync.Map
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewIPRateLimiter Create new IP-based rate limits
func NewIPRateLimiter(rps float64, burst int, expireTime time.Duration) *IPRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if expireTime <= 0 {
		expireTime = 10 * time.Minute
	}

	limiter := &IPRateLimiter{
		rps:        rps,
		burst:      burst,
		expireTime: expireTime,
		limiterMap: &sync.Map{},
		stopChan:   make(chan struct{}),
	}

	go limiter.cleanupStaleClients()

	return limiter
}

// Middleware Return a Gin middleware handler
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			common.RespondErrorAbort(c, http.StatusTooManyRequests, "Too many requests")
			return
		}

		c.Next()
	}
}

// Allow 判断该 IP 当前是否还有令牌
func (rl *IPRateLimiter) Allow(ip string) bool {
	val, ok := rl.limiterMap.Load(ip)
	if !ok {
		val, _ = rl.limiterMap.LoadOrStore(ip, &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.rps), rl.burst),
		})
	}

	client := val.(*clientLimiter)
	client.lastSeen.Store(time.Now().UnixNano())
	return client.limiter.Allow()
}

func (rl *IPRateLimiter) retryAfterSeconds() int {
	if rl.rps <= 0 {
		return 60
	}
	return int(math.Ceil(1 / rl.rps))
}

// StopCleanup 停止后台清理，可重复调用
func (rl *IPRateLimiter) StopCleanup() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
}

func (rl *IPRateLimiter) cleanupStaleClients() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictBefore(time.Now().Add(-rl.expireTime))
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *IPRateLimiter) evictBefore(cutoff time.Time) {
	rl.limiterMap.Range(func(key, value interface{}) bool {
		client := value.(*clientLimiter)
		if client.lastSeen.Load() < cutoff.UnixNano() {
			rl.limiterMap.Delete(key)
		}
		return true
	})
}
