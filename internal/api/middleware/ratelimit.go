package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	pkgErrors "game-portal-cms/pkg/errors"
	"game-portal-cms/pkg/utils"
)

const (
	limiterIdleTTL     = 5 * time.Minute
	limiterSweepPeriod = 3 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端 IP 限流
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= limiterSweepPeriod {
		rl.sweep(now)
		rl.lastSweep = now
	}

	v, exists := rl.limiters[ip]
	if !exists {
		v = &ipLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep 调用方持有锁
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, v := range rl.limiters {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(rl.limiters, ip)
		}
	}
}

// Middleware 超限时返回 429 业务码
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := rl.now()
		if !rl.getLimiter(c.ClientIP(), now).AllowN(now, 1) {
			utils.Error(c, pkgErrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
