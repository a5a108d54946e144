package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter 按客户端 IP 的滑动窗口限流
type RateLimiter struct {
	max    int
	window time.Duration

	mu    sync.Mutex
	store map[string][]time.Time
}

// NewRateLimiter 每个 IP 在 window 内最多 max 次请求
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{max: max, window: window, store: make(map[string][]time.Time)}
}

// prune 移除窗口外的记录
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow 记录一次请求，超过限制时返回 false
func (l *RateLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := prune(l.store[key], now.Add(-l.window))
	if len(ts) >= l.max {
		l.store[key] = ts
		return false
	}
	l.store[key] = append(ts, now)
	return true
}

// Cleanup 定期清理过期数据，ctx 结束时退出
func (l *RateLimiter) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now)
		}
	}
}

func (l *RateLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-l.window)
	for ip, ts := range l.store {
		if ts = prune(ts, cutoff); len(ts) == 0 {
			delete(l.store, ip)
		} else {
			l.store[ip] = ts
		}
	}
}

// Middleware 超过限制返回 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "请求过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}

// WriteRateLimit 只限制写操作（POST/PUT/PATCH/DELETE），读请求直接放行
func WriteRateLimit(l *RateLimiter) gin.HandlerFunc {
	limit := l.Middleware()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		limit(c)
	}
}
