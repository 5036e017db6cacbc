package middleware

import (
	"net/http"
	"sync"
	"time"

	"agri-map/internal/logger"
)

// 文档注释：令牌桶限流中间件（每秒）
// 背景：点击解析与明细拉取都在请求路径上，流量峰值时对入口限速，避免会话存储与上游明细服务过载。
// 约束：简化实现，不做队列排队，仅丢弃并返回 429；桶容量即每秒请求数。
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	mu       sync.Mutex
	now      func() time.Time
}

// NewTokenBucket 构造满桶；qps<=0 时取 200
func NewTokenBucket(qps int) *TokenBucket {
	if qps <= 0 {
		qps = 200
	}
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix(), now: time.Now}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit：enabled 为 false 时原样返回 next
func RateLimit(enabled bool, qps int, next http.Handler) http.Handler {
	if !enabled {
		return next
	}
	tb := NewTokenBucket(qps)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.Allow() {
			logger.L().Debug("rate_limited", "path", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
