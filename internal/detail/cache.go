package detail

import (
	"context"
	"encoding/json"
	"time"

	"agri-map/internal/logger"
	"agri-map/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL 明细缓存默认过期时间
const DefaultCacheTTL = time.Hour

// 文档注释：明细 Redis 缓存
// 背景：热点国家明细写入 Redis，键为 detail:{sector}:{country}；未命中时回源 Next。
// 约束：RDB 为空时直接回源；缓存读写失败不影响结果，仅记录日志；仅缓存成功载荷。
type RedisCache struct {
	RDB  redis.Cmdable
	Next Fetcher
	TTL  time.Duration
}

// NewRedisCache 构造缓存；ttl<=0 时取 DefaultCacheTTL
func NewRedisCache(rdb redis.Cmdable, next Fetcher, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{RDB: rdb, Next: next, TTL: ttl}
}

// CacheKey 缓存键
func CacheKey(country, sector string) string {
	return "detail:" + sector + ":" + country
}

func (c *RedisCache) Fetch(ctx context.Context, country, sector string) (*Payload, error) {
	key := CacheKey(country, sector)
	if c.RDB != nil {
		if s, err := c.RDB.Get(ctx, key).Result(); err == nil && s != "" {
			var p Payload
			if json.Unmarshal([]byte(s), &p) == nil {
				metrics.DetailCacheHitsTotal.Inc()
				return &p, nil
			}
			logger.L().Warn("detail_cache_corrupt", "key", key)
		} else if err != nil && err != redis.Nil {
			logger.L().Warn("detail_cache_get_error", "key", key, "err", err)
		}
		metrics.DetailCacheMissesTotal.Inc()
	}
	p, err := c.Next.Fetch(ctx, country, sector)
	if err != nil {
		return p, err
	}
	if p == nil {
		return nil, ErrDetailUnavailable
	}
	if c.RDB != nil && p.Success {
		b, _ := json.Marshal(p)
		ttl := c.TTL
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		if err := c.RDB.Set(ctx, key, string(b), ttl).Err(); err != nil {
			logger.L().Warn("detail_cache_set_error", "key", key, "err", err)
		}
	}
	return p, nil
}
