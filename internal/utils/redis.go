package utils

import (
	"os"
	"strconv"

	"agri-map/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RedisConfig：Redis 连接参数
type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// RedisConfigFromEnv：读取 REDIS_HOST/REDIS_PORT/REDIS_PASS/REDIS_DB
// 约束：REDIS_DB 解析失败或为负时回退到 0
func RedisConfigFromEnv() RedisConfig {
	c := RedisConfig{
		Addr: getenv("REDIS_HOST", "127.0.0.1") + ":" + getenv("REDIS_PORT", "6379"),
		Pass: os.Getenv("REDIS_PASS"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.DB = n
		}
	}
	return c
}

// OpenRedis：打开 Redis 客户端；未配置地址时返回 nil
func OpenRedis(c RedisConfig) *redis.Client {
	if c.Addr == "" {
		return nil
	}
	logger.L().Debug("redis_open", "addr", c.Addr, "db", c.DB)
	return redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Pass, DB: c.DB})
}
