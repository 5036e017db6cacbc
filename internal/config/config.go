// 包 config：从环境变量汇总服务配置
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"agri-map/internal/catalog"
	"agri-map/internal/utils"
)

// 数据集来源类型
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourceDB       = "db"
	SourceFallback = "fallback"
)

// 文档注释：服务配置
// 背景：入口程序读取 .env 后调用 FromEnv；各字段缺省值面向本地开发。
// 约束：解析失败的数值回退到缺省值，不中断启动。
type Config struct {
	Addr    string
	APIBase string

	DatasetURL     string
	DatasetPath    string
	DatasetSource  string
	DatasetRefresh time.Duration

	DetailAPIURL   string
	DetailCacheTTL time.Duration
	DetailTimeout  time.Duration

	SessionCapacity int
	SessionTTL      time.Duration

	RateLimitEnabled bool
	RateLimitQPS     int

	DefaultSector string

	PGEnable    bool
	PG          utils.PGConfig
	RedisEnable bool
	Redis       utils.RedisConfig

	TLSEnable   bool
	TLSCertPath string
	TLSKeyPath  string

	AdminToken   string
	AdminAllow   []string
	RealIPHeader string
}

// FromEnv 读取全部配置
func FromEnv() Config {
	c := Config{
		Addr:             getenv("ADDR", ":8080"),
		APIBase:          strings.TrimRight(getenv("API_BASE", "/api"), "/"),
		DatasetURL:       os.Getenv("DATASET_URL"),
		DatasetPath:      os.Getenv("DATASET_PATH"),
		DatasetRefresh:   time.Duration(atoi("DATASET_REFRESH_MIN", 0)) * time.Minute,
		DetailAPIURL:     os.Getenv("DETAIL_API_URL"),
		DetailCacheTTL:   time.Duration(atoi("DETAIL_CACHE_TTL_S", 3600)) * time.Second,
		DetailTimeout:    time.Duration(atoi("DETAIL_TIMEOUT_MS", 5000)) * time.Millisecond,
		SessionCapacity:  atoi("SESSION_CAPACITY", 4096),
		SessionTTL:       time.Duration(atoi("SESSION_TTL_S", 86400)) * time.Second,
		RateLimitEnabled: os.Getenv("RATE_LIMIT_ENABLED") == "true",
		RateLimitQPS:     atoi("RATE_LIMIT_QPS", 200),
		DefaultSector:    getenv("DEFAULT_SECTOR", catalog.DefaultSectorKey),
		PGEnable:         os.Getenv("PG_ENABLE") == "true",
		RedisEnable:      os.Getenv("REDIS_ENABLE") == "true",
		TLSEnable:        os.Getenv("TLS_ENABLE") == "true",
		TLSCertPath:      getenv("TLS_CERT_PATH", "data/certs/server.crt"),
		TLSKeyPath:       getenv("TLS_KEY_PATH", "data/certs/server.key"),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		AdminAllow:       splitList(os.Getenv("ADMIN_ALLOW")),
		RealIPHeader:     os.Getenv("REAL_IP_HEADER"),
	}
	if c.APIBase == "" {
		c.APIBase = "/api"
	}
	if c.PGEnable {
		c.PG = utils.PGConfigFromEnv()
	}
	if c.RedisEnable {
		c.Redis = utils.RedisConfigFromEnv()
	}
	c.DatasetSource = resolveSource(strings.ToLower(os.Getenv("DATASET_SOURCE")), c)
	return c
}

// resolveSource 未显式指定时取第一个已配置的来源
func resolveSource(explicit string, c Config) string {
	switch explicit {
	case SourceHTTP, SourceFile, SourceDB, SourceFallback:
		return explicit
	}
	switch {
	case c.DatasetURL != "":
		return SourceHTTP
	case c.DatasetPath != "":
		return SourceFile
	case c.PGEnable:
		return SourceDB
	}
	return SourceFallback
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
