// 包 logger：进程级日志器的初始化与获取；级别与格式由环境变量控制
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

// 文档注释：初始化默认日志器
// 背景：LOG_LEVEL 取 debug/info/warn/error，LOG_FORMAT=json 时输出 JSON，否则为文本；统一附带 service 字段。
// 约束：输出固定到标准错误，不管理文件句柄。
func Setup() *slog.Logger {
	return SetupTo(os.Stderr)
}

// SetupTo 与 Setup 相同，但写入指定目标
func SetupTo(w io.Writer) *slog.Logger {
	lvl := parseLevel(os.Getenv("LOG_LEVEL"))
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	l := slog.New(h).With("service", "agri-map")
	current.Store(l)
	return l
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// L 返回默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return Setup()
}

// Set 替换默认日志器（测试中可传入丢弃输出的日志器）
func Set(l *slog.Logger) {
	if l != nil {
		current.Store(l)
	}
}
