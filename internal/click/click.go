// 包 click：区域点击与地图点击共用同一点击面时的去抖仲裁
package click

import (
	"errors"
	"time"
)

// DebounceMs 区域点击后屏蔽地图点击的窗口（毫秒）
const DebounceMs int64 = 500

// Clock 返回当前毫秒时间戳
type Clock func() int64

// SystemClock 墙钟毫秒
func SystemClock() int64 { return time.Now().UnixMilli() }

// ClockSource 会话点击时间戳的来源
type ClockSource string

const (
	ClockUnset  ClockSource = ""
	ClockServer ClockSource = "server"
	ClockClient ClockSource = "client"
)

// ErrClientTimestampRequired 会话已绑定客户端时间戳，但本次点击未携带
var ErrClientTimestampRequired = errors.New("click: session uses client timestamps")

// 文档注释：点击仲裁器
// 背景：区域多边形与底图共享点击面，点击区域会同时触发地图点击；区域点击后 500ms 内的地图点击被忽略。
// 约束：零值可用；时间戳由调用方传入，不读取全局时钟；归属单一会话，不做并发保护。
type Arbiter struct {
	LastRegionClickMs int64 `json:"lastRegionClickMs"`
	HasRegionClick    bool  `json:"hasRegionClick"`
	// Source 由首次点击绑定，之后窗口比较始终使用同一时钟
	Source ClockSource `json:"source,omitempty"`
}

// 文档注释：为一次点击取时间戳
// 背景：首次点击携带 clientMs（>0）则会话绑定客户端时钟，否则绑定服务端时钟。
// 约束：服务端时钟会话忽略客户端时间戳；客户端时钟会话缺少时间戳时返回 ErrClientTimestampRequired 且不修改状态。
func (a *Arbiter) Stamp(clientMs int64, server Clock) (int64, error) {
	if server == nil {
		server = SystemClock
	}
	switch a.Source {
	case ClockClient:
		if clientMs <= 0 {
			return 0, ErrClientTimestampRequired
		}
		return clientMs, nil
	case ClockServer:
		return server(), nil
	}
	if clientMs > 0 {
		a.Source = ClockClient
		return clientMs, nil
	}
	a.Source = ClockServer
	return server(), nil
}

// RegisterRegionClick 记录最近一次区域点击时间
func (a *Arbiter) RegisterRegionClick(nowMs int64) {
	a.LastRegionClickMs = nowMs
	a.HasRegionClick = true
}

// ShouldHandleMapClick 窗口内返回 false；从未发生区域点击时总是 true
func (a *Arbiter) ShouldHandleMapClick(nowMs int64) bool {
	if a == nil || !a.HasRegionClick {
		return true
	}
	return nowMs-a.LastRegionClickMs >= DebounceMs
}
