// 包 detail：国家明细数据的外部协作方（HTTP 拉取与 Redis 缓存）
package detail

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrDetailUnavailable 明细拉取失败或上游返回 success=false
var ErrDetailUnavailable = errors.New("detail unavailable")

// 文档注释：国家明细载荷
// 背景：核心只存储与转发，不解释 data 内记录的结构；仅做存在性判断。
type Payload struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
	Summary map[string]any    `json:"summary,omitempty"`
}

// HasData 载荷成功且至少一条记录
func (p *Payload) HasData() bool {
	return p != nil && p.Success && len(p.Data) > 0
}

// Fetcher 按 (country, sector) 拉取明细
type Fetcher interface {
	Fetch(ctx context.Context, country, sector string) (*Payload, error)
}

// FetcherFunc 函数适配器
type FetcherFunc func(ctx context.Context, country, sector string) (*Payload, error)

func (f FetcherFunc) Fetch(ctx context.Context, country, sector string) (*Payload, error) {
	return f(ctx, country, sector)
}
