package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"agri-map/internal/logger"
)

// 文档注释：目录热切换持有者
// 背景：通过 atomic.Pointer 无锁替换当前目录，读路径不阻塞；刷新后对后续请求立即生效。
// 约束：未设置时返回空目录与降级标记。
type Holder struct {
	v atomic.Pointer[Result]
}

// NewHolder 以初始结果构造
func NewHolder(r Result) *Holder {
	h := &Holder{}
	h.Set(r)
	return h
}

func (h *Holder) Set(r Result) { h.v.Store(&r) }

// Current 返回当前加载结果
func (h *Holder) Current() Result {
	p := h.v.Load()
	if p == nil {
		return Result{Catalog: &Catalog{index: map[string]int{}}, Degraded: true, Err: ErrDatasetUnavailable}
	}
	return *p
}

func (h *Holder) Catalog() *Catalog { return h.Current().Catalog }

func (h *Holder) Degraded() bool { return h.Current().Degraded }

// 文档注释：后台周期刷新
// 背景：按固定间隔重新加载；新结果降级而当前为正常目录时保留当前目录，避免一次网络抖动把地图退回兜底数据。
// 约束：interval<=0 时不启动；ctx 取消后退出。
func (h *Holder) StartRefresh(ctx context.Context, interval time.Duration, load func(context.Context) Result) {
	if interval <= 0 || load == nil {
		return
	}
	l := logger.L()
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				h.Refresh(ctx, load)
			}
		}
	}()
	l.Info("catalog_refresh_scheduled", "interval", interval.String())
}

// Refresh 立即加载一次；返回生效的结果与是否替换了当前目录
func (h *Holder) Refresh(ctx context.Context, load func(context.Context) Result) (Result, bool) {
	l := logger.L()
	r := load(ctx)
	cur := h.Current()
	if r.Degraded && !cur.Degraded {
		l.Warn("catalog_refresh_keep_current", "err", r.Err, "loaded_at", cur.LoadedAt)
		return cur, false
	}
	h.Set(r)
	l.Info("catalog_refresh_done", "source", r.Source, "degraded", r.Degraded)
	return r, true
}
