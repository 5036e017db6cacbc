package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"agri-map/internal/country"
	"agri-map/internal/logger"
	"agri-map/internal/metrics"
)

// ErrDatasetUnavailable 数据集获取失败或为空；调用方应已得到兜底目录
var ErrDatasetUnavailable = errors.New("dataset unavailable")

// maxDatasetBytes 远端数据集体积上限
const maxDatasetBytes = 64 << 20

// 文档注释：数据集来源（统一契约）
// 背景：网络、文件、数据库三种来源同构；加载层只关心 Fetch 的结果与错误。
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*Dataset, error)
}

// 文档注释：HTTP 数据集来源
// 约束：仅接受 2xx；Client 为空时使用 10s 超时的默认客户端。
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) (*Dataset, error) {
	if s.URL == "" {
		return nil, errors.New("missing dataset url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("dataset non-2xx: %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return nil, fmt.Errorf("dataset read: %w", err)
	}
	return ParseDataset(b)
}

// FileSource 从本地 JSON 文件读取数据集
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context) (*Dataset, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return ParseDataset(b)
}

// StaticSource 返回固定数据集（离线模式与测试）
type StaticSource struct {
	Label string
	Data  *Dataset
}

func (s *StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s *StaticSource) Fetch(ctx context.Context) (*Dataset, error) {
	if s.Data == nil {
		return nil, errors.New("no static dataset")
	}
	return s.Data, nil
}

// 文档注释：一次加载的结果快照
// 约束：Degraded 为 true 时 Catalog 来自兜底数据集，Err 保留原始失败原因。
type Result struct {
	Catalog  *Catalog
	Degraded bool
	Source   string
	Err      error
	LoadedAt time.Time
}

// 文档注释：加载目录（失败时兜底）
// 背景：数据集不可用不是致命错误；替换为内置兜底数据集并标记降级，渲染层据此提示。
// 约束：空数据集（零板块）同样视为不可用；src 为空时直接使用兜底数据。
func Load(ctx context.Context, src Source, table []SectorConfig, loc *country.Locator) Result {
	l := logger.L()
	if src == nil {
		metrics.CatalogLoadsTotal.WithLabelValues("fallback").Inc()
		l.Info("catalog_load_fallback", "reason", "no_source")
		return Result{Catalog: Build(Fallback(), table, loc), Degraded: true, Source: "fallback", Err: ErrDatasetUnavailable, LoadedAt: time.Now()}
	}
	t0 := time.Now()
	ds, err := src.Fetch(ctx)
	if err == nil && (ds == nil || len(ds.Sectors) == 0) {
		err = errors.New("empty dataset")
	}
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues("fallback").Inc()
		l.Error("catalog_load_error", "source", src.Name(), "err", err)
		return Result{
			Catalog:  Build(Fallback(), table, loc),
			Degraded: true,
			Source:   "fallback",
			Err:      fmt.Errorf("%w: %s: %v", ErrDatasetUnavailable, src.Name(), err),
			LoadedAt: time.Now(),
		}
	}
	cat := Build(ds, table, loc)
	metrics.CatalogLoadsTotal.WithLabelValues("ok").Inc()
	l.Info("catalog_load_ok", "source", src.Name(), "sectors", len(cat.Sectors()), "regions", cat.RegionCount(), "duration_ms", time.Since(t0).Milliseconds())
	return Result{Catalog: cat, Source: src.Name(), LoadedAt: time.Now()}
}
