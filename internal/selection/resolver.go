package selection

import (
	"context"
	"errors"

	"agri-map/internal/catalog"
	"agri-map/internal/country"
	"agri-map/internal/detail"
	"agri-map/internal/filter"
	"agri-map/internal/geo"
	"agri-map/internal/locate"
	"agri-map/internal/logger"
	"agri-map/internal/metrics"
)

// ErrUnknownRegion 区域键在当前目录中不存在
var ErrUnknownRegion = errors.New("unknown region")

// CatalogProvider 当前目录的提供方；*catalog.Holder 满足该接口
type CatalogProvider interface {
	Catalog() *catalog.Catalog
}

// StaticCatalog 固定目录
type StaticCatalog struct{ Cat *catalog.Catalog }

func (s StaticCatalog) Catalog() *catalog.Catalog { return s.Cat }

// Outcome 一次点击的解析结果
type Outcome struct {
	Handled   bool            `json:"handled"`
	Country   string          `json:"country,omitempty"`
	Sector    string          `json:"sector,omitempty"`
	RegionKey string          `json:"regionKey,omitempty"`
	Region    *catalog.Region `json:"region,omitempty"`
}

// 文档注释：点击解析器
// 背景：按 仲裁检查 → 国家/板块解析 → 选择状态更新 → 明细拉取 的顺序处理点击；明细拉取由调用方在更新后单独触发。
// 约束：Details 为空时 FetchDetail 不做任何事；明细失败保留已解析的区域与国家，Detail 为 nil，不重试。
type Resolver struct {
	Catalogs  CatalogProvider
	Countries *country.Locator
	Sectors   *locate.Locator
	Details   detail.Fetcher
}

// NewResolver 构造解析器；countries/sectors 为空时使用默认表与默认板块
func NewResolver(cats CatalogProvider, countries *country.Locator, sectors *locate.Locator, details detail.Fetcher) *Resolver {
	if countries == nil {
		countries = country.Default()
	}
	if sectors == nil {
		sectors = locate.New("")
	}
	return &Resolver{Catalogs: cats, Countries: countries, Sectors: sectors, Details: details}
}

func (r *Resolver) catalog() *catalog.Catalog {
	if r.Catalogs == nil {
		return nil
	}
	return r.Catalogs.Catalog()
}

// 文档注释：地图点击
// 背景：区域点击后的去抖窗口内直接忽略；否则以包围盒表解析国家，以点入多边形解析板块与区域，并替换选择。
func (r *Resolver) MapClick(s State, lat, lng float64, nowMs int64) (State, Outcome) {
	if !s.Clicks.ShouldHandleMapClick(nowMs) {
		metrics.MapClicksTotal.WithLabelValues("false").Inc()
		logger.L().Debug("map_click_suppressed", "lat", lat, "lng", lng, "since_region_ms", nowMs-s.Clicks.LastRegionClickMs)
		return s, Outcome{}
	}
	metrics.MapClicksTotal.WithLabelValues("true").Inc()

	out := r.Locate(lat, lng, s.ActiveSector)
	s.Selected = &Selected{
		RegionKey: out.RegionKey,
		Region:    out.Region,
		Sector:    out.Sector,
		Country:   out.Country,
		Point:     geo.Point{Lat: lat, Lng: lng},
	}
	logger.L().Debug("map_click", "lat", lat, "lng", lng, "country", out.Country, "sector", out.Sector, "region", out.RegionKey)
	return s, out
}

// 文档注释：坐标解析（无状态）
// 背景：以包围盒表解析国家，以点入多边形解析板块与区域；未命中多边形时板块按 active 兜底。
func (r *Resolver) Locate(lat, lng float64, active string) Outcome {
	cname := r.Countries.Locate(lat, lng)
	if cname == country.Unknown {
		metrics.UnresolvedTotal.WithLabelValues("country").Inc()
	}
	cat := r.catalog()
	out := Outcome{Handled: true, Country: cname}
	if reg, ok := locate.FindRegionAt(cat, lat, lng); ok {
		rc := *reg
		out.Sector = rc.SectorKey
		out.Region = &rc
		out.RegionKey = filter.RegionKey(rc.SectorKey, rc)
	} else {
		out.Sector = r.Sectors.FindSectorAt(cat, lat, lng, active)
	}
	return out
}

// 文档注释：区域点击
// 背景：无论区域是否存在都先登记点击时间，随后同一次物理点击触发的地图点击会被去抖忽略。
// 返回：区域不存在时返回 ErrUnknownRegion，选择保持不变。
// 约束：国家优先取区域自带值，缺失时以顶点均值质心查包围盒表。
func (r *Resolver) RegionClick(s State, key string, nowMs int64) (State, Outcome, error) {
	s.Clicks.RegisterRegionClick(nowMs)
	metrics.RegionClicksTotal.Inc()
	ar, ok := filter.FindByKey(r.catalog(), key)
	if !ok {
		logger.L().Warn("region_click_unknown", "key", key)
		return s, Outcome{}, ErrUnknownRegion
	}
	reg := ar.Region
	c := reg.Country
	centroid := geo.PolygonCentroid(reg.Polygon)
	if c == "" {
		c = r.Countries.Locate(centroid.Lat, centroid.Lng)
	}
	s.Selected = &Selected{
		RegionKey: ar.Key,
		Region:    &reg,
		Sector:    ar.Sector.Key,
		Country:   c,
		Point:     centroid,
	}
	logger.L().Debug("region_click", "key", ar.Key, "country", c, "sector", ar.Sector.Key)
	return s, Outcome{Handled: true, Country: c, Sector: ar.Sector.Key, RegionKey: ar.Key, Region: &reg}, nil
}

// 文档注释：拉取选中国家的明细
// 背景：以 (country, sector) 调用外部协作方；成功后写入 Selected.Detail。
// 约束：无选择、国家未知或未配置协作方时原样返回；失败仅记录日志，Detail 保持 nil。
func (r *Resolver) FetchDetail(ctx context.Context, s State) State {
	if s.Selected == nil || r.Details == nil {
		return s
	}
	sel := s.Selected
	if sel.Country == "" || sel.Country == country.Unknown {
		return s.withDetail(nil)
	}
	p, err := r.Details.Fetch(ctx, sel.Country, sel.Sector)
	if err == nil && p == nil {
		err = detail.ErrDetailUnavailable
	}
	if err != nil {
		logger.L().Warn("detail_fetch_error", "country", sel.Country, "sector", sel.Sector, "err", err)
		return s.withDetail(nil)
	}
	logger.L().Debug("detail_fetch_ok", "country", sel.Country, "sector", sel.Sector, "records", len(p.Data), "has_data", p.HasData())
	return s.withDetail(p)
}
