// 包 locate：按点入多边形判定坐标所属的板块
package locate

import (
	"agri-map/internal/catalog"
	"agri-map/internal/geo"
	"agri-map/internal/metrics"
)

// 文档注释：板块定位器
// 背景：按目录声明顺序逐板块、逐区域做包围盒预筛与射线法判定，首个命中即返回，不比较面积或“更优”匹配。
// 约束：复杂度为 板块数×区域数×顶点数，仅在离散点击时调用；同一点可落入多个板块的多边形，由顺序决定归属。
type Locator struct {
	// DefaultSector 未命中且当前选择为 all 时的兜底板块
	DefaultSector string
}

// New 构造定位器；def 为空时使用 catalog.DefaultSectorKey
func New(def string) *Locator {
	if def == "" {
		def = catalog.DefaultSectorKey
	}
	return &Locator{DefaultSector: def}
}

// FindRegionAt 返回第一个包含该点的区域（仅外环）
func FindRegionAt(cat *catalog.Catalog, lat, lng float64) (*catalog.Region, bool) {
	pt := geo.Point{Lat: lat, Lng: lng}
	sectors := cat.Sectors()
	for si := range sectors {
		regions := sectors[si].Regions
		for ri := range regions {
			r := &regions[ri]
			if len(r.Polygon) < 3 || !r.BBox.Contains(pt) {
				continue
			}
			if geo.PointInPolygon(pt, r.Polygon) {
				return r, true
			}
		}
	}
	return nil, false
}

// 文档注释：解析坐标所属板块
// 返回：命中区域的板块键；未命中时返回 active（非 all），否则返回默认板块。
func (l *Locator) FindSectorAt(cat *catalog.Catalog, lat, lng float64, active string) string {
	if r, ok := FindRegionAt(cat, lat, lng); ok {
		return r.SectorKey
	}
	metrics.UnresolvedTotal.WithLabelValues("sector").Inc()
	return l.fallback(active)
}

func (l *Locator) fallback(active string) string {
	if active != "" && active != catalog.AllSectors {
		return active
	}
	if l == nil || l.DefaultSector == "" {
		return catalog.DefaultSectorKey
	}
	return l.DefaultSector
}

// FindSectorAt 使用默认兜底板块的便捷函数
func FindSectorAt(cat *catalog.Catalog, lat, lng float64, active string) string {
	return New("").FindSectorAt(cat, lat, lng, active)
}
