package catalog

import (
	"strconv"

	"agri-map/internal/country"
	"agri-map/internal/geo"
	"agri-map/internal/logger"
)

// 文档注释：由数据集构建只读目录
// 背景：为每个区域赋予所属板块键、计算包围盒；缺少国家字段时以顶点均值质心经国家定位器推断。
// 约束：几何解析失败的区域保留（空环，永不命中），仅记录日志；loc 为空时不推断国家。
func Build(ds *Dataset, table []SectorConfig, loc *country.Locator) *Catalog {
	c := &Catalog{index: map[string]int{}, byKey: map[string]regionRef{}}
	if ds == nil {
		return c
	}
	for _, sd := range ds.Sectors {
		sec := Sector{Config: mergeConfig(table, sd)}
		sec.Regions = make([]Region, 0, len(sd.Regions))
		for i, rd := range sd.Regions {
			ring, err := rd.Ring()
			if err != nil {
				logger.L().Warn("catalog_region_geometry_error", "sector", sd.Key, "idx", i, "name", rd.Name, "err", err)
			}
			r := Region{
				ID:         rd.ID,
				Name:       rd.Name,
				Country:    rd.Country,
				SectorKey:  sd.Key,
				Polygon:    ring,
				Properties: Properties(rd.Properties),
				Index:      i,
				BBox:       geo.ComputeBBox(ring),
			}
			if r.Country == "" && loc != nil && len(ring) >= 3 {
				ct := geo.PolygonCentroid(ring)
				r.Country = loc.Locate(ct.Lat, ct.Lng)
			}
			r.Key = c.uniqueKey(DisplayKey(sd.Key, r), i)
			c.byKey[r.Key] = regionRef{sector: len(c.sectors), region: len(sec.Regions)}
			sec.Regions = append(sec.Regions, r)
		}
		c.index[sd.Key] = len(c.sectors)
		c.sectors = append(c.sectors, sec)
	}
	logger.L().Debug("catalog_build_done", "sectors", len(c.sectors), "regions", c.RegionCount())
	return c
}

// 文档注释：唯一键分配
// 背景：展示键冲突（同名无 id 区域，或板块键与 id 拼接后重合）时追加板块内位置，仍冲突则再追加序号。
// 约束：先声明者保留原展示键。
func (c *Catalog) uniqueKey(base string, idx int) string {
	if _, taken := c.byKey[base]; !taken {
		return base
	}
	k := base + "-" + strconv.Itoa(idx)
	for n := 2; ; n++ {
		if _, taken := c.byKey[k]; !taken {
			logger.L().Warn("catalog_region_key_collision", "key", base, "assigned", k)
			return k
		}
		k = base + "-" + strconv.Itoa(idx) + "-" + strconv.Itoa(n)
	}
}
