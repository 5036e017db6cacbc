// 包 filter：按当前板块选择生成待渲染的区域列表
package filter

import "agri-map/internal/catalog"

// AnnotatedRegion 附带所属板块配置与唯一键的区域
type AnnotatedRegion struct {
	Key    string               `json:"key"`
	Region catalog.Region       `json:"region"`
	Sector catalog.SectorConfig `json:"sector"`
}

// RegionKey 返回区域在目录内的唯一键；未经目录构建的区域退回展示键
func RegionKey(sectorKey string, r catalog.Region) string {
	if r.Key != "" {
		return r.Key
	}
	return catalog.DisplayKey(sectorKey, r)
}

// 文档注释：过滤区域
// 背景：active 为 all 时按声明顺序展开全部板块；否则仅返回该板块的区域。
// 约束：板块不存在（数据仍在加载或键无效）时返回空列表而非错误。
func GetFilteredRegions(active string, cat *catalog.Catalog) []AnnotatedRegion {
	if active == catalog.AllSectors {
		out := make([]AnnotatedRegion, 0, cat.RegionCount())
		for _, s := range cat.Sectors() {
			out = appendSector(out, s)
		}
		return out
	}
	s, ok := cat.Sector(active)
	if !ok {
		return []AnnotatedRegion{}
	}
	return appendSector(make([]AnnotatedRegion, 0, len(s.Regions)), *s)
}

func appendSector(out []AnnotatedRegion, s catalog.Sector) []AnnotatedRegion {
	for _, r := range s.Regions {
		out = append(out, AnnotatedRegion{
			Key:    RegionKey(s.Config.Key, r),
			Region: r,
			Sector: s.Config,
		})
	}
	return out
}

// FindByKey 按唯一键查找区域（区域点击时使用）
func FindByKey(cat *catalog.Catalog, key string) (AnnotatedRegion, bool) {
	sec, r, ok := cat.RegionByKey(key)
	if !ok {
		return AnnotatedRegion{}, false
	}
	return AnnotatedRegion{Key: key, Region: r, Sector: sec.Config}, true
}
