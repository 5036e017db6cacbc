// 包 catalog：区域目录（按行业板块分组的农业区域多边形与显示配置）
package catalog

import (
	"strconv"
	"strings"

	"agri-map/internal/geo"
)

// 文档注释：区域属性包
// 背景：数据源中的属性值可能是数值或字符串；强度类字段（intensity/production/yield）按需读取。
type Properties map[string]any

// Number 读取数值属性；数值字符串同样接受，其余类型视为缺失
func (p Properties) Number(key string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// 文档注释：单个农业区域
// 约束：SectorKey 由目录构建时赋值，不信任原始数据自报；Polygon 为单环且隐式闭合，不支持洞。
type Region struct {
	ID         string      `json:"id,omitempty"`
	Name       string      `json:"name"`
	Country    string      `json:"country,omitempty"`
	SectorKey  string      `json:"sectorKey"`
	// Key 为目录内唯一的区域键，构建时赋值
	Key        string      `json:"key"`
	Polygon    []geo.Point `json:"polygon"`
	Properties Properties  `json:"properties,omitempty"`
	// Index 为区域在所属板块内的声明位置
	Index int      `json:"-"`
	BBox  geo.BBox `json:"-"`
}

// SectorConfig 板块的静态显示配置；会话期内不变
type SectorConfig struct {
	Key                 string   `json:"key"`
	DisplayName         string   `json:"displayName"`
	Icon                string   `json:"icon"`
	BaseColor           string   `json:"baseColor"`
	ColorRamp           []string `json:"colorRamp,omitempty"`
	TileLayerPreference string   `json:"tileLayerPreference,omitempty"`
}

// Sector 板块及其区域（声明顺序）
type Sector struct {
	Config  SectorConfig
	Regions []Region
}

// 文档注释：只读区域目录
// 背景：会话开始时加载一次，之后只读共享；板块顺序即数据集声明顺序，板块定位依赖该顺序。
type Catalog struct {
	sectors []Sector
	index   map[string]int
	byKey   map[string]regionRef
}

type regionRef struct{ sector, region int }

// Sectors 按声明顺序返回板块；调用方不得修改返回内容
func (c *Catalog) Sectors() []Sector {
	if c == nil {
		return nil
	}
	return c.sectors
}

// Sector 按键查找板块
func (c *Catalog) Sector(key string) (*Sector, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return &c.sectors[i], true
}

// Keys 按声明顺序返回板块键
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.sectors))
	for _, s := range c.sectors {
		out = append(out, s.Config.Key)
	}
	return out
}

// RegionCount 返回全部板块的区域总数
func (c *Catalog) RegionCount() int {
	n := 0
	for _, s := range c.Sectors() {
		n += len(s.Regions)
	}
	return n
}

// 文档注释：区域展示键
// 背景：格式为 {sectorKey}-{id|name|index}，依次取第一个非空值；index 为区域在板块内的位置。
// 约束：不保证唯一；目录内的唯一键见 Region.Key。
func DisplayKey(sectorKey string, r Region) string {
	switch {
	case r.ID != "":
		return sectorKey + "-" + r.ID
	case r.Name != "":
		return sectorKey + "-" + r.Name
	}
	return sectorKey + "-" + strconv.Itoa(r.Index)
}

// RegionByKey 按唯一键查找区域及其所属板块
func (c *Catalog) RegionByKey(key string) (*Sector, Region, bool) {
	if c == nil {
		return nil, Region{}, false
	}
	ref, ok := c.byKey[key]
	if !ok {
		return nil, Region{}, false
	}
	s := &c.sectors[ref.sector]
	return s, s.Regions[ref.region], true
}
