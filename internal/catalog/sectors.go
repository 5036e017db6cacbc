package catalog

// DefaultSectorKey 点未落入任何区域且当前选择为 all 时使用的板块
const DefaultSectorKey = "crops_production"

// DefaultColor 数据集与静态表均未给出颜色时的底色
const DefaultColor = "#4CAF50"

// 文档注释：板块静态配置表
// 背景：色带按强度由低到高排列，供热力图模式按索引取色；tileLayerPreference 指向外部底图表的键。
// 约束：顺序仅用于接口展示，不影响板块定位（定位顺序取决于数据集）。
var DefaultSectors = []SectorConfig{
	{
		Key:                 "crops_production",
		DisplayName:         "Crop Production",
		Icon:                "🌾",
		BaseColor:           "#4CAF50",
		ColorRamp:           []string{"#E8F5E9", "#A5D6A7", "#66BB6A", "#388E3C", "#1B5E20"},
		TileLayerPreference: "satellite",
	},
	{
		Key:                 "livestock",
		DisplayName:         "Livestock",
		Icon:                "🐄",
		BaseColor:           "#FF9800",
		ColorRamp:           []string{"#FFF3E0", "#FFCC80", "#FFA726", "#F57C00", "#E65100"},
		TileLayerPreference: "terrain",
	},
	{
		Key:                 "fertilizer",
		DisplayName:         "Fertilizer Use",
		Icon:                "🧪",
		BaseColor:           "#9C27B0",
		ColorRamp:           []string{"#F3E5F5", "#CE93D8", "#AB47BC", "#7B1FA2", "#4A148C"},
		TileLayerPreference: "streets",
	},
	{
		Key:                 "irrigation",
		DisplayName:         "Irrigation",
		Icon:                "💧",
		BaseColor:           "#2196F3",
		ColorRamp:           []string{"#E3F2FD", "#90CAF9", "#42A5F5", "#1976D2", "#0D47A1"},
		TileLayerPreference: "satellite",
	},
	{
		Key:                 "land_use",
		DisplayName:         "Land Use",
		Icon:                "🗺️",
		BaseColor:           "#795548",
		ColorRamp:           []string{"#EFEBE9", "#BCAAA4", "#8D6E63", "#5D4037", "#3E2723"},
		TileLayerPreference: "terrain",
	},
}

// ConfigFor 从给定表中查找板块配置
func ConfigFor(table []SectorConfig, key string) (SectorConfig, bool) {
	for _, c := range table {
		if c.Key == key {
			return c, true
		}
	}
	return SectorConfig{}, false
}

// 文档注释：合并静态配置与数据集给出的显示字段
// 约束：数据集中非空的 name/icon/color 覆盖静态值；色带只来自静态表，未知板块无色带（热力图退回底色）。
func mergeConfig(table []SectorConfig, sd SectorData) SectorConfig {
	cfg, ok := ConfigFor(table, sd.Key)
	if !ok {
		cfg = SectorConfig{Key: sd.Key, DisplayName: sd.Key, BaseColor: DefaultColor}
	}
	if sd.Name != "" {
		cfg.DisplayName = sd.Name
	}
	if sd.Icon != "" {
		cfg.Icon = sd.Icon
	}
	if sd.Color != "" {
		cfg.BaseColor = sd.Color
	}
	cfg.ColorRamp = append([]string(nil), cfg.ColorRamp...)
	return cfg
}

// AllSectors 板块选择通配符
const AllSectors = "all"
