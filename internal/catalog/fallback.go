package catalog

// 文档注释：内置兜底数据集
// 背景：远端数据集不可用时保证板块定位、过滤与样式计算仍可离线运行；形状与外部数据集一致。
// 约束：每次调用返回新副本，调用方可自由修改。
func Fallback() *Dataset {
	return &Dataset{Sectors: []SectorData{
		{
			Key:   "crops_production",
			Name:  "Crop Production",
			Icon:  "🌾",
			Color: "#4CAF50",
			Regions: []RegionData{
				{
					ID:      "central-valley",
					Name:    "Central Valley",
					Country: "United States",
					Polygon: [][]float64{
						{40.6, -122.5}, {40.6, -121.5}, {37.0, -119.0},
						{35.0, -118.8}, {35.0, -119.8}, {38.0, -122.0},
					},
					Properties: map[string]any{"intensity": 0.85, "production": 85000.0, "crop": "mixed"},
				},
				{
					ID:      "punjab-plains",
					Name:    "Punjab Plains",
					Country: "India",
					Polygon: [][]float64{
						{32.5, 74.0}, {32.5, 76.5}, {30.0, 77.0}, {29.5, 74.5},
					},
					Properties: map[string]any{"production": 62000.0, "yield": 4.1, "crop": "wheat"},
				},
			},
		},
		{
			Key:   "livestock",
			Name:  "Livestock",
			Icon:  "🐄",
			Color: "#FF9800",
			Regions: []RegionData{
				{
					ID:   "pampas",
					Name: "Pampas",
					Polygon: [][]float64{
						{-32.0, -64.0}, {-32.0, -58.5}, {-38.5, -57.5}, {-38.5, -63.5},
					},
					Properties: map[string]any{"yield": 7.2},
				},
			},
		},
	}}
}
