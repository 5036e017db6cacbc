// 包 style：根据板块配置、可视化模式与归一化强度计算区域样式
package style

import (
	"math"
	"math/rand/v2"
	"strings"

	"agri-map/internal/catalog"
)

// Mode 可视化模式
type Mode string

const (
	ModeRegions   Mode = "regions"
	ModeHeatmap   Mode = "heatmap"
	ModeIntensity Mode = "intensity"
)

// 固定不透明度与下限
const (
	RegionsOpacity  = 0.6
	HeatmapOpacity  = 0.7
	MinOpacity      = 0.3
	MaxOpacity      = 1.0
	productionScale = 100000.0
	yieldScale      = 10.0
)

// ParseMode 解析模式名；空串视为 regions
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRegions:
		return ModeRegions, true
	case ModeHeatmap:
		return ModeHeatmap, true
	case ModeIntensity:
		return ModeIntensity, true
	}
	return "", false
}

// 文档注释：随机源
// 背景：缺少真实数据的区域以伪随机强度显示（视觉抖动），这是有意的近似；注入接口以便测试固定结果。
// 约束：Float64 返回 [0,1)；*rand.Rand 可直接满足。
type RandomSource interface {
	Float64() float64
}

// RandomFunc 函数适配器
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 { return f() }

// Fixed 返回常量随机源
func Fixed(v float64) RandomSource { return RandomFunc(func() float64 { return v }) }

var globalRandom RandomSource = RandomFunc(rand.Float64)

// Field 强度回退链中的一项：属性值除以 Scale 作为强度
type Field struct {
	Key   string
	Scale float64
}

// 热力图与不透明度模式各自的回退链
var (
	HeatmapChain   = []Field{{Key: "intensity", Scale: 1}, {Key: "production", Scale: productionScale}}
	IntensityChain = []Field{{Key: "intensity", Scale: 1}, {Key: "yield", Scale: yieldScale}}
)

// 文档注释：按有序回退链推导强度
// 背景：依次取链上第一个存在且有限的数值属性并按比例缩放；全部缺失时取随机源。
// 约束：结果截断到 [0,1]，负值与大于 1 的畸形输入均被截断；非数值与 NaN/Inf 视为缺失。
func DeriveIntensity(p catalog.Properties, chain []Field, rnd RandomSource) float64 {
	for _, f := range chain {
		v, ok := p.Number(f.Key)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		scale := f.Scale
		if scale == 0 {
			scale = 1
		}
		return clamp01(v / scale)
	}
	if rnd == nil {
		rnd = globalRandom
	}
	return clamp01(rnd.Float64())
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Style 最终渲染样式
type Style struct {
	FillColor   string  `json:"fillColor"`
	StrokeColor string  `json:"strokeColor"`
	FillOpacity float64 `json:"fillOpacity"`
}

// Resolver 样式计算器；Random 为空时使用全局伪随机
type Resolver struct {
	Random RandomSource
}

// NewResolver 构造样式计算器
func NewResolver(rnd RandomSource) *Resolver {
	return &Resolver{Random: rnd}
}

// 文档注释：计算区域样式
// 背景：
// - regions（默认及未知模式）：填充与描边均为板块底色，不透明度 0.6；
// - heatmap：强度映射到色带索引 floor(强度×(色带长度-1))，描边为底色，不透明度 0.7；无色带时填充退回底色；
// - intensity：填充与描边为底色，不透明度为强度，下限 0.3。
func (r *Resolver) Resolve(region catalog.Region, mode Mode, cfg catalog.SectorConfig) Style {
	var rnd RandomSource
	if r != nil {
		rnd = r.Random
	}
	base := cfg.BaseColor
	switch mode {
	case ModeHeatmap:
		i := DeriveIntensity(region.Properties, HeatmapChain, rnd)
		return Style{FillColor: rampColor(cfg.ColorRamp, i, base), StrokeColor: base, FillOpacity: HeatmapOpacity}
	case ModeIntensity:
		i := DeriveIntensity(region.Properties, IntensityChain, rnd)
		return Style{FillColor: base, StrokeColor: base, FillOpacity: math.Max(MinOpacity, math.Min(MaxOpacity, i))}
	}
	return Style{FillColor: base, StrokeColor: base, FillOpacity: RegionsOpacity}
}

func rampColor(ramp []string, intensity float64, fallback string) string {
	if len(ramp) == 0 {
		return fallback
	}
	idx := int(math.Floor(intensity * float64(len(ramp)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > len(ramp)-1 {
		idx = len(ramp) - 1
	}
	return ramp[idx]
}

// ResolveStyle 使用全局随机源的便捷函数
func ResolveStyle(region catalog.Region, mode Mode, cfg catalog.SectorConfig) Style {
	return (*Resolver)(nil).Resolve(region, mode, cfg)
}
