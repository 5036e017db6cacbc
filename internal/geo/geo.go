// 包 geo：区域判定所需的最小几何原语（点入多边形、顶点均值质心、近似面积、包围盒）
package geo

import "math"

// KmPerDegree：经纬度到千米的固定换算系数（两轴同值）
// 约束：仅为近似，高纬度与超大多边形误差显著；不做投影与大圆计算。
const KmPerDegree = 111.0

// Point：规范坐标（WGS84，纬度在前）；入库时统一转换，避免 [lat,lng]/[lng,lat] 混用
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BBox：轴对齐包围盒
type BBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// Contains：闭区间判定，边界上的点视为命中
func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// 文档注释：点入多边形判定（射线法，Even-Odd）
// 背景：环视为隐式闭合，首尾无需重合；边 (ring[i], ring[j]) 中 j 为 i 的前一个顶点。
// 约束：少于 3 个顶点返回 false；点恰好落在边上时的归属由浮点比较决定，不做额外修正。
func PointInPolygon(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	lat := pt.Lat
	lng := pt.Lng
	for i := 0; i < n; i++ {
		j := (i - 1 + n) % n
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if (yi > lat) != (yj > lat) && lng < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// 文档注释：顶点算术平均（非面积加权质心）
// 约束：非凸多边形的结果可能落在多边形外；少于 3 个顶点返回零点。
func PolygonCentroid(ring []Point) Point {
	if len(ring) < 3 {
		return Point{}
	}
	var sLat, sLng float64
	for _, p := range ring {
		sLat += p.Lat
		sLng += p.Lng
	}
	n := float64(len(ring))
	return Point{Lat: sLat / n, Lng: sLng / n}
}

// 文档注释：近似面积（平方千米）
// 背景：鞋带公式求平方度，再乘以 111×111 换算；环隐式闭合。
func PolygonArea(ring []Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		sum += a.Lng*b.Lat - b.Lng*a.Lat
	}
	return math.Abs(sum) / 2 * KmPerDegree * KmPerDegree
}

// ComputeBBox 返回环的包围盒；空环返回零值
func ComputeBBox(ring []Point) BBox {
	if len(ring) == 0 {
		return BBox{}
	}
	b := BBox{MinLat: 90, MaxLat: -90, MinLng: 180, MaxLng: -180}
	for _, p := range ring {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}
		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
	}
	return b
}
