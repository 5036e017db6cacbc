// 包 country：按有序矩形表将坐标粗略映射到国家名称
package country

// Unknown：未命中任何矩形时返回的哨兵值
const Unknown = "Unknown"

// BoundingBox：国家的粗略矩形近似（闭区间）
type BoundingBox struct {
	Name   string  `json:"name"`
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

func (b BoundingBox) contains(lat, lng float64) bool {
	return b.MinLat <= lat && lat <= b.MaxLat && b.MinLng <= lng && lng <= b.MaxLng
}

// 文档注释：国家定位器
// 背景：矩形彼此重叠是常态（飞地、邻国），按声明顺序取第一个命中项，不比较面积或精细程度。
// 约束：表在构造后只读，可被并发读取。
type Locator struct {
	boxes []BoundingBox
}

// New 使用给定表构造定位器；表顺序即优先级
func New(boxes []BoundingBox) *Locator {
	return &Locator{boxes: append([]BoundingBox(nil), boxes...)}
}

// Default 使用内置表（见 data.go 的排序约定）
func Default() *Locator { return defaultLocator }

var defaultLocator = New(defaultBoxes)

// Locate 返回第一个包含该点的矩形名称，未命中返回 Unknown
func (l *Locator) Locate(lat, lng float64) string {
	if l == nil {
		return Unknown
	}
	for _, b := range l.boxes {
		if b.contains(lat, lng) {
			return b.Name
		}
	}
	return Unknown
}

// Boxes 按优先级返回表的副本（GET /countries 输出）
func (l *Locator) Boxes() []BoundingBox {
	if l == nil {
		return nil
	}
	return append([]BoundingBox(nil), l.boxes...)
}
