package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"agri-map/internal/geo"
)

// 文档注释：外部数据集的原始形状
// 背景：{"sectors": {"<key>": {"name","icon","color","regions":[...]}}}；板块对象的键顺序即声明顺序。
// 约束：标准库 map 不保留键序，因此逐 token 解码；重复键以后者覆盖前者但保留首次出现的位置。
type Dataset struct {
	Sectors []SectorData
}

// SectorData 数据集中的单个板块
type SectorData struct {
	Key     string       `json:"-"`
	Name    string       `json:"name,omitempty"`
	Icon    string       `json:"icon,omitempty"`
	Color   string       `json:"color,omitempty"`
	Regions []RegionData `json:"regions"`
}

// 文档注释：数据集中的原始区域
// 背景：polygon 为规范的 [lat,lng] 点序列；geometry 为 GeoJSON（[lng,lat]），仅取第一个面的外环。
// 约束：两者同时存在时 polygon 优先；id 可为字符串或数字。
type RegionData struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name,omitempty"`
	Country    string         `json:"country,omitempty"`
	Polygon    [][]float64    `json:"polygon,omitempty"`
	Geometry   *Geometry      `json:"geometry,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Geometry GeoJSON 几何（Polygon/MultiPolygon）
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func (d *Dataset) UnmarshalJSON(b []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return err
	}
	d.Sectors = nil
	raw, ok := top["sectors"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("sectors must be an object")
	}
	seen := map[string]int{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var sd SectorData
		if err := dec.Decode(&sd); err != nil {
			return fmt.Errorf("sector %q: %w", key, err)
		}
		sd.Key = key
		if i, dup := seen[key]; dup {
			d.Sectors[i] = sd
			continue
		}
		seen[key] = len(d.Sectors)
		d.Sectors = append(d.Sectors, sd)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func (d Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"sectors":{`)
	for i, s := range d.Sectors {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(s.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

func (r *RegionData) UnmarshalJSON(b []byte) error {
	type alias RegionData
	var aux struct {
		alias
		ID any `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = RegionData(aux.alias)
	switch v := aux.ID.(type) {
	case string:
		r.ID = v
	case float64:
		r.ID = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		r.ID = strconv.FormatBool(v)
	}
	return nil
}

// 文档注释：解析区域外环为规范坐标
// 返回：[]geo.Point（纬度在前）；无法解析的点被跳过，结果可能少于 3 个点，由几何层按畸形环处理。
func (r RegionData) Ring() ([]geo.Point, error) {
	if len(r.Polygon) > 0 {
		out := make([]geo.Point, 0, len(r.Polygon))
		for _, p := range r.Polygon {
			if len(p) >= 2 {
				out = append(out, geo.Point{Lat: p[0], Lng: p[1]})
			}
		}
		return out, nil
	}
	if r.Geometry == nil {
		return nil, nil
	}
	return r.Geometry.OuterRing()
}

// OuterRing 返回 GeoJSON 第一个面的外环，坐标由 [lng,lat] 转为规范点
func (g Geometry) OuterRing() ([]geo.Point, error) {
	var rings [][][]float64
	switch strings.ToLower(g.Type) {
	case "polygon":
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("polygon coordinates: %w", err)
		}
	case "multipolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("multipolygon coordinates: %w", err)
		}
		if len(polys) > 0 {
			rings = polys[0]
		}
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
	if len(rings) == 0 {
		return nil, nil
	}
	out := make([]geo.Point, 0, len(rings[0]))
	for _, p := range rings[0] {
		if len(p) >= 2 {
			out = append(out, geo.Point{Lat: p[1], Lng: p[0]})
		}
	}
	return out, nil
}

// ParseDataset 解码数据集 JSON
func ParseDataset(b []byte) (*Dataset, error) {
	var d Dataset
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &d, nil
}
