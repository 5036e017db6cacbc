package api

import (
	"time"

	"agri-map/internal/catalog"
	"agri-map/internal/country"
	"agri-map/internal/geo"
	"agri-map/internal/selection"
	"agri-map/internal/style"
)

// 文档注释：对外响应结构
// 背景：统一对外序列化模型，只暴露渲染层需要的字段。
// 约束：字段稳定；新增字段需评估前端依赖。
type sectorView struct {
	catalog.SectorConfig
	RegionCount int `json:"regionCount"`
}

type sectorsResponse struct {
	Degraded bool         `json:"degraded"`
	Source   string       `json:"source"`
	LoadedAt time.Time    `json:"loadedAt"`
	Sectors  []sectorView `json:"sectors"`
}

type countriesResponse struct {
	Countries []country.BoundingBox `json:"countries"`
}

type regionView struct {
	Key        string             `json:"key"`
	SectorKey  string             `json:"sectorKey"`
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name"`
	Country    string             `json:"country,omitempty"`
	Polygon    []geo.Point        `json:"polygon"`
	Properties catalog.Properties `json:"properties,omitempty"`
	Style      style.Style        `json:"style"`
	AreaKm2    float64            `json:"areaKm2"`
	Centroid   geo.Point          `json:"centroid"`
}

type regionsResponse struct {
	Degraded bool         `json:"degraded"`
	Sector   string       `json:"sector"`
	Mode     style.Mode   `json:"mode"`
	Regions  []regionView `json:"regions"`
}

type sessionResponse struct {
	ID    string          `json:"id"`
	State selection.State `json:"state"`
}

type clickResponse struct {
	sessionResponse
	Outcome selection.Outcome `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// 请求体
type sessionRequest struct {
	Sector string `json:"sector"`
	Mode   string `json:"mode"`
}

type clickRequest struct {
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	TimestampMs int64    `json:"timestampMs"`
}

type regionClickRequest struct {
	Key         string `json:"key"`
	TimestampMs int64  `json:"timestampMs"`
}
