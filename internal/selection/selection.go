// 包 selection：显式的选择状态与点击解析流程
package selection

import (
	"agri-map/internal/catalog"
	"agri-map/internal/click"
	"agri-map/internal/detail"
	"agri-map/internal/geo"
	"agri-map/internal/style"
)

// Selected 当前选中的区域或地图点
type Selected struct {
	RegionKey string          `json:"regionKey,omitempty"`
	Region    *catalog.Region `json:"region,omitempty"`
	Sector    string          `json:"sector"`
	Country   string          `json:"country"`
	Point     geo.Point       `json:"point"`
	Detail    *detail.Payload `json:"detail,omitempty"`
}

// 文档注释：选择状态
// 背景：由调用方持有并在每次调用中传入、返回，不存在全局单例或隐藏修改。
// 约束：所有转换返回新值；Selected 在转换时整体替换，不原地修改已返回的指针。
type State struct {
	ActiveSector string        `json:"activeSector"`
	Mode         style.Mode    `json:"mode"`
	Clicks       click.Arbiter `json:"clicks"`
	Selected     *Selected     `json:"selected,omitempty"`
}

// NewState 初始状态：全部板块、regions 模式、无选择
func NewState() State {
	return State{ActiveSector: catalog.AllSectors, Mode: style.ModeRegions}
}

// SetSector 切换板块并清除选择；空串视为 all
func (s State) SetSector(key string) State {
	if key == "" {
		key = catalog.AllSectors
	}
	s.ActiveSector = key
	s.Selected = nil
	return s
}

// SetMode 切换可视化模式并清除选择
func (s State) SetMode(m style.Mode) State {
	if m == "" {
		m = style.ModeRegions
	}
	s.Mode = m
	s.Selected = nil
	return s
}

// Deselect 清除选择
func (s State) Deselect() State {
	s.Selected = nil
	return s
}

// withDetail 返回替换了明细的新状态
func (s State) withDetail(p *detail.Payload) State {
	if s.Selected == nil {
		return s
	}
	sel := *s.Selected
	sel.Detail = p
	s.Selected = &sel
	return s
}
