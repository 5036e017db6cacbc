// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"agri-map/internal/catalog"
	"agri-map/internal/click"
	"agri-map/internal/country"
	"agri-map/internal/filter"
	"agri-map/internal/geo"
	"agri-map/internal/logger"
	"agri-map/internal/metrics"
	"agri-map/internal/selection"
	"agri-map/internal/session"
	"agri-map/internal/store"
	"agri-map/internal/style"
)

// ClickStats 点击统计的读写方；*store.Store 满足该接口
type ClickStats interface {
	RecordClick(ctx context.Context, sector, country string) error
	TopClicks(ctx context.Context, days, limit int) ([]store.ClickStat, error)
}

// 文档注释：路由依赖
// 约束：Catalogs/Resolver/Sessions 必填；Styles 为空时使用全局随机源；Stats、Reload 可选，缺省时不注册对应路由。
type Deps struct {
	Catalogs *catalog.Holder
	Resolver *selection.Resolver
	Sessions *session.Store
	Styles   *style.Resolver
	Stats    ClickStats
	// Reload 重新加载目录；AdminToken 非空时校验 x-admin-token 头
	Reload     func(ctx context.Context) catalog.Result
	AdminToken string
	// AdminGuard 包裹管理路由（如来源白名单）
	AdminGuard func(http.Handler) http.Handler
	Now        click.Clock
}

const maxBodyBytes = 1 << 20

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 API 前缀
func BuildRoutes(d Deps) *http.ServeMux {
	if d.Now == nil {
		d.Now = click.SystemClock
	}
	h := &handlers{d: d}
	mux := http.NewServeMux()
	handle := func(pattern, route string, fn http.HandlerFunc) {
		mux.Handle(pattern, instrument(route, fn))
	}
	handle("GET /sectors", "sectors", h.sectors)
	handle("GET /regions", "regions", h.regions)
	handle("GET /locate", "locate", h.locate)
	handle("GET /countries", "countries", h.countries)
	handle("POST /session", "session_create", h.createSession)
	handle("GET /session/{id}", "session_get", h.getSession)
	handle("POST /session/{id}/sector", "session_sector", h.setSector)
	handle("POST /session/{id}/mode", "session_mode", h.setMode)
	handle("POST /session/{id}/click", "session_click", h.mapClick)
	handle("POST /session/{id}/region-click", "session_region_click", h.regionClick)
	handle("POST /session/{id}/deselect", "session_deselect", h.deselect)
	if d.Stats != nil {
		handle("GET /stats", "stats", h.stats)
	}
	if d.Reload != nil {
		var admin http.Handler = instrument("admin_reload", http.HandlerFunc(h.reload))
		if d.AdminGuard != nil {
			admin = d.AdminGuard(admin)
		}
		mux.Handle("POST /admin/reload", admin)
	}
	return mux
}

// instrument 记录路由请求数与耗时
func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		next.ServeHTTP(w, r)
		metrics.RequestsTotal.WithLabelValues(route).Inc()
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(t0).Milliseconds()))
	})
}

type handlers struct {
	d Deps
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody 空请求体视为零值
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *handlers) sectors(w http.ResponseWriter, r *http.Request) {
	res := h.d.Catalogs.Current()
	out := sectorsResponse{Degraded: res.Degraded, Source: res.Source, LoadedAt: res.LoadedAt, Sectors: []sectorView{}}
	for _, s := range res.Catalog.Sectors() {
		out.Sectors = append(out.Sectors, sectorView{SectorConfig: s.Config, RegionCount: len(s.Regions)})
	}
	writeJSON(w, http.StatusOK, out)
}

// countries 输出国家矩形表；数组顺序即重叠时的判定优先级
func (h *handlers) countries(w http.ResponseWriter, r *http.Request) {
	boxes := h.d.Resolver.Countries.Boxes()
	if boxes == nil {
		boxes = []country.BoundingBox{}
	}
	writeJSON(w, http.StatusOK, countriesResponse{Countries: boxes})
}

func (h *handlers) regions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sector := q.Get("sector")
	if sector == "" {
		sector = catalog.AllSectors
	}
	mode, ok := style.ParseMode(q.Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid mode")
		return
	}
	res := h.d.Catalogs.Current()
	list := filter.GetFilteredRegions(sector, res.Catalog)
	out := regionsResponse{Degraded: res.Degraded, Sector: sector, Mode: mode, Regions: make([]regionView, 0, len(list))}
	for _, ar := range list {
		reg := ar.Region
		out.Regions = append(out.Regions, regionView{
			Key:        ar.Key,
			SectorKey:  ar.Sector.Key,
			ID:         reg.ID,
			Name:       reg.Name,
			Country:    reg.Country,
			Polygon:    reg.Polygon,
			Properties: reg.Properties,
			Style:      h.d.Styles.Resolve(reg, mode, ar.Sector),
			AreaKm2:    geo.PolygonArea(reg.Polygon),
			Centroid:   geo.PolygonCentroid(reg.Polygon),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// parseCoord 解析有限数值并校验范围
func parseCoord(s string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < -limit || v > limit {
		return 0, false
	}
	return v, true
}

func validCoord(lat, lng *float64) bool {
	if lat == nil || lng == nil {
		return false
	}
	return !math.IsNaN(*lat) && !math.IsNaN(*lng) && math.Abs(*lat) <= 90 && math.Abs(*lng) <= 180
}

func (h *handlers) locate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, ok1 := parseCoord(q.Get("lat"), 90)
	lng, ok2 := parseCoord(q.Get("lng"), 180)
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "invalid coordinates")
		return
	}
	sector := q.Get("sector")
	if sector == "" {
		sector = catalog.AllSectors
	}
	writeJSON(w, http.StatusOK, h.d.Resolver.Locate(lat, lng, sector))
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	st := selection.NewState()
	if req.Sector != "" {
		st = st.SetSector(req.Sector)
	}
	if req.Mode != "" {
		m, ok := style.ParseMode(req.Mode)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid mode")
			return
		}
		st = st.SetMode(m)
	}
	s := h.d.Sessions.Create(st)
	logger.L().Debug("session_create", "id", s.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: s.ID, State: s.Snapshot()})
}

func (h *handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := h.d.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: s.ID, State: s.Snapshot()})
}

func (h *handlers) setSector(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Sector != "" && req.Sector != catalog.AllSectors {
		if _, known := h.d.Catalogs.Catalog().Sector(req.Sector); !known {
			writeError(w, http.StatusBadRequest, "unknown sector")
			return
		}
	}
	st := s.Update(func(in selection.State) selection.State { return in.SetSector(req.Sector) })
	writeJSON(w, http.StatusOK, sessionResponse{ID: s.ID, State: st})
}

func (h *handlers) setMode(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	m, valid := style.ParseMode(req.Mode)
	if !valid {
		writeError(w, http.StatusBadRequest, "invalid mode")
		return
	}
	st := s.Update(func(in selection.State) selection.State { return in.SetMode(m) })
	writeJSON(w, http.StatusOK, sessionResponse{ID: s.ID, State: st})
}

// 文档注释：地图点击
// 背景：仲裁 → 解析 → 更新选择 → 拉取明细，在会话锁内顺序执行，同一会话的点击不会交错。
// 约束：会话首次点击决定时间戳来源（timestampMs 或服务端时钟），之后不再混用，见 click.Arbiter.Stamp。
func (h *handlers) mapClick(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req clickRequest
	if err := decodeBody(r, &req); err != nil || !validCoord(req.Lat, req.Lng) {
		writeError(w, http.StatusBadRequest, "invalid coordinates")
		return
	}
	var out selection.Outcome
	var stampErr error
	st := s.Update(func(in selection.State) selection.State {
		now, err := in.Clicks.Stamp(req.TimestampMs, h.d.Now)
		if err != nil {
			stampErr = err
			return in
		}
		next, o := h.d.Resolver.MapClick(in, *req.Lat, *req.Lng, now)
		out = o
		if o.Handled {
			next = h.d.Resolver.FetchDetail(r.Context(), next)
		}
		return next
	})
	if stampErr != nil {
		writeError(w, http.StatusBadRequest, "timestampMs required")
		return
	}
	if out.Handled {
		h.recordClick(r.Context(), out)
	}
	writeJSON(w, http.StatusOK, clickResponse{sessionResponse: sessionResponse{ID: s.ID, State: st}, Outcome: out})
}

func (h *handlers) regionClick(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req regionClickRequest
	if err := decodeBody(r, &req); err != nil || req.Key == "" {
		writeError(w, http.StatusBadRequest, "missing region key")
		return
	}
	var out selection.Outcome
	var clickErr error
	st := s.Update(func(in selection.State) selection.State {
		now, err := in.Clicks.Stamp(req.TimestampMs, h.d.Now)
		if err != nil {
			clickErr = err
			return in
		}
		next, o, err := h.d.Resolver.RegionClick(in, req.Key, now)
		out, clickErr = o, err
		if err == nil {
			next = h.d.Resolver.FetchDetail(r.Context(), next)
		}
		return next
	})
	if errors.Is(clickErr, click.ErrClientTimestampRequired) {
		writeError(w, http.StatusBadRequest, "timestampMs required")
		return
	}
	if errors.Is(clickErr, selection.ErrUnknownRegion) {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}
	h.recordClick(r.Context(), out)
	writeJSON(w, http.StatusOK, clickResponse{sessionResponse: sessionResponse{ID: s.ID, State: st}, Outcome: out})
}

func (h *handlers) deselect(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	st := s.Update(selection.State.Deselect)
	writeJSON(w, http.StatusOK, sessionResponse{ID: s.ID, State: st})
}

// recordClick 统计写入失败仅记录日志
func (h *handlers) recordClick(ctx context.Context, out selection.Outcome) {
	if h.d.Stats == nil || out.Sector == "" {
		return
	}
	if err := h.d.Stats.RecordClick(ctx, out.Sector, out.Country); err != nil {
		logger.L().Warn("stats_click_error", "sector", out.Sector, "country", out.Country, "err", err)
	}
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("days"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	out, err := h.d.Stats.TopClicks(r.Context(), days, limit)
	if err != nil {
		logger.L().Error("stats_query_error", "err", err)
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"top": out})
}

func (h *handlers) reload(w http.ResponseWriter, r *http.Request) {
	if h.d.AdminToken != "" && r.Header.Get("x-admin-token") != h.d.AdminToken {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	res, applied := h.d.Catalogs.Refresh(r.Context(), h.d.Reload)
	logger.L().Info("catalog_reloaded", "source", res.Source, "degraded", res.Degraded, "applied", applied)
	writeJSON(w, http.StatusOK, map[string]any{
		"applied":  applied,
		"degraded": res.Degraded,
		"source":   res.Source,
		"sectors":  res.Catalog.Keys(),
		"regions":  res.Catalog.RegionCount(),
	})
}
