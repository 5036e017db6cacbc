package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000}

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimap_requests_total",
		Help: "Total API requests by route",
	}, []string{"route"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agrimap_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: durationBuckets,
	}, []string{"route"})
	MapClicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimap_map_clicks_total",
		Help: "Bare map clicks by whether they were handled or suppressed by the debounce window",
	}, []string{"handled"})
	RegionClicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_region_clicks_total",
		Help: "Total region clicks",
	})
	UnresolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimap_unresolved_total",
		Help: "Lookups that fell back to a sentinel (country=Unknown, sector=fallback)",
	}, []string{"kind"})
	CatalogLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimap_catalog_loads_total",
		Help: "Catalog loads by status (ok|fallback)",
	}, []string{"status"})
	DetailRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_detail_requests_total",
		Help: "Total country detail requests",
	})
	DetailFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_detail_fail_total",
		Help: "Total country detail failures",
	})
	DetailDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "agrimap_detail_duration_ms",
		Help:    "Country detail call duration in milliseconds",
		Buckets: durationBuckets,
	})
	DetailCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_detail_cache_hits_total",
		Help: "Total detail cache hits",
	})
	DetailCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_detail_cache_misses_total",
		Help: "Total detail cache misses",
	})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agrimap_sessions_active",
		Help: "Selection sessions currently held in memory",
	})
	DependencyHeartbeatTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimap_dependency_heartbeat_total",
		Help: "Dependency heartbeats by name and status (ok|fail)",
	}, []string{"name", "status"})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDurationMs,
		MapClicksTotal,
		RegionClicksTotal,
		UnresolvedTotal,
		CatalogLoadsTotal,
		DetailRequestsTotal,
		DetailFailTotal,
		DetailDurationMs,
		DetailCacheHitsTotal,
		DetailCacheMissesTotal,
		SessionsActive,
		DependencyHeartbeatTotal,
	)
}

// Handler 暴露已注册指标，由主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
