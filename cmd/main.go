// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"agri-map/internal/api"
	"agri-map/internal/catalog"
	"agri-map/internal/config"
	"agri-map/internal/country"
	"agri-map/internal/detail"
	"agri-map/internal/health"
	"agri-map/internal/locate"
	"agri-map/internal/logger"
	"agri-map/internal/metrics"
	"agri-map/internal/middleware"
	"agri-map/internal/migrate"
	"agri-map/internal/selection"
	"agri-map/internal/session"
	"agri-map/internal/store"
	"agri-map/internal/style"
	"agri-map/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg := config.FromEnv()
	l.Debug("config_loaded", "addr", cfg.Addr, "api_base", cfg.APIBase, "dataset_source", cfg.DatasetSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := health.NewMonitor(0)
	var db *sql.DB
	var st *store.Store
	if cfg.PGEnable {
		var err error
		db, err = utils.OpenPostgres(cfg.PG)
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
		}
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		st = store.AttachDB(db)
		mon.Register(health.ProbeFunc{N: "postgres", F: db.PingContext})
	} else {
		l.Info("db_disabled")
	}

	countries := country.Default()
	src := datasetSource(cfg, st)
	load := func(ctx context.Context) catalog.Result {
		lctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return catalog.Load(lctx, src, catalog.DefaultSectors, countries)
	}
	holder := catalog.NewHolder(load(ctx))
	if holder.Degraded() {
		l.Warn("catalog_degraded", "err", holder.Current().Err)
	}
	holder.StartRefresh(ctx, cfg.DatasetRefresh, load)

	var details detail.Fetcher
	if cfg.DetailAPIURL != "" {
		hc := detail.NewHTTPClient(cfg.DetailAPIURL, cfg.DetailTimeout)
		mon.Register(health.ProbeFunc{N: "detail_api", F: hc.Ping})
		details = hc
		if cfg.RedisEnable {
			rc := utils.OpenRedis(cfg.Redis)
			if err := rc.Ping(ctx).Err(); err != nil {
				l.Error("redis_ping_error", "err", err)
			} else {
				l.Info("redis_ping_ok")
			}
			defer rc.Close()
			mon.Register(health.ProbeFunc{N: "redis", F: func(ctx context.Context) error { return rc.Ping(ctx).Err() }})
			details = detail.NewRedisCache(rc, details, cfg.DetailCacheTTL)
		}
	} else {
		l.Info("detail_disabled")
	}
	mon.Start(ctx)

	deps := api.Deps{
		Catalogs:   holder,
		Resolver:   selection.NewResolver(holder, countries, locate.New(cfg.DefaultSector), details),
		Sessions:   session.NewStore(cfg.SessionCapacity, cfg.SessionTTL),
		Styles:     style.NewResolver(nil),
		Reload:     load,
		AdminToken: cfg.AdminToken,
	}
	if st != nil {
		deps.Stats = st
	}
	if len(cfg.AdminAllow) > 0 {
		deps.AdminGuard = middleware.NewAllowlist(cfg.AdminAllow, true, cfg.RealIPHeader).Wrap
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, api.BuildRoutes(deps)))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc(cfg.APIBase+"/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if holder.Degraded() || !mon.Healthy() {
			status = "degraded"
		}
		w.Header().Set("content-type", "application/json; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":          status,
			"catalogDegraded": holder.Degraded(),
			"dependencies":    mon.Snapshot(),
		})
	})

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.RateLimit(cfg.RateLimitEnabled, cfg.RateLimitQPS, handler)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	var err error
	if cfg.TLSEnable {
		if e := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "agri-map.local"); e != nil {
			l.Error("tls_cert_error", "err", e)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		err = s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
	l.Info("server_stopped")
}

// datasetSource 按配置选择数据集来源；返回 nil 时直接使用兜底数据
func datasetSource(cfg config.Config, st *store.Store) catalog.Source {
	switch cfg.DatasetSource {
	case config.SourceHTTP:
		return &catalog.HTTPSource{URL: cfg.DatasetURL}
	case config.SourceFile:
		return &catalog.FileSource{Path: cfg.DatasetPath}
	case config.SourceDB:
		if st != nil {
			return st
		}
		logger.L().Warn("dataset_source_db_unavailable", "reason", "pg_disabled")
	}
	return nil
}
