package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"agri-map/internal/catalog"
	"agri-map/internal/country"
	"agri-map/internal/logger"
	"agri-map/internal/migrate"
	"agri-map/internal/store"
	"agri-map/internal/utils"

	"github.com/joho/godotenv"
)

// 文档注释：区域数据集导入/导出工具
// 背景：把外部 JSON 数据集写入 PostgreSQL，供服务以 DATASET_SOURCE=db 加载；也可导出当前库内数据集。
// 用法：catalog-import [--env file] [--dry-run] [--export] [dataset.json]
// 约束：未给出文件时读取 DATASET_PATH；导入在单个事务中整体替换。
func main() {
	var envFile, path string
	dryRun, export := false, false
	for i := 1; i < len(os.Args); i++ {
		a := os.Args[i]
		switch {
		case a == "--env" && i+1 < len(os.Args):
			envFile = os.Args[i+1]
			i++
		case a == "--dry-run":
			dryRun = true
		case a == "--export":
			export = true
		case strings.HasSuffix(a, ".env"):
			envFile = a
		default:
			path = a
		}
	}
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
	l := logger.Setup()
	if path == "" {
		path = os.Getenv("DATASET_PATH")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if export {
		db, err := utils.OpenPostgres(utils.PGConfigFromEnv())
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		ds, err := store.AttachDB(db).Fetch(ctx)
		if err != nil {
			l.Error("export_error", "err", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ds); err != nil {
			l.Error("export_encode_error", "err", err)
			os.Exit(1)
		}
		return
	}

	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: catalog-import [--env file] [--dry-run] [--export] <dataset.json>")
		os.Exit(2)
	}
	ds, err := (&catalog.FileSource{Path: path}).Fetch(ctx)
	if err != nil {
		l.Error("dataset_read_error", "path", path, "err", err)
		os.Exit(1)
	}
	cat := catalog.Build(ds, catalog.DefaultSectors, country.Default())
	l.Info("dataset_parsed", "path", path, "sectors", len(cat.Sectors()), "regions", cat.RegionCount())
	for _, s := range cat.Sectors() {
		for _, r := range s.Regions {
			if len(r.Polygon) < 3 {
				l.Warn("region_malformed", "sector", s.Config.Key, "id", r.ID, "name", r.Name, "points", len(r.Polygon))
			}
		}
	}
	if dryRun {
		return
	}

	db, err := utils.OpenPostgres(utils.PGConfigFromEnv())
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}
	ns, nr, err := store.AttachDB(db).ReplaceDataset(ctx, ds)
	if err != nil {
		l.Error("import_error", "err", err)
		os.Exit(1)
	}
	l.Info("import_done", "sectors", ns, "regions", nr)
}
