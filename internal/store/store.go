// 包 store: 提供与 PostgreSQL 的数据访问层，包含区域目录读写与点击统计
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"agri-map/internal/catalog"
	"agri-map/internal/logger"

	_ "github.com/lib/pq"
)

// Store: 数据库访问入口，持有连接池；同时作为 catalog.Source 使用
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open: 使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	return &Store{db: db}, nil
}

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Name() string { return "postgres" }

// 文档注释：从数据库重建数据集
// 背景：板块按 ord 排序即声明顺序；区域按 ord 追加到所属板块，保持板块内顺序。
// 约束：polygon 以规范 [lat,lng] 存储；孤立区域（板块不存在）被跳过并记录日志。
func (s *Store) Fetch(ctx context.Context) (*catalog.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, name, icon, color FROM agri_sectors ORDER BY ord")
	if err != nil {
		return nil, fmt.Errorf("query sectors: %w", err)
	}
	ds := &catalog.Dataset{}
	idx := map[string]int{}
	for rows.Next() {
		var sd catalog.SectorData
		if err := rows.Scan(&sd.Key, &sd.Name, &sd.Icon, &sd.Color); err != nil {
			rows.Close()
			return nil, err
		}
		idx[sd.Key] = len(ds.Sectors)
		ds.Sectors = append(ds.Sectors, sd)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rrows, err := s.db.QueryContext(ctx, "SELECT sector_key, region_id, name, country, polygon, properties FROM agri_regions ORDER BY ord")
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rrows.Close()
	orphans := 0
	for rrows.Next() {
		var key string
		var rd catalog.RegionData
		var poly, props []byte
		if err := rrows.Scan(&key, &rd.ID, &rd.Name, &rd.Country, &poly, &props); err != nil {
			return nil, err
		}
		i, ok := idx[key]
		if !ok {
			orphans++
			continue
		}
		if len(poly) > 0 {
			if err := json.Unmarshal(poly, &rd.Polygon); err != nil {
				return nil, fmt.Errorf("region %s/%s polygon: %w", key, rd.ID, err)
			}
		}
		if len(props) > 0 {
			if err := json.Unmarshal(props, &rd.Properties); err != nil {
				return nil, fmt.Errorf("region %s/%s properties: %w", key, rd.ID, err)
			}
		}
		ds.Sectors[i].Regions = append(ds.Sectors[i].Regions, rd)
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}
	if orphans > 0 {
		logger.L().Warn("db_region_orphans", "count", orphans)
	}
	logger.L().Debug("db_dataset_fetch", "sectors", len(ds.Sectors))
	return ds, nil
}

// 文档注释：整体替换数据集
// 背景：导入工具使用；事务内先清空再按声明顺序写入，失败整体回滚。
// 返回：写入的板块数与区域数。
// 约束：GeoJSON 几何在写入前转换为规范 [lat,lng] 外环。
func (s *Store) ReplaceDataset(ctx context.Context, ds *catalog.Dataset) (int, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, "DELETE FROM agri_regions"); err != nil {
		return 0, 0, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM agri_sectors"); err != nil {
		return 0, 0, err
	}
	nSec, nReg := 0, 0
	for si, sd := range ds.Sectors {
		if _, err := tx.ExecContext(ctx, "INSERT INTO agri_sectors(key, name, icon, color, ord) VALUES($1,$2,$3,$4,$5)",
			sd.Key, sd.Name, sd.Icon, sd.Color, si); err != nil {
			return 0, 0, fmt.Errorf("insert sector %s: %w", sd.Key, err)
		}
		nSec++
		for _, rd := range sd.Regions {
			poly, props, err := encodeRegion(rd)
			if err != nil {
				return 0, 0, fmt.Errorf("encode region %s/%s: %w", sd.Key, rd.ID, err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO agri_regions(sector_key, region_id, name, country, polygon, properties, ord) VALUES($1,$2,$3,$4,$5,$6,$7)",
				sd.Key, rd.ID, rd.Name, rd.Country, poly, props, nReg); err != nil {
				return 0, 0, fmt.Errorf("insert region %s/%s: %w", sd.Key, rd.ID, err)
			}
			nReg++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	logger.L().Info("db_dataset_replaced", "sectors", nSec, "regions", nReg)
	return nSec, nReg, nil
}

func encodeRegion(rd catalog.RegionData) (string, string, error) {
	ring, err := rd.Ring()
	if err != nil {
		return "", "", err
	}
	pairs := make([][2]float64, 0, len(ring))
	for _, p := range ring {
		pairs = append(pairs, [2]float64{p.Lat, p.Lng})
	}
	pb, err := json.Marshal(pairs)
	if err != nil {
		return "", "", err
	}
	props := rd.Properties
	if props == nil {
		props = map[string]any{}
	}
	qb, err := json.Marshal(props)
	if err != nil {
		return "", "", err
	}
	return string(pb), string(qb), nil
}

// RecordClick: 按 (当日, 板块, 国家) 递增点击计数
func (s *Store) RecordClick(ctx context.Context, sector, country string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO agri_click_stats(day, sector_key, country, clicks)
        VALUES(current_date, $1, $2, 1)
        ON CONFLICT (day, sector_key, country) DO UPDATE SET clicks=agri_click_stats.clicks+1`, sector, country)
	if err != nil {
		return err
	}
	logger.L().Debug("stats_click", "sector", sector, "country", country)
	return nil
}

// ClickStat: 点击统计行
type ClickStat struct {
	Sector  string `json:"sector"`
	Country string `json:"country"`
	Clicks  int64  `json:"clicks"`
}

// 文档注释：最近窗口内点击最多的 (板块, 国家)
// 参数：days 为最近天数（含当日），limit 为最大返回数量；非正时取 7 与 20。
func (s *Store) TopClicks(ctx context.Context, days, limit int) ([]ClickStat, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT sector_key, country, SUM(clicks) AS total
        FROM agri_click_stats
        WHERE day > current_date - $1::int
        GROUP BY sector_key, country
        ORDER BY total DESC
        LIMIT $2`, days, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ClickStat{}
	for rows.Next() {
		var c ClickStat
		if err := rows.Scan(&c.Sector, &c.Country, &c.Clicks); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
