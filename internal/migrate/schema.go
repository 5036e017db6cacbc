package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"agri-map/internal/logger"
)

// schema 按顺序执行；全部使用 IF NOT EXISTS，可重复运行
var schema = []string{
	`CREATE TABLE IF NOT EXISTS agri_sectors (
        key TEXT PRIMARY KEY,
        name TEXT NOT NULL DEFAULT '',
        icon TEXT NOT NULL DEFAULT '',
        color TEXT NOT NULL DEFAULT '',
        ord INT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS agri_regions (
        id SERIAL PRIMARY KEY,
        sector_key TEXT NOT NULL REFERENCES agri_sectors(key) ON DELETE CASCADE,
        region_id TEXT NOT NULL DEFAULT '',
        name TEXT NOT NULL DEFAULT '',
        country TEXT NOT NULL DEFAULT '',
        polygon JSONB NOT NULL DEFAULT '[]'::jsonb,
        properties JSONB NOT NULL DEFAULT '{}'::jsonb,
        ord INT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_agri_regions_sector_ord ON agri_regions(sector_key, ord)`,
	`CREATE TABLE IF NOT EXISTS agri_click_stats (
        day DATE NOT NULL,
        sector_key TEXT NOT NULL,
        country TEXT NOT NULL,
        clicks BIGINT NOT NULL DEFAULT 0,
        PRIMARY KEY (day, sector_key, country)
    )`,
}

// 背景：首次运行自动创建目录与点击统计表
// 约束：仅创建最小必需结构，不做破坏性变更
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range schema {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done", "stmts", len(schema))
	return nil
}
