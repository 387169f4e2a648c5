// schema.go

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// 统一的数据库表结构定义

// CreateAllTablesSQL 创建所有表的SQL语句
const CreateAllTablesSQL = `
-- 登录用户表，同一名字在不同游戏中各自独立
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    game VARCHAR(50) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    last_seen TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (name, game)
);

-- 反馈问卷表
CREATE TABLE IF NOT EXISTS feedback_submissions (
    id VARCHAR(36) PRIMARY KEY,
    hero TEXT,
    villain TEXT,
    gameplay TEXT,
    setting TEXT,
    math_topic TEXT,
    contact_info TEXT,
    user_name VARCHAR(50),
    game VARCHAR(50) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 单局得分记录表
CREATE TABLE IF NOT EXISTS score_records (
    id VARCHAR(36) PRIMARY KEY,
    session_id VARCHAR(36) NOT NULL,
    player_name VARCHAR(50) NOT NULL,
    level VARCHAR(50) NOT NULL,
    outcome VARCHAR(10) NOT NULL,
    score INT NOT NULL DEFAULT 0,
    wave INT NOT NULL DEFAULT 0,
    kills INT NOT NULL DEFAULT 0,
    duration_ms BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 创建索引
CREATE INDEX IF NOT EXISTS idx_feedback_game_created ON feedback_submissions(game, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_score_records_player ON score_records(player_name, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_score_records_score ON score_records(score DESC);
`

// DropAllTablesSQL 删除所有表的SQL语句
const DropAllTablesSQL = `
DROP TABLE IF EXISTS score_records;
DROP TABLE IF EXISTS feedback_submissions;
DROP TABLE IF EXISTS users;
`

// AllTables 全部表名
var AllTables = []string{"users", "feedback_submissions", "score_records"}

// InitAllTables 创建所有表
func InitAllTables(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, CreateAllTablesSQL); err != nil {
		return fmt.Errorf("创建表失败: %w", err)
	}
	return nil
}

// ResetAllTables 删除并重建所有表
func ResetAllTables(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, DropAllTablesSQL); err != nil {
		return fmt.Errorf("删除表失败: %w", err)
	}
	return InitAllTables(ctx, conn)
}

// TableCounts 每张表的行数，表不存在时为 -1
func TableCounts(ctx context.Context, conn *sql.DB) (map[string]int64, error) {
	counts := make(map[string]int64, len(AllTables))
	for _, table := range AllTables {
		var exists bool
		err := conn.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("检查表 %s 失败: %w", table, err)
		}
		if !exists {
			counts[table] = -1
			continue
		}
		var n int64
		// 表名来自固定列表
		if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("统计表 %s 失败: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
