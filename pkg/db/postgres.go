package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/config"
	_ "github.com/lib/pq"
)

// InitPostgres 初始化PostgreSQL连接，未配置时返回 nil
func InitPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *log.Logger) (*sql.DB, error) {
	if !cfg.Enabled() {
		logger.Warn("未配置PostgreSQL，持久化功能已禁用")
		return nil, nil
	}

	conn, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	// 测试连接
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("数据库Ping失败: %w", err)
	}

	logger.Info("成功连接到PostgreSQL数据库", "host", cfg.Host, "db", cfg.DBName)
	return conn, nil
}

// Close 关闭数据库连接
func Close(conn *sql.DB, logger *log.Logger) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		logger.Error("关闭数据库连接时发生错误", "err", err)
		return
	}
	logger.Info("数据库连接已关闭")
}
