package db

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v8"
	"github.com/jacl-coder/MonsterHunter-Server/config"
)

// InitRedis 初始化Redis连接，未配置时返回 nil
func InitRedis(ctx context.Context, cfg config.RedisConfig, logger *log.Logger) (*redis.Client, error) {
	if !cfg.Enabled() {
		logger.Warn("未配置Redis，排行榜已禁用")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(pingCtx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	logger.Info("成功连接到Redis服务器", "addr", cfg.GetRedisAddr())
	return client, nil
}

// CloseRedis 关闭Redis连接
func CloseRedis(client *redis.Client, logger *log.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Error("关闭Redis连接时发生错误", "err", err)
		return
	}
	logger.Info("Redis连接已关闭")
}
