package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/config"
	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"github.com/jacl-coder/MonsterHunter-Server/internal/gateway"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
	"github.com/jacl-coder/MonsterHunter-Server/internal/server"
	"github.com/jacl-coder/MonsterHunter-Server/pkg/db"
	logging "github.com/jacl-coder/MonsterHunter-Server/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	levelPath := flag.String("level", "", "关卡文件路径，覆盖配置中的 game.level_file")
	serviceType := flag.String("service", "all", "服务类型 (game, gateway, all)")
	flag.Parse()

	if err := run(*configPath, *levelPath, *serviceType); err != nil {
		log.Fatal("服务器异常退出", "err", err)
	}
}

func run(configPath, levelPath, serviceType string) error {
	// 加载配置
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	if levelPath == "" {
		levelPath = cfg.Game.LevelFile
	}
	level := game.DefaultLevel()
	if levelPath != "" {
		if level, err = game.LoadLevel(levelPath); err != nil {
			return fmt.Errorf("加载关卡失败: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库连接，未配置时跳过
	conn, err := db.InitPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("初始化PostgreSQL失败: %w", err)
	}
	defer db.Close(conn, logger)

	redisClient, err := db.InitRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("初始化Redis失败: %w", err)
	}
	defer db.CloseRedis(redisClient, logger)

	store := models.NewPostgresStore(conn)
	leaderboard := models.NewRedisLeaderboard(redisClient)
	tokens := gateway.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	var gameServer *server.GameServer
	var gatewayServer *gateway.Gateway

	switch serviceType {
	case "game", "all":
		recorder := server.NewResultRecorder(logger, leaderboard, store)
		gameServer = server.NewGameServer(cfg, level,
			server.WithVerifier(tokens),
			server.WithRecorder(recorder),
			server.WithLogger(logger),
		)
		if err := gameServer.Start(); err != nil {
			return fmt.Errorf("启动游戏服务器失败: %w", err)
		}
		if serviceType == "game" {
			break
		}
		fallthrough
	case "gateway":
		gatewayServer = gateway.NewGateway(cfg, tokens, gateway.Stores{
			Users:       store,
			Feedback:    store,
			Scores:      store,
			Leaderboard: leaderboard,
		}, logger)
		if err := gatewayServer.Start(); err != nil {
			return fmt.Errorf("启动网关服务失败: %w", err)
		}
	default:
		return fmt.Errorf("未知的服务类型: %s", serviceType)
	}

	logger.Info("服务已启动", "service", serviceType, "level", level.Name, "waves", len(level.Waves))

	// 等待中断信号
	<-ctx.Done()
	logger.Info("接收到关闭信号，正在关闭服务器...")

	var g errgroup.Group
	if gameServer != nil {
		g.Go(func() error { return gameServer.Stop(context.Background()) })
	}
	if gatewayServer != nil {
		g.Go(func() error { return gatewayServer.Stop(context.Background()) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("服务器已安全关闭")
	return nil
}
