package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/config"
	"github.com/jacl-coder/MonsterHunter-Server/pkg/db"
	logging "github.com/jacl-coder/MonsterHunter-Server/pkg/logger"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	action := flag.String("action", "help", "操作类型: init, reset, status, help")
	flag.Parse()

	// 显示帮助信息
	if *action == "help" {
		showHelp()
		return
	}

	if err := run(*configPath, *action); err != nil {
		log.Fatal("数据库操作失败", "action", *action, "err", err)
	}
}

func run(configPath, action string) error {
	// 加载配置
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.InitPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("初始化PostgreSQL失败: %w", err)
	}
	if conn == nil {
		return errors.New("配置中未启用数据库 (database.host 为空)")
	}
	defer db.Close(conn, logger)

	// 执行操作
	switch action {
	case "init":
		if err := db.InitAllTables(ctx, conn); err != nil {
			return err
		}
		logger.Info("数据库初始化完成", "tables", db.AllTables)
	case "reset":
		logger.Warn("正在重置数据库，这将删除所有表和数据")
		if err := db.ResetAllTables(ctx, conn); err != nil {
			return err
		}
		logger.Info("数据库重置完成")
	case "status":
		counts, err := db.TableCounts(ctx, conn)
		if err != nil {
			return err
		}
		for _, table := range db.AllTables {
			if n := counts[table]; n < 0 {
				logger.Warn("表不存在", "table", table)
			} else {
				logger.Info("表", "table", table, "rows", n)
			}
		}
	default:
		return fmt.Errorf("未知操作: %s", action)
	}
	return nil
}

// showHelp 显示帮助信息
func showHelp() {
	fmt.Println("MonsterHunter 数据库管理工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  go run ./cmd/dbmanager -action=<操作> [-config=<配置文件>]")
	fmt.Println()
	fmt.Println("操作:")
	fmt.Println("  init    - 初始化数据库（创建表结构）")
	fmt.Println("  reset   - 重置数据库（删除后重建所有表）")
	fmt.Println("  status  - 显示各表行数")
	fmt.Println("  help    - 显示此帮助信息")
}
