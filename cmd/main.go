package main

import (
	"flag"
	"fmt"

	"github.com/myysophia/maintmanager-backend/internal/config"
	"github.com/myysophia/maintmanager-backend/internal/db"
	"github.com/myysophia/maintmanager-backend/internal/logger"
	"github.com/myysophia/maintmanager-backend/internal/store"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件路径或目录")
	backupPath := flag.String("backup", "", "备份数据库到指定文件后退出")
	restorePath := flag.String("restore", "", "从指定备份文件恢复数据库后退出")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(&cfg.Log); err != nil {
		panic(fmt.Sprintf("初始化日志系统失败: %v", err))
	}
	defer logger.Sync()

	logger.Info("维护记录管理系统数据层启动中...", zap.String("env", cfg.App.Env))

	// 初始化数据库连接池
	database, err := db.New(&cfg.Database)
	if err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}

	st := store.New(database, cfg)
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()

	switch {
	case *backupPath != "":
		if err := st.Backup.Backup(*backupPath); err != nil {
			logger.Fatal("备份数据库失败", zap.Error(err))
		}
		logger.Info("备份完成", zap.String("output", *backupPath))
	case *restorePath != "":
		if err := st.Backup.Restore(*restorePath); err != nil {
			logger.Fatal("恢复数据库失败", zap.Error(err))
		}
		logger.Info("恢复完成", zap.String("input", *restorePath))
	default:
		// 无子命令时只做连通性检查，供桌面外壳启动前自检
		if _, err := st.Reports.TotalRecordCount(); err != nil {
			logger.Fatal("数据库连通性检查失败", zap.Error(err))
		}
		logger.Info("数据库连通性检查通过")
	}
}
