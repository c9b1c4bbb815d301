package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"game-portal-cms/internal/adapter/notification"
	"game-portal-cms/internal/api/router"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/internal/pkg/database"
	"game-portal-cms/internal/pkg/logger"
	"game-portal-cms/internal/scheduler"
	"game-portal-cms/internal/service"

	_ "game-portal-cms/docs" // Swagger docs
)

// @title Game Portal CMS API
// @version 1.0
// @description 网页游戏门户内容管理 API
// @description 提供分类、游戏库、项目、项目游戏、评论与 AI 文案生成

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

var (
	configFile = flag.String("config", "", "配置文件路径 (例如: -config=configs/config.yaml)")
	version    = flag.Bool("version", false, "显示版本信息")
	importFile = flag.String("import", "", "导入游戏目录文件后退出 (YAML/JSON)")
)

const (
	appVersion = "1.0.0"
	appName    = "game-portal-cms"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		fmt.Println("\n使用方式:")
		fmt.Println("  1. 命令行参数指定: ./game-portal-cms -config=configs/config.yaml")
		fmt.Println("  2. 环境变量指定:   export CONFIG_FILE=configs/config.yaml")
		fmt.Println("  3. 使用默认配置:   ./game-portal-cms  (将使用 configs/config.yaml)")
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Close()
	}()
	logger.Info(fmt.Sprintf("Load config file: %s of %s", configPath, getConfigSource()))
	logger.Info(fmt.Sprintf("服务 %s 启动中...", appName), zap.String("version", appVersion))

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}
	defer func() {
		_ = database.Close()
	}()
	logger.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver), zap.String("database", cfg.Database.Database))

	notifier := notification.New(&cfg.Notification, logger.Log)
	services, err := service.NewServices(cfg, database.GetDB(), notifier)
	if err != nil {
		logger.Fatal("初始化服务失败", zap.Error(err))
	}

	if *importFile != "" {
		runImport(services, *importFile)
		return
	}

	taskScheduler := scheduler.NewScheduler(services.Comment, notifier, logger.Log)
	if err := taskScheduler.Start(&cfg.Comment); err != nil {
		logger.Warn("定时任务调度器启动失败", zap.Error(err))
	}

	r := router.Setup(cfg, services)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("%s 服务启动成功", cfg.Server.Name),
			zap.String("address", addr),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务正在关闭...")

	taskScheduler.Stop()
	logger.Info("定时任务调度器已停止")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
}

func runImport(services *service.Services, path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := services.Import.ImportFile(ctx, path)
	if err != nil {
		logger.Fatal("导入游戏目录失败", zap.String("file", path), zap.Error(err))
	}
	logger.Info("导入游戏目录完成",
		zap.String("file", path),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("categories_created", result.CategoriesCreated),
	)
}

// getConfigPath 优先级: 命令行参数 > 环境变量 > 默认路径
func getConfigPath() string {
	if *configFile != "" {
		return *configFile
	}
	if envConfig := os.Getenv("CONFIG_FILE"); envConfig != "" {
		return envConfig
	}
	return "configs/config.yaml"
}

func getConfigSource() string {
	if *configFile != "" {
		return "命令行参数"
	}
	if os.Getenv("CONFIG_FILE") != "" {
		return "环境变量"
	}
	return "默认配置"
}
