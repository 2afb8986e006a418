package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avocadev/blog-api/internal/config"
	"github.com/avocadev/blog-api/internal/database"
	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/model"
	"github.com/avocadev/blog-api/internal/router"
	"github.com/avocadev/blog-api/internal/service"
	"github.com/avocadev/blog-api/internal/storage"
	"github.com/avocadev/blog-api/internal/store"
	"github.com/avocadev/blog-api/internal/task"
	"github.com/avocadev/blog-api/pkg/cache"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "blog-api",
	Short: "博客API服务",
	Long:  `个人博客后端服务，支持Markdown文章、缩略图、正文插图、标签和分页浏览`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./configs", "配置文件路径")
	rootCmd.AddCommand(serveCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// initializeSystem 初始化配置、日志和数据库连接
func initializeSystem() error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("配置初始化失败: %v", err)
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("日志初始化失败: %v", err)
	}

	if db := database.GetDB(); db == nil {
		return fmt.Errorf("MySQL数据库连接失败")
	}

	return nil
}

// buildServices 组装服务依赖
func buildServices() (*router.Services, *task.Sweeper, error) {
	cfg := config.GetConfig()
	db := database.GetDB()

	blobs, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化对象存储失败: %v", err)
	}

	var c cache.Cache
	if redisClient := database.GetRedis(); redisClient != nil {
		c = cache.NewRedisCache(redisClient)
	} else {
		c = cache.NewMemoryCache()
	}

	esClient := database.GetES()
	if esClient != nil {
		if err := model.InitESIndices(esClient); err != nil {
			return nil, nil, fmt.Errorf("初始化Elasticsearch索引失败: %v", err)
		}
	}

	articleStore := store.NewGormArticleStore(db)
	imageStore := store.NewGormImageStore(db)
	searchService := service.NewSearchService(esClient)

	svcs := &router.Services{
		Article: service.NewArticleService(articleStore, imageStore, blobs, c, searchService),
		Tag:     service.NewTagService(articleStore, c),
		Image:   service.NewImageService(imageStore, blobs, cfg.Storage.Limit.MaxFileSize, cfg.Storage.Limit.AllowedTypes),
		User:    service.NewUserService(db),
		Search:  searchService,
	}

	var sweeper *task.Sweeper
	if cfg.Task.SweepEnabled {
		grace := time.Duration(cfg.Task.SweepGraceMinutes) * time.Minute
		sweeper = task.NewSweeper(imageStore, blobs, grace)
	}
	return svcs, sweeper, nil
}

// startServer 启动HTTP服务
func startServer() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := model.InitTables(database.GetDB()); err != nil {
		logger.Fatal("初始化数据库表失败", zap.Error(err))
	}

	svcs, sweeper, err := buildServices()
	if err != nil {
		logger.Fatal("组装服务失败", zap.Error(err))
	}

	cfg := config.GetConfig()
	gin.SetMode(cfg.App.Mode)

	r := gin.New()
	if err := router.Setup(r, svcs); err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 配置热加载
	config.Watch(func() {
		logger.Info("配置已热加载")
	})

	if sweeper != nil {
		if err := sweeper.Start(cfg.Task.SweepCron); err != nil {
			logger.Fatal("启动清理任务失败", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP服务启动失败", zap.Error(err))
		}
	}()

	logger.Info("服务已启动", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("关闭服务...")

	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("服务关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
}
