package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avocadev/blog-api/internal/config"
	"github.com/avocadev/blog-api/internal/database"
	"github.com/avocadev/blog-api/internal/storage"
	"github.com/avocadev/blog-api/internal/store"
	"github.com/avocadev/blog-api/internal/task"
)

// sweepCmd 手动执行一轮孤儿图片清理
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "清理孤儿图片",
	Long:  `删除超过宽限期、既无文章关联又未被用作缩略图的图片对象和记录`,
	Run: func(cmd *cobra.Command, args []string) {
		runSweep()
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.GetConfig()
	blobs, err := storage.New(&cfg.Storage)
	if err != nil {
		fmt.Printf("初始化对象存储失败: %v\n", err)
		os.Exit(1)
	}

	grace := time.Duration(cfg.Task.SweepGraceMinutes) * time.Minute
	sweeper := task.NewSweeper(store.NewGormImageStore(database.GetDB()), blobs, grace)
	if err := sweeper.SweepOnce(context.Background()); err != nil {
		fmt.Printf("清理失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("清理完成")
}
