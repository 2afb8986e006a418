package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avocadev/blog-api/internal/database"
	"github.com/avocadev/blog-api/internal/model"
)

// migrateCmd 数据库迁移命令
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移",
	Long:  `创建或更新MySQL表结构，并在启用Elasticsearch时创建索引`,
	Run: func(cmd *cobra.Command, args []string) {
		runMigrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}

	if err := model.InitTables(database.GetDB()); err != nil {
		fmt.Printf("迁移数据库表失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("数据库表迁移完成")

	if es := database.GetES(); es != nil {
		if err := model.InitESIndices(es); err != nil {
			fmt.Printf("创建Elasticsearch索引失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Elasticsearch索引创建完成")
	}
}
