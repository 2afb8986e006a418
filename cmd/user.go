package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avocadev/blog-api/internal/database"
	"github.com/avocadev/blog-api/internal/service"
)

// userCmd 用户管理命令
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "用户管理命令",
}

// createUserCmd 创建用户命令
var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "交互式创建用户",
	Run: func(cmd *cobra.Command, args []string) {
		createUser()
	},
}

func init() {
	userCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(userCmd)
}

func createUser() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("用户名: ")
	userName, _ := reader.ReadString('\n')
	userName = strings.TrimSpace(userName)

	fmt.Print("邮箱: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("密码: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Printf("读取密码失败: %v\n", err)
		os.Exit(1)
	}

	if userName == "" || email == "" || len(passwordBytes) == 0 {
		fmt.Println("用户名、邮箱和密码都不能为空")
		os.Exit(1)
	}

	userService := service.NewUserService(database.GetDB())
	if err := userService.CreateUser(context.Background(), uuid.NewString(), userName, email, string(passwordBytes)); err != nil {
		fmt.Printf("创建用户失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("用户 %s 创建成功\n", userName)
}
