package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskmgr",
	Short: "任务管理系统后端",
	Long:  `多用户任务管理服务：任务增删改查、按条件查询、截止提醒、统计与附件管理。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env 可选，已存在的环境变量优先
		_ = godotenv.Load(envFile)
	},
	// 不带子命令时直接启动服务
	RunE: runServe,
}

var (
	configFile string
	envFile    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "环境变量文件")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
