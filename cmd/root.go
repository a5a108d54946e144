package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"planner/config"
	"planner/logger"
)

var (
	configFile string
	appConfig  *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "个人计划服务：习惯打卡、目标任务与支出预算",
	Long: `planner 提供习惯打卡、目标与任务、支出与预算管理的 REST 接口。

配置优先级: 环境变量 (PLANNER_*) > 外部配置文件 > 内置默认配置。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup()
	},
}

// Execute 命令入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(recurringCmd)
	rootCmd.AddCommand(emailCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup 加载配置并初始化日志
func setup() error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	appConfig = cfg
	return nil
}
