package cmd

import (
	"github.com/spf13/cobra"

	"planner/database"
	"planner/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "建表并写入默认类别与支付方式",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(appConfig.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := database.Seed(db); err != nil {
			return err
		}
		logger.Info("初始化完成")
		return nil
	},
}
