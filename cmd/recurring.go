package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "周期性支出",
}

var recurringGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "立即生成截至今天到期的周期性支出",
	Long:  `与 serve 中的定时任务执行相同的逻辑，适合交给系统 cron 调度。重复执行不会重复生成。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.services.Recurring.Generate(cmd.Context())
		if res != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d 个模板，生成 %d 条支出\n", res.Date, res.Templates, res.Generated)
		}
		return err
	},
}

func init() {
	recurringCmd.AddCommand(recurringGenerateCmd)
}
