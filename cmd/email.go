package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"planner/service"
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "邮件提醒",
}

var emailTestCmd = &cobra.Command{
	Use:   "test [收件地址]",
	Short: "发送测试邮件，检查 SMTP 配置",
	Long:  `未指定收件地址时发送到 email.alert_to。`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to := appConfig.Email.AlertTo
		if len(args) == 1 {
			to = args[0]
		}
		if to == "" {
			return fmt.Errorf("请指定收件地址或配置 email.alert_to")
		}
		if err := service.NewEmailService(&appConfig.Email).SendTestEmail(to); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "测试邮件已发送到 %s\n", to)
		return nil
	},
}

func init() {
	emailCmd.AddCommand(emailTestCmd)
}
