package service

import (
	"fmt"

	"planner/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 是否已启用且配置了提醒收件人
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled && s.cfg.AlertTo != ""
}

// SendBudgetAlert 发送预算超支提醒
func (s *EmailService) SendBudgetAlert(st BudgetStatus) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 PLANNER_EMAIL_ENABLED=true")
	}
	if s.cfg.AlertTo == "" {
		return fmt.Errorf("未配置预算提醒收件人 email.alert_to")
	}

	subject := fmt.Sprintf("【计划助手】%s预算已超支", st.CategoryName())
	body := s.generateBudgetAlertBody(st)

	return s.sendEmail(s.cfg.AlertTo, subject, body)
}

var periodNames = map[string]string{
	"daily":   "每日",
	"weekly":  "每周",
	"monthly": "每月",
	"yearly":  "每年",
}

// generateBudgetAlertBody 生成预算提醒邮件内容
func (s *EmailService) generateBudgetAlertBody(st BudgetStatus) string {
	period := periodNames[st.Budget.Period]
	if period == "" {
		period = st.Budget.Period
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #ef4444, #dc2626); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        td { padding: 10px; border-bottom: 1px solid #eee; color: #333; }
        td.num { text-align: right; font-family: 'Courier New', monospace; }
        .over { color: #dc2626; font-weight: bold; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📊 预算提醒</h1>
        </div>
        <div class="content">
            <p>您的 <strong>%s</strong> %s预算（%s 至 %s）已超支：</p>
            <table>
                <tr><td>预算金额</td><td class="num">%s</td></tr>
                <tr><td>已支出</td><td class="num">%s</td></tr>
                <tr><td>超出</td><td class="num over">%s</td></tr>
                <tr><td>使用率</td><td class="num over">%d%%</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`, st.CategoryName(), period, st.Window.Start, st.Window.End,
		st.Budget.Amount.StringFixed(2), st.Spent.StringFixed(2), st.Remaining.Neg().StringFixed(2), st.UsedPercentage)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "【计划助手】邮件配置测试"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明邮件服务配置正确，预算超支时将向此地址发送提醒。</p>
    <p style="color: #666;">计划助手</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
