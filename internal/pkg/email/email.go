package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/qs3c/gym_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// configured 未配置 SMTP 时所有发送都跳过，不算错误
func (s *Service) configured() bool {
	return s.cfg.SMTPHost != "" && s.cfg.Username != ""
}

// SendExpiry 发送到期提醒给会员
func (s *Service) SendExpiry(to, name, planType string, endDate time.Time, daysRemaining int, expired bool) error {
	if !s.configured() {
		return nil
	}

	var subject, urgencyColor, headline string
	switch {
	case expired:
		subject = "Your Gym Membership Has Expired"
		urgencyColor = "#e53e3e"
		headline = fmt.Sprintf("Your <strong>%s</strong> membership has <strong style=\"color: %s;\">expired</strong>.", planType, urgencyColor)
	case daysRemaining <= 1:
		subject = fmt.Sprintf("URGENT: Your Gym Membership Expires in %d day(s)!", daysRemaining)
		urgencyColor = "#e53e3e"
		headline = fmt.Sprintf("Your <strong>%s</strong> membership <strong style=\"color: %s;\">expires in %d day(s)</strong>.", planType, urgencyColor, daysRemaining)
	case daysRemaining <= 3:
		subject = fmt.Sprintf("Reminder: Gym Membership Expires in %d days", daysRemaining)
		urgencyColor = "#ed8936"
		headline = fmt.Sprintf("Your <strong>%s</strong> membership <strong style=\"color: %s;\">expires in %d days</strong>.", planType, urgencyColor, daysRemaining)
	default:
		subject = fmt.Sprintf("Heads Up: Gym Membership Expires in %d days", daysRemaining)
		urgencyColor = "#667eea"
		headline = fmt.Sprintf("Your <strong>%s</strong> membership <strong style=\"color: %s;\">expires in %d days</strong>.", planType, urgencyColor, daysRemaining)
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #667eea;">GymPro</h2>
        <p>Hello %s,</p>
        <p>%s</p>
        <div style="background-color: #f3f4f6; padding: 15px; border-radius: 8px; margin: 20px 0;">
            <p style="margin: 4px 0;">Plan: <strong>%s</strong></p>
            <p style="margin: 4px 0;">Expiry date: <strong>%s</strong></p>
        </div>
        <p>Please renew your membership to continue enjoying our facilities!</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated reminder from GymPro.</p>
    </div>
</body>
</html>
`, name, headline, planType, endDate.Format("2006-01-02"))

	return s.sendHTML(to, subject, body)
}

// SendAdminExpiryAlert 到期提醒抄送管理员
func (s *Service) SendAdminExpiryAlert(userName, userEmail, planType string, endDate time.Time, daysRemaining int, expired bool) error {
	if !s.configured() || s.cfg.AdminTo == "" {
		return nil
	}

	var subject string
	if expired {
		subject = fmt.Sprintf("Membership Expired: %s", userName)
	} else {
		subject = fmt.Sprintf("Membership Expiring: %s - %d day(s) left", userName, daysRemaining)
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #dc2626;">GymPro Admin</h2>
        <p>A member's subscription needs attention:</p>
        <div style="background-color: #fff3f3; padding: 15px; border-radius: 8px; border-left: 4px solid #f87171; margin: 20px 0;">
            <p style="margin: 4px 0;">Member: <strong>%s</strong> (%s)</p>
            <p style="margin: 4px 0;">Plan: <strong>%s</strong></p>
            <p style="margin: 4px 0;">Expiry date: <strong>%s</strong></p>
            <p style="margin: 4px 0;">Days remaining: <strong>%d</strong></p>
        </div>
        <p>Consider reaching out to the member to discuss renewal options.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">GymPro admin notification.</p>
    </div>
</body>
</html>
`, userName, userEmail, planType, endDate.Format("2006-01-02"), daysRemaining)

	return s.sendHTML(s.cfg.AdminTo, subject, body)
}

// SendResetOTP 发送密码重置 OTP
func (s *Service) SendResetOTP(to, name, code string, expireMinutes int) error {
	if !s.configured() {
		return nil
	}

	subject := "GymPro Password Reset OTP"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #22c55e;">GymPro Password Reset</h2>
        <p>Hello %s,</p>
        <p>You requested to reset your password. Use the OTP below to proceed:</p>
        <div style="background-color: #f0fdf4; padding: 15px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 8px; margin: 20px 0; border: 2px dashed #4ade80; border-radius: 8px;">
            %s
        </div>
        <p>This OTP expires in <strong>%d minutes</strong>.</p>
        <p>If you didn't request this, please ignore this email.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">GymPro - Gym Membership Management.</p>
    </div>
</body>
</html>
`, name, code, expireMinutes)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
