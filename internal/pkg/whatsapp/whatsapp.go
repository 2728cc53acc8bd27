package whatsapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qs3c/gym_go_server/config"
)

const apiBase = "https://api.twilio.com/2010-04-01"

// Service 通过 Twilio Messages API 发送 WhatsApp 消息
type Service struct {
	cfg        *config.WhatsAppConfig
	httpClient *http.Client
}

func NewService(cfg *config.WhatsAppConfig) *Service {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		log.Println("Twilio not configured, whatsapp messages will be skipped")
	}
	return &Service{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// configured 未配置 Twilio 时所有发送都跳过，不算错误
func (s *Service) configured() bool {
	return s.cfg.AccountSID != "" && s.cfg.AuthToken != ""
}

// FormatNumber 归一化手机号为 whatsapp:+E.164 格式，
// 无国家码时默认 +91（与原始注册逻辑一致）
func FormatNumber(phone string) string {
	if phone == "" {
		return ""
	}

	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)

	if !strings.HasPrefix(cleaned, "+") {
		switch {
		case strings.HasPrefix(cleaned, "91"):
			cleaned = "+" + cleaned
		case strings.HasPrefix(cleaned, "0"):
			cleaned = "+91" + strings.TrimLeft(cleaned, "0")
		default:
			cleaned = "+91" + cleaned
		}
	}

	return "whatsapp:" + cleaned
}

// SendExpiry 发送到期提醒
func (s *Service) SendExpiry(phone, name, planType string, endDate time.Time, daysRemaining int, expired bool) error {
	var message string
	switch {
	case expired:
		message = fmt.Sprintf("Hi %s! Your %s gym membership has EXPIRED. Please renew to continue your fitness journey!", name, planType)
	case daysRemaining <= 2:
		message = fmt.Sprintf("URGENT: Hi %s! Your %s membership expires in just %d day(s)! Renew now to avoid interruption.", name, planType, daysRemaining)
	default:
		message = fmt.Sprintf("Reminder: Hi %s! Your %s membership expires in %d days (%s). Visit us to renew!", name, planType, daysRemaining, endDate.Format("2006-01-02"))
	}

	return s.Send(phone, message)
}

// Send 发送任意文本消息
func (s *Service) Send(phone, message string) error {
	if !s.configured() {
		return nil
	}

	to := FormatNumber(phone)
	if to == "" {
		return errors.New("invalid phone number")
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.cfg.FromNumber)
	form.Set("To", to)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", apiBase, s.cfg.AccountSID)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("twilio api error (%d): %s", resp.StatusCode, apiErr.Message)
	}

	return nil
}
