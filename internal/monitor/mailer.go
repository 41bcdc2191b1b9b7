package monitor

import (
	"gopkg.in/gomail.v2"

	"dealshub/backend/internal/config"
)

// SMTPMailer sends alert mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer returns nil when SMTP is not configured, which disables
// alerting in the monitor.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	if !cfg.Configured() {
		return nil
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendAlert(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	return d.DialAndSend(msg)
}
