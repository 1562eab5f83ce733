package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/go-marketing-api/internal/config"
)

// Mailer sends campaign emails through a plain SMTP relay. Used in
// development and as a fallback when SES is not configured.
type Mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.EmailFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// SendEmail delivers one HTML email. SMTP has no provider message id, so
// the returned id is always empty.
func (m *Mailer) SendEmail(_ context.Context, to, subject, html string) (string, error) {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, html)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return "", err
	}
	return "", nil
}
