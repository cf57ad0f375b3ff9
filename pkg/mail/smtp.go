package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/qualityeducation/eduplatform-api/pkg/config"
)

// Mailer sends plain-text mail. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a single SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer builds a mailer from the SMTP config. Auth is skipped when no
// username is configured, which covers local relays and test servers.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := strings.Builder{}
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
