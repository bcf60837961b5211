package feedback

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-gomail/gomail"
)

const sendTimeout = 15 * time.Second

// SMTPConfig holds the outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Enabled reports whether enough is set to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.To != ""
}

// SMTPMailer sends feedback as an HTML email.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, s Submission) error {
	msg := buildMessage(m.cfg, s)

	errChan := make(chan error, 1)
	go func() {
		errChan <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("send feedback mail: %w", err)
		}
		return nil
	case <-time.After(sendTimeout):
		return fmt.Errorf("send feedback mail: timeout after %s", sendTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(cfg SMTPConfig, s Submission) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.From)
	msg.SetHeader("To", cfg.To)
	msg.SetHeader("Subject", "New SereniFi feedback")
	if s.Email != "" {
		msg.SetHeader("Reply-To", s.Email)
	}

	body := strings.ReplaceAll(html.EscapeString(s.Message), "\n", "<br>")
	msg.SetBody("text/html", fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6;">
			<h2>Feedback from the About page</h2>
			<div style="background: #f4f4f4; padding: 15px; margin: 20px 0;">%s</div>
			<hr>
			<p style="color: #666; font-size: 12px;">Sent automatically by SereniFi</p>
		</body>
		</html>
	`, body))
	return msg
}
