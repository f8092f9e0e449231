// AngelaMos | 2026
// mailer.go

package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/angelamos/storefront/internal/config"
)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer dispatches transactional email. Delivery failure never blocks
// state that has already been committed.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail over SMTP with STARTTLS and plain auth.
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close() //nolint:errcheck // cleanup on handshake failure
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Close() //nolint:errcheck // best-effort close

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: m.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("start tls: %w", err)
		}
	}

	if m.cfg.User != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	from := msg.From
	if from == "" {
		from = m.cfg.From
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	if _, err := writer.Write([]byte(formatMessage(from, msg))); err != nil {
		_ = writer.Close() //nolint:errcheck // write already failed
		return fmt.Errorf("write message: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}

	return nil
}

func formatMessage(from string, msg Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	return b.String()
}

// ResetEmail builds the password-reset message for a given reset link.
func ResetEmail(from, to, resetURL string) Message {
	html := fmt.Sprintf(`
<div style="border: 1px solid black; padding: 20px; font-family: sans-serif; line-height: 2; font-size: 20px;">
  <h2>Hello there,</h2>
  <p>Your password reset link is below. It is valid for one hour.</p>
  <p><a href="%s">Click here to reset your password</a></p>
</div>`, resetURL)

	return Message{
		From:    from,
		To:      to,
		Subject: "Your Password Reset Link",
		HTML:    html,
	}
}
