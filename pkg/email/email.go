package email

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Dialer sends fully built messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPTransport implements domain.MailTransport over SMTP.
type SMTPTransport struct {
	dialer      Dialer
	senderEmail string
}

// NewSMTPTransport creates a transport using the configured SMTP relay
func NewSMTPTransport(host string, port int, username, password, senderEmail string) *SMTPTransport {
	if senderEmail == "" {
		senderEmail = username // most relays use the login address as sender
	}
	return NewSMTPTransportWithDialer(gomail.NewDialer(host, port, username, password), senderEmail)
}

func NewSMTPTransportWithDialer(dialer Dialer, senderEmail string) *SMTPTransport {
	return &SMTPTransport{dialer: dialer, senderEmail: senderEmail}
}

// Send delivers one HTML email. The SMTP exchange itself is not cancellable;
// ctx is only checked before dialing.
func (t *SMTPTransport) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("email: empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", t.senderEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email: send to %s: %w", to, err)
	}
	return nil
}
