package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPSettings is the SMTP account read from the settings table.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
}

// MailSender delivers a rendered email.
type MailSender interface {
	Send(ctx context.Context, smtp SMTPSettings, msg EmailMessage) error
}

// MailSenderFunc adapts a function to MailSender.
type MailSenderFunc func(ctx context.Context, smtp SMTPSettings, msg EmailMessage) error

func (f MailSenderFunc) Send(ctx context.Context, smtp SMTPSettings, msg EmailMessage) error {
	return f(ctx, smtp, msg)
}

// SMTPSender sends mail with go-mail. Port 465 uses implicit TLS; any
// other port requires STARTTLS.
type SMTPSender struct{}

func (SMTPSender) Send(ctx context.Context, smtp SMTPSettings, msg EmailMessage) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	opts := []mail.Option{
		mail.WithPort(smtp.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(smtp.Username),
		mail.WithPassword(smtp.Password),
	}
	if smtp.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 {
			opts = append(opts, mail.WithTimeout(d))
		}
	}

	client, err := mail.NewClient(smtp.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send via %s:%d: %w", smtp.Host, smtp.Port, err)
	}
	return nil
}
