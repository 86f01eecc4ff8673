// Package mail delivers operator alerts over SMTP with STARTTLS.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Notifier implements out.Notifier by sending one email per alert.
type Notifier struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	recipients []string

	// send is swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Options configures the notifier.
type Options struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// NewNotifier creates an SMTP notifier.
func NewNotifier(opts Options) *Notifier {
	return &Notifier{
		host:       opts.Host,
		port:       opts.Port,
		username:   opts.Username,
		password:   opts.Password,
		from:       opts.From,
		recipients: opts.Recipients,
		send:       smtp.SendMail,
	}
}

// Notify sends one alert email to every configured recipient.
func (n *Notifier) Notify(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(n.recipients) == 0 {
		return fmt.Errorf("no alert recipients configured")
	}

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	msg := n.message(subject, body)

	if err := n.send(addr, auth, n.from, n.recipients, msg); err != nil {
		return fmt.Errorf("send alert mail: %w", err)
	}
	return nil
}

func (n *Notifier) message(subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
