// Package mailer sends transactional mail over SMTP.  The only message the
// system sends today is the credentials mail for a freshly provisioned
// operator account.  Sending is best-effort: a failure is returned to the
// caller, which falls back to handing the temporary password back in the API
// response instead of dropping it.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/restspot/restspot/internal/config"
)

// Mailer wraps an SMTP endpoint.  A Mailer built from a config without
// SMTP_HOST is a disabled mailer whose sends always fail, which exercises
// the degraded-mode path deliberately in development environments.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func New(cfg config.Config) *Mailer {
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// SendOperatorCredentials mails a new operator their temporary password.
// The ctx deadline is honored only up to connection setup; net/smtp itself
// has no context support, so the caller's request timeout bounds the rest.
func (m *Mailer) SendOperatorCredentials(ctx context.Context, email, name, tempPassword string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer disabled: no SMTP host configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body := m.credentialsMessage(email, name, tempPassword)
	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{email}, body)
}

// credentialsMessage renders the RFC 5322 message for the credentials mail.
func (m *Mailer) credentialsMessage(email, name, tempPassword string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", email)
	b.WriteString("Subject: Your operator account\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Hello %s,\r\n\r\n", name)
	b.WriteString("An operator account has been created for you.\r\n\r\n")
	fmt.Fprintf(&b, "Login email: %s\r\nTemporary password: %s\r\n\r\n", email, tempPassword)
	b.WriteString("Please log in and change this password.\r\n")
	return []byte(b.String())
}
