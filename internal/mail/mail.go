package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"crewdesk.org/internal/obs"
)

// LogMailer renders verification and reset links from the public base URL and
// emits them as structured log events instead of sending real email. It is
// the delivery collaborator for demo and development environments; an SMTP
// implementation can replace it behind account.Mailer.
type LogMailer struct {
	baseURL string
}

// NewLogMailer constructs a LogMailer. The base URL is the public frontend
// origin the links should land on.
func NewLogMailer(baseURL string) *LogMailer {
	return &LogMailer{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// SendVerification logs the email-verification link for the recipient.
func (m *LogMailer) SendVerification(ctx context.Context, email, name, token string) error {
	return m.emit("verification", email, name, m.link("/verify-email", email, token))
}

// SendPasswordReset logs the password-reset link for the recipient.
func (m *LogMailer) SendPasswordReset(ctx context.Context, email, name, token string) error {
	return m.emit("password_reset", email, name, m.link("/reset-password", email, token))
}

func (m *LogMailer) link(path, email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return fmt.Sprintf("%s%s?%s", m.baseURL, path, q.Encode())
}

func (m *LogMailer) emit(template, email, name, link string) error {
	obs.LogJSON(map[string]any{
		"ts":       time.Now().UTC().Format(time.RFC3339Nano),
		"type":     "mail",
		"template": template,
		"to":       email,
		"name":     name,
		"link":     link,
	})
	return nil
}
