// Package mail delivers invitation emails over SMTP.
package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"
)

// Invitation is the data an invitation email needs.
type Invitation struct {
	To          string
	TeamName    string
	InvitedBy   string
	Token       string
	AcceptURL   string
	ExpiresText string
}

// Mailer sends invitation emails.
type Mailer interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

// Config configures the SMTP mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through an SMTP server.
type SMTPMailer struct {
	dialer  sender
	from    string
	baseURL string
}

// New returns an SMTP mailer, or a logging no-op mailer when no host is configured.
func New(cfg Config, logger *slog.Logger) Mailer {
	if strings.TrimSpace(cfg.Host) == "" {
		return NopMailer{logger: logger}
	}
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// SendInvitation sends the invitation email.
func (s *SMTPMailer) SendInvitation(ctx context.Context, inv Invitation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if inv.AcceptURL == "" {
		inv.AcceptURL = AcceptURL(s.baseURL, inv.Token)
	}
	if err := s.dialer.DialAndSend(s.invitationMessage(inv)); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	return nil
}

func (s *SMTPMailer) invitationMessage(inv Invitation) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", inv.To)
	m.SetHeader("Subject", fmt.Sprintf("You're invited to join %s", inv.TeamName))

	body := fmt.Sprintf(`
		<h2>Join %s</h2>
		<p>%s invited you to collaborate on their team.</p>
		<p><a href="%s">Accept the invitation</a></p>
	`, html.EscapeString(inv.TeamName), html.EscapeString(inv.InvitedBy), html.EscapeString(inv.AcceptURL))
	if inv.ExpiresText != "" {
		body += fmt.Sprintf("<p>The invitation expires %s.</p>", html.EscapeString(inv.ExpiresText))
	}

	m.SetBody("text/html", body)
	return m
}

// AcceptURL builds the link a recipient follows to accept an invitation.
func AcceptURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/invitations/" + token + "/accept"
}

// NopMailer logs invitations instead of sending them.
type NopMailer struct {
	logger *slog.Logger
}

// SendInvitation logs the invitation.
func (n NopMailer) SendInvitation(_ context.Context, inv Invitation) error {
	if n.logger != nil {
		n.logger.Info("smtp not configured, invitation email skipped", "to", inv.To, "team", inv.TeamName)
	}
	return nil
}
