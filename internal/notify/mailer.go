package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Message is a single outbound notification.
type Message struct {
	Subject  string
	Template string // template name without the .tmpl extension
	To       []string
	Bcc      []string
	Context  map[string]any
}

// Mailer delivers notification messages. A nil error means the message was
// accepted by the transport; callers treat that as a confirmed send.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPMailer sends messages over SMTP with implicit TLS (port 465 style).
type SMTPMailer struct {
	host      string
	port      string
	username  string
	password  string
	from      string
	templates *template.Template
}

// NewSMTPMailer creates a mailer for the given SMTP endpoint. The embedded
// message templates are parsed eagerly so a broken template fails at startup
// rather than on first send.
func NewSMTPMailer(host, port, username, password, from string) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		from:      from,
		templates: tmpl,
	}, nil
}

// Send renders the message body and delivers it. BCC recipients are included
// in the envelope but not in the headers.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	body, err := m.render(msg)
	if err != nil {
		return err
	}

	conn, err := tls.Dial("tcp", m.host+":"+m.port, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range append(append([]string{}, msg.To...), msg.Bcc...) {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n",
		m.from, strings.Join(msg.To, ", "), msg.Subject)
	if _, err := w.Write([]byte(headers + body)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return nil
}

func (m *SMTPMailer) render(msg *Message) (string, error) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, msg.Template+".tmpl", msg.Context); err != nil {
		return "", fmt.Errorf("render template %s: %w", msg.Template, err)
	}
	return buf.String(), nil
}

// LogMailer logs messages instead of sending them, for environments without
// SMTP configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg *Message) error {
	m.Logger.Info("mail (not sent, SMTP unconfigured)",
		"subject", msg.Subject, "template", msg.Template,
		"to", msg.To, "bcc_count", len(msg.Bcc))
	return nil
}
