package auth

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
)

// SMTPConfig carries the dispatcher settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer renders an embedded template and delivers it over SMTP with
// plain auth. It satisfies Mailer; tests and alternative transports swap in
// their own implementation.
type SMTPMailer struct {
	cfg       SMTPConfig
	templates *template.Template
	logger    Logger
}

// NewSMTPMailer parses the embedded mail templates and returns a dispatcher.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	templates, err := template.ParseFS(GetMailsFS(), "mails/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	if cfg.From == "" {
		cfg.From = cfg.User
	}

	return &SMTPMailer{
		cfg:       cfg,
		templates: templates,
		logger:    defLogger{},
	}, nil
}

func (m *SMTPMailer) WithLogger(logger Logger) *SMTPMailer {
	if logger != nil {
		m.logger = logger
	}
	return m
}

var _ Mailer = (*SMTPMailer)(nil)

// Send renders mail.Template with mail.Data and delivers the message.
// Rendering failures and transport failures are both delivery errors to the
// caller.
func (m *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	body, err := m.render(mail.Template, mail.Data)
	if err != nil {
		return err
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", mail.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mail.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.From, []string{mail.To}, msg.Bytes())
	}()

	// smtp.SendMail has no context support; honor cancellation here so a
	// stuck SMTP server cannot pin the registration request forever.
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *SMTPMailer) render(name string, data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return nil, fmt.Errorf("failed to render mail template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
