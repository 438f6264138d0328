package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

type EmailService interface {
	SendWindowNotification(to string, data WindowNotification) error
}

// WindowNotification is the data rendered into window_notification.html.
type WindowNotification struct {
	Subject            string
	RecipientName      string
	OrganizationName   string
	Window             string
	Status             string
	ScheduleDate       string
	TargetPackageCount *int
	Headline           string
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	backoff   time.Duration
}

func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

// SendWindowNotification renders and sends a VET/VTO notice.
func (s *emailServiceImpl) SendWindowNotification(to string, data WindowNotification) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "window_notification.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, data.Subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	var msg bytes.Buffer
	for _, h := range [][2]string{
		{"From", fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)},
		{"To", to},
		{"Subject", subject},
		{"Date", time.Now().UTC().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="UTF-8"`},
	} {
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], h[1])
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var err error
	wait := s.backoff
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = s.send(addr, auth, s.cfg.From, []string{to}, msg.Bytes()); err == nil {
			slog.Info("Email sent", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}
		slog.Warn("Email send failed", "to", to, "attempt", attempt, "error", err)
		if attempt < maxRetries {
			time.Sleep(wait)
			wait *= 2
		}
	}
	return fmt.Errorf("send email after %d attempts: %w", maxRetries, err)
}
