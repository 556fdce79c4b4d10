package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	texttemplate "text/template"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gopkg.in/gomail.v2"

	"github.com/lovelingo/waitlist-api/internal/entity"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var (
	htmlTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))

	emailsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_dispatched_total",
			Help: "Total number of transactional email attempts",
		},
		[]string{"kind", "status"},
	)
)

// Config is the environment-shaped transport configuration. Which
// profile wins is decided once, in NewEmailSender.
type Config struct {
	Host        string
	Port        int
	User        string
	Password    string
	From        string // defaults to User
	NotifyTo    string // team mailbox, defaults to User
	SendGridKey string
}

// EmailSender holds the one dialer every send goes through. Safe for
// concurrent use; construct it once at startup and inject it.
type EmailSender struct {
	dialer   *gomail.Dialer
	from     string
	notifyTo string
}

// NewEmailSender picks the transport profile in priority order: the
// Gmail host, then a SendGrid API key, then plain SMTP values.
func NewEmailSender(cfg Config) *EmailSender {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	notifyTo := cfg.NotifyTo
	if notifyTo == "" {
		notifyTo = cfg.User
	}

	return &EmailSender{
		dialer:   dialerFor(cfg),
		from:     from,
		notifyTo: notifyTo,
	}
}

func dialerFor(cfg Config) *gomail.Dialer {
	if cfg.Host == "smtp.gmail.com" {
		port := cfg.Port
		if port == 0 {
			port = 587
		}
		// App Password, not the account password.
		return gomail.NewDialer(cfg.Host, port, cfg.User, cfg.Password)
	}

	if cfg.SendGridKey != "" {
		return gomail.NewDialer("smtp.sendgrid.net", 587, "apikey", cfg.SendGridKey)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Port == 465
	return d
}

// SendWelcome delivers the rich welcome message with a plain-text
// alternative. This is the critical send: the error goes back to the
// caller, who decides how loudly to log it.
func (s *EmailSender) SendWelcome(entry *entity.WaitlistEntry) error {
	m, err := s.buildWelcomeMessage(entry)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		emailsDispatched.WithLabelValues("welcome", "failed").Inc()
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	emailsDispatched.WithLabelValues("welcome", "sent").Inc()
	log.Printf("Welcome email sent to %s", entry.Email)
	return nil
}

// SendAdminNotification tells the team about a new signup. Best-effort:
// failures are logged here and never propagate.
func (s *EmailSender) SendAdminNotification(entry *entity.WaitlistEntry) {
	m, err := s.buildAdminMessage(entry)
	if err != nil {
		log.Printf("Notification email render failed: %v", err)
		return
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		emailsDispatched.WithLabelValues("notification", "failed").Inc()
		log.Printf("Notification email failed: %v", err)
		return
	}

	emailsDispatched.WithLabelValues("notification", "sent").Inc()
}

// Verify exercises the SMTP handshake without sending a message.
func (s *EmailSender) Verify() bool {
	conn, err := s.dialer.Dial()
	if err != nil {
		log.Printf("Mail transport verification failed: %v", err)
		return false
	}
	conn.Close()
	return true
}

func (s *EmailSender) buildWelcomeMessage(entry *entity.WaitlistEntry) (*gomail.Message, error) {
	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "welcome.html", entry); err != nil {
		return nil, fmt.Errorf("welcome template: %w", err)
	}

	var text bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, "welcome.txt", entry); err != nil {
		return nil, fmt.Errorf("welcome text template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, "LoveLingo Team"))
	m.SetHeader("To", entry.Email)
	m.SetHeader("Subject", "💕 Welcome to LoveLingo - Your Language Love Story Begins!")
	m.SetBody("text/plain", text.String())
	m.AddAlternative("text/html", html.String())
	return m, nil
}

func (s *EmailSender) buildAdminMessage(entry *entity.WaitlistEntry) (*gomail.Message, error) {
	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "notification.html", entry); err != nil {
		return nil, fmt.Errorf("notification template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, "LoveLingo Notifications"))
	m.SetHeader("To", s.notifyTo)
	m.SetHeader("Subject", fmt.Sprintf("🎉 New LoveLingo Waitlist Signup: %s", entry.Name))
	m.SetBody("text/plain", fmt.Sprintf("New signup: %s (%s) wants to learn %s",
		entry.Name, entry.Email, entry.Language))
	m.AddAlternative("text/html", html.String())
	return m, nil
}
