package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outgoing email. At least one of Text or HTML is set.
type Message struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerConfig selects and configures the email transport.
type MailerConfig struct {
	From           string
	Timeout        time.Duration
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
}

// NewMailer picks SendGrid when an API key is configured, SMTP when a host is
// configured, and otherwise a LogMailer that only prints the message.
func NewMailer(cfg MailerConfig) Mailer {
	var transport Mailer
	switch {
	case cfg.SendGridAPIKey != "":
		log.Println("[Mail] using SendGrid API for sending emails")
		transport = NewSendGridMailer(cfg.SendGridAPIKey)
	case cfg.SMTPHost != "":
		log.Printf("[Mail] using SMTP server %s:%d", cfg.SMTPHost, cfg.SMTPPort)
		transport = NewSMTPMailer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		})
	default:
		log.Println("[Mail] no transport configured, emails will be logged, not sent")
		transport = NewLogMailer(nil)
	}
	return &defaultingMailer{next: transport, from: cfg.From, timeout: cfg.Timeout}
}

// defaultingMailer fills in the sender and bounds each send with a timeout.
type defaultingMailer struct {
	next    Mailer
	from    string
	timeout time.Duration
}

func (m *defaultingMailer) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = m.from
	}
	if msg.To == "" {
		return fmt.Errorf("mail %q has no recipient", msg.Subject)
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.next.Send(ctx, msg)
}

// LogMailer records messages in the log instead of delivering them.
type LogMailer struct {
	logger *log.Logger
}

// NewLogMailer writes to logger, or the standard logger when nil.
func NewLogMailer(logger *log.Logger) *LogMailer {
	if logger == nil {
		logger = log.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Printf("--- Email content (not sent) ---\nTo: %s\nFrom: %s\nSubject: %s\n%s%s\n--- End email ---",
		msg.To, msg.From, msg.Subject, msg.Text, msg.HTML)
	return nil
}

// SendGridMailer delivers through the SendGrid v3 mail API.
type SendGridMailer struct {
	client *sendgrid.Client
}

// NewSendGridMailer constructs a SendGridMailer for apiKey.
func NewSendGridMailer(apiKey string) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey)}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	email := sgmail.NewSingleEmail(
		sgmail.NewEmail("", msg.From),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SMTPConfig holds SMTP credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPMailer delivers over SMTP with STARTTLS, or implicit TLS on port 465.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	client, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(parseAddress(msg.From)); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(buildMIMEMessage(msg))); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *SMTPMailer) dial(ctx context.Context) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	dialer := &net.Dialer{}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if m.cfg.Port == 465 {
		conn = tls.Client(conn, &tls.Config{ServerName: m.cfg.Host})
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if m.cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
				_ = client.Close()
				return nil, err
			}
		}
	}
	return client, nil
}

const mimeBoundary = "shop-order-alternative"

func buildMIMEMessage(msg Message) string {
	headers := []string{
		"From: " + headerValue(msg.From),
		"To: " + headerValue(msg.To),
		"Subject: " + mime.QEncoding.Encode("utf-8", headerValue(msg.Subject)),
		"MIME-Version: 1.0",
	}

	switch {
	case msg.Text != "" && msg.HTML != "":
		headers = append(headers,
			fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", mimeBoundary),
			"",
			"--"+mimeBoundary,
			"Content-Type: text/plain; charset=utf-8",
			"",
			msg.Text,
			"--"+mimeBoundary,
			"Content-Type: text/html; charset=utf-8",
			"",
			msg.HTML,
			"--"+mimeBoundary+"--",
		)
	case msg.HTML != "":
		headers = append(headers, "Content-Type: text/html; charset=utf-8", "", msg.HTML)
	default:
		headers = append(headers, "Content-Type: text/plain; charset=utf-8", "", msg.Text)
	}
	return strings.Join(headers, "\r\n")
}

// headerValue folds CR and LF into spaces so a value cannot start a new header.
func headerValue(value string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(value)
}

func parseAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
