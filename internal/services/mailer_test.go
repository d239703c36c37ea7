package services

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
	"time"
)

func TestDefaultingMailerFillsSender(t *testing.T) {
	next := &recordingMailer{}
	mailer := &defaultingMailer{next: next, from: "shop@example.com"}

	if err := mailer.Send(context.Background(), Message{To: "asha@example.com", Subject: "hi", Text: "x"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := next.sent()[0].From; got != "shop@example.com" {
		t.Fatalf("From = %q, want default sender", got)
	}

	_ = mailer.Send(context.Background(), Message{To: "asha@example.com", From: "other@example.com", Text: "x"})
	if got := next.sent()[1].From; got != "other@example.com" {
		t.Fatalf("From = %q, explicit sender overwritten", got)
	}
}

func TestDefaultingMailerRejectsMissingRecipient(t *testing.T) {
	next := &recordingMailer{}
	mailer := &defaultingMailer{next: next, from: "shop@example.com"}

	if err := mailer.Send(context.Background(), Message{Subject: "hi", Text: "x"}); err == nil {
		t.Fatal("expected error for message without recipient")
	}
	if len(next.sent()) != 0 {
		t.Fatal("message without recipient reached the transport")
	}
}

type deadlineMailer struct {
	deadline time.Time
	ok       bool
}

func (m *deadlineMailer) Send(ctx context.Context, _ Message) error {
	m.deadline, m.ok = ctx.Deadline()
	return nil
}

func TestDefaultingMailerAppliesTimeout(t *testing.T) {
	next := &deadlineMailer{}
	mailer := &defaultingMailer{next: next, timeout: 15 * time.Second}

	before := time.Now()
	_ = mailer.Send(context.Background(), Message{To: "asha@example.com", Text: "x"})
	if !next.ok {
		t.Fatal("transport context has no deadline")
	}
	if d := next.deadline.Sub(before); d <= 0 || d > 16*time.Second {
		t.Fatalf("deadline %v after send, want about 15s", d)
	}
}

func TestNewMailerSelectsTransport(t *testing.T) {
	tests := []struct {
		name string
		cfg  MailerConfig
		want any
	}{
		{"sendgrid", MailerConfig{SendGridAPIKey: "SG.key", SMTPHost: "smtp.example.com"}, &SendGridMailer{}},
		{"smtp", MailerConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}, &SMTPMailer{}},
		{"log", MailerConfig{}, &LogMailer{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer, ok := NewMailer(tt.cfg).(*defaultingMailer)
			if !ok {
				t.Fatal("NewMailer did not wrap the transport")
			}
			var matched bool
			switch tt.want.(type) {
			case *SendGridMailer:
				_, matched = mailer.next.(*SendGridMailer)
			case *SMTPMailer:
				_, matched = mailer.next.(*SMTPMailer)
			case *LogMailer:
				_, matched = mailer.next.(*LogMailer)
			}
			if !matched {
				t.Fatalf("transport = %T, want %T", mailer.next, tt.want)
			}
		})
	}
}

func TestLogMailerWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	mailer := NewLogMailer(log.New(&buf, "", 0))

	if err := mailer.Send(context.Background(), Message{To: "asha@example.com", Subject: "Your OTP for Shop Order", Text: "Your OTP is 123456."}); err != nil {
		t.Fatalf("send: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"To: asha@example.com", "Subject: Your OTP for Shop Order", "123456"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}

func TestBuildMIMEMessage(t *testing.T) {
	both := buildMIMEMessage(Message{From: "a@example.com", To: "b@example.com", Subject: "s", Text: "plain", HTML: "<p>rich</p>"})
	if !strings.Contains(both, "multipart/alternative") || !strings.Contains(both, "plain") || !strings.Contains(both, "<p>rich</p>") {
		t.Fatalf("multipart message = %q", both)
	}

	htmlOnly := buildMIMEMessage(Message{From: "a@example.com", To: "b@example.com", Subject: "s", HTML: "<p>rich</p>"})
	if !strings.Contains(htmlOnly, "Content-Type: text/html") || strings.Contains(htmlOnly, "multipart") {
		t.Fatalf("html message = %q", htmlOnly)
	}
}

func TestBuildMIMEMessageKeepsHeadersOnOneLine(t *testing.T) {
	data := orderEmailData{
		OrderID:       "0b6f",
		CustomerName:  "Asha\r\nBcc: victim@evil.example",
		CustomerEmail: "asha@example.com",
		Total:         20,
	}
	_, owner, err := orderConfirmationEmails(data, "owner@shop.example")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	owner.From = "shop@example.com"

	raw := buildMIMEMessage(owner)
	for _, line := range strings.Split(raw, "\r\n") {
		if strings.HasPrefix(line, "Bcc:") {
			t.Fatalf("injected header line in %q", raw)
		}
	}
	if strings.Count(raw, "\n") != strings.Count(raw, "\r\n") {
		t.Fatal("bare line feed in message")
	}
	if !strings.Contains(raw, "Subject: New Order (#0b6f) by Asha Bcc: victim@evil.example\r\n") {
		t.Fatalf("subject not folded onto one line: %q", raw)
	}
}

func TestBuildMIMEMessageEncodesNonASCIISubject(t *testing.T) {
	raw := buildMIMEMessage(Message{From: "a@example.com", To: "b@example.com", Subject: "Order by Zoë", Text: "x"})
	if !strings.Contains(raw, "Subject: =?utf-8?q?") {
		t.Fatalf("subject not encoded: %q", raw)
	}
}

func TestParseAddress(t *testing.T) {
	tests := map[string]string{
		"Shop <shop@example.com>": "shop@example.com",
		" shop@example.com ":      "shop@example.com",
	}
	for in, want := range tests {
		if got := parseAddress(in); got != want {
			t.Fatalf("parseAddress(%q) = %q, want %q", in, got, want)
		}
	}
}
