package mailx

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("ops@example.com", "amine@example.com", "Réponse à votre message", "<p>a\nb</p>"))

	if !strings.Contains(msg, "To: amine@example.com\r\n") {
		t.Errorf("missing To header: %q", msg)
	}
	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Errorf("subject should be Q-encoded: %q", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/html; charset=\"UTF-8\"") {
		t.Errorf("missing html content type")
	}
	if !strings.HasSuffix(msg, "<p>a\r\nb</p>") {
		t.Errorf("body line endings not normalized: %q", msg)
	}
}

func TestSMTPSender(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "user", "pass", "ops@example.com")

	var gotAddr string
	var gotTo []string
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		return nil
	}
	if err := s.Send(context.Background(), "amine@example.com", "hi", "<p>x</p>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("want smtp.example.com:587, got %s", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "amine@example.com" {
		t.Errorf("unexpected recipients %v", gotTo)
	}

	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay down") }
	if err := s.Send(context.Background(), "amine@example.com", "hi", "x"); err == nil {
		t.Errorf("want error from relay")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, "amine@example.com", "hi", "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}
