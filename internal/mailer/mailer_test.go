package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	settingsdomain "github.com/Nonie001/chns/internal/settings/domain"
)

type stubSettings struct {
	cfg settingsdomain.SMTPConfig
}

func (s *stubSettings) Get(ctx context.Context) (*settingsdomain.EmailSettings, error) { return nil, nil }
func (s *stubSettings) Update(ctx context.Context, req settingsdomain.UpdateRequest) error {
	return nil
}
func (s *stubSettings) ResolveSMTP(ctx context.Context) settingsdomain.SMTPConfig { return s.cfg }
func (s *stubSettings) Signer(ctx context.Context) (string, string, string)       { return "", "", "" }

type capturingSendCloser struct {
	from string
	to   []string
	body bytes.Buffer
}

func (c *capturingSendCloser) Send(from string, to []string, msg io.WriterTo) error {
	c.from = from
	c.to = append([]string(nil), to...)
	_, err := msg.WriteTo(&c.body)
	return err
}

func (c *capturingSendCloser) Close() error { return nil }

func completeConfig() settingsdomain.SMTPConfig {
	return settingsdomain.SMTPConfig{
		Host:        "smtp.example.com",
		Port:        587,
		User:        "noreply@example.com",
		Password:    "secret",
		SenderEmail: "donations@example.com",
		SenderName:  "มูลนิธิทดสอบ",
	}
}

func TestSendReceiptIncompleteConfig(t *testing.T) {
	dialed := false
	m := &Mailer{
		settings: &stubSettings{cfg: settingsdomain.SMTPConfig{Host: "smtp.example.com"}},
		log:      zap.NewNop(),
		dial: func(cfg settingsdomain.SMTPConfig) (gomail.SendCloser, error) {
			dialed = true
			return nil, errors.New("must not dial")
		},
	}

	if m.SendReceipt(context.Background(), "donor@example.com", "สมชาย", []byte("pdf"), "A1B2C3D4") {
		t.Error("expected false with incomplete config")
	}
	if dialed {
		t.Error("incomplete config must not open a connection")
	}
}

func TestSendReceiptSuccess(t *testing.T) {
	sc := &capturingSendCloser{}
	m := &Mailer{
		settings: &stubSettings{cfg: completeConfig()},
		log:      zap.NewNop(),
		dial: func(cfg settingsdomain.SMTPConfig) (gomail.SendCloser, error) {
			return sc, nil
		},
	}

	ok := m.SendReceipt(context.Background(), "donor@example.com", "สมชาย ใจดี", []byte("%PDF fake"), "A1B2C3D4")
	if !ok {
		t.Fatal("expected send to succeed")
	}
	if len(sc.to) != 1 || sc.to[0] != "donor@example.com" {
		t.Errorf("to = %v", sc.to)
	}
	if sc.from != "donations@example.com" {
		t.Errorf("from = %q", sc.from)
	}
	raw := sc.body.String()
	if !strings.Contains(raw, "receipt-A1B2C3D4.pdf") {
		t.Error("attachment filename missing from message")
	}
	if !strings.Contains(raw, "application/pdf") {
		t.Error("attachment content type missing from message")
	}
}

func TestSendReceiptDialFailure(t *testing.T) {
	m := &Mailer{
		settings: &stubSettings{cfg: completeConfig()},
		log:      zap.NewNop(),
		dial: func(cfg settingsdomain.SMTPConfig) (gomail.SendCloser, error) {
			return nil, errors.New("connection refused")
		},
	}

	if m.SendReceipt(context.Background(), "donor@example.com", "สมชาย", []byte("pdf"), "A1B2C3D4") {
		t.Error("expected false when the connection cannot be opened")
	}
}
