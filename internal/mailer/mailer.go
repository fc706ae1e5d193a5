package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/Nonie001/chns/internal/observability/logger"
	settingsdomain "github.com/Nonie001/chns/internal/settings/domain"
)

const (
	verifyTimeout = 10 * time.Second
	sendTimeout   = 60 * time.Second
)

// Dispatcher sends the donor their receipt. It reports success as a bool,
// never an error: email is a best-effort side channel of the approval
// pipeline and must not fail it.
type Dispatcher interface {
	SendReceipt(ctx context.Context, toEmail, toName string, pdf []byte, receiptNo string) bool
}

type Params struct {
	fx.In

	Settings settingsdomain.Service
	Log      *zap.Logger
}

type Mailer struct {
	settings settingsdomain.Service
	log      *zap.Logger

	// dial indirection for tests.
	dial func(cfg settingsdomain.SMTPConfig) (gomail.SendCloser, error)
}

func NewMailer(p Params) Dispatcher {
	return &Mailer{
		settings: p.Settings,
		log:      p.Log.Named("mailer"),
		dial: func(cfg settingsdomain.SMTPConfig) (gomail.SendCloser, error) {
			// gomail selects implicit TLS automatically for port 465 and
			// STARTTLS for everything else.
			d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
			return d.Dial()
		},
	}
}

func (m *Mailer) SendReceipt(ctx context.Context, toEmail, toName string, pdf []byte, receiptNo string) bool {
	cfg := m.settings.ResolveSMTP(ctx)
	if !cfg.Complete() {
		m.log.Error("email settings not configured (settings row and environment both missing fields)",
			zap.String("host", cfg.Host),
			zap.String("user", logger.MaskSecret(cfg.User)),
		)
		return false
	}

	// Connection probe with a bounded timeout. Some providers reject the
	// probe yet accept the real send, so a failure here is only logged.
	if err := m.verify(cfg); err != nil {
		m.log.Warn("smtp verification failed, attempting send anyway", zap.Error(err))
	}

	msg := m.compose(cfg, toEmail, toName, pdf, receiptNo)

	sendErr := make(chan error, 1)
	go func() {
		sc, err := m.dial(cfg)
		if err != nil {
			sendErr <- err
			return
		}
		defer sc.Close()
		sendErr <- gomail.Send(sc, msg)
	}()

	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()
	select {
	case err := <-sendErr:
		if err != nil {
			m.log.Error("receipt email send failed", zap.String("to", toEmail), zap.Error(err))
			return false
		}
	case <-timer.C:
		m.log.Error("receipt email send timed out", zap.String("to", toEmail))
		return false
	case <-ctx.Done():
		m.log.Error("receipt email send cancelled", zap.String("to", toEmail))
		return false
	}

	m.log.Info("receipt email sent", zap.String("to", toEmail), zap.String("receipt_no", receiptNo))
	return true
}

func (m *Mailer) verify(cfg settingsdomain.SMTPConfig) error {
	done := make(chan error, 1)
	go func() {
		sc, err := m.dial(cfg)
		if err != nil {
			done <- err
			return
		}
		done <- sc.Close()
	}()

	timer := time.NewTimer(verifyTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("verification timed out after %s", verifyTimeout)
	}
}

func (m *Mailer) compose(cfg settingsdomain.SMTPConfig, toEmail, toName string, pdf []byte, receiptNo string) *gomail.Message {
	subject := fmt.Sprintf("ใบเสร็จรับเงินบริจาค - เลขที่ %s", receiptNo)
	body := fmt.Sprintf(`เรียน คุณ%s

ขอบคุณสำหรับการบริจาคของท่าน

กรุณาดูใบเสร็จรับเงินที่แนบมาพร้อมนี้
เลขที่ใบเสร็จ: %s

ขอแสดงความนับถือ
%s`, toName, receiptNo, cfg.SenderName)

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", cfg.SenderEmail, cfg.SenderName)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.Attach(
		fmt.Sprintf("receipt-%s.pdf", receiptNo),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(pdf))
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)
	return msg
}

var Module = fx.Module("mailer",
	fx.Provide(NewMailer),
)
