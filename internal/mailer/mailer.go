// Package mailer delivers password reset codes.
package mailer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"cafehub/internal/config"
	"cafehub/internal/model"
)

const resetSubject = "Your password reset code"

const sendTimeout = 10 * time.Second

// ComposeReset renders the plaintext reset email.
func ComposeReset(m model.ResetMail, now time.Time) (subject, body string) {
	minutes := int(math.Ceil(m.ExpiresAt.Sub(now).Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	body = fmt.Sprintf(
		"Hi %s,\n\nYour password reset code is: %s\n\nThe code expires in %d minutes. If you did not ask for a reset you can ignore this email.\n",
		m.Username, m.Code, minutes,
	)
	return resetSubject, body
}

type SMTPMailer struct {
	cfg config.SMTPConfig
	now func() time.Time
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, now: time.Now}
}

func (s *SMTPMailer) SendResetCode(ctx context.Context, m model.ResetMail) error {
	msg, err := s.message(m)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(sendTimeout),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client failed: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := client.DialAndSendWithContext(sendCtx, msg); err != nil {
		return fmt.Errorf("send reset mail failed: %w", err)
	}
	return nil
}

func (s *SMTPMailer) message(m model.ResetMail) (*mail.Msg, error) {
	subject, body := ComposeReset(m, s.now())
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// LogMailer writes reset codes to the log instead of sending them. It is
// only wired when no SMTP host is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (l *LogMailer) SendResetCode(_ context.Context, m model.ResetMail) error {
	l.log.Warn("smtp not configured, reset code logged instead of mailed",
		zap.String("to", m.To),
		zap.String("code", m.Code),
		zap.Time("expires_at", m.ExpiresAt),
	)
	return nil
}
