package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer records that a message would have been sent without delivering it.
// Used in development when no mail API is configured. Bodies are not logged;
// codes and links stay out of log output.
type LogMailer struct {
	Logger *zap.Logger
}

// NewLogMailer returns a Mailer that only logs envelope metadata.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{Logger: logger}
}

// Send logs the envelope and drops the message.
func (m *LogMailer) Send(ctx context.Context, to, subject, text, html string) error {
	m.Logger.Info("mail suppressed (log mailer)", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SendTwoFactorCode logs the envelope and drops the code.
func (m *LogMailer) SendTwoFactorCode(ctx context.Context, to, displayName, code string, ttlMinutes int) error {
	m.Logger.Info("2fa mail suppressed (log mailer)", zap.String("to", to), zap.Int("ttl_minutes", ttlMinutes))
	return nil
}
