package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// Log is a development mailer that writes messages to the log instead of
// delivering them.
type Log struct {
	logger zerolog.Logger
}

// NewLog constructs a logging mailer.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "mail").Logger()}
}

// Send logs the message and reports success.
func (l *Log) Send(_ context.Context, msg Message) error {
	l.logger.Info().
		Str("to", msg.ToAddress).
		Str("subject", msg.Subject).
		Str("body", msg.TextBody).
		Msg("email delivered to log")
	return nil
}
