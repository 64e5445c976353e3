package notify

import (
	"context"
	"log/slog"
)

// LogSink writes codes to the log instead of sending them.
// Used when no SMTP server is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log-only notifier.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// SendOneTimeCode logs the code at warn level.
func (s *LogSink) SendOneTimeCode(ctx context.Context, email, code string) error {
	s.logger.WarnContext(ctx, "SMTP not configured, one-time code written to log",
		slog.String("email", email),
		slog.String("otp_code", code),
	)
	return nil
}
