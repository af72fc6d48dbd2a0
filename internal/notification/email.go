// Package notification delivers attendance reminder emails. Delivery is
// best-effort: there is no retry contract, callers decide what a failed
// send means.
package notification

import (
	"context"
	"fmt"
	"log/slog"
)

// EmailSender sends one reminder to one recipient.
type EmailSender interface {
	Send(ctx context.Context, recipientEmail, recipientName string) error
}

const reminderSubject = "Attendance reminder - Geo DaTeam"

func reminderText(name string) string {
	return fmt.Sprintf(`Hello %s,

We noticed you have not clocked in your presence today.

Don't forget to clock in on the Geo DaTeam application so your presence
is recorded.

Best regards,
The Geo DaTeam team
`, name)
}

func reminderHTML(name string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Attendance reminder</h2>
  <p>Hello <strong>%s</strong>,</p>
  <p>We noticed you have not clocked in your presence today.</p>
  <p>Don't forget to clock in on the Geo DaTeam application so your presence is recorded.</p>
  <p>Best regards,<br>The Geo DaTeam team</p>
</body>
</html>`, name)
}

// LogSender records what would have been sent instead of delivering.
// Used when no SES credentials are configured, so development setups
// behave like the real thing minus the inbox.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, recipientEmail, recipientName string) error {
	s.log.Info("reminder email (log only)",
		"to", recipientEmail,
		"subject", reminderSubject,
		"recipient_name", recipientName)
	return nil
}
