package notification

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildReminderMessage(t *testing.T) {
	raw, err := buildReminderMessage("noreply@geodateam.dev", "mara@example.com", "Mara")
	require.NoError(t, err)

	msg := raw.String()
	assert.Contains(t, msg, "From: noreply@geodateam.dev\r\n")
	assert.Contains(t, msg, "To: mara@example.com\r\n")
	assert.Contains(t, msg, "Subject: "+reminderSubject+"\r\n")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "text/plain; charset=UTF-8")
	assert.Contains(t, msg, "text/html; charset=UTF-8")
	assert.Contains(t, msg, "Mara")

	// headers and body are separated by a blank line
	assert.True(t, strings.Contains(msg, "\r\n\r\n"))
}

func TestReminderTemplatesAddressRecipient(t *testing.T) {
	assert.Contains(t, reminderText("Mara"), "Hello Mara")
	assert.Contains(t, reminderHTML("Mara"), "<strong>Mara</strong>")
}

func TestLogSenderNeverFails(t *testing.T) {
	s := NewLogSender(discardLogger())
	assert.NoError(t, s.Send(context.Background(), "mara@example.com", "Mara"))
}
