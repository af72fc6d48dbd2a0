package notification

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESSender delivers reminders through AWS SES as raw MIME messages with
// text and HTML alternatives.
type SESSender struct {
	client *ses.Client
	from   string
	log    *slog.Logger
}

func NewSESSender(ctx context.Context, from string, log *slog.Logger) (*SESSender, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESSender{
		client: ses.NewFromConfig(cfg),
		from:   from,
		log:    log,
	}, nil
}

func (s *SESSender) Send(ctx context.Context, recipientEmail, recipientName string) error {
	raw, err := buildReminderMessage(s.from, recipientEmail, recipientName)
	if err != nil {
		return err
	}

	res, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage: &types.RawMessage{Data: raw.Bytes()},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s failed: %w", recipientEmail, err)
	}

	s.log.Info("reminder email sent", "to", recipientEmail, "message_id", *res.MessageId)
	return nil
}

func buildReminderMessage(from, to, name string) (*bytes.Buffer, error) {
	var raw bytes.Buffer
	writer := multipart.NewWriter(&raw)

	headers := fmt.Sprintf("From: %s\r\n", from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", reminderSubject)
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", writer.Boundary())
	headers += "\r\n"
	raw.WriteString(headers)

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, err
	}
	qp := quotedprintable.NewWriter(textPart)
	qp.Write([]byte(reminderText(name)))
	qp.Close()

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, err
	}
	qp = quotedprintable.NewWriter(htmlPart)
	qp.Write([]byte(reminderHTML(name)))
	qp.Close()

	writer.Close()
	return &raw, nil
}
