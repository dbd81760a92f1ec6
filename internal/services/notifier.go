package services

import (
	"encoding/base64"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/store-it/rental-service/internal/config"
	"github.com/store-it/rental-service/internal/utils"
)

// Attachment is an optional document to send along with a notification.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Notifier delivers party-facing mail triggered by state transitions.
// Callers treat it as fire-and-forget: a delivery failure is logged
// here and never rolls back the transition that triggered it.
type Notifier interface {
	Notify(recipientName, recipientEmail, subject, body string, attachment *Attachment) error
}

type sendgridNotifier struct {
	cfg    *config.Config
	client *sendgrid.Client
}

func NewSendgridNotifier(cfg *config.Config) Notifier {
	return &sendgridNotifier{
		cfg:    cfg,
		client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
	}
}

func (n *sendgridNotifier) Notify(recipientName, recipientEmail, subject, body string, attachment *Attachment) error {
	from := mail.NewEmail(n.cfg.AppName, n.cfg.SendgridFromEmail)
	to := mail.NewEmail(recipientName, recipientEmail)

	msg := mail.NewSingleEmail(from, subject, to, body, "")
	if attachment != nil {
		att := mail.NewAttachment()
		att.SetFilename(attachment.Filename)
		att.SetType(attachment.ContentType)
		att.SetContent(base64.StdEncoding.EncodeToString(attachment.Data))
		att.SetDisposition("attachment")
		msg.AddAttachment(att)
	}
	if n.cfg.SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}

	if _, err := n.client.Send(msg); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send notification %q to %s", subject, recipientEmail)
		return err
	}
	return nil
}
