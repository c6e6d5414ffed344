package service

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"adstream/pkg/logger"
)

// MailService delivers the email channel of a notification.
type MailService interface {
	SendNotificationEmail(ctx context.Context, to, subject, body string) error
}

type mailgunService struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunService(domain, apiKey, from string) MailService {
	return &mailgunService{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

func (s *mailgunService) SendNotificationEmail(ctx context.Context, to, subject, body string) error {
	message := s.mg.NewMessage(s.from, subject, body, to)

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, id, err := s.mg.Send(sendCtx, message)
	if err != nil {
		logger.Error("Failed to send email to %s: %v", to, err)
		return err
	}

	logger.Debug("Email queued for %s (id %s)", to, id)
	return nil
}
