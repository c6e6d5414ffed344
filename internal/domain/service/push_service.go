package service

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"adstream/internal/domain/entity"
	"adstream/pkg/logger"
)

// PushService delivers the push channel of a notification to every
// registered device token of a user.
type PushService interface {
	SendPush(ctx context.Context, tokens []string, notification *entity.Notification) []string
}

type fcmPushService struct {
	client *messaging.Client
}

func NewFCMPushService(client *messaging.Client) PushService {
	return &fcmPushService{
		client: client,
	}
}

// SendPush fans the notification out to each token and returns the tokens
// FCM rejected as stale so callers can prune their registrations.
func (s *fcmPushService) SendPush(ctx context.Context, tokens []string, notification *entity.Notification) []string {
	var stale []string

	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title:    notification.Title,
				Body:     notification.Message,
				ImageURL: notification.Image,
			},
			Data: map[string]string{
				"notification_id": notification.ID,
				"slug":            notification.Slug,
				"listing_id":      notification.ListingID,
			},
		}

		_, err := s.client.Send(ctx, msg)
		if err != nil {
			if messaging.IsUnregistered(err) {
				stale = append(stale, token)
				continue
			}
			logger.Error("Failed to send push for notification %s: %v", notification.ID, err)
		}
	}

	return stale
}
