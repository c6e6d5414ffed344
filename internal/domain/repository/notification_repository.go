package repository

import (
	"context"

	"adstream/internal/domain/entity"
)

// NotificationFilter narrows inbox queries. Zero values mean "no filter".
type NotificationFilter struct {
	UnreadOnly bool
	StoreID    string
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	ListByUser(ctx context.Context, userID string, filter NotificationFilter, limit, offset int) ([]*entity.Notification, int64, error)
	Update(ctx context.Context, notification *entity.Notification) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteAllByUser(ctx context.Context, userID string) error

	GetPreference(ctx context.Context, userID, storeID string) (*entity.NotificationPreference, error)
	SavePreference(ctx context.Context, pref *entity.NotificationPreference) error
}
