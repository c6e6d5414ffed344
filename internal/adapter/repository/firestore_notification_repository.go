package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
	"adstream/pkg/logger"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.client.Collection("notifications").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Notification", err)
		}
		return nil, errors.Internal("Failed to get notification", err)
	}

	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}

	return &notification, nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, filter repository.NotificationFilter, limit, offset int) ([]*entity.Notification, int64, error) {
	query := r.client.Collection("notifications").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	if filter.UnreadOnly {
		query = query.Where("read", "==", false)
	}
	if filter.StoreID != "" {
		query = query.Where("storeId", "==", filter.StoreID)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count notifications", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var notifications []*entity.Notification

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate notifications", err)
		}

		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			return nil, 0, errors.Internal("Failed to parse notification data", err)
		}

		notifications = append(notifications, &notification)
	}

	return notifications, total, nil
}

func (r *firestoreNotificationRepository) Update(ctx context.Context, notification *entity.Notification) error {
	_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to update notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	iter := r.client.Collection("notifications").
		Where("userId", "==", userID).
		Where("read", "==", false).
		Documents(ctx)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate notifications", err)
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "read", Value: true},
		})
		if err != nil {
			logger.Warn("Failed to mark notification %s read: %v", doc.Ref.ID, err)
		}
	}

	return nil
}

func (r *firestoreNotificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("notifications").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	iter := r.client.Collection("notifications").Where("userId", "==", userID).Documents(ctx)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate notifications", err)
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			logger.Warn("Failed to delete notification %s: %v", doc.Ref.ID, err)
		}
	}

	return nil
}

func preferenceDocID(userID, storeID string) string {
	if storeID == "" {
		return userID
	}
	return userID + ":" + storeID
}

func (r *firestoreNotificationRepository) GetPreference(ctx context.Context, userID, storeID string) (*entity.NotificationPreference, error) {
	doc, err := r.client.Collection("notification_preferences").Doc(preferenceDocID(userID, storeID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Notification preference", err)
		}
		return nil, errors.Internal("Failed to get notification preference", err)
	}

	var pref entity.NotificationPreference
	if err := doc.DataTo(&pref); err != nil {
		return nil, errors.Internal("Failed to parse notification preference data", err)
	}

	return &pref, nil
}

func (r *firestoreNotificationRepository) SavePreference(ctx context.Context, pref *entity.NotificationPreference) error {
	pref.UpdatedAt = time.Now()

	_, err := r.client.Collection("notification_preferences").Doc(preferenceDocID(pref.UserID, pref.StoreID)).Set(ctx, pref)
	if err != nil {
		return errors.Internal("Failed to save notification preference", err)
	}

	return nil
}
