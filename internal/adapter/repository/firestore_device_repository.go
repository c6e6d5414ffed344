package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
)

type firestoreDeviceRepository struct {
	client *firestore.Client
}

func NewFirestoreDeviceRepository(client *firestore.Client) repository.DeviceRepository {
	return &firestoreDeviceRepository{
		client: client,
	}
}

func (r *firestoreDeviceRepository) Save(ctx context.Context, device *entity.Device) error {
	now := time.Now()
	if device.CreatedAt.IsZero() {
		device.CreatedAt = now
	}
	device.UpdatedAt = now

	// Keyed by device id: re-registering the same browser replaces its token.
	_, err := r.client.Collection("users").Doc(device.UserID).Collection("devices").Doc(device.ID).Set(ctx, device)
	if err != nil {
		return errors.Internal("Failed to save device", err)
	}

	return nil
}

func (r *firestoreDeviceRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Device, error) {
	iter := r.client.Collection("users").Doc(userID).Collection("devices").Documents(ctx)

	var devices []*entity.Device
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate devices", err)
		}

		var device entity.Device
		if err := doc.DataTo(&device); err != nil {
			return nil, errors.Internal("Failed to parse device data", err)
		}

		devices = append(devices, &device)
	}

	return devices, nil
}

func (r *firestoreDeviceRepository) Delete(ctx context.Context, userID, deviceID string) error {
	_, err := r.client.Collection("users").Doc(userID).Collection("devices").Doc(deviceID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete device", err)
	}

	return nil
}
