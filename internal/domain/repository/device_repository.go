package repository

import (
	"context"

	"adstream/internal/domain/entity"
)

type DeviceRepository interface {
	Save(ctx context.Context, device *entity.Device) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Device, error)
	Delete(ctx context.Context, userID, deviceID string) error
}
