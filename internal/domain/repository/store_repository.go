package repository

import (
	"context"

	"adstream/internal/domain/entity"
)

type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Store, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Store, int64, error)
	Update(ctx context.Context, store *entity.Store) error
	Delete(ctx context.Context, id string) error
}
