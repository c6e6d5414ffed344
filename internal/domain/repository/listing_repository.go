package repository

import (
	"context"

	"adstream/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Listing, error)
	List(ctx context.Context, filter map[string]interface{}, search string, limit, offset int) ([]*entity.Listing, int64, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}
