package repository

import (
	"context"

	"adstream/internal/domain/entity"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *entity.PricePlan) error
	GetByID(ctx context.Context, id string) (*entity.PricePlan, error)
	GetBySlug(ctx context.Context, slug string) (*entity.PricePlan, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.PricePlan, int64, error)
	Update(ctx context.Context, plan *entity.PricePlan) error
	Delete(ctx context.Context, id string) error
}
