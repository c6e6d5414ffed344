package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
)

type firestorePlanRepository struct {
	client *firestore.Client
}

func NewFirestorePlanRepository(client *firestore.Client) repository.PlanRepository {
	return &firestorePlanRepository{
		client: client,
	}
}

func (r *firestorePlanRepository) Create(ctx context.Context, plan *entity.PricePlan) error {
	if plan.ID == "" {
		doc := r.client.Collection("price_plans").NewDoc()
		plan.ID = doc.ID
	}

	now := time.Now()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	_, err := r.client.Collection("price_plans").Doc(plan.ID).Set(ctx, plan)
	if err != nil {
		return errors.Internal("Failed to create price plan", err)
	}

	return nil
}

func (r *firestorePlanRepository) GetByID(ctx context.Context, id string) (*entity.PricePlan, error) {
	doc, err := r.client.Collection("price_plans").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Price plan", err)
		}
		return nil, errors.Internal("Failed to get price plan", err)
	}

	var plan entity.PricePlan
	if err := doc.DataTo(&plan); err != nil {
		return nil, errors.Internal("Failed to parse price plan data", err)
	}

	return &plan, nil
}

func (r *firestorePlanRepository) GetBySlug(ctx context.Context, slug string) (*entity.PricePlan, error) {
	query := r.client.Collection("price_plans").Where("slug", "==", slug).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()

	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Price plan", nil)
		}
		return nil, errors.Internal("Failed to query price plan", err)
	}

	var plan entity.PricePlan
	if err := doc.DataTo(&plan); err != nil {
		return nil, errors.Internal("Failed to parse price plan data", err)
	}

	return &plan, nil
}

func (r *firestorePlanRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.PricePlan, int64, error) {
	query := r.client.Collection("price_plans").OrderBy("price", firestore.Asc)

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count price plans", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var plans []*entity.PricePlan

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate price plans", err)
		}

		var plan entity.PricePlan
		if err := doc.DataTo(&plan); err != nil {
			return nil, 0, errors.Internal("Failed to parse price plan data", err)
		}

		plans = append(plans, &plan)
	}

	return plans, total, nil
}

func (r *firestorePlanRepository) Update(ctx context.Context, plan *entity.PricePlan) error {
	plan.UpdatedAt = time.Now()

	_, err := r.client.Collection("price_plans").Doc(plan.ID).Set(ctx, plan)
	if err != nil {
		return errors.Internal("Failed to update price plan", err)
	}

	return nil
}

func (r *firestorePlanRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("price_plans").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete price plan", err)
	}

	return nil
}
