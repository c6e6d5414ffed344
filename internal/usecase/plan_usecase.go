package usecase

import (
	"context"
	"strings"
	"time"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
)

type PlanUseCase struct {
	planRepo repository.PlanRepository
}

func NewPlanUseCase(planRepo repository.PlanRepository) *PlanUseCase {
	return &PlanUseCase{
		planRepo: planRepo,
	}
}

type CreatePlanInput struct {
	Name         string
	Price        float64
	Currency     string
	DurationDays int
	Features     []string
	Status       string
}

func (uc *PlanUseCase) CreatePlan(ctx context.Context, input CreatePlanInput) (*entity.PricePlan, error) {
	if input.Price < 0 {
		return nil, errors.BadRequest("Plan price cannot be negative", nil)
	}
	if input.DurationDays <= 0 {
		return nil, errors.BadRequest("Plan duration must be positive", nil)
	}

	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input.Name), " ", "-"))

	existing, err := uc.planRepo.GetBySlug(ctx, slug)
	if err == nil && existing != nil {
		return nil, errors.BadRequest("Plan with this name already exists", nil)
	}

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = "USD"
	}

	status := input.Status
	if status == "" {
		status = "active"
	}

	plan := &entity.PricePlan{
		Name:         strings.TrimSpace(input.Name),
		Slug:         slug,
		Price:        input.Price,
		Currency:     currency,
		DurationDays: input.DurationDays,
		Features:     input.Features,
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uc.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

func (uc *PlanUseCase) GetPlanByID(ctx context.Context, id string) (*entity.PricePlan, error) {
	return uc.planRepo.GetByID(ctx, id)
}

func (uc *PlanUseCase) GetPlanBySlug(ctx context.Context, slug string) (*entity.PricePlan, error) {
	return uc.planRepo.GetBySlug(ctx, slug)
}

func (uc *PlanUseCase) ListPlans(ctx context.Context, status string, page, limit int) ([]*entity.PricePlan, int64, error) {
	filter := make(map[string]interface{})

	if status == "" {
		status = "active"
	}
	filter["status"] = status

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	return uc.planRepo.List(ctx, filter, limit, offset)
}

func (uc *PlanUseCase) UpdatePlan(ctx context.Context, id string, input CreatePlanInput) (*entity.PricePlan, error) {
	plan, err := uc.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Price < 0 {
		return nil, errors.BadRequest("Plan price cannot be negative", nil)
	}

	plan.Name = strings.TrimSpace(input.Name)
	plan.Price = input.Price
	if input.Currency != "" {
		plan.Currency = strings.ToUpper(input.Currency)
	}
	if input.DurationDays > 0 {
		plan.DurationDays = input.DurationDays
	}
	plan.Features = input.Features
	if input.Status != "" {
		plan.Status = input.Status
	}
	plan.UpdatedAt = time.Now()

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

func (uc *PlanUseCase) DeletePlan(ctx context.Context, id string) error {
	if _, err := uc.planRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.planRepo.Delete(ctx, id)
}
