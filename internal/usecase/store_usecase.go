package usecase

import (
	"context"
	"strings"
	"time"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
)

type StoreUseCase struct {
	storeRepo repository.StoreRepository
	userRepo  repository.UserRepository
}

func NewStoreUseCase(storeRepo repository.StoreRepository, userRepo repository.UserRepository) *StoreUseCase {
	return &StoreUseCase{
		storeRepo: storeRepo,
		userRepo:  userRepo,
	}
}

type CreateStoreInput struct {
	Name        string
	Description string
	Logo        string
	OwnerID     string
	Status      string
}

func (uc *StoreUseCase) CreateStore(ctx context.Context, input CreateStoreInput) (*entity.Store, error) {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input.Name), " ", "-"))

	existing, err := uc.storeRepo.GetBySlug(ctx, slug)
	if err == nil && existing != nil {
		return nil, errors.BadRequest("Store with this name already exists", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.OwnerID); err != nil {
		return nil, errors.BadRequest("Invalid store owner", err)
	}

	status := input.Status
	if status == "" {
		status = "active"
	}

	store := &entity.Store{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		Logo:        input.Logo,
		OwnerID:     input.OwnerID,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := uc.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}

	return store, nil
}

func (uc *StoreUseCase) GetStoreByID(ctx context.Context, id string) (*entity.Store, error) {
	return uc.storeRepo.GetByID(ctx, id)
}

func (uc *StoreUseCase) GetStoreBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	return uc.storeRepo.GetBySlug(ctx, slug)
}

func (uc *StoreUseCase) ListStores(ctx context.Context, status string, page, limit int) ([]*entity.Store, int64, error) {
	filter := make(map[string]interface{})
	if status != "" {
		filter["status"] = status
	}

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	return uc.storeRepo.List(ctx, filter, limit, offset)
}

func (uc *StoreUseCase) UpdateStore(ctx context.Context, id string, input CreateStoreInput) (*entity.Store, error) {
	store, err := uc.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	store.Name = strings.TrimSpace(input.Name)
	store.Description = input.Description
	if input.Logo != "" {
		store.Logo = input.Logo
	}
	if input.Status != "" {
		store.Status = input.Status
	}
	store.UpdatedAt = time.Now()

	if err := uc.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}

	return store, nil
}

func (uc *StoreUseCase) DeleteStore(ctx context.Context, id string) error {
	if _, err := uc.storeRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.storeRepo.Delete(ctx, id)
}
