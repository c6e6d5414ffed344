package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
)

type ListingUseCase struct {
	listingRepo  repository.ListingRepository
	categoryRepo repository.CategoryRepository
	planRepo     repository.PlanRepository
	userRepo     repository.UserRepository
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	categoryRepo repository.CategoryRepository,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
		planRepo:     planRepo,
		userRepo:     userRepo,
	}
}

type CreateListingInput struct {
	CategoryID  string
	StoreID     string
	Title       string
	Description string
	Price       float64
	PlanSlug    string
	Attributes  map[string]interface{}
	Images      []ListingImageInput
}

type ListingImageInput struct {
	URL          string
	DisplayOrder int
}

type ListListingsInput struct {
	CategoryID string
	StoreID    string
	SellerID   string
	Status     string
	Search     string
	Page       int
	Limit      int
}

// validateAttributes checks the submitted dynamic attributes against the
// category's admin-defined field schema.
func validateAttributes(fields []entity.FieldDefinition, attrs map[string]interface{}) error {
	defined := make(map[string]entity.FieldDefinition, len(fields))
	for _, f := range fields {
		defined[f.Name] = f
	}

	for name := range attrs {
		if _, ok := defined[name]; !ok {
			return errors.BadRequest(fmt.Sprintf("Unknown attribute %q for this category", name), nil)
		}
	}

	for _, f := range fields {
		value, present := attrs[f.Name]

		if !present || value == nil {
			if f.Required {
				return errors.BadRequest(fmt.Sprintf("Attribute %q is required", f.Name), nil)
			}
			continue
		}

		switch f.Type {
		case entity.FieldTypeText, entity.FieldTypeTextarea:
			s, ok := value.(string)
			if !ok {
				return errors.BadRequest(fmt.Sprintf("Attribute %q must be a string", f.Name), nil)
			}
			if f.Required && strings.TrimSpace(s) == "" {
				return errors.BadRequest(fmt.Sprintf("Attribute %q is required", f.Name), nil)
			}

		case entity.FieldTypeNumber:
			switch value.(type) {
			case float64, int, int64:
			default:
				return errors.BadRequest(fmt.Sprintf("Attribute %q must be a number", f.Name), nil)
			}

		case entity.FieldTypeCheckbox:
			if _, ok := value.(bool); !ok {
				return errors.BadRequest(fmt.Sprintf("Attribute %q must be a boolean", f.Name), nil)
			}

		case entity.FieldTypeSelect:
			s, ok := value.(string)
			if !ok {
				return errors.BadRequest(fmt.Sprintf("Attribute %q must be a string", f.Name), nil)
			}
			valid := false
			for _, opt := range f.Options {
				if opt == s {
					valid = true
					break
				}
			}
			if !valid {
				return errors.BadRequest(fmt.Sprintf("Attribute %q must be one of: %s", f.Name, strings.Join(f.Options, ", ")), nil)
			}

		case entity.FieldTypeDate:
			s, ok := value.(string)
			if !ok {
				return errors.BadRequest(fmt.Sprintf("Attribute %q must be a date string", f.Name), nil)
			}
			if _, err := time.Parse("2006-01-02", s); err != nil {
				return errors.BadRequest(fmt.Sprintf("Attribute %q must be a YYYY-MM-DD date", f.Name), nil)
			}
		}
	}

	return nil
}

// CreateListing validates the ad against its category schema and creates
// it. Free-plan listings go live immediately; paid plans start in
// pending_payment until checkout confirms them.
func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	category, err := uc.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, errors.BadRequest("Invalid category", err)
	}

	if _, err := uc.userRepo.GetByID(ctx, sellerID); err != nil {
		return nil, errors.BadRequest("Invalid seller", err)
	}

	planSlug := input.PlanSlug
	if planSlug == "" {
		planSlug = "free"
	}
	plan, err := uc.planRepo.GetBySlug(ctx, planSlug)
	if err != nil {
		return nil, errors.BadRequest("Invalid price plan", err)
	}
	if plan.Status != "active" {
		return nil, errors.BadRequest("Price plan is not available", nil)
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.BadRequest("Title is required", nil)
	}
	if input.Price < 0 {
		return nil, errors.BadRequest("Price cannot be negative", nil)
	}

	if err := validateAttributes(category.Fields, input.Attributes); err != nil {
		return nil, err
	}

	images := make([]entity.ListingImage, len(input.Images))
	for i, img := range input.Images {
		images[i] = entity.ListingImage{
			ID:           uuid.New().String(),
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
		}
	}

	status := entity.ListingStatusActive
	if !plan.IsFree() {
		status = entity.ListingStatusPendingPayment
	}

	now := time.Now()
	listing := &entity.Listing{
		CategoryID:  category.ID,
		StoreID:     input.StoreID,
		SellerID:    sellerID,
		Title:       strings.TrimSpace(input.Title),
		Slug:        listingSlug(input.Title),
		Description: input.Description,
		Price:       input.Price,
		Plan:        plan.Slug,
		Attributes:  input.Attributes,
		Images:      images,
		Status:      status,
		ExpiresAt:   now.AddDate(0, 0, plan.DurationDays),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func listingSlug(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = strings.ReplaceAll(base, " ", "-")
	// Short random suffix keeps slugs unique without a lookup.
	return base + "-" + uuid.New().String()[:8]
}

func (uc *ListingUseCase) GetListingByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Views are best-effort; a failed increment never fails the read.
	_ = uc.listingRepo.IncrementViews(ctx, id)

	return listing, nil
}

func (uc *ListingUseCase) GetListingBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	_ = uc.listingRepo.IncrementViews(ctx, listing.ID)

	return listing, nil
}

func (uc *ListingUseCase) ListListings(ctx context.Context, input ListListingsInput) ([]*entity.Listing, int64, error) {
	filter := make(map[string]interface{})
	if input.CategoryID != "" {
		filter["categoryId"] = input.CategoryID
	}
	if input.StoreID != "" {
		filter["storeId"] = input.StoreID
	}
	if input.SellerID != "" {
		filter["sellerId"] = input.SellerID
	}

	status := input.Status
	if status == "" {
		status = entity.ListingStatusActive
	}
	filter["status"] = status

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (input.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	return uc.listingRepo.List(ctx, filter, input.Search, limit, offset)
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, id, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != sellerID {
		return nil, errors.Forbidden("You do not own this listing", nil)
	}

	category, err := uc.categoryRepo.GetByID(ctx, listing.CategoryID)
	if err != nil {
		return nil, errors.Internal("Failed to load category", err)
	}

	if err := validateAttributes(category.Fields, input.Attributes); err != nil {
		return nil, err
	}

	listing.Title = strings.TrimSpace(input.Title)
	listing.Description = input.Description
	listing.Price = input.Price
	listing.Attributes = input.Attributes
	if len(input.Images) > 0 {
		images := make([]entity.ListingImage, len(input.Images))
		for i, img := range input.Images {
			images[i] = entity.ListingImage{
				ID:           uuid.New().String(),
				URL:          img.URL,
				DisplayOrder: img.DisplayOrder,
			}
		}
		listing.Images = images
	}
	listing.UpdatedAt = time.Now()

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) DeleteListing(ctx context.Context, id, userID string, isAdmin bool) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if listing.SellerID != userID && !isAdmin {
		return errors.Forbidden("You do not own this listing", nil)
	}

	return uc.listingRepo.Delete(ctx, id)
}

// ActivateListing flips a pending listing live after payment confirms.
func (uc *ListingUseCase) ActivateListing(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.Status == entity.ListingStatusActive {
		return listing, nil
	}
	if listing.Status != entity.ListingStatusPendingPayment {
		return nil, errors.Conflict("Listing is not awaiting payment")
	}

	listing.Status = entity.ListingStatusActive
	listing.UpdatedAt = time.Now()

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}
