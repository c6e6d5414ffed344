package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
)

type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

type FieldDefinitionInput struct {
	Name        string
	Label       string
	Type        string
	Required    bool
	Options     []string
	Placeholder string
}

type CreateCategoryInput struct {
	Name     string
	Icon     string
	ParentID string
	Fields   []FieldDefinitionInput
	Status   string
}

func validateFieldDefinitions(fields []FieldDefinitionInput) ([]entity.FieldDefinition, error) {
	defs := make([]entity.FieldDefinition, len(fields))
	seen := make(map[string]bool)

	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, errors.BadRequest("Field name is required", nil)
		}
		if seen[name] {
			return nil, errors.BadRequest(fmt.Sprintf("Duplicate field name %q", name), nil)
		}
		seen[name] = true

		if !entity.ValidFieldType(f.Type) {
			return nil, errors.BadRequest(fmt.Sprintf("Unsupported field type %q for field %q", f.Type, name), nil)
		}
		if f.Type == entity.FieldTypeSelect && len(f.Options) == 0 {
			return nil, errors.BadRequest(fmt.Sprintf("Select field %q needs at least one option", name), nil)
		}

		defs[i] = entity.FieldDefinition{
			Name:        name,
			Label:       f.Label,
			Type:        f.Type,
			Required:    f.Required,
			Options:     f.Options,
			Placeholder: f.Placeholder,
		}
	}

	return defs, nil
}

func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*entity.Category, error) {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input.Name), " ", "-"))

	existing, err := uc.categoryRepo.GetBySlug(ctx, slug)
	if err == nil && existing != nil {
		return nil, errors.BadRequest("Category with this name already exists", nil)
	}

	if input.ParentID != "" {
		parent, err := uc.categoryRepo.GetByID(ctx, input.ParentID)
		if err != nil {
			return nil, errors.BadRequest("Invalid parent category", err)
		}
		// A single level of nesting keeps the browse tree shallow.
		if parent.ParentID != "" {
			return nil, errors.BadRequest("Subcategories cannot have their own children", nil)
		}
	}

	fields, err := validateFieldDefinitions(input.Fields)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = "active"
	}

	category := &entity.Category{
		Name:      strings.TrimSpace(input.Name),
		Slug:      slug,
		Icon:      input.Icon,
		ParentID:  input.ParentID,
		Fields:    fields,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (uc *CategoryUseCase) GetCategoryByID(ctx context.Context, id string) (*entity.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id)
}

func (uc *CategoryUseCase) GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return uc.categoryRepo.GetBySlug(ctx, slug)
}

func (uc *CategoryUseCase) ListCategories(ctx context.Context, status string, page, limit int) ([]*entity.Category, int64, error) {
	filter := make(map[string]interface{})

	if status == "" {
		status = "active"
	}
	filter["status"] = status

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	return uc.categoryRepo.List(ctx, filter, limit, offset)
}

// CategoryTree returns active categories flattened for display: each
// parent immediately followed by its children.
func (uc *CategoryUseCase) CategoryTree(ctx context.Context) ([]*entity.Category, error) {
	all, _, err := uc.categoryRepo.List(ctx, map[string]interface{}{"status": "active"}, 0, 0)
	if err != nil {
		return nil, err
	}

	return FlattenCategories(all), nil
}

// FlattenCategories orders a category list parent-first, children in
// place beneath their parent. Orphans (parent missing or inactive) are
// appended at the end in their original order.
func FlattenCategories(categories []*entity.Category) []*entity.Category {
	byParent := make(map[string][]*entity.Category)
	known := make(map[string]bool)

	for _, c := range categories {
		known[c.ID] = true
	}
	for _, c := range categories {
		parent := c.ParentID
		if parent != "" && !known[parent] {
			parent = "" // orphan, promote to top level
		}
		byParent[parent] = append(byParent[parent], c)
	}

	flat := make([]*entity.Category, 0, len(categories))
	for _, root := range byParent[""] {
		if root.ParentID != "" {
			// promoted orphan, keep after real roots
			continue
		}
		flat = append(flat, root)
		flat = append(flat, byParent[root.ID]...)
	}
	for _, c := range byParent[""] {
		if c.ParentID != "" {
			flat = append(flat, c)
		}
	}

	return flat
}

func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id string, input CreateCategoryInput) (*entity.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := validateFieldDefinitions(input.Fields)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Icon = input.Icon
	category.ParentID = input.ParentID
	category.Fields = fields
	if input.Status != "" {
		category.Status = input.Status
	}
	category.UpdatedAt = time.Now()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uc.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.categoryRepo.Delete(ctx, id)
}
