package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstream/internal/domain/entity"
	"adstream/pkg/errors"
)

func TestCreateCategoryValidatesFieldDefinitions(t *testing.T) {
	uc := NewCategoryUseCase(newMemCategoryRepo())

	cases := []struct {
		name   string
		fields []FieldDefinitionInput
	}{
		{"blank name", []FieldDefinitionInput{{Name: " ", Type: entity.FieldTypeText}}},
		{"duplicate name", []FieldDefinitionInput{
			{Name: "make", Type: entity.FieldTypeText},
			{Name: "make", Type: entity.FieldTypeText},
		}},
		{"unknown type", []FieldDefinitionInput{{Name: "make", Type: "dropdown"}}},
		{"select without options", []FieldDefinitionInput{{Name: "fuel", Type: entity.FieldTypeSelect}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateCategory(context.Background(), CreateCategoryInput{
				Name:   "Cars",
				Fields: tc.fields,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, "BAD_REQUEST"))
		})
	}
}

func TestCreateCategorySlugAndDefaults(t *testing.T) {
	uc := NewCategoryUseCase(newMemCategoryRepo())

	category, err := uc.CreateCategory(context.Background(), CreateCategoryInput{
		Name: "Used Cars",
		Fields: []FieldDefinitionInput{
			{Name: "fuel", Label: "Fuel", Type: entity.FieldTypeSelect, Options: []string{"petrol"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "used-cars", category.Slug)
	assert.Equal(t, "active", category.Status)
	require.Len(t, category.Fields, 1)
	assert.Equal(t, "fuel", category.Fields[0].Name)
}

func TestCreateCategoryRejectsDeepNesting(t *testing.T) {
	repo := newMemCategoryRepo(
		&entity.Category{ID: "root", Name: "Vehicles", Slug: "vehicles"},
		&entity.Category{ID: "child", Name: "Cars", Slug: "cars", ParentID: "root"},
	)
	uc := NewCategoryUseCase(repo)

	_, err := uc.CreateCategory(context.Background(), CreateCategoryInput{
		Name:     "Sedans",
		ParentID: "child",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestFlattenCategoriesOrdersChildrenUnderParent(t *testing.T) {
	vehicles := &entity.Category{ID: "vehicles", Name: "Vehicles"}
	cars := &entity.Category{ID: "cars", Name: "Cars", ParentID: "vehicles"}
	bikes := &entity.Category{ID: "bikes", Name: "Bikes", ParentID: "vehicles"}
	homes := &entity.Category{ID: "homes", Name: "Homes"}
	orphan := &entity.Category{ID: "orphan", Name: "Boats", ParentID: "gone"}

	flat := FlattenCategories([]*entity.Category{cars, homes, vehicles, orphan, bikes})

	ids := make([]string, len(flat))
	for i, c := range flat {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"homes", "vehicles", "cars", "bikes", "orphan"}, ids)
}
