package handler

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/usecase"
	"adstream/pkg/response"
	"adstream/pkg/utils"
)

type CategoryHandler struct {
	categoryUseCase *usecase.CategoryUseCase
}

func NewCategoryHandler(categoryUseCase *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{
		categoryUseCase: categoryUseCase,
	}
}

type fieldDefinitionRequest struct {
	Name        string   `json:"name" validate:"required"`
	Label       string   `json:"label"`
	Type        string   `json:"type" validate:"required,oneof=text number select checkbox textarea date"`
	Required    bool     `json:"required"`
	Options     []string `json:"options"`
	Placeholder string   `json:"placeholder"`
}

type createCategoryRequest struct {
	Name     string                   `json:"name" validate:"required"`
	Icon     string                   `json:"icon"`
	ParentID string                   `json:"parent_id"`
	Fields   []fieldDefinitionRequest `json:"fields"`
	Status   string                   `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r createCategoryRequest) toInput() usecase.CreateCategoryInput {
	fields := make([]usecase.FieldDefinitionInput, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = usecase.FieldDefinitionInput{
			Name:        f.Name,
			Label:       f.Label,
			Type:        f.Type,
			Required:    f.Required,
			Options:     f.Options,
			Placeholder: f.Placeholder,
		}
	}
	return usecase.CreateCategoryInput{
		Name:     r.Name,
		Icon:     r.Icon,
		ParentID: r.ParentID,
		Fields:   fields,
		Status:   r.Status,
	}
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryUseCase.CreateCategory(c.Request().Context(), req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, category)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	category, err := h.categoryUseCase.GetCategoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, category)
}

func (h *CategoryHandler) GetCategoryBySlug(c echo.Context) error {
	category, err := h.categoryUseCase.GetCategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, category)
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	categories, total, err := h.categoryUseCase.ListCategories(c.Request().Context(), c.QueryParam("status"), params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, categories, total, params.Page, params.PageSize)
}

// GetCategoryTree returns all active categories flattened parent-first,
// which is the order the category picker renders.
func (h *CategoryHandler) GetCategoryTree(c echo.Context) error {
	categories, err := h.categoryUseCase.CategoryTree(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, categories)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryUseCase.UpdateCategory(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := h.categoryUseCase.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Category deleted"})
}
