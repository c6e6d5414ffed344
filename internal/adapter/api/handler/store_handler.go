package handler

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/usecase"
	"adstream/pkg/response"
	"adstream/pkg/utils"
)

type StoreHandler struct {
	storeUseCase *usecase.StoreUseCase
}

func NewStoreHandler(storeUseCase *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{
		storeUseCase: storeUseCase,
	}
}

type createStoreRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Logo        string `json:"logo" validate:"omitempty,url"`
	Status      string `json:"status" validate:"omitempty,oneof=active suspended"`
}

func (h *StoreHandler) CreateStore(c echo.Context) error {
	var req createStoreRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ownerID := c.Get("uid").(string)

	store, err := h.storeUseCase.CreateStore(c.Request().Context(), usecase.CreateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		OwnerID:     ownerID,
		Status:      req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, store)
}

func (h *StoreHandler) GetStore(c echo.Context) error {
	store, err := h.storeUseCase.GetStoreByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, store)
}

func (h *StoreHandler) GetStoreBySlug(c echo.Context) error {
	store, err := h.storeUseCase.GetStoreBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, store)
}

func (h *StoreHandler) ListStores(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	stores, total, err := h.storeUseCase.ListStores(c.Request().Context(), c.QueryParam("status"), params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, stores, total, params.Page, params.PageSize)
}

func (h *StoreHandler) UpdateStore(c echo.Context) error {
	var req createStoreRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	store, err := h.storeUseCase.UpdateStore(c.Request().Context(), c.Param("id"), usecase.CreateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		Status:      req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, store)
}

func (h *StoreHandler) DeleteStore(c echo.Context) error {
	if err := h.storeUseCase.DeleteStore(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Store deleted"})
}
