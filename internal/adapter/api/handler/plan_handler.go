package handler

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/usecase"
	"adstream/pkg/response"
	"adstream/pkg/utils"
)

type PlanHandler struct {
	planUseCase *usecase.PlanUseCase
}

func NewPlanHandler(planUseCase *usecase.PlanUseCase) *PlanHandler {
	return &PlanHandler{
		planUseCase: planUseCase,
	}
}

type createPlanRequest struct {
	Name         string   `json:"name" validate:"required"`
	Price        float64  `json:"price" validate:"gte=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3"`
	DurationDays int      `json:"duration_days" validate:"required,gt=0"`
	Features     []string `json:"features"`
	Status       string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (h *PlanHandler) CreatePlan(c echo.Context) error {
	var req createPlanRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	plan, err := h.planUseCase.CreatePlan(c.Request().Context(), usecase.CreatePlanInput{
		Name:         req.Name,
		Price:        req.Price,
		Currency:     req.Currency,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		Status:       req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, plan)
}

func (h *PlanHandler) GetPlan(c echo.Context) error {
	plan, err := h.planUseCase.GetPlanByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, plan)
}

func (h *PlanHandler) ListPlans(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	plans, total, err := h.planUseCase.ListPlans(c.Request().Context(), c.QueryParam("status"), params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, plans, total, params.Page, params.PageSize)
}

func (h *PlanHandler) UpdatePlan(c echo.Context) error {
	var req createPlanRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	plan, err := h.planUseCase.UpdatePlan(c.Request().Context(), c.Param("id"), usecase.CreatePlanInput{
		Name:         req.Name,
		Price:        req.Price,
		Currency:     req.Currency,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		Status:       req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, plan)
}

func (h *PlanHandler) DeletePlan(c echo.Context) error {
	if err := h.planUseCase.DeletePlan(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Plan deleted"})
}
