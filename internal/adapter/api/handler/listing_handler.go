package handler

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/usecase"
	"adstream/pkg/response"
	"adstream/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type listingImageRequest struct {
	URL          string `json:"url" validate:"required,url"`
	DisplayOrder int    `json:"display_order"`
}

type createListingRequest struct {
	CategoryID  string                 `json:"category_id" validate:"required"`
	StoreID     string                 `json:"store_id"`
	Title       string                 `json:"title" validate:"required"`
	Description string                 `json:"description"`
	Price       float64                `json:"price" validate:"gte=0"`
	Plan        string                 `json:"plan"`
	Attributes  map[string]interface{} `json:"attributes"`
	Images      []listingImageRequest  `json:"images"`
}

func (r createListingRequest) toInput() usecase.CreateListingInput {
	images := make([]usecase.ListingImageInput, len(r.Images))
	for i, img := range r.Images {
		images[i] = usecase.ListingImageInput{
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
		}
	}
	return usecase.CreateListingInput{
		CategoryID:  r.CategoryID,
		StoreID:     r.StoreID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		PlanSlug:    r.Plan,
		Attributes:  r.Attributes,
		Images:      images,
	}
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), sellerID, req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetListingByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) GetListingBySlug(c echo.Context) error {
	listing, err := h.listingUseCase.GetListingBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), usecase.ListListingsInput{
		CategoryID: c.QueryParam("category_id"),
		StoreID:    c.QueryParam("store_id"),
		Search:     c.QueryParam("q"),
		Page:       params.Page,
		Limit:      params.PageSize,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, params.Page, params.PageSize)
}

// ListMyListings returns the caller's own ads in any status.
func (h *ListingHandler) ListMyListings(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	sellerID := c.Get("uid").(string)

	status := c.QueryParam("status")
	if status == "" {
		status = "active"
	}

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), usecase.ListListingsInput{
		SellerID: sellerID,
		Status:   status,
		Page:     params.Page,
		Limit:    params.PageSize,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, params.Page, params.PageSize)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), c.Param("id"), sellerID, req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.listingUseCase.DeleteListing(c.Request().Context(), c.Param("id"), userID, false); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Listing deleted"})
}

// AdminDeleteListing removes any listing regardless of owner.
func (h *ListingHandler) AdminDeleteListing(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.listingUseCase.DeleteListing(c.Request().Context(), c.Param("id"), userID, true); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Listing deleted"})
}
