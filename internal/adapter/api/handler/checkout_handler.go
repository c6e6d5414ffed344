package handler

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/usecase"
	"adstream/pkg/errors"
	"adstream/pkg/response"
)

type CheckoutHandler struct {
	checkoutUseCase *usecase.CheckoutUseCase
}

func NewCheckoutHandler(checkoutUseCase *usecase.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase: checkoutUseCase,
	}
}

type createIntentRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

// CreateIntent prepares payment for a pending paid listing and returns
// the client secret the card widget consumes.
func (h *CheckoutHandler) CreateIntent(c echo.Context) error {
	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	intent, err := h.checkoutUseCase.CreateIntent(c.Request().Context(), userID, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"intent_id":     intent.IntentID,
		"client_secret": intent.ClientSecret,
		"status":        intent.Status,
	})
}

// ConfirmPayment takes a multipart form with listing_id, intent_id and
// any files the seller attached during checkout.
func (h *CheckoutHandler) ConfirmPayment(c echo.Context) error {
	listingID := c.FormValue("listing_id")
	intentID := c.FormValue("intent_id")
	if listingID == "" || intentID == "" {
		return response.Error(c, errors.BadRequest("listing_id and intent_id are required", nil))
	}

	userID := c.Get("uid").(string)

	var files []usecase.UploadedFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, headers := range form.File {
			for _, header := range headers {
				src, err := header.Open()
				if err != nil {
					return response.Error(c, errors.BadRequest("Failed to read uploaded file", err))
				}
				defer src.Close()

				files = append(files, usecase.UploadedFile{
					Reader:      src,
					ContentType: header.Header.Get("Content-Type"),
				})
			}
		}
	}

	listing, err := h.checkoutUseCase.ConfirmPayment(c.Request().Context(), userID, listingID, intentID, files)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}
