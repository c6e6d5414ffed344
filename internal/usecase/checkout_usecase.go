package usecase

import (
	"context"
	"fmt"
	"io"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/internal/domain/service"
	"adstream/pkg/errors"
	"adstream/pkg/logger"
)

// FileUploader stores an uploaded file and returns its public URL.
// *storage.CloudStorageClient satisfies it.
type FileUploader interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
}

type CheckoutUseCase struct {
	listingRepo    repository.ListingRepository
	planRepo       repository.PlanRepository
	userRepo       repository.UserRepository
	gateway        service.PaymentGatewayService
	uploader       FileUploader
	notificationUC *NotificationUseCase
}

func NewCheckoutUseCase(
	listingRepo repository.ListingRepository,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	gateway service.PaymentGatewayService,
	uploader FileUploader,
	notificationUC *NotificationUseCase,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		listingRepo:    listingRepo,
		planRepo:       planRepo,
		userRepo:       userRepo,
		gateway:        gateway,
		uploader:       uploader,
		notificationUC: notificationUC,
	}
}

// CreateIntent prepares a payment for a pending paid listing. Free-plan
// listings never reach the gateway; asking for an intent on one is an
// error.
func (uc *CheckoutUseCase) CreateIntent(ctx context.Context, userID, listingID string) (*service.PaymentIntentResponse, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != userID {
		return nil, errors.Forbidden("You do not own this listing", nil)
	}

	if listing.Status != entity.ListingStatusPendingPayment {
		return nil, errors.Conflict("Listing is not awaiting payment")
	}

	plan, err := uc.planRepo.GetBySlug(ctx, listing.Plan)
	if err != nil {
		return nil, errors.Internal("Failed to load price plan", err)
	}

	if plan.IsFree() {
		return nil, errors.BadRequest("This listing does not require payment", nil)
	}

	var email string
	if user, err := uc.userRepo.GetByID(ctx, userID); err == nil {
		email = user.Email
	}

	intent, err := uc.gateway.CreateIntent(ctx, service.PaymentIntentRequest{
		OrderID:       listing.ID,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		Description:   fmt.Sprintf("%s plan for %q", plan.Name, listing.Title),
		CustomerEmail: email,
	})
	if err != nil {
		return nil, errors.Internal("Payment gateway rejected the request", err)
	}

	return intent, nil
}

// UploadedFile is one file from the confirm request's multipart form.
type UploadedFile struct {
	Reader      io.Reader
	ContentType string
}

// ConfirmPayment verifies the intent with the gateway and, on success,
// activates the listing and attaches any files uploaded alongside the
// confirmation. The gateway's word is final: a client claiming success
// without the gateway agreeing changes nothing.
func (uc *CheckoutUseCase) ConfirmPayment(ctx context.Context, userID, listingID, intentID string, files []UploadedFile) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != userID {
		return nil, errors.Forbidden("You do not own this listing", nil)
	}

	if listing.Status == entity.ListingStatusActive {
		return listing, nil
	}
	if listing.Status != entity.ListingStatusPendingPayment {
		return nil, errors.Conflict("Listing is not awaiting payment")
	}

	status, err := uc.gateway.GetIntentStatus(ctx, intentID)
	if err != nil {
		return nil, errors.Internal("Failed to verify payment", err)
	}

	switch status.Status {
	case service.PaymentStatusSuccess:
	case service.PaymentStatusPending:
		return nil, errors.Conflict("Payment has not completed yet")
	default:
		return nil, errors.BadRequest("Payment failed", nil)
	}

	for i, file := range files {
		url, err := uc.uploader.UploadFile(ctx, file.Reader, file.ContentType, "listings/"+listing.ID)
		if err != nil {
			logger.Error("Failed to upload file for listing %s: %v", listing.ID, err)
			continue
		}
		listing.Images = append(listing.Images, entity.ListingImage{
			ID:           fmt.Sprintf("%s-upload-%d", intentID, i),
			URL:          url,
			DisplayOrder: len(listing.Images),
		})
	}

	listing.Status = entity.ListingStatusActive
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	if uc.notificationUC != nil {
		if _, err := uc.notificationUC.Notify(ctx, CreateNotificationInput{
			UserID:    listing.SellerID,
			StoreID:   listing.StoreID,
			Title:     "Your ad is live",
			Message:   fmt.Sprintf("Payment received, %q is now published.", listing.Title),
			Slug:      listing.Slug,
			ListingID: listing.ID,
			Channels:  entity.NotificationChannels{Email: true, InApp: true, Push: true},
		}); err != nil {
			logger.Error("Failed to notify seller for listing %s: %v", listing.ID, err)
		}
	}

	return listing, nil
}
