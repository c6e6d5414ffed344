package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/internal/domain/service"
	"adstream/pkg/errors"
)

func checkoutFixtures(status string) (*memListingRepo, *memNotificationRepo, *fakePaymentGateway, *fakeUploader, *CheckoutUseCase) {
	listings := newMemListingRepo(
		&entity.Listing{
			ID:       "listing-paid",
			SellerID: "seller-1",
			Title:    "2014 Corolla",
			Slug:     "2014-corolla-abc123",
			Plan:     "featured",
			Status:   entity.ListingStatusPendingPayment,
		},
		&entity.Listing{
			ID:       "listing-free",
			SellerID: "seller-1",
			Title:    "Old couch",
			Plan:     "free",
			Status:   entity.ListingStatusPendingPayment,
		},
	)
	plans := newMemPlanRepo(
		&entity.PricePlan{ID: "plan-free", Name: "Free", Slug: "free", Price: 0, DurationDays: 30, Status: "active"},
		&entity.PricePlan{ID: "plan-featured", Name: "Featured", Slug: "featured", Price: 9.99, Currency: "usd", DurationDays: 60, Status: "active"},
	)
	users := newMemUserRepo(&entity.User{ID: "seller-1", Email: "seller@example.com"})
	notifications := newMemNotificationRepo()
	paymentGW := &fakePaymentGateway{status: status}
	uploader := &fakeUploader{}

	notifyUC := NewNotificationUseCase(notifications, newMemDeviceRepo(), users, newFakeGateway(), &fakePushService{}, &fakeMailService{})
	uc := NewCheckoutUseCase(listings, plans, users, paymentGW, uploader, notifyUC)
	return listings, notifications, paymentGW, uploader, uc
}

func TestCreateIntentForPaidListing(t *testing.T) {
	_, _, paymentGW, _, uc := checkoutFixtures(service.PaymentStatusPending)

	intent, err := uc.CreateIntent(context.Background(), "seller-1", "listing-paid")
	require.NoError(t, err)
	assert.Equal(t, "pi_test", intent.IntentID)
	assert.Equal(t, "secret_test", intent.ClientSecret)
	assert.Equal(t, 1, paymentGW.intents)
}

func TestCreateIntentFreePlanNeverReachesGateway(t *testing.T) {
	_, _, paymentGW, _, uc := checkoutFixtures(service.PaymentStatusPending)

	_, err := uc.CreateIntent(context.Background(), "seller-1", "listing-free")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Zero(t, paymentGW.intents)
}

func TestCreateIntentRequiresOwnership(t *testing.T) {
	_, _, _, _, uc := checkoutFixtures(service.PaymentStatusPending)

	_, err := uc.CreateIntent(context.Background(), "someone-else", "listing-paid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestConfirmPaymentActivatesAndNotifies(t *testing.T) {
	listings, notifications, paymentGW, uploader, uc := checkoutFixtures(service.PaymentStatusSuccess)

	files := []UploadedFile{
		{Reader: strings.NewReader("front"), ContentType: "image/jpeg"},
		{Reader: strings.NewReader("back"), ContentType: "image/jpeg"},
	}

	listing, err := uc.ConfirmPayment(context.Background(), "seller-1", "listing-paid", "pi_test", files)
	require.NoError(t, err)

	assert.Equal(t, entity.ListingStatusActive, listing.Status)
	assert.Equal(t, 1, paymentGW.statusChecks)
	assert.Equal(t, 2, uploader.uploads)
	require.Len(t, listing.Images, 2)
	assert.Equal(t, "pi_test-upload-0", listing.Images[0].ID)

	stored, err := listings.GetByID(context.Background(), "listing-paid")
	require.NoError(t, err)
	assert.Equal(t, entity.ListingStatusActive, stored.Status)

	sellerInbox, _, err := notifications.ListByUser(context.Background(), "seller-1", repository.NotificationFilter{}, 20, 0)
	require.NoError(t, err)
	require.Len(t, sellerInbox, 1)
	assert.Equal(t, "Your ad is live", sellerInbox[0].Title)
}

func TestConfirmPaymentPendingIntentIsConflict(t *testing.T) {
	listings, _, _, _, uc := checkoutFixtures(service.PaymentStatusPending)

	_, err := uc.ConfirmPayment(context.Background(), "seller-1", "listing-paid", "pi_test", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))

	stored, _ := listings.GetByID(context.Background(), "listing-paid")
	assert.Equal(t, entity.ListingStatusPendingPayment, stored.Status)
}

func TestConfirmPaymentFailedIntentIsRejected(t *testing.T) {
	_, _, _, uploader, uc := checkoutFixtures(service.PaymentStatusFailure)

	_, err := uc.ConfirmPayment(context.Background(), "seller-1", "listing-paid", "pi_test", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Zero(t, uploader.uploads)
}

func TestConfirmPaymentIdempotentWhenAlreadyActive(t *testing.T) {
	listings, _, paymentGW, _, uc := checkoutFixtures(service.PaymentStatusSuccess)

	stored, _ := listings.GetByID(context.Background(), "listing-paid")
	stored.Status = entity.ListingStatusActive

	listing, err := uc.ConfirmPayment(context.Background(), "seller-1", "listing-paid", "pi_test", nil)
	require.NoError(t, err)
	assert.Equal(t, entity.ListingStatusActive, listing.Status)
	assert.Zero(t, paymentGW.statusChecks)
}
