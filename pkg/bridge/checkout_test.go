package bridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfirmer struct {
	err   error
	calls int
}

func (s *stubConfirmer) Confirm(ctx context.Context, clientSecret string) error {
	s.calls++
	return s.err
}

type checkoutServer struct {
	server *httptest.Server

	createCalls  int
	intentCalls  int
	confirmCalls int

	createdStatus string
	lastIntentID  string
	lastFileCount int
}

func newCheckoutServer(t *testing.T, createdStatus string) *checkoutServer {
	cs := &checkoutServer{createdStatus: createdStatus}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/my-listings", func(w http.ResponseWriter, r *http.Request) {
		cs.createCalls++
		writeSuccess(w, Listing{ID: "l1", Slug: "red-bike", Title: "Red bike", Status: cs.createdStatus})
	})
	mux.HandleFunc("/v1/checkout/intent", func(w http.ResponseWriter, r *http.Request) {
		cs.intentCalls++
		writeSuccess(w, PaymentIntent{IntentID: "pi_123", ClientSecret: "secret_123", Status: "pending"})
	})
	mux.HandleFunc("/v1/checkout/confirm", func(w http.ResponseWriter, r *http.Request) {
		cs.confirmCalls++
		r.ParseMultipartForm(1 << 20)
		cs.lastIntentID = r.FormValue("intent_id")
		if r.MultipartForm != nil {
			for _, headers := range r.MultipartForm.File {
				cs.lastFileCount += len(headers)
			}
		}
		writeSuccess(w, Listing{ID: "l1", Slug: "red-bike", Status: "active"})
	})

	cs.server = httptest.NewServer(mux)
	t.Cleanup(cs.server.Close)
	return cs
}

func TestCheckoutFreePlanSkipsPayment(t *testing.T) {
	cs := newCheckoutServer(t, "active")
	confirmer := &stubConfirmer{}
	driver := NewCheckoutDriver(NewClient(cs.server.URL, "test-token"), confirmer)

	driver.SetDraft(ListingDraft{Title: "Red bike", CategoryID: "bikes"})

	result, err := driver.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Paid)
	assert.Equal(t, 1, cs.createCalls)
	assert.Zero(t, cs.intentCalls)
	assert.Zero(t, cs.confirmCalls)
	assert.Zero(t, confirmer.calls)
	assert.Nil(t, driver.Draft())
}

func TestCheckoutPaidPlanConfirmsExactlyOnce(t *testing.T) {
	cs := newCheckoutServer(t, "pending_payment")
	confirmer := &stubConfirmer{}
	driver := NewCheckoutDriver(NewClient(cs.server.URL, "test-token"), confirmer)

	driver.SetDraft(ListingDraft{
		Title:      "Red bike",
		CategoryID: "bikes",
		Plan:       "featured",
		Files: []DraftFile{
			{FieldName: "photo", FileName: "bike.jpg", ContentType: "image/jpeg", Content: []byte("jpeg")},
		},
	})

	result, err := driver.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Paid)
	assert.Equal(t, "active", result.Listing.Status)
	assert.Equal(t, 1, cs.intentCalls)
	assert.Equal(t, 1, confirmer.calls)
	assert.Equal(t, 1, cs.confirmCalls)
	assert.Equal(t, "pi_123", cs.lastIntentID)
	assert.Equal(t, 1, cs.lastFileCount)
	assert.Nil(t, driver.Draft())
}

func TestCheckoutCardDeclineKeepsDraft(t *testing.T) {
	cs := newCheckoutServer(t, "pending_payment")
	confirmer := &stubConfirmer{err: errors.New("card declined")}
	driver := NewCheckoutDriver(NewClient(cs.server.URL, "test-token"), confirmer)

	driver.SetDraft(ListingDraft{Title: "Red bike", Plan: "featured"})

	_, err := driver.Submit(context.Background())
	require.Error(t, err)

	// No confirm call after a decline; the draft survives for a retry.
	assert.Zero(t, cs.confirmCalls)
	assert.NotNil(t, driver.Draft())
}

func TestCheckoutDefaultsToFreePlan(t *testing.T) {
	driver := NewCheckoutDriver(NewClient("http://unused", "test-token"), &stubConfirmer{})

	driver.SetDraft(ListingDraft{Title: "Red bike"})
	assert.Equal(t, "free", driver.Draft().Plan)
}

func TestCheckoutSubmitWithoutDraft(t *testing.T) {
	driver := NewCheckoutDriver(NewClient("http://unused", "test-token"), &stubConfirmer{})

	_, err := driver.Submit(context.Background())
	assert.ErrorIs(t, err, errNoDraft)
}
