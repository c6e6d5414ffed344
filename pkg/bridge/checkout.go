package bridge

import (
	"context"
	"strings"

	"adstream/pkg/logger"
)

// CardConfirmer runs the provider's card confirmation against a client
// secret. The real implementation is the provider's widget; tests stub
// it.
type CardConfirmer interface {
	Confirm(ctx context.Context, clientSecret string) error
}

// CheckoutResult reports where a submitted draft ended up.
type CheckoutResult struct {
	Listing *Listing
	Paid    bool
}

// CheckoutDriver submits a listing draft. Drafts on the free plan go
// live with a single create call and never touch the payment gateway;
// paid drafts create, open an intent, confirm the card, then post
// exactly one payment confirmation carrying the intent id and the
// draft's pending files.
type CheckoutDriver struct {
	rest      *Client
	confirmer CardConfirmer

	draft *ListingDraft
}

func NewCheckoutDriver(rest *Client, confirmer CardConfirmer) *CheckoutDriver {
	return &CheckoutDriver{
		rest:      rest,
		confirmer: confirmer,
	}
}

// SetDraft stores the composed draft. Drafts are optimistic local state;
// submission is what makes them real.
func (d *CheckoutDriver) SetDraft(draft ListingDraft) {
	if draft.Plan == "" {
		draft.Plan = "free"
	}
	d.draft = &draft
}

// Draft returns the pending draft, nil after a successful submit.
func (d *CheckoutDriver) Draft() *ListingDraft {
	return d.draft
}

// Submit runs the full checkout. On success the draft is cleared; on
// failure it is kept so the user can retry explicitly.
func (d *CheckoutDriver) Submit(ctx context.Context) (*CheckoutResult, error) {
	if d.draft == nil {
		return nil, errNoDraft
	}
	if strings.TrimSpace(d.draft.Title) == "" {
		return nil, errEmptyTitle
	}

	listing, err := d.rest.CreateListing(ctx, *d.draft)
	if err != nil {
		return nil, err
	}

	if listing.Status == "active" {
		// Free plan: live immediately, no intent.
		d.draft = nil
		return &CheckoutResult{Listing: listing, Paid: false}, nil
	}

	intent, err := d.rest.CreatePaymentIntent(ctx, listing.ID)
	if err != nil {
		return nil, err
	}

	if err := d.confirmer.Confirm(ctx, intent.ClientSecret); err != nil {
		logger.Warn("Card confirmation failed for listing %s: %v", listing.ID, err)
		return nil, err
	}

	confirmed, err := d.rest.ConfirmPayment(ctx, listing.ID, intent.IntentID, d.draft.Files)
	if err != nil {
		return nil, err
	}

	d.draft = nil
	return &CheckoutResult{Listing: confirmed, Paid: true}, nil
}
