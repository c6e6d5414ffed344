package service

import "context"

// Payment intent statuses as reported by the gateway, mapped to an
// internal vocabulary the usecases reason about.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailure = "failure"
)

// PaymentIntentRequest asks the gateway to prepare a payment for a
// pending listing. Amount is in the plan's currency major units.
type PaymentIntentRequest struct {
	OrderID     string
	Amount      float64
	Currency    string
	Description string
	CustomerEmail string
}

// PaymentIntentResponse carries the gateway identifiers back to the
// client; ClientSecret is what the card widget consumes.
type PaymentIntentResponse struct {
	IntentID     string
	ClientSecret string
	Status       string
}

// PaymentGatewayService is the gateway contract. The client-side card
// confirmation happens entirely inside the provider's widget; the server
// only creates intents and verifies their final status.
type PaymentGatewayService interface {
	CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntentResponse, error)
	GetIntentStatus(ctx context.Context, intentID string) (*PaymentIntentResponse, error)
}
