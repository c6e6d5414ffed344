package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"adstream/pkg/logger"
)

// StripePaymentService talks to the Stripe PaymentIntents API over plain
// HTTP. The publishable key is only handed to clients; all server calls
// authenticate with the secret key.
type StripePaymentService struct {
	secretKey      string
	publishableKey string
	baseURL        string
	httpClient     *http.Client
}

func NewStripePaymentService(secretKey, publishableKey string) *StripePaymentService {
	return &StripePaymentService{
		secretKey:      secretKey,
		publishableKey: publishableKey,
		baseURL:        "https://api.stripe.com/v1",
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

// PublishableKey is exposed so the config endpoint can hand it to clients.
func (s *StripePaymentService) PublishableKey() string {
	return s.publishableKey
}

type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (s *StripePaymentService) CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntentResponse, error) {
	logger.Info("Creating payment intent for order %s, amount %.2f %s", req.OrderID, req.Amount, req.Currency)

	// Stripe amounts are in the currency's minor unit.
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(int64(math.Round(req.Amount*100)), 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("description", req.Description)
	form.Set("metadata[order_id]", req.OrderID)
	if req.CustomerEmail != "" {
		form.Set("receipt_email", req.CustomerEmail)
	}
	form.Set("automatic_payment_methods[enabled]", "true")

	body, err := s.do(ctx, http.MethodPost, "/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	var intent stripeIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse payment intent response: %v", err)
	}

	return &PaymentIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       mapStripeStatus(intent.Status),
	}, nil
}

func (s *StripePaymentService) GetIntentStatus(ctx context.Context, intentID string) (*PaymentIntentResponse, error) {
	body, err := s.do(ctx, http.MethodGet, "/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, err
	}

	var intent stripeIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse payment intent response: %v", err)
	}

	return &PaymentIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       mapStripeStatus(intent.Status),
	}, nil
}

func (s *StripePaymentService) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode >= 400 {
		var stripeErr stripeError
		if err := json.Unmarshal(respBody, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			logger.Error("Stripe API error: %s", stripeErr.Error.Message)
			return nil, fmt.Errorf("stripe API error: %s", stripeErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe API error: status %d", resp.StatusCode)
	}

	return respBody, nil
}

func mapStripeStatus(status string) string {
	switch status {
	case "succeeded":
		return PaymentStatusSuccess
	case "canceled":
		return PaymentStatusFailure
	default:
		// requires_payment_method, requires_confirmation, requires_action,
		// processing all mean the payment is still in flight.
		return PaymentStatusPending
	}
}
