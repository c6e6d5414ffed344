// Package bridge is the in-process client of the marketplace: a typed
// REST client plus the state machines behind the chat and notification
// views. Everything here talks to the server through its documented
// surfaces only.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"adstream/pkg/event"
)

// Notification mirrors the server's notification JSON.
type Notification struct {
	ID        string                     `json:"id"`
	UserID    string                     `json:"user_id"`
	StoreID   string                     `json:"store_id,omitempty"`
	Title     string                     `json:"title"`
	Message   string                     `json:"message"`
	Read      bool                       `json:"read"`
	Channels  event.NotificationChannels `json:"channels"`
	Slug      string                     `json:"slug,omitempty"`
	Image     string                     `json:"image,omitempty"`
	ListingID string                     `json:"listing_id,omitempty"`
	CreatedAt string                     `json:"created_at"`
}

// Preference mirrors the server's channel preference JSON.
type Preference struct {
	StoreID string `json:"store_id,omitempty"`
	Email   bool   `json:"email"`
	InApp   bool   `json:"inApp"`
	Push    bool   `json:"push"`
}

// Listing is the slice of the server's listing JSON the client needs.
type Listing struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// Client is the authenticated REST client. All methods decode the
// server's response envelope and turn failures into plain errors.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken swaps the bearer token after a refresh.
func (c *Client) SetToken(token string) {
	c.token = token
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

func decodeEnvelope(resp *http.Response, out interface{}) error {
	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("malformed server response: %w", err)
	}

	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("%s", env.Error.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("malformed server response: %w", err)
		}
	}

	return nil
}

type messagesPage struct {
	Items []event.MessageData `json:"items"`
	Total int64               `json:"total"`
}

// GetChatMessages loads one page of a conversation, oldest first.
func (c *Client) GetChatMessages(ctx context.Context, chatID string, page, limit int) ([]event.MessageData, error) {
	path := fmt.Sprintf("/v1/chats/%s/messages?page=%d&limit=%d", url.PathEscape(chatID), page, limit)

	var result messagesPage
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// InboxPage is one page of the notification inbox.
type InboxPage struct {
	Items       []Notification `json:"items"`
	Total       int64          `json:"total"`
	UnreadCount int64          `json:"unreadCount"`
}

// InboxFilters narrow a notification fetch.
type InboxFilters struct {
	UnreadOnly bool
	StoreID    string
}

func (c *Client) ListNotifications(ctx context.Context, page int, filters InboxFilters) (*InboxPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if filters.UnreadOnly {
		q.Set("unread", "true")
	}
	if filters.StoreID != "" {
		q.Set("store_id", filters.StoreID)
	}

	var result InboxPage
	if err := c.do(ctx, http.MethodGet, "/v1/notifications?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, "/v1/notifications/mark-all-read", nil, nil)
}

// ToggleNotification flips the read flag and returns the stored record.
func (c *Client) ToggleNotification(ctx context.Context, id string) (*Notification, error) {
	var result Notification
	if err := c.do(ctx, http.MethodPatch, "/v1/notifications/"+url.PathEscape(id)+"/toggle", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/notifications/"+url.PathEscape(id), nil, nil)
}

func (c *Client) DeleteAllNotifications(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/notifications/delete-all", nil, nil)
}

func (c *Client) GetPreferences(ctx context.Context, storeID string) (*Preference, error) {
	path := "/v1/notifications/preferences"
	if storeID != "" {
		path += "?store_id=" + url.QueryEscape(storeID)
	}

	var result Preference
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SavePreferences(ctx context.Context, pref Preference) (*Preference, error) {
	var result Preference
	if err := c.do(ctx, http.MethodPut, "/v1/notifications/preferences", pref, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type registerDeviceBody struct {
	DeviceID string `json:"device_id"`
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func (c *Client) RegisterDevice(ctx context.Context, deviceID, token string) error {
	body := registerDeviceBody{DeviceID: deviceID, Token: token, Platform: "web"}
	return c.do(ctx, http.MethodPost, "/v1/notifications/fcm/register", body, nil)
}

func (c *Client) UnregisterDevice(ctx context.Context, deviceID string) error {
	body := map[string]string{"device_id": deviceID}
	return c.do(ctx, http.MethodPost, "/v1/notifications/fcm/unregister", body, nil)
}

// ListingDraft is the ad the user composed locally, pending submission.
type ListingDraft struct {
	CategoryID  string                 `json:"category_id"`
	StoreID     string                 `json:"store_id,omitempty"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Price       float64                `json:"price"`
	Plan        string                 `json:"plan"`
	Attributes  map[string]interface{} `json:"attributes"`

	// Files are held back until payment confirms (paid plans) or
	// dropped into the create call's follow-up (free plans).
	Files []DraftFile `json:"-"`
}

// DraftFile is a file the user attached to the draft.
type DraftFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

func (c *Client) CreateListing(ctx context.Context, draft ListingDraft) (*Listing, error) {
	var result Listing
	if err := c.do(ctx, http.MethodPost, "/v1/my-listings", draft, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PaymentIntent is the gateway handle returned by the intent endpoint.
type PaymentIntent struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

func (c *Client) CreatePaymentIntent(ctx context.Context, listingID string) (*PaymentIntent, error) {
	body := map[string]string{"listing_id": listingID}

	var result PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/intent", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmPayment posts the multipart confirmation: listing id, intent id
// and any files held back during the draft phase.
func (c *Client) ConfirmPayment(ctx context.Context, listingID, intentID string, files []DraftFile) (*Listing, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("listing_id", listingID); err != nil {
		return nil, err
	}
	if err := w.WriteField("intent_id", intentID); err != nil {
		return nil, err
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/confirm", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result Listing
	if err := decodeEnvelope(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
