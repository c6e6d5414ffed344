package entity

import "time"

// NotificationChannels flags which delivery channels apply to a single
// notification. InApp controls the toast; Push and Email are delivered
// out-of-band and filtered further by the user's preferences.
type NotificationChannels struct {
	Email bool `json:"email" firestore:"email"`
	InApp bool `json:"inApp" firestore:"inApp"`
	Push  bool `json:"push" firestore:"push"`
}

type Notification struct {
	ID        string               `json:"id" firestore:"id"`
	UserID    string               `json:"user_id" firestore:"userId"`
	StoreID   string               `json:"store_id,omitempty" firestore:"storeId,omitempty"`
	Title     string               `json:"title" firestore:"title"`
	Message   string               `json:"message" firestore:"message"`
	Read      bool                 `json:"read" firestore:"read"`
	Channels  NotificationChannels `json:"channels" firestore:"channels"`
	Slug      string               `json:"slug,omitempty" firestore:"slug,omitempty"`
	Image     string               `json:"image,omitempty" firestore:"image,omitempty"`
	ListingID string               `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	CreatedAt time.Time            `json:"created_at" firestore:"createdAt"`
}

// NotificationPreference is the per-user, per-store channel opt-in triple.
// When no record exists the server treats every channel as enabled.
type NotificationPreference struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	StoreID   string    `json:"store_id,omitempty" firestore:"storeId,omitempty"`
	Email     bool      `json:"email" firestore:"email"`
	InApp     bool      `json:"inApp" firestore:"inApp"`
	Push      bool      `json:"push" firestore:"push"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// DefaultPreference is the server-side default applied when a user has
// never saved preferences for a store.
func DefaultPreference(userID, storeID string) *NotificationPreference {
	return &NotificationPreference{
		UserID:  userID,
		StoreID: storeID,
		Email:   true,
		InApp:   true,
		Push:    true,
	}
}
