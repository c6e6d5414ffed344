package entity

import "time"

// Device is one browser's push registration: the FCM token plus the
// client-generated device identifier it persists locally.
type Device struct {
	ID        string    `json:"id" firestore:"id"` // client-generated device id
	UserID    string    `json:"user_id" firestore:"userId"`
	Token     string    `json:"token" firestore:"token"`
	Platform  string    `json:"platform,omitempty" firestore:"platform,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
