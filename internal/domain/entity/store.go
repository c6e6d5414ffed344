package entity

import "time"

type Store struct {
	ID          string    `json:"id" firestore:"id"`
	Name        string    `json:"name" firestore:"name"`
	Slug        string    `json:"slug" firestore:"slug"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	Logo        string    `json:"logo,omitempty" firestore:"logo,omitempty"`
	OwnerID     string    `json:"owner_id" firestore:"ownerId"`
	Status      string    `json:"status" firestore:"status"` // "active", "suspended"
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
