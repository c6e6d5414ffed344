package entity

import "time"

// PricePlan is an admin-managed listing plan. A plan with Price == 0 is the
// free plan: listings on it activate without any payment round-trip.
type PricePlan struct {
	ID           string    `json:"id" firestore:"id"`
	Name         string    `json:"name" firestore:"name"`
	Slug         string    `json:"slug" firestore:"slug"`
	Price        float64   `json:"price" firestore:"price"`
	Currency     string    `json:"currency" firestore:"currency"`
	DurationDays int       `json:"duration_days" firestore:"durationDays"`
	Features     []string  `json:"features,omitempty" firestore:"features,omitempty"`
	Status       string    `json:"status" firestore:"status"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (p *PricePlan) IsFree() bool {
	return p.Price == 0
}
