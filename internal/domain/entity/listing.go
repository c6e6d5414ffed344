package entity

import "time"

// Listing statuses.
const (
	ListingStatusPendingPayment = "pending_payment"
	ListingStatusActive         = "active"
	ListingStatusExpired        = "expired"
	ListingStatusRejected       = "rejected"
)

type ListingImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Listing struct {
	ID          string                 `json:"id" firestore:"id"`
	CategoryID  string                 `json:"category_id" firestore:"categoryId"`
	StoreID     string                 `json:"store_id,omitempty" firestore:"storeId,omitempty"`
	SellerID    string                 `json:"seller_id" firestore:"sellerId"`
	Title       string                 `json:"title" firestore:"title"`
	Slug        string                 `json:"slug" firestore:"slug"`
	Description string                 `json:"description" firestore:"description"`
	Price       float64                `json:"price" firestore:"price"`
	Plan        string                 `json:"plan" firestore:"plan"` // price plan slug, "free" for the free plan
	Attributes  map[string]interface{} `json:"attributes" firestore:"attributes"`
	Images      []ListingImage         `json:"images" firestore:"images"`
	Status      string                 `json:"status" firestore:"status"`
	Views       int                    `json:"views" firestore:"views"`
	Featured    bool                   `json:"featured" firestore:"featured"`

	ExpiresAt time.Time  `json:"expires_at" firestore:"expiresAt"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}
