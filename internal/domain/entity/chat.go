package entity

import "time"

// Chat is created server-side when a buyer first messages a seller about a
// listing; clients only ever join and read it.
type Chat struct {
	ID            string         `json:"id" firestore:"id"`
	Participants  []string       `json:"participants" firestore:"participants"`
	ListingID     string         `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	BuyerID       string         `json:"buyer_id" firestore:"buyerId"`
	SellerID      string         `json:"seller_id" firestore:"sellerId"`
	LastMessage   string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time      `json:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount   map[string]int `json:"unread_count" firestore:"unreadCount"`
	CreatedAt     time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time      `json:"updated_at" firestore:"updatedAt"`
}
