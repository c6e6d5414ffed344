package entity

import "time"

// Message is immutable once created; a conversation only ever appends.
type Message struct {
	ID        string    `json:"id" firestore:"id"`
	ChatID    string    `json:"chat_id" firestore:"chatId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Content   string    `json:"content" firestore:"content"`
	ReadBy    []string  `json:"read_by" firestore:"readBy"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
