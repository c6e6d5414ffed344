// Package event defines the wire contract for the realtime channel. The
// server hub and the client bridge both import it, so an event name can
// never drift between the two sides.
package event

import (
	"encoding/json"
	"time"
)

// Name identifies one kind of realtime event.
type Name string

// Events emitted by clients.
const (
	JoinChat       Name = "join-chat"
	JoinUser       Name = "join-user"
	Typing         Name = "typing"
	StopTyping     Name = "stop-typing"
	SendMessage    Name = "send-message"
	MarkChatAsRead Name = "mark-chat-as-read"
)

// Events delivered to clients.
const (
	Connect         Name = "connect"
	NewMessage      Name = "new-message"
	UserTyping      Name = "user-typing"
	UserStopTyping  Name = "user-stop-typing"
	NotificationNew Name = "notification:new"
	Error           Name = "error"
)

// Envelope is the JSON frame exchanged over the websocket.
type Envelope struct {
	Event     Name            `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	ChatID    string          `json:"chat_id,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// NewEnvelope marshals data into a ready-to-send frame.
func NewEnvelope(name Name, data interface{}) (*Envelope, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Envelope{
		Event:     name,
		Data:      raw,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Encode serializes the envelope for the wire.
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses a wire frame into an envelope.
func Decode(b []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// JoinChatData joins the socket to a conversation room.
type JoinChatData struct {
	ChatID string `json:"chat_id"`
}

// JoinUserData joins the socket to the user's personal room so
// notification events reach every open tab.
type JoinUserData struct {
	UserID string `json:"user_id"`
}

// TypingData carries typing and stop-typing state for a conversation.
type TypingData struct {
	ChatID string `json:"chat_id"`
	UserID string `json:"user_id"`
}

// SendMessageData is the client's outbound message. The canonical message
// comes back as a MessageData on the new-message event; clients must not
// append locally.
type SendMessageData struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

// MessageData is the canonical persisted message echoed to the room.
type MessageData struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// MarkChatAsReadData clears the caller's unread counter for a chat.
type MarkChatAsReadData struct {
	ChatID string `json:"chat_id"`
}

// NotificationChannels mirrors the per-notification delivery flags.
type NotificationChannels struct {
	Email bool `json:"email"`
	InApp bool `json:"inApp"`
	Push  bool `json:"push"`
}

// NotificationData is the payload of notification:new.
type NotificationData struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Slug      string               `json:"slug,omitempty"`
	Image     string               `json:"image,omitempty"`
	ListingID string               `json:"listing_id,omitempty"`
	StoreID   string               `json:"store_id,omitempty"`
	Channels  NotificationChannels `json:"channels"`
	CreatedAt string               `json:"created_at"`
}

// ErrorData is the payload of error events pushed by the server.
type ErrorData struct {
	Message string `json:"message"`
}
