package bridge

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"adstream/pkg/event"
)

// MessageLog is the append-only message list for the open conversation.
// Load replaces it wholesale; live events append; switching conversations
// clears it. Order is arrival order, never re-sorted.
type MessageLog struct {
	transport Transport
	rest      *Client
	typing    *TypingMonitor
	selfID    string

	mu        sync.Mutex
	chatID    string
	messages  []event.MessageData
	lastError string
}

func NewMessageLog(transport Transport, rest *Client, typing *TypingMonitor, selfID string) *MessageLog {
	return &MessageLog{
		transport: transport,
		rest:      rest,
		typing:    typing,
		selfID:    selfID,
	}
}

// Load switches the log to a conversation and replaces its contents from
// the server. On failure the log stays empty and the error is kept as a
// user-readable string; nothing retries automatically.
func (l *MessageLog) Load(ctx context.Context, chatID string) error {
	l.mu.Lock()
	l.chatID = chatID
	l.messages = nil
	l.lastError = ""
	l.mu.Unlock()

	if l.typing != nil {
		l.typing.SetConversation(chatID)
	}

	items, err := l.rest.GetChatMessages(ctx, chatID, 1, 50)
	if err != nil {
		l.mu.Lock()
		l.lastError = "Could not load messages: " + err.Error()
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	// A slow response for a conversation the user already left is
	// dropped, not applied.
	if l.chatID == chatID {
		l.messages = items
	}
	l.mu.Unlock()

	return nil
}

// HandleNewMessage consumes new-message events. Messages for any other
// conversation are discarded, not buffered.
func (l *MessageLog) HandleNewMessage(env *event.Envelope) {
	var msg event.MessageData
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		return
	}
	if msg.ChatID == "" {
		msg.ChatID = env.ChatID
	}

	l.Append(msg)
}

// Append adds a message if it belongs to the active conversation.
func (l *MessageLog) Append(msg event.MessageData) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chatID == "" || msg.ChatID != l.chatID {
		return
	}

	l.messages = append(l.messages, msg)
}

// Send emits the message. The log never appends locally: the canonical
// record arrives back on the new-message event, the single source of
// truth that avoids echo duplicates.
func (l *MessageLog) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errEmptyMessage
	}

	l.mu.Lock()
	chatID := l.chatID
	l.mu.Unlock()

	if chatID == "" || l.selfID == "" {
		return errNoConversation
	}

	if l.typing != nil {
		l.typing.FlushBeforeSend()
	}

	l.transport.Emit(event.SendMessage, event.SendMessageData{ChatID: chatID, Content: text})
	return nil
}

// MarkRead tells the server the conversation has been seen.
func (l *MessageLog) MarkRead() {
	l.mu.Lock()
	chatID := l.chatID
	l.mu.Unlock()

	if chatID == "" {
		return
	}

	l.transport.Emit(event.MarkChatAsRead, event.MarkChatAsReadData{ChatID: chatID})
}

// Messages returns a copy of the current log.
func (l *MessageLog) Messages() []event.MessageData {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]event.MessageData, len(l.messages))
	copy(out, l.messages)
	return out
}

// LastError returns the last load failure, empty when the last load
// succeeded.
func (l *MessageLog) LastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastError
}

// ActiveChat returns the conversation the log currently tracks.
func (l *MessageLog) ActiveChat() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chatID
}
