package bridge

import (
	"sync"

	"adstream/pkg/event"
)

// RoomTracker guards room joins: at most one join emit per key until a
// reset allows exactly one more. The server expires stale membership, so
// no leave operation is modeled.
type RoomTracker struct {
	transport Transport
	joinEvent event.Name
	payload   func(key string) interface{}

	mu     sync.Mutex
	key    string
	joined bool
}

// NewChatRoomTracker tracks the active conversation's room.
func NewChatRoomTracker(t Transport) *RoomTracker {
	return &RoomTracker{
		transport: t,
		joinEvent: event.JoinChat,
		payload: func(key string) interface{} {
			return event.JoinChatData{ChatID: key}
		},
	}
}

// NewUserRoomTracker tracks the personal notification room.
func NewUserRoomTracker(t Transport) *RoomTracker {
	return &RoomTracker{
		transport: t,
		joinEvent: event.JoinUser,
		payload: func(key string) interface{} {
			return event.JoinUserData{UserID: key}
		},
	}
}

// Join emits the join event unless this key is already joined. A new key
// always clears the previous joined state first, so a stale join never
// blocks a legitimate one.
func (r *RoomTracker) Join(key string) {
	if key == "" {
		return
	}

	r.mu.Lock()
	if r.key != key {
		r.joined = false
		r.key = key
	}
	if r.joined {
		r.mu.Unlock()
		return
	}
	r.joined = true
	r.mu.Unlock()

	r.transport.Emit(r.joinEvent, r.payload(key))
}

// Reset clears the joined flag so the next Join emits again. Wire this
// to the transport's connect event to re-establish rooms after a
// reconnect.
func (r *RoomTracker) Reset() {
	r.mu.Lock()
	r.joined = false
	r.mu.Unlock()
}

// Rejoin re-emits the last joined key, if any. Convenience for the
// connect handler: Reset then Rejoin restores membership.
func (r *RoomTracker) Rejoin() {
	r.mu.Lock()
	key := r.key
	r.mu.Unlock()

	if key != "" {
		r.Join(key)
	}
}
