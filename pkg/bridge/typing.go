package bridge

import (
	"encoding/json"
	"sync"
	"time"

	"adstream/pkg/event"
)

// TypingState is the monitor's current state.
type TypingState int

const (
	TypingIdle TypingState = iota
	TypingLocal
	TypingRemote
)

const typingTimeout = 2 * time.Second

// TypingMonitor drives the typing indicator for the open conversation.
// Local keystrokes emit typing and arm a 2 second inactivity timer whose
// expiry emits exactly one stop-typing. Remote events from other users
// flip the remote state, last writer wins; the user's own events echoed
// back are ignored.
type TypingMonitor struct {
	transport Transport
	selfID    string

	mu         sync.Mutex
	chatID     string
	state      TypingState
	remoteUser string
	timer      *time.Timer
	generation int

	timeout time.Duration
}

func NewTypingMonitor(t Transport, selfID string) *TypingMonitor {
	return &TypingMonitor{
		transport: t,
		selfID:    selfID,
		timeout:   typingTimeout,
	}
}

// SetConversation switches the monitor to a new chat, clearing all
// typing state and any pending timer.
func (m *TypingMonitor) SetConversation(chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTimerLocked()
	m.chatID = chatID
	m.state = TypingIdle
	m.remoteUser = ""
}

// Keystroke reports local typing. The first keystroke emits typing;
// every keystroke re-arms the inactivity timer.
func (m *TypingMonitor) Keystroke() {
	m.mu.Lock()
	chatID := m.chatID
	if chatID == "" {
		m.mu.Unlock()
		return
	}

	wasLocal := m.state == TypingLocal
	m.state = TypingLocal
	m.armTimerLocked()
	m.mu.Unlock()

	if !wasLocal {
		m.transport.Emit(event.Typing, event.TypingData{ChatID: chatID, UserID: m.selfID})
	}
}

// FlushBeforeSend cancels the pending timer and emits stop-typing
// synchronously. Called right before a message send so the indicator
// clears with the message, not two seconds after it.
func (m *TypingMonitor) FlushBeforeSend() {
	m.mu.Lock()
	if m.state != TypingLocal {
		m.mu.Unlock()
		return
	}
	chatID := m.chatID
	m.stopTimerLocked()
	m.state = TypingIdle
	m.mu.Unlock()

	m.transport.Emit(event.StopTyping, event.TypingData{ChatID: chatID, UserID: m.selfID})
}

// HandleRemote consumes user-typing and user-stop-typing events.
func (m *TypingMonitor) HandleRemote(env *event.Envelope) {
	var data event.TypingData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return
		}
	}
	if data.ChatID == "" {
		data.ChatID = env.ChatID
	}

	// Self events reflected by the transport never flip remote state.
	if data.UserID == m.selfID {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if data.ChatID != m.chatID {
		return
	}

	switch env.Event {
	case event.UserTyping:
		m.state = TypingRemote
		m.remoteUser = data.UserID

	case event.UserStopTyping:
		if m.state == TypingRemote && m.remoteUser == data.UserID {
			m.state = TypingIdle
			m.remoteUser = ""
		}
	}
}

// State returns the current state and, when remote, who is typing.
func (m *TypingMonitor) State() (TypingState, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.remoteUser
}

// Close stops any pending timer. Safe to call on any exit path.
func (m *TypingMonitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.state = TypingIdle
}

func (m *TypingMonitor) armTimerLocked() {
	m.stopTimerLocked()
	m.generation++
	gen := m.generation
	m.timer = time.AfterFunc(m.timeout, func() {
		m.expire(gen)
	})
}

func (m *TypingMonitor) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
}

func (m *TypingMonitor) expire(gen int) {
	m.mu.Lock()
	if gen != m.generation || m.state != TypingLocal {
		m.mu.Unlock()
		return
	}
	chatID := m.chatID
	m.state = TypingIdle
	m.timer = nil
	m.mu.Unlock()

	m.transport.Emit(event.StopTyping, event.TypingData{ChatID: chatID, UserID: m.selfID})
}
