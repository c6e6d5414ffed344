package bridge

import (
	"context"
	"sync"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"adstream/pkg/event"
	"adstream/pkg/logger"
)

// Handler consumes one realtime event.
type Handler func(env *event.Envelope)

// Transport is the realtime channel as the bridge components see it:
// fire-and-forget emits and named subscriptions. Emits while disconnected
// are dropped, never queued. Tests substitute an in-process fake.
type Transport interface {
	Emit(name event.Name, data interface{})
	On(name event.Name, h Handler) (off func())
}

// SocketTransport is the websocket-backed Transport. It keeps one
// connection alive, reconnecting with bounded backoff up to a capped
// attempt count, and dispatches a synthetic connect event after every
// successful dial.
type SocketTransport struct {
	url string

	mu        sync.RWMutex
	conn      *gorillaws.Conn
	connected bool
	handlers  map[event.Name]map[int]Handler
	nextID    int
	closed    bool

	dialDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
}

const (
	defaultDialDelay   = time.Second
	defaultMaxDelay    = 30 * time.Second
	defaultMaxAttempts = 10
)

func NewSocketTransport(url string) *SocketTransport {
	return &SocketTransport{
		url:         url,
		handlers:    make(map[event.Name]map[int]Handler),
		dialDelay:   defaultDialDelay,
		maxDelay:    defaultMaxDelay,
		maxAttempts: defaultMaxAttempts,
	}
}

// Connect dials and keeps the connection alive until ctx is done or the
// attempt cap is exhausted. It returns after the first dial outcome; the
// reconnect loop continues in the background.
func (t *SocketTransport) Connect(ctx context.Context) {
	go t.run(ctx)
}

func (t *SocketTransport) run(ctx context.Context) {
	delay := t.dialDelay
	attempts := 0

	for {
		if ctx.Err() != nil || t.isClosed() {
			return
		}

		conn, _, err := gorillaws.DefaultDialer.DialContext(ctx, t.url, nil)
		if err != nil {
			attempts++
			if attempts >= t.maxAttempts {
				logger.Error("Realtime connection gave up after %d attempts: %v", attempts, err)
				return
			}
			logger.Warn("Realtime dial failed (attempt %d): %v", attempts, err)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
			delay *= 2
			if delay > t.maxDelay {
				delay = t.maxDelay
			}
			continue
		}

		attempts = 0
		delay = t.dialDelay

		t.mu.Lock()
		t.conn = conn
		t.connected = true
		t.mu.Unlock()

		// Upstream components re-run idempotent setup on this.
		t.dispatch(&event.Envelope{Event: event.Connect, Timestamp: time.Now().UTC().Format(time.RFC3339)})

		t.readLoop(conn)

		t.mu.Lock()
		t.connected = false
		t.conn = nil
		t.mu.Unlock()
	}
}

func (t *SocketTransport) readLoop(conn *gorillaws.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			logger.Warn("Realtime read error: %v", err)
			conn.Close()
			return
		}

		env, err := event.Decode(payload)
		if err != nil {
			logger.Warn("Malformed realtime frame: %v", err)
			continue
		}

		t.dispatch(env)
	}
}

// Emit sends an event if connected and silently drops it otherwise.
// Connection errors are logged, never surfaced to the caller.
func (t *SocketTransport) Emit(name event.Name, data interface{}) {
	env, err := event.NewEnvelope(name, data)
	if err != nil {
		logger.Error("Failed to encode %s event: %v", name, err)
		return
	}
	payload, err := env.Encode()
	if err != nil {
		logger.Error("Failed to encode %s event: %v", name, err)
		return
	}

	t.mu.RLock()
	conn, connected := t.conn, t.connected
	t.mu.RUnlock()

	if !connected || conn == nil {
		logger.Debug("Dropped %s emit while disconnected", name)
		return
	}

	if err := conn.WriteMessage(gorillaws.TextMessage, payload); err != nil {
		logger.Warn("Failed to emit %s: %v", name, err)
	}
}

// On registers a handler and returns its removal func. Every
// registration must be paired with a call to the returned func, or
// handlers leak across repeated setups.
func (t *SocketTransport) On(name event.Name, h Handler) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handlers[name] == nil {
		t.handlers[name] = make(map[int]Handler)
	}
	id := t.nextID
	t.nextID++
	t.handlers[name][id] = h

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.handlers[name], id)
	}
}

func (t *SocketTransport) dispatch(env *event.Envelope) {
	t.mu.RLock()
	hs := make([]Handler, 0, len(t.handlers[env.Event]))
	for _, h := range t.handlers[env.Event] {
		hs = append(hs, h)
	}
	t.mu.RUnlock()

	for _, h := range hs {
		h(env)
	}
}

// Close stops the reconnect loop and drops the current connection.
func (t *SocketTransport) Close() {
	t.mu.Lock()
	t.closed = true
	conn := t.conn
	t.conn = nil
	t.connected = false
	t.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (t *SocketTransport) isClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}
