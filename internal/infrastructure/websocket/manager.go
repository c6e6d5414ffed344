package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"adstream/pkg/event"
	"adstream/pkg/logger"
)

// Client represents one WebSocket connection.
type Client struct {
	UserID         string
	Conn           *websocket.Conn
	Send           chan []byte
	ActiveChatRoom string
}

// EventHandler receives the events the manager does not handle itself
// (everything except room joins). The chat usecase implements it.
type EventHandler interface {
	HandleEvent(ctx context.Context, client *Client, env *event.Envelope)
}

// Manager tracks all active connections and room membership.
type Manager struct {
	clients   map[string]*Client
	chatRooms map[string]map[string]bool // chatID -> set of userIDs

	Register   chan *Client
	Unregister chan *Client

	handler EventHandler
	mutex   sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		chatRooms:  make(map[string]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// SetHandler wires the domain-level event handler. Must be called before
// Start; events arriving without a handler are answered with an error.
func (m *Manager) SetHandler(h EventHandler) {
	m.handler = h
}

// Start runs the manager's registration loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				logger.Info("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
					close(client.Send)
				}
				for chatID, members := range m.chatRooms {
					delete(members, client.UserID)
					if len(members) == 0 {
						delete(m.chatRooms, chatID)
					}
				}
				m.mutex.Unlock()
				logger.Info("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// JoinChatRoom adds a user to a conversation room. Joining a room the user
// is already in is a no-op, which makes client rejoins after reconnect
// idempotent.
func (m *Manager) JoinChatRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	members, ok := m.chatRooms[chatID]
	if !ok {
		members = make(map[string]bool)
		m.chatRooms[chatID] = members
	}
	members[userID] = true
}

func (m *Manager) LeaveChatRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if members, ok := m.chatRooms[chatID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.chatRooms, chatID)
		}
	}
}

// SendToUser delivers an envelope to a specific user, if connected.
func (m *Manager) SendToUser(userID string, env *event.Envelope) {
	payload, err := env.Encode()
	if err != nil {
		logger.Error("Failed to encode %s event for user %s: %v", env.Event, userID, err)
		return
	}

	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if ok {
		m.deliver(client, payload)
	}
}

// BroadcastToChatRoom sends an envelope to every member of a chat room,
// including the sender. Message echo relies on this: the canonical
// message reaches the sender through the same path as everyone else.
func (m *Manager) BroadcastToChatRoom(chatID string, env *event.Envelope) {
	m.broadcastToChatRoom(chatID, "", env)
}

// BroadcastToChatRoomExcept sends to every room member except one user.
// Typing indicators use this so senders never see their own events.
func (m *Manager) BroadcastToChatRoomExcept(chatID, exceptUserID string, env *event.Envelope) {
	m.broadcastToChatRoom(chatID, exceptUserID, env)
}

func (m *Manager) broadcastToChatRoom(chatID, exceptUserID string, env *event.Envelope) {
	payload, err := env.Encode()
	if err != nil {
		logger.Error("Failed to encode %s event for chat %s: %v", env.Event, chatID, err)
		return
	}

	m.mutex.RLock()
	members := m.chatRooms[chatID]
	recipients := make([]*Client, 0, len(members))
	for userID := range members {
		if userID == exceptUserID {
			continue
		}
		if client, ok := m.clients[userID]; ok {
			recipients = append(recipients, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range recipients {
		m.deliver(client, payload)
	}
}

// IsUserInChatRoom reports whether a user currently has the room joined.
func (m *Manager) IsUserInChatRoom(chatID, userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	members, ok := m.chatRooms[chatID]
	return ok && members[userID]
}

func (m *Manager) deliver(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		logger.Warn("Client %s send buffer full, dropping connection", client.UserID)
		m.Unregister <- client
	}
}

// ReadPump reads frames from the connection and dispatches them.
func (c *Client) ReadPump(ctx context.Context, m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Read error from %s: %v", c.UserID, err)
			}
			break
		}

		m.dispatch(ctx, c, payload)
	}
}

// WritePump drains the send channel onto the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("Write error to %s: %v", c.UserID, err)
			return
		}
	}
}
