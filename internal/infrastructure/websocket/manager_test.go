package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstream/pkg/event"
)

func testClient(userID string) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 16)}
}

func addClient(m *Manager, c *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.clients[c.UserID] = c
}

func received(t *testing.T, c *Client) *event.Envelope {
	t.Helper()
	select {
	case payload := <-c.Send:
		env, err := event.Decode(payload)
		require.NoError(t, err)
		return env
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return nil
	}
}

func TestJoinChatRoomIdempotent(t *testing.T) {
	m := NewManager()

	m.JoinChatRoom("chat-1", "user-1")
	m.JoinChatRoom("chat-1", "user-1")

	assert.True(t, m.IsUserInChatRoom("chat-1", "user-1"))
	assert.Len(t, m.chatRooms["chat-1"], 1)
}

func TestLeaveChatRoomDropsEmptyRoom(t *testing.T) {
	m := NewManager()

	m.JoinChatRoom("chat-1", "user-1")
	m.LeaveChatRoom("chat-1", "user-1")

	assert.False(t, m.IsUserInChatRoom("chat-1", "user-1"))
	assert.NotContains(t, m.chatRooms, "chat-1")
}

func TestBroadcastToChatRoomReachesEveryMember(t *testing.T) {
	m := NewManager()
	alice := testClient("alice")
	bob := testClient("bob")
	addClient(m, alice)
	addClient(m, bob)
	m.JoinChatRoom("chat-1", "alice")
	m.JoinChatRoom("chat-1", "bob")

	env, err := event.NewEnvelope(event.NewMessage, event.MessageData{ID: "m1", ChatID: "chat-1", SenderID: "alice", Content: "hi"})
	require.NoError(t, err)
	m.BroadcastToChatRoom("chat-1", env)

	assert.Equal(t, event.NewMessage, received(t, alice).Event)
	assert.Equal(t, event.NewMessage, received(t, bob).Event)
}

func TestBroadcastExceptSkipsOneUser(t *testing.T) {
	m := NewManager()
	alice := testClient("alice")
	bob := testClient("bob")
	addClient(m, alice)
	addClient(m, bob)
	m.JoinChatRoom("chat-1", "alice")
	m.JoinChatRoom("chat-1", "bob")

	env, err := event.NewEnvelope(event.UserTyping, event.TypingData{ChatID: "chat-1", UserID: "alice"})
	require.NoError(t, err)
	m.BroadcastToChatRoomExcept("chat-1", "alice", env)

	assert.Equal(t, event.UserTyping, received(t, bob).Event)
	assert.Empty(t, alice.Send)
}

func TestSendToUserUnknownUserIsNoop(t *testing.T) {
	m := NewManager()

	env, err := event.NewEnvelope(event.NotificationNew, event.NotificationData{ID: "n1", Title: "hello"})
	require.NoError(t, err)
	m.SendToUser("nobody", env)
}

func TestDispatchJoinChatSwitchesActiveRoom(t *testing.T) {
	m := NewManager()
	client := testClient("alice")
	addClient(m, client)

	join := func(chatID string) {
		env, err := event.NewEnvelope(event.JoinChat, event.JoinChatData{ChatID: chatID})
		require.NoError(t, err)
		payload, err := env.Encode()
		require.NoError(t, err)
		m.dispatch(context.Background(), client, payload)
	}

	join("chat-1")
	assert.True(t, m.IsUserInChatRoom("chat-1", "alice"))
	assert.Equal(t, "chat-1", client.ActiveChatRoom)

	join("chat-2")
	assert.False(t, m.IsUserInChatRoom("chat-1", "alice"))
	assert.True(t, m.IsUserInChatRoom("chat-2", "alice"))
	assert.Equal(t, "chat-2", client.ActiveChatRoom)
}

type recordingHandler struct {
	events []event.Name
}

func (h *recordingHandler) HandleEvent(ctx context.Context, client *Client, env *event.Envelope) {
	h.events = append(h.events, env.Event)
}

func TestDispatchRoutesDomainEventsToHandler(t *testing.T) {
	m := NewManager()
	handler := &recordingHandler{}
	m.SetHandler(handler)
	client := testClient("alice")
	addClient(m, client)

	for _, name := range []event.Name{event.Typing, event.StopTyping, event.MarkChatAsRead} {
		env, err := event.NewEnvelope(name, event.TypingData{ChatID: "chat-1"})
		require.NoError(t, err)
		payload, err := env.Encode()
		require.NoError(t, err)
		m.dispatch(context.Background(), client, payload)
	}

	assert.Equal(t, []event.Name{event.Typing, event.StopTyping, event.MarkChatAsRead}, handler.events)
}

func TestDispatchMalformedFrameSendsError(t *testing.T) {
	m := NewManager()
	client := testClient("alice")
	addClient(m, client)

	m.dispatch(context.Background(), client, []byte("not json"))

	env := received(t, client)
	assert.Equal(t, event.Error, env.Event)
}

func TestDispatchUnknownEventSendsError(t *testing.T) {
	m := NewManager()
	client := testClient("alice")
	addClient(m, client)

	env, err := event.NewEnvelope(event.Name("launch-missiles"), nil)
	require.NoError(t, err)
	payload, err := env.Encode()
	require.NoError(t, err)
	m.dispatch(context.Background(), client, payload)

	assert.Equal(t, event.Error, received(t, client).Event)
}

func TestUnregisterRemovesRoomMembership(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	client := testClient("alice")
	m.Register <- client
	assert.Eventually(t, func() bool {
		m.mutex.RLock()
		defer m.mutex.RUnlock()
		_, ok := m.clients["alice"]
		return ok
	}, time.Second, 5*time.Millisecond)

	m.JoinChatRoom("chat-1", "alice")

	m.Unregister <- client
	assert.Eventually(t, func() bool {
		return !m.IsUserInChatRoom("chat-1", "alice")
	}, time.Second, 5*time.Millisecond)
}
