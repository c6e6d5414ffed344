package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstream/pkg/event"
)

func TestSessionRejoinsRoomsOnReconnect(t *testing.T) {
	transport := newFakeTransport()
	server := messagesServer(t, map[string][]event.MessageData{"c1": {}})
	rest := NewClient(server.URL, "test-token")

	session := NewSession(transport, rest, &recordingDisplay{}, "alice")
	defer session.Close()

	transport.dispatch(&event.Envelope{Event: event.Connect})
	require.NoError(t, session.OpenConversation(context.Background(), "c1"))

	assert.Len(t, transport.emitted(event.JoinUser), 1)
	assert.Len(t, transport.emitted(event.JoinChat), 1)

	// A reconnect re-establishes both rooms exactly once each.
	transport.dispatch(&event.Envelope{Event: event.Connect})

	assert.Len(t, transport.emitted(event.JoinUser), 2)
	assert.Len(t, transport.emitted(event.JoinChat), 2)
}

func TestSessionRoutesEventsToComponents(t *testing.T) {
	transport := newFakeTransport()
	server := messagesServer(t, map[string][]event.MessageData{"c1": {}})
	rest := NewClient(server.URL, "test-token")
	display := &recordingDisplay{}

	session := NewSession(transport, rest, display, "alice")
	defer session.Close()

	require.NoError(t, session.OpenConversation(context.Background(), "c1"))

	transport.dispatch(mustEnvelope(event.NewMessage, event.MessageData{ID: "m1", ChatID: "c1", SenderID: "bob", Content: "hi"}))
	transport.dispatch(mustEnvelope(event.UserTyping, event.TypingData{ChatID: "c1", UserID: "bob"}))
	transport.dispatch(mustEnvelope(event.NotificationNew, event.NotificationData{
		ID: "n1", Title: "Hello", Channels: event.NotificationChannels{InApp: true},
	}))

	assert.Len(t, session.Messages.Messages(), 1)

	state, remote := session.Typing.State()
	assert.Equal(t, TypingRemote, state)
	assert.Equal(t, "bob", remote)

	assert.Len(t, session.Inbox.Items(), 1)
	assert.Len(t, display.toasts, 1)
}

func TestSessionCloseUnsubscribesEverything(t *testing.T) {
	transport := newFakeTransport()
	server := messagesServer(t, map[string][]event.MessageData{"c1": {}})
	rest := NewClient(server.URL, "test-token")

	session := NewSession(transport, rest, &recordingDisplay{}, "alice")
	require.NoError(t, session.OpenConversation(context.Background(), "c1"))

	session.Close()

	transport.dispatch(mustEnvelope(event.NewMessage, event.MessageData{ID: "m1", ChatID: "c1", SenderID: "bob", Content: "hi"}))
	assert.Empty(t, session.Messages.Messages())
}
