package websocket

import (
	"context"
	"encoding/json"

	"adstream/pkg/event"
	"adstream/pkg/logger"
)

// dispatch routes one inbound frame. Room joins are pure connection
// bookkeeping and are handled here; everything else goes to the domain
// handler.
func (m *Manager) dispatch(ctx context.Context, client *Client, payload []byte) {
	env, err := event.Decode(payload)
	if err != nil {
		logger.Warn("Malformed frame from %s: %v", client.UserID, err)
		m.SendError(client, "Invalid message format")
		return
	}

	logger.Debug("Event %s from %s", env.Event, client.UserID)

	switch env.Event {
	case event.JoinChat:
		m.handleJoinChat(client, env)

	case event.JoinUser:
		// The personal room is implicit: a registered client is always
		// addressable by user id. Accepted for protocol symmetry.
		logger.Debug("Client %s joined user room", client.UserID)

	case event.Typing, event.StopTyping, event.SendMessage, event.MarkChatAsRead:
		if m.handler == nil {
			m.SendError(client, "Server not ready")
			return
		}
		m.handler.HandleEvent(ctx, client, env)

	default:
		logger.Warn("Unknown event %q from %s", env.Event, client.UserID)
		m.SendError(client, "Unknown event")
	}
}

func (m *Manager) handleJoinChat(client *Client, env *event.Envelope) {
	chatID := env.ChatID
	if chatID == "" && len(env.Data) > 0 {
		var data event.JoinChatData
		if err := json.Unmarshal(env.Data, &data); err == nil {
			chatID = data.ChatID
		}
	}
	if chatID == "" {
		m.SendError(client, "Missing chat_id")
		return
	}

	if client.ActiveChatRoom != "" && client.ActiveChatRoom != chatID {
		m.LeaveChatRoom(client.ActiveChatRoom, client.UserID)
	}

	m.JoinChatRoom(chatID, client.UserID)
	client.ActiveChatRoom = chatID

	logger.Info("Client %s joined chat room %s", client.UserID, chatID)
}

// SendError pushes an error event to a single client.
func (m *Manager) SendError(client *Client, message string) {
	env, err := event.NewEnvelope(event.Error, event.ErrorData{Message: message})
	if err != nil {
		logger.Error("Failed to build error event: %v", err)
		return
	}

	payload, err := env.Encode()
	if err != nil {
		logger.Error("Failed to encode error event: %v", err)
		return
	}

	m.deliver(client, payload)
}
