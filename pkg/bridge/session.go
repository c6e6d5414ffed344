package bridge

import (
	"context"

	"adstream/pkg/event"
)

// Session wires the bridge components onto one transport for a signed-in
// user. Every subscription it opens is closed again by Close, keeping
// handler registration paired across repeated setups.
type Session struct {
	Transport Transport
	Rest      *Client
	Typing    *TypingMonitor
	Messages  *MessageLog
	Inbox     *Inbox
	Toasts    *ToastPresenter

	chatRooms *RoomTracker
	userRoom  *RoomTracker
	userID    string
	offs      []func()
}

func NewSession(transport Transport, rest *Client, display ToastDisplay, userID string) *Session {
	typing := NewTypingMonitor(transport, userID)
	inbox := NewInbox(rest)

	s := &Session{
		Transport: transport,
		Rest:      rest,
		Typing:    typing,
		Messages:  NewMessageLog(transport, rest, typing, userID),
		Inbox:     inbox,
		Toasts:    NewToastPresenter(display, inbox),
		chatRooms: NewChatRoomTracker(transport),
		userRoom:  NewUserRoomTracker(transport),
		userID:    userID,
	}

	s.subscribe()
	return s
}

func (s *Session) subscribe() {
	s.offs = append(s.offs,
		s.Transport.On(event.Connect, s.handleConnect),
		s.Transport.On(event.NewMessage, s.Messages.HandleNewMessage),
		s.Transport.On(event.UserTyping, s.Typing.HandleRemote),
		s.Transport.On(event.UserStopTyping, s.Typing.HandleRemote),
		s.Transport.On(event.NotificationNew, s.Toasts.HandleNotification),
	)
}

// handleConnect re-establishes room membership after every (re)connect.
func (s *Session) handleConnect(_ *event.Envelope) {
	s.userRoom.Reset()
	s.userRoom.Join(s.userID)

	s.chatRooms.Reset()
	s.chatRooms.Rejoin()
}

// OpenConversation joins a chat room and loads its log.
func (s *Session) OpenConversation(ctx context.Context, chatID string) error {
	s.chatRooms.Join(chatID)
	return s.Messages.Load(ctx, chatID)
}

// Close tears the session down: timers stopped, every handler removed.
func (s *Session) Close() {
	for _, off := range s.offs {
		off()
	}
	s.offs = nil
	s.Typing.Close()
}
