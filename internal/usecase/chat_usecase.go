package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	ws "adstream/internal/infrastructure/websocket"
	"adstream/pkg/errors"
	"adstream/pkg/event"
	"adstream/pkg/logger"
)

const maxMessageLength = 2000

// RealtimeGateway is the slice of the websocket hub the usecases need.
// *websocket.Manager satisfies it; tests use an in-memory fake.
type RealtimeGateway interface {
	SendToUser(userID string, env *event.Envelope)
	BroadcastToChatRoom(chatID string, env *event.Envelope)
	BroadcastToChatRoomExcept(chatID, exceptUserID string, env *event.Envelope)
	IsUserInChatRoom(chatID, userID string) bool
	SendError(client *ws.Client, message string)
}

// ActionLimiter guards chat actions against abuse.
type ActionLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	gateway     RealtimeGateway
	limiter     ActionLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	gateway RealtimeGateway,
	limiter ActionLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		limiter:     limiter,
	}
}

// ChatResponse is a chat enriched with what the conversation list renders.
type ChatResponse struct {
	*entity.Chat
	OtherUser    *entity.User `json:"other_user,omitempty"`
	ListingTitle string       `json:"listing_title,omitempty"`
}

// CreateChat opens (or reuses) the conversation between a buyer and the
// seller of a listing. Chats are only ever created server-side.
func (uc *ChatUseCase) CreateChat(ctx context.Context, buyerID, listingID string) (*entity.Chat, error) {
	if allowed, retryAfter := uc.limiter.Allow(buyerID, "create_chat"); !allowed {
		logger.Warn("Chat creation rate limited for %s, retry in %s", buyerID, retryAfter)
		return nil, errors.TooManyRequests("Too many new conversations, try again later")
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, errors.BadRequest("Invalid listing", err)
	}

	if listing.SellerID == buyerID {
		return nil, errors.BadRequest("You cannot message yourself about your own listing", nil)
	}

	if existing, err := uc.chatRepo.FindByParticipants(ctx, buyerID, listing.SellerID, listingID); err == nil {
		return existing, nil
	}

	now := time.Now()
	chat := &entity.Chat{
		ID:           uuid.New().String(),
		Participants: []string{buyerID, listing.SellerID},
		ListingID:    listingID,
		BuyerID:      buyerID,
		SellerID:     listing.SellerID,
		UnreadCount:  map[string]int{buyerID: 0, listing.SellerID: 0},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

func (uc *ChatUseCase) GetChatByID(ctx context.Context, chatID, userID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !isParticipant(chat, userID) {
		return nil, errors.Forbidden("You are not part of this conversation", nil)
	}

	return chat, nil
}

// GetUserChats lists the user's conversations, newest activity first,
// enriched with the other participant and the listing title.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string, page, limit int) ([]*ChatResponse, int64, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	chats, total, err := uc.chatRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*ChatResponse, 0, len(chats))
	for _, chat := range chats {
		resp := &ChatResponse{Chat: chat}

		for _, participant := range chat.Participants {
			if participant == userID {
				continue
			}
			if other, err := uc.userRepo.GetByID(ctx, participant); err == nil {
				resp.OtherUser = other
			}
			break
		}

		if chat.ListingID != "" {
			if listing, err := uc.listingRepo.GetByID(ctx, chat.ListingID); err == nil {
				resp.ListingTitle = listing.Title
			}
		}

		responses = append(responses, resp)
	}

	return responses, total, nil
}

func (uc *ChatUseCase) GetChatMessages(ctx context.Context, chatID, userID string, page, limit int) ([]*entity.Message, int64, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}

	if !isParticipant(chat, userID) {
		return nil, 0, errors.Forbidden("You are not part of this conversation", nil)
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	return uc.chatRepo.GetMessagesByChat(ctx, chatID, limit, offset)
}

// SendMessage persists a message and echoes the canonical record to the
// whole room, sender included. Participants without the room open get it
// pushed directly so their conversation list stays current.
func (uc *ChatUseCase) SendMessage(ctx context.Context, chatID, senderID, content string) (*entity.Message, error) {
	if allowed, retryAfter := uc.limiter.Allow(senderID, "send_message"); !allowed {
		logger.Warn("Message rate limited for %s, retry in %s", senderID, retryAfter)
		return nil, errors.TooManyRequests("You are sending messages too fast")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if len(content) > maxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !isParticipant(chat, senderID) {
		return nil, errors.Forbidden("You are not part of this conversation", nil)
	}

	message := &entity.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		ReadBy:    []string{senderID},
		CreatedAt: time.Now(),
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	chat.LastMessage = content
	chat.LastMessageAt = message.CreatedAt
	chat.UpdatedAt = message.CreatedAt
	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	for _, participant := range chat.Participants {
		if participant == senderID {
			continue
		}
		if !uc.gateway.IsUserInChatRoom(chatID, participant) {
			chat.UnreadCount[participant]++
		}
	}
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		logger.Error("Failed to update chat %s after message: %v", chatID, err)
	}

	env, err := event.NewEnvelope(event.NewMessage, messagePayload(message))
	if err != nil {
		return message, err
	}
	env.ChatID = chatID

	uc.gateway.BroadcastToChatRoom(chatID, env)

	for _, participant := range chat.Participants {
		if participant == senderID {
			continue
		}
		if !uc.gateway.IsUserInChatRoom(chatID, participant) {
			uc.gateway.SendToUser(participant, env)
		}
	}

	return message, nil
}

// MarkChatAsRead clears the caller's unread state for a chat.
func (uc *ChatUseCase) MarkChatAsRead(ctx context.Context, chatID, userID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}

	if !isParticipant(chat, userID) {
		return errors.Forbidden("You are not part of this conversation", nil)
	}

	if err := uc.chatRepo.MarkMessagesRead(ctx, chatID, userID); err != nil {
		return err
	}

	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	if chat.UnreadCount[userID] != 0 {
		chat.UnreadCount[userID] = 0
		chat.UpdatedAt = time.Now()
		return uc.chatRepo.Update(ctx, chat)
	}

	return nil
}

// HandleEvent is the hub's domain handler for inbound realtime events.
func (uc *ChatUseCase) HandleEvent(ctx context.Context, client *ws.Client, env *event.Envelope) {
	switch env.Event {
	case event.Typing, event.StopTyping:
		uc.handleTyping(client, env)

	case event.SendMessage:
		var data event.SendMessageData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			uc.gateway.SendError(client, "Invalid message payload")
			return
		}
		if data.ChatID == "" {
			data.ChatID = env.ChatID
		}
		if _, err := uc.SendMessage(ctx, data.ChatID, client.UserID, data.Content); err != nil {
			uc.gateway.SendError(client, errorMessage(err))
		}

	case event.MarkChatAsRead:
		chatID := env.ChatID
		if chatID == "" && len(env.Data) > 0 {
			var data event.MarkChatAsReadData
			if err := json.Unmarshal(env.Data, &data); err == nil {
				chatID = data.ChatID
			}
		}
		if chatID == "" {
			uc.gateway.SendError(client, "Missing chat_id")
			return
		}
		if err := uc.MarkChatAsRead(ctx, chatID, client.UserID); err != nil {
			uc.gateway.SendError(client, errorMessage(err))
		}
	}
}

// handleTyping relays typing state to the rest of the room. The sender is
// always excluded so clients never render their own indicator.
func (uc *ChatUseCase) handleTyping(client *ws.Client, env *event.Envelope) {
	if allowed, _ := uc.limiter.Allow(client.UserID, "typing"); !allowed {
		return
	}

	chatID := env.ChatID
	if chatID == "" && len(env.Data) > 0 {
		var data event.TypingData
		if err := json.Unmarshal(env.Data, &data); err == nil {
			chatID = data.ChatID
		}
	}
	if chatID == "" {
		uc.gateway.SendError(client, "Missing chat_id")
		return
	}

	if !uc.gateway.IsUserInChatRoom(chatID, client.UserID) {
		return
	}

	out := event.UserTyping
	if env.Event == event.StopTyping {
		out = event.UserStopTyping
	}

	relay, err := event.NewEnvelope(out, event.TypingData{ChatID: chatID, UserID: client.UserID})
	if err != nil {
		logger.Error("Failed to build %s event: %v", out, err)
		return
	}
	relay.ChatID = chatID

	uc.gateway.BroadcastToChatRoomExcept(chatID, client.UserID, relay)
}

func messagePayload(m *entity.Message) event.MessageData {
	return event.MessageData{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func errorMessage(err error) string {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.Message
	}
	return "Something went wrong"
}

func isParticipant(chat *entity.Chat, userID string) bool {
	for _, p := range chat.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
