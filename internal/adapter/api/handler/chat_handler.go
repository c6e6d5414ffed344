package handler

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/usecase"
	"adstream/pkg/response"
	"adstream/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

// CreateChat opens the buyer's conversation with a listing's seller.
// Calling it again for the same listing returns the existing chat.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	chat, err := h.chatUseCase.CreateChat(c.Request().Context(), buyerID, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

func (h *ChatHandler) ListMyChats(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	userID := c.Get("uid").(string)

	chats, total, err := h.chatUseCase.GetUserChats(c.Request().Context(), userID, params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, chats, total, params.Page, params.PageSize)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.GetChatByID(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	userID := c.Get("uid").(string)

	messages, total, err := h.chatUseCase.GetChatMessages(c.Request().Context(), c.Param("id"), userID, params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, params.Page, params.PageSize)
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// SendMessage is the REST fallback for sending; the canonical message
// still reaches clients through the realtime channel.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.chatUseCase.MarkChatAsRead(c.Request().Context(), c.Param("id"), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Chat marked as read"})
}
