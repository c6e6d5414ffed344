package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/handler"
	"adstream/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)
	chats.POST("", chatHandler.CreateChat)
	chats.GET("", chatHandler.ListMyChats)
	chats.GET("/:id", chatHandler.GetChat)
	chats.GET("/:id/messages", chatHandler.GetChatMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.PATCH("/:id/read", chatHandler.MarkChatAsRead)
}
