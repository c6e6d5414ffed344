package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/handler"
	"adstream/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	websocketHandler := handler.GetWebSocketHandler()

	e.GET("/ws", websocketHandler.HandleWebSocket, authMiddleware.AuthenticateQueryToken)
}
