package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/handler"
	"adstream/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)
	notifications.GET("", notificationHandler.ListNotifications)
	notifications.PATCH("/mark-all-read", notificationHandler.MarkAllRead)
	notifications.PATCH("/:id/toggle", notificationHandler.ToggleRead)
	notifications.DELETE("/delete-all", notificationHandler.DeleteAllNotifications)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)
	notifications.GET("/preferences", notificationHandler.GetPreferences)
	notifications.PUT("/preferences", notificationHandler.SavePreferences)
	notifications.POST("/fcm/register", notificationHandler.RegisterDevice)
	notifications.POST("/fcm/unregister", notificationHandler.UnregisterDevice)
}
