package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupHealthRouter(e)
	SetupUserRouter(e, authMiddleware)
	SetupCategoryRouter(e, authMiddleware, adminMiddleware)
	SetupStoreRouter(e, authMiddleware, adminMiddleware)
	SetupPlanRouter(e, authMiddleware, adminMiddleware)
	SetupListingRouter(e, authMiddleware, adminMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupCheckoutRouter(e, authMiddleware)
	SetupWebSocketRouter(e, authMiddleware)
}
