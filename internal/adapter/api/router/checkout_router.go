package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/handler"
	"adstream/internal/adapter/api/middleware"
)

func SetupCheckoutRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	checkoutHandler := handler.GetCheckoutHandler()

	checkout := e.Group("/v1/checkout")
	checkout.Use(authMiddleware.Authenticate)
	checkout.POST("/intent", checkoutHandler.CreateIntent)
	checkout.POST("/confirm", checkoutHandler.ConfirmPayment)
}
