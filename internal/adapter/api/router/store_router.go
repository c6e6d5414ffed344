package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/handler"
	"adstream/internal/adapter/api/middleware"
)

func SetupStoreRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	storeHandler := handler.GetStoreHandler()

	stores := e.Group("/v1/stores")
	stores.GET("", storeHandler.ListStores)
	stores.GET("/:id", storeHandler.GetStore)
	stores.GET("/slug/:slug", storeHandler.GetStoreBySlug)

	myStores := e.Group("/v1/stores")
	myStores.Use(authMiddleware.Authenticate)
	myStores.POST("", storeHandler.CreateStore)
	myStores.PUT("/:id", storeHandler.UpdateStore)

	admin := e.Group("/v1/admin/stores")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.DELETE("/:id", storeHandler.DeleteStore)
}
