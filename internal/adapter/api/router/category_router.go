package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/handler"
	"adstream/internal/adapter/api/middleware"
)

func SetupCategoryRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	categoryHandler := handler.GetCategoryHandler()

	categories := e.Group("/v1/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/tree", categoryHandler.GetCategoryTree)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.GET("/slug/:slug", categoryHandler.GetCategoryBySlug)

	admin := e.Group("/v1/admin/categories")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.POST("", categoryHandler.CreateCategory)
	admin.PUT("/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/:id", categoryHandler.DeleteCategory)
}
