package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/handler"
	"adstream/internal/adapter/api/middleware"
)

func SetupPlanRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	planHandler := handler.GetPlanHandler()

	plans := e.Group("/v1/plans")
	plans.GET("", planHandler.ListPlans)
	plans.GET("/:id", planHandler.GetPlan)

	admin := e.Group("/v1/admin/plans")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.POST("", planHandler.CreatePlan)
	admin.PUT("/:id", planHandler.UpdatePlan)
	admin.DELETE("/:id", planHandler.DeletePlan)
}
