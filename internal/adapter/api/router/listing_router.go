package router

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/adapter/api/handler"
	"adstream/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	listingHandler := handler.GetListingHandler()

	listings := e.Group("/v1/listings")
	listings.GET("", listingHandler.ListListings)
	listings.GET("/:id", listingHandler.GetListing)
	listings.GET("/slug/:slug", listingHandler.GetListingBySlug)

	myListings := e.Group("/v1/my-listings")
	myListings.Use(authMiddleware.Authenticate)
	myListings.GET("", listingHandler.ListMyListings)
	myListings.POST("", listingHandler.CreateListing)
	myListings.PUT("/:id", listingHandler.UpdateListing)
	myListings.DELETE("/:id", listingHandler.DeleteListing)

	admin := e.Group("/v1/admin/listings")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.DELETE("/:id", listingHandler.AdminDeleteListing)
}
