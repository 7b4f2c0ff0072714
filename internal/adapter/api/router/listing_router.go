package router

import (
	"github.com/labstack/echo/v4"

	"accsmarket/internal/adapter/api/handler"
)

// SetupListingRouter sets up listing browse routes. Listings are public
// reads; the listings subsystem owns writes.
func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler) {
	listingGroup := e.Group("/v1/listings")

	listingGroup.GET("", listingHandler.ListListings)
	listingGroup.GET("/:id", listingHandler.GetListing)
}
