package router

import (
	"github.com/labstack/echo/v4"

	"accsmarket/internal/adapter/api/handler"
	"accsmarket/internal/adapter/api/middleware"
)

type Handlers struct {
	Channel *handler.ChannelHandler
	Listing *handler.ListingHandler
	Health  *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupListingRouter(e, h.Listing)
	SetupChannelRouter(e, h.Channel, authMiddleware, adminMiddleware)
	SetupHealthRouter(e, h.Health)
}
