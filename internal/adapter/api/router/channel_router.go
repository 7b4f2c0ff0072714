package router

import (
	"github.com/labstack/echo/v4"

	"accsmarket/internal/adapter/api/handler"
	"accsmarket/internal/adapter/api/middleware"
)

// SetupChannelRouter sets up all channel-related routes
func SetupChannelRouter(e *echo.Echo, channelHandler *handler.ChannelHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	channelGroup := e.Group("/v1/channels")
	channelGroup.Use(authMiddleware.Authenticate) // All channel endpoints require authentication

	channelGroup.POST("/initiate", channelHandler.InitiateChannel) // POST /v1/channels/initiate - Contact seller for a listing
	channelGroup.GET("", channelHandler.ListChannels)              // GET /v1/channels - Caller's channel list
	channelGroup.GET("/:id", channelHandler.GetChannel)            // GET /v1/channels/:id - Specific channel
	channelGroup.GET("/:id/messages", channelHandler.GetChannelMessages)

	adminGroup := e.Group("/v1/admin/channels")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.AdminOnly)
	adminGroup.POST("/:id/join", channelHandler.AdminJoinChannel)
}
