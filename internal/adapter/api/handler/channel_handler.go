package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"accsmarket/internal/usecase"
	"accsmarket/pkg/response"
	"accsmarket/pkg/utils"
)

type ChannelHandler struct {
	channelUseCase *usecase.ChannelUseCase
}

func NewChannelHandler(channelUseCase *usecase.ChannelUseCase) *ChannelHandler {
	return &ChannelHandler{
		channelUseCase: channelUseCase,
	}
}

type initiateChannelRequest struct {
	ListingID     string `json:"listing_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=stripe bitcoin"`
	UseEscrow     bool   `json:"use_escrow"`
}

// InitiateChannel opens (or reuses) the buyer-seller channel for a listing
// and seeds it with the escrow purchase request.
func (h *ChannelHandler) InitiateChannel(c echo.Context) error {
	var req initiateChannelRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	channel, err := h.channelUseCase.Initiate(c.Request().Context(), userID, usecase.InitiateChannelInput{
		ListingID:     req.ListingID,
		PaymentMethod: req.PaymentMethod,
		UseEscrow:     req.UseEscrow,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, channel)
}

// ListChannels returns the caller's channels from their own index.
func (h *ChannelHandler) ListChannels(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	entries, total, err := h.channelUseCase.ListChannels(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, entries, total, pagination.Page, pagination.PageSize)
}

func (h *ChannelHandler) GetChannel(c echo.Context) error {
	userID := c.Get("uid").(string)

	channel, err := h.channelUseCase.GetChannel(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, channel)
}

func (h *ChannelHandler) GetChannelMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	messages, err := h.channelUseCase.GetChannelMessages(c.Request().Context(), userID, c.Param("id"), limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// AdminJoinChannel marks the channel as joined by an administrator.
func (h *ChannelHandler) AdminJoinChannel(c echo.Context) error {
	channel, err := h.channelUseCase.AdminJoin(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, channel)
}
