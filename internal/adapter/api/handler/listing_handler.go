package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"accsmarket/internal/usecase"
	"accsmarket/pkg/response"
	"accsmarket/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	minPrice, _ := strconv.ParseFloat(c.QueryParam("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.QueryParam("max_price"), 64)
	minSubscribers, _ := strconv.Atoi(c.QueryParam("min_subscribers"))
	maxSubscribers, _ := strconv.Atoi(c.QueryParam("max_subscribers"))
	minIncome, _ := strconv.ParseFloat(c.QueryParam("min_income"), 64)
	maxIncome, _ := strconv.ParseFloat(c.QueryParam("max_income"), 64)

	listings, total, err := h.listingUseCase.List(c.Request().Context(), usecase.ListListingsInput{
		Platform:       c.QueryParam("platform"),
		Category:       c.QueryParam("category"),
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
		MinSubscribers: minSubscribers,
		MaxSubscribers: maxSubscribers,
		MinIncome:      minIncome,
		MaxIncome:      maxIncome,
		Monetization:   c.QueryParam("monetization") == "true",
		Search:         c.QueryParam("search"),
	}, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}
