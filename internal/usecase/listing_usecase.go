package usecase

import (
	"context"

	"accsmarket/internal/domain/entity"
	"accsmarket/internal/domain/repository"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListingUseCase(listingRepo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
	}
}

type ListListingsInput struct {
	Platform       string
	Category       string
	MinPrice       float64
	MaxPrice       float64
	MinSubscribers int
	MaxSubscribers int
	MinIncome      float64
	MaxIncome      float64
	Monetization   bool
	Search         string
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

func (uc *ListingUseCase) List(ctx context.Context, input ListListingsInput, limit, offset int) ([]*entity.Listing, int64, error) {
	filter := repository.ListingFilter{
		Platform:       input.Platform,
		Category:       input.Category,
		MinPrice:       input.MinPrice,
		MaxPrice:       input.MaxPrice,
		MinSubscribers: input.MinSubscribers,
		MaxSubscribers: input.MaxSubscribers,
		MinIncome:      input.MinIncome,
		MaxIncome:      input.MaxIncome,
		Monetization:   input.Monetization,
		Search:         input.Search,
	}

	return uc.listingRepo.List(ctx, filter, limit, offset)
}
