package repository

import (
	"context"

	"accsmarket/internal/domain/entity"
)

// ListingFilter narrows a listing browse. Zero values mean "no constraint".
type ListingFilter struct {
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

type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
}
