package repository

import (
	"context"

	"accsmarket/internal/domain/entity"
)

type ChannelRepository interface {
	// Create inserts the channel document together with a uniqueness guard
	// keyed on (listing, sorted participant pair). A second create for the
	// same pair fails with a CONFLICT error instead of producing a duplicate.
	Create(ctx context.Context, channel *entity.Channel) error

	GetByID(ctx context.Context, id string) (*entity.Channel, error)

	// FindByListingAndParticipant returns the first channel for the listing
	// in which userID participates, or a NOT_FOUND error when none exists.
	FindByListingAndParticipant(ctx context.Context, listingID, userID string) (*entity.Channel, error)

	UpdateLastMessage(ctx context.Context, channelID string, last *entity.LastMessage) error
	SetAdminJoined(ctx context.Context, channelID string, joined bool) error
}
