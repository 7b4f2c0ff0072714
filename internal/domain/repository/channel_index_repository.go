package repository

import (
	"context"

	"accsmarket/internal/domain/entity"
)

// ChannelIndexRepository stores each user's own view of their channels,
// one entry per channel under the user's namespace. Put overwrites.
type ChannelIndexRepository interface {
	Put(ctx context.Context, userID string, entry *entity.ChannelIndexEntry) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.ChannelIndexEntry, int64, error)
}
