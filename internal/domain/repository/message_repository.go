package repository

import (
	"context"

	"accsmarket/internal/domain/entity"
)

// MessageRepository is the append-only message log, keyed by channel ID.
// No update or delete exists.
type MessageRepository interface {
	Append(ctx context.Context, channelID string, message *entity.Message) error
	IsEmpty(ctx context.Context, channelID string) (bool, error)
	ListByChannel(ctx context.Context, channelID string, limit int) ([]*entity.Message, error)
}
