package repository

import (
	"context"

	"firebase.google.com/go/v4/db"

	"accsmarket/internal/domain/entity"
	"accsmarket/internal/domain/repository"
	"accsmarket/pkg/errors"
)

// rtdbMessageRepository keeps each channel's message log under
// messages/{channelID} in Realtime Database. Push keys give the
// store-assigned insertion order that breaks timestamp ties.
type rtdbMessageRepository struct {
	client *db.Client
}

func NewRTDBMessageRepository(client *db.Client) repository.MessageRepository {
	return &rtdbMessageRepository{
		client: client,
	}
}

func (r *rtdbMessageRepository) logRef(channelID string) *db.Ref {
	return r.client.NewRef("messages/" + channelID)
}

func (r *rtdbMessageRepository) Append(ctx context.Context, channelID string, message *entity.Message) error {
	ref, err := r.logRef(channelID).Push(ctx, message)
	if err != nil {
		return errors.Internal("Failed to append message", err)
	}
	message.ID = ref.Key

	return nil
}

func (r *rtdbMessageRepository) IsEmpty(ctx context.Context, channelID string) (bool, error) {
	results, err := r.logRef(channelID).OrderByKey().LimitToFirst(1).GetOrdered(ctx)
	if err != nil {
		return false, errors.Internal("Failed to check message log", err)
	}

	return len(results) == 0, nil
}

func (r *rtdbMessageRepository) ListByChannel(ctx context.Context, channelID string, limit int) ([]*entity.Message, error) {
	query := r.logRef(channelID).OrderByChild("timestamp")
	if limit > 0 {
		query = query.LimitToLast(limit)
	}

	results, err := query.GetOrdered(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to fetch messages", err)
	}

	var messages []*entity.Message
	for _, node := range results {
		var message entity.Message
		if err := node.Unmarshal(&message); err != nil {
			continue // Skip malformed entries
		}
		message.ID = node.Key()
		messages = append(messages, &message)
	}

	return messages, nil
}
