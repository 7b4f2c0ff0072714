package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"accsmarket/internal/domain/entity"
	"accsmarket/internal/domain/repository"
	"accsmarket/pkg/errors"
)

type firestoreChannelIndexRepository struct {
	client *firestore.Client
}

func NewFirestoreChannelIndexRepository(client *firestore.Client) repository.ChannelIndexRepository {
	return &firestoreChannelIndexRepository{
		client: client,
	}
}

func (r *firestoreChannelIndexRepository) entryRef(userID, channelID string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(userID).Collection("chatList").Doc(channelID)
}

func (r *firestoreChannelIndexRepository) Put(ctx context.Context, userID string, entry *entity.ChannelIndexEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}

	// Set, not Create: Put is the overwrite primitive that makes index
	// writes safe to repeat.
	_, err := r.entryRef(userID, entry.ChannelID).Set(ctx, entry)
	if err != nil {
		return errors.Internal("Failed to write channel index entry", err)
	}

	return nil
}

func (r *firestoreChannelIndexRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.ChannelIndexEntry, int64, error) {
	query := r.client.Collection("users").Doc(userID).Collection("chatList").
		OrderBy("updatedAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch channel index", err)
	}

	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var entries []*entity.ChannelIndexEntry
	for _, doc := range allDocs[start:end] {
		var entry entity.ChannelIndexEntry
		if err := doc.DataTo(&entry); err != nil {
			continue // Skip bad data instead of failing
		}
		entries = append(entries, &entry)
	}

	return entries, total, nil
}
