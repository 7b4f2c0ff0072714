package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"accsmarket/internal/domain/entity"
	"accsmarket/internal/domain/repository"
	"accsmarket/pkg/errors"
)

type firestoreChannelRepository struct {
	client *firestore.Client
}

func NewFirestoreChannelRepository(client *firestore.Client) repository.ChannelRepository {
	return &firestoreChannelRepository{
		client: client,
	}
}

// channelKey derives the uniqueness guard document ID for a channel:
// the listing plus the sorted participant pair.
func channelKey(listingID string, participants []string) string {
	sorted := make([]string, len(participants))
	copy(sorted, participants)
	sort.Strings(sorted)
	return listingID + "_" + strings.Join(sorted, "_")
}

func (r *firestoreChannelRepository) Create(ctx context.Context, channel *entity.Channel) error {
	if channel.ID == "" {
		channel.ID = uuid.New().String()
	}
	channel.CreatedAt = time.Now()

	keyRef := r.client.Collection("channelKeys").Doc(channelKey(channel.ListingID, channel.Participants))
	chanRef := r.client.Collection("chats").Doc(channel.ID)

	// Guard doc and channel doc are created atomically so a lost race cannot
	// leave a dangling guard behind.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(keyRef, map[string]interface{}{
			"chatId":    channel.ID,
			"productId": channel.ListingID,
			"createdAt": channel.CreatedAt,
		}); err != nil {
			return err
		}
		return tx.Create(chanRef, channel)
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("A channel for this listing and buyer already exists")
		}
		return errors.Internal("Failed to create channel", err)
	}

	return nil
}

func (r *firestoreChannelRepository) GetByID(ctx context.Context, id string) (*entity.Channel, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Channel", err)
		}
		return nil, errors.Internal("Failed to get channel", err)
	}

	var channel entity.Channel
	if err := doc.DataTo(&channel); err != nil {
		return nil, errors.Internal("Failed to parse channel data", err)
	}
	channel.ID = doc.Ref.ID

	return &channel, nil
}

func (r *firestoreChannelRepository) FindByListingAndParticipant(ctx context.Context, listingID, userID string) (*entity.Channel, error) {
	query := r.client.Collection("chats").
		Where("productId", "==", listingID).
		Where("participants", "array-contains", userID).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Channel", nil)
		}
		return nil, errors.Internal("Failed to query channels", err)
	}

	var channel entity.Channel
	if err := doc.DataTo(&channel); err != nil {
		return nil, errors.Internal("Failed to parse channel data", err)
	}
	channel.ID = doc.Ref.ID

	return &channel, nil
}

func (r *firestoreChannelRepository) UpdateLastMessage(ctx context.Context, channelID string, last *entity.LastMessage) error {
	_, err := r.client.Collection("chats").Doc(channelID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: last},
	})
	if err != nil {
		return errors.Internal("Failed to update channel last message", err)
	}

	return nil
}

func (r *firestoreChannelRepository) SetAdminJoined(ctx context.Context, channelID string, joined bool) error {
	_, err := r.client.Collection("chats").Doc(channelID).Update(ctx, []firestore.Update{
		{Path: "adminJoined", Value: joined},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Channel", err)
		}
		return errors.Internal("Failed to update channel", err)
	}

	return nil
}
