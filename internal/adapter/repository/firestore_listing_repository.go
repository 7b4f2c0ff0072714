package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"accsmarket/internal/domain/entity"
	"accsmarket/internal/domain/repository"
	"accsmarket/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	listing.ID = doc.Ref.ID

	return &listing, nil
}

func (r *firestoreListingRepository) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("products").Query

	// Equality constraints go to Firestore; range and search constraints are
	// applied in-memory below, so no composite index is required.
	if filter.Platform != "" {
		query = query.Where("platform", "==", filter.Platform)
	}
	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.Monetization {
		query = query.Where("monetization", "==", true)
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var matched []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			continue // Skip malformed documents
		}
		listing.ID = doc.Ref.ID

		if matchesFilter(&listing, filter) {
			matched = append(matched, &listing)
		}
	}

	total := int64(len(matched))

	start := offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	return matched[start:end], total, nil
}

func matchesFilter(listing *entity.Listing, filter repository.ListingFilter) bool {
	if filter.MinPrice > 0 && listing.Price < filter.MinPrice {
		return false
	}
	if filter.MaxPrice > 0 && listing.Price > filter.MaxPrice {
		return false
	}
	if filter.MinSubscribers > 0 && listing.Subscribers < filter.MinSubscribers {
		return false
	}
	if filter.MaxSubscribers > 0 && listing.Subscribers > filter.MaxSubscribers {
		return false
	}
	if filter.MinIncome > 0 && listing.Income < filter.MinIncome {
		return false
	}
	if filter.MaxIncome > 0 && listing.Income > filter.MaxIncome {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(listing.DisplayName), needle) &&
			!strings.Contains(strings.ToLower(listing.Description), needle) &&
			!strings.Contains(strings.ToLower(listing.Platform), needle) &&
			!strings.Contains(strings.ToLower(listing.Category), needle) {
			return false
		}
	}
	return true
}
