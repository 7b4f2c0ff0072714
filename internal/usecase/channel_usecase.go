package usecase

import (
	"context"
	"net/http"
	"time"

	"accsmarket/internal/domain/entity"
	"accsmarket/internal/domain/repository"
	"accsmarket/internal/infrastructure/ratelimit"
	"accsmarket/pkg/errors"
	"accsmarket/pkg/logger"
	"accsmarket/pkg/utils"
)

// ChannelUseCase runs the channel-initiation protocol: it decides between
// creating a channel and reusing an existing one, seeds the escrow purchase
// request exactly once, and keeps both per-user index entries in step with
// the canonical record. The writes span three stores with no cross-store
// transaction; see Initiate for the ordering that makes retries safe.
type ChannelUseCase struct {
	channelRepo repository.ChannelRepository
	messageRepo repository.MessageRepository
	indexRepo   repository.ChannelIndexRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	rateLimiter *ratelimit.RateLimiter
}

func NewChannelUseCase(
	channelRepo repository.ChannelRepository,
	messageRepo repository.MessageRepository,
	indexRepo repository.ChannelIndexRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
) *ChannelUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChannelUseCase{
		channelRepo: channelRepo,
		messageRepo: messageRepo,
		indexRepo:   indexRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		rateLimiter: rateLimiter,
	}
}

type InitiateChannelInput struct {
	ListingID     string
	PaymentMethod string // "stripe" or "bitcoin"
	UseEscrow     bool
}

func errSelfContact() *errors.AppError {
	return errors.New("SELF_CONTACT", "You cannot contact the seller for your own listing", http.StatusBadRequest, nil)
}

func errChannelCreateFailed(err error) *errors.AppError {
	return errors.New("CHANNEL_CREATE_FAILED", "Failed to create channel. Please try again later", http.StatusInternalServerError, err)
}

// Initiate resolves the listing, rejects self-contact, then either reuses
// the existing channel for (listing, caller) or creates one. Write order on
// the create path: channel record (guarded against duplicates), escrow
// message, lastMessage summary, buyer index entry, seller index entry.
// Writes are sequential and not rolled back on failure; a retry lands on
// the reuse path and repairs a missing first message.
func (uc *ChannelUseCase) Initiate(ctx context.Context, callerID string, input InitiateChannelInput) (*entity.Channel, error) {
	if callerID == "" {
		return nil, errors.Unauthorized("Sign in to contact the seller", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(callerID, "initiate_channel"); !allowed {
		logger.Warn("Initiate rate limited: user %s, listing %s", callerID, input.ListingID)
		return nil, errors.TooManyRequests("Too many channel requests. Please wait before trying again")
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}

	if callerID == listing.SellerID {
		return nil, errSelfContact()
	}

	buyer := uc.lookupBuyer(ctx, callerID)

	existing, err := uc.channelRepo.FindByListingAndParticipant(ctx, input.ListingID, callerID)
	if err == nil {
		return uc.reuseChannel(ctx, existing, listing, buyer, input), nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		// The locator is best-effort: a failed lookup falls through to the
		// create path rather than aborting. If the channel does exist, the
		// channelKeys guard turns the duplicate into a conflict below.
		logger.Warn("Initiate: channel lookup failed for listing %s, user %s: %v; proceeding to create", input.ListingID, callerID, err)
	}

	return uc.createChannel(ctx, listing, buyer, input)
}

// reuseChannel returns the existing channel, injecting the escrow request
// first when the message log is still empty (a channel opened through some
// other path, e.g. by an administrator). Injection is best-effort: any
// failure here is logged and the channel is still returned.
func (uc *ChannelUseCase) reuseChannel(ctx context.Context, channel *entity.Channel, listing *entity.Listing, buyer *entity.User, input InitiateChannelInput) *entity.Channel {
	empty, err := uc.messageRepo.IsEmpty(ctx, channel.ID)
	if err != nil {
		logger.Warn("Initiate: message log check failed for channel %s: %v", channel.ID, err)
		return channel
	}
	if !empty {
		return channel
	}

	buyerName := utils.DisplayName(buyer.Name, buyer.Email, "User")
	message := buildEscrowRequest(listing, buyer.ID, buyerName, buyer.PhotoURL, input.PaymentMethod, input.UseEscrow, newTransactionRef())
	if err := uc.messageRepo.Append(ctx, channel.ID, message); err != nil {
		logger.Warn("Initiate: failed to inject escrow request into empty channel %s: %v", channel.ID, err)
		return channel
	}

	last := &entity.LastMessage{
		Text:      escrowRequestSummary(listing.DisplayName),
		SenderID:  buyer.ID,
		Timestamp: time.UnixMilli(message.Timestamp),
	}
	channel.LastMessage = last
	if err := uc.channelRepo.UpdateLastMessage(ctx, channel.ID, last); err != nil {
		logger.Warn("Initiate: failed to update last message for channel %s: %v", channel.ID, err)
	}

	return channel
}

func (uc *ChannelUseCase) createChannel(ctx context.Context, listing *entity.Listing, buyer *entity.User, input InitiateChannelInput) (*entity.Channel, error) {
	seller := uc.lookupSeller(ctx, listing)
	buyerName := utils.DisplayName(buyer.Name, buyer.Email, "User")
	sellerName := utils.DisplayName(seller.Name, seller.Email, "Seller")

	channel := &entity.Channel{
		ListingID:    listing.ID,
		ListingName:  listing.DisplayName,
		ListingImage: listing.PrimaryImage(),
		Participants: []string{buyer.ID, listing.SellerID},
		ParticipantNames: map[string]string{
			buyer.ID:         buyerName,
			listing.SellerID: sellerName,
		},
		ParticipantPhotos: map[string]string{
			buyer.ID:         buyer.PhotoURL,
			listing.SellerID: seller.PhotoURL,
		},
		AdminJoined: false,
	}

	if err := uc.channelRepo.Create(ctx, channel); err != nil {
		if errors.Is(err, "CONFLICT") {
			// Lost a create race: another invocation claimed the guard.
			// Re-locate and continue on the reuse path.
			logger.Info("Initiate: duplicate channel create for listing %s, user %s; re-locating", listing.ID, buyer.ID)
			existing, findErr := uc.channelRepo.FindByListingAndParticipant(ctx, listing.ID, buyer.ID)
			if findErr != nil {
				return nil, errChannelCreateFailed(findErr)
			}
			return uc.reuseChannel(ctx, existing, listing, buyer, input), nil
		}
		return nil, errChannelCreateFailed(err)
	}

	message := buildEscrowRequest(listing, buyer.ID, buyerName, buyer.PhotoURL, input.PaymentMethod, input.UseEscrow, newTransactionRef())
	if err := uc.messageRepo.Append(ctx, channel.ID, message); err != nil {
		// No rollback: the channel record stays. A retry finds it, takes
		// the reuse path, and repairs the missing first message.
		return nil, errChannelCreateFailed(err)
	}

	last := &entity.LastMessage{
		Text:      escrowRequestSummary(listing.DisplayName),
		SenderID:  buyer.ID,
		Timestamp: time.UnixMilli(message.Timestamp),
	}
	channel.LastMessage = last
	if err := uc.channelRepo.UpdateLastMessage(ctx, channel.ID, last); err != nil {
		return nil, errChannelCreateFailed(err)
	}

	when := time.UnixMilli(message.Timestamp)
	buyerEntry := &entity.ChannelIndexEntry{
		ChannelID:            channel.ID,
		ListingID:            listing.ID,
		ListingName:          listing.DisplayName,
		ListingImage:         listing.PrimaryImage(),
		OtherUserID:          listing.SellerID,
		OtherUserName:        sellerName,
		LastMessage:          last.Text,
		LastMessageTimestamp: when,
		UnreadCount:          0,
		UpdatedAt:            when,
	}
	if err := uc.indexRepo.Put(ctx, buyer.ID, buyerEntry); err != nil {
		return nil, errChannelCreateFailed(err)
	}

	// The seller has one unseen message: the request just sent.
	sellerEntry := &entity.ChannelIndexEntry{
		ChannelID:            channel.ID,
		ListingID:            listing.ID,
		ListingName:          listing.DisplayName,
		ListingImage:         listing.PrimaryImage(),
		OtherUserID:          buyer.ID,
		OtherUserName:        buyerName,
		LastMessage:          last.Text,
		LastMessageTimestamp: when,
		UnreadCount:          1,
		UpdatedAt:            when,
	}
	if err := uc.indexRepo.Put(ctx, listing.SellerID, sellerEntry); err != nil {
		return nil, errChannelCreateFailed(err)
	}

	return channel, nil
}

// lookupBuyer tolerates a missing profile: the flow degrades to the generic
// display-name fallback instead of failing.
func (uc *ChannelUseCase) lookupBuyer(ctx context.Context, id string) *entity.User {
	buyer, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		logger.Warn("Initiate: buyer profile %s unavailable: %v", id, err)
		return &entity.User{ID: id}
	}
	return buyer
}

func (uc *ChannelUseCase) lookupSeller(ctx context.Context, listing *entity.Listing) *entity.User {
	seller, err := uc.userRepo.GetByID(ctx, listing.SellerID)
	if err != nil {
		logger.Warn("Initiate: seller profile %s unavailable: %v", listing.SellerID, err)
		return &entity.User{ID: listing.SellerID, Email: listing.SellerEmail}
	}
	if seller.Email == "" {
		seller.Email = listing.SellerEmail
	}
	return seller
}

// ListChannels serves the caller's channel list from their own index
// namespace, newest activity first.
func (uc *ChannelUseCase) ListChannels(ctx context.Context, callerID string, limit, offset int) ([]*entity.ChannelIndexEntry, int64, error) {
	return uc.indexRepo.ListByUser(ctx, callerID, limit, offset)
}

func (uc *ChannelUseCase) GetChannel(ctx context.Context, callerID, channelID string) (*entity.Channel, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeViewer(ctx, channel, callerID); err != nil {
		return nil, err
	}
	return channel, nil
}

func (uc *ChannelUseCase) GetChannelMessages(ctx context.Context, callerID, channelID string, limit int) ([]*entity.Message, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeViewer(ctx, channel, callerID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}
	return uc.messageRepo.ListByChannel(ctx, channelID, limit)
}

// AdminJoin flags the channel as joined by an administrator. Role checks
// happen in the admin middleware; the participant pair itself is immutable.
func (uc *ChannelUseCase) AdminJoin(ctx context.Context, channelID string) (*entity.Channel, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.AdminJoined {
		return channel, nil
	}
	if err := uc.channelRepo.SetAdminJoined(ctx, channelID, true); err != nil {
		return nil, err
	}
	channel.AdminJoined = true
	return channel, nil
}

func (uc *ChannelUseCase) authorizeViewer(ctx context.Context, channel *entity.Channel, callerID string) error {
	if channel.HasParticipant(callerID) {
		return nil
	}
	if user, err := uc.userRepo.GetByID(ctx, callerID); err == nil && user.IsAdmin() {
		return nil
	}
	return errors.Forbidden("You are not a participant in this channel", nil)
}
