package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"accsmarket/internal/domain/entity"
	"accsmarket/internal/domain/repository"
	"accsmarket/pkg/errors"
)

type fakeListingRepo struct {
	listings map[string]*entity.Listing
}

func (f *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if listing, ok := f.listings[id]; ok {
		return listing, nil
	}
	return nil, errors.NotFound("Listing", nil)
}

func (f *fakeListingRepo) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	return nil, 0, nil
}

type fakeChannelRepo struct {
	channels map[string]*entity.Channel
	keys     map[string]bool
	findErr  error
	missOnce bool // next Find reports NOT_FOUND regardless of contents
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{
		channels: make(map[string]*entity.Channel),
		keys:     make(map[string]bool),
	}
}

func guardKey(listingID string, participants []string) string {
	sorted := make([]string, len(participants))
	copy(sorted, participants)
	sort.Strings(sorted)
	return listingID + "_" + strings.Join(sorted, "_")
}

func (f *fakeChannelRepo) seed(channel *entity.Channel) {
	f.channels[channel.ID] = channel
	f.keys[guardKey(channel.ListingID, channel.Participants)] = true
}

func (f *fakeChannelRepo) Create(ctx context.Context, channel *entity.Channel) error {
	key := guardKey(channel.ListingID, channel.Participants)
	if f.keys[key] {
		return errors.Conflict("A channel for this listing and buyer already exists")
	}
	if channel.ID == "" {
		channel.ID = fmt.Sprintf("channel-%d", len(f.channels)+1)
	}
	f.keys[key] = true
	f.channels[channel.ID] = channel
	return nil
}

func (f *fakeChannelRepo) GetByID(ctx context.Context, id string) (*entity.Channel, error) {
	if channel, ok := f.channels[id]; ok {
		return channel, nil
	}
	return nil, errors.NotFound("Channel", nil)
}

func (f *fakeChannelRepo) FindByListingAndParticipant(ctx context.Context, listingID, userID string) (*entity.Channel, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.missOnce {
		f.missOnce = false
		return nil, errors.NotFound("Channel", nil)
	}
	for _, channel := range f.channels {
		if channel.ListingID == listingID && channel.HasParticipant(userID) {
			return channel, nil
		}
	}
	return nil, errors.NotFound("Channel", nil)
}

func (f *fakeChannelRepo) UpdateLastMessage(ctx context.Context, channelID string, last *entity.LastMessage) error {
	channel, ok := f.channels[channelID]
	if !ok {
		return errors.NotFound("Channel", nil)
	}
	channel.LastMessage = last
	return nil
}

func (f *fakeChannelRepo) SetAdminJoined(ctx context.Context, channelID string, joined bool) error {
	channel, ok := f.channels[channelID]
	if !ok {
		return errors.NotFound("Channel", nil)
	}
	channel.AdminJoined = joined
	return nil
}

type fakeMessageRepo struct {
	logs      map[string][]*entity.Message
	appendErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{logs: make(map[string][]*entity.Message)}
}

func (f *fakeMessageRepo) Append(ctx context.Context, channelID string, message *entity.Message) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	message.ID = fmt.Sprintf("msg-%d", len(f.logs[channelID])+1)
	f.logs[channelID] = append(f.logs[channelID], message)
	return nil
}

func (f *fakeMessageRepo) IsEmpty(ctx context.Context, channelID string) (bool, error) {
	return len(f.logs[channelID]) == 0, nil
}

func (f *fakeMessageRepo) ListByChannel(ctx context.Context, channelID string, limit int) ([]*entity.Message, error) {
	return f.logs[channelID], nil
}

type fakeIndexRepo struct {
	entries map[string]map[string]*entity.ChannelIndexEntry
}

func newFakeIndexRepo() *fakeIndexRepo {
	return &fakeIndexRepo{entries: make(map[string]map[string]*entity.ChannelIndexEntry)}
}

func (f *fakeIndexRepo) Put(ctx context.Context, userID string, entry *entity.ChannelIndexEntry) error {
	if f.entries[userID] == nil {
		f.entries[userID] = make(map[string]*entity.ChannelIndexEntry)
	}
	f.entries[userID][entry.ChannelID] = entry
	return nil
}

func (f *fakeIndexRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.ChannelIndexEntry, int64, error) {
	var entries []*entity.ChannelIndexEntry
	for _, entry := range f.entries[userID] {
		entries = append(entries, entry)
	}
	return entries, int64(len(entries)), nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, errors.NotFound("User", nil)
}

type fixture struct {
	uc       *ChannelUseCase
	channels *fakeChannelRepo
	messages *fakeMessageRepo
	index    *fakeIndexRepo
	listings *fakeListingRepo
	users    *fakeUserRepo
}

func newFixture() *fixture {
	listings := &fakeListingRepo{listings: map[string]*entity.Listing{
		"L1": {
			ID:          "L1",
			SellerID:    "S1",
			SellerEmail: "seller@example.com",
			DisplayName: "Cool Channel",
			Price:       120,
			ImageURLs:   []string{"https://img.example.com/l1.jpg"},
		},
	}}
	users := &fakeUserRepo{users: map[string]*entity.User{
		"B1": {ID: "B1", Email: "buyer@example.com", Name: "Buyer One", PhotoURL: "https://img.example.com/b1.jpg"},
		"S1": {ID: "S1", Email: "seller@example.com"},
		"A1": {ID: "A1", Email: "admin@example.com", Role: "admin"},
	}}

	channels := newFakeChannelRepo()
	messages := newFakeMessageRepo()
	index := newFakeIndexRepo()

	return &fixture{
		uc:       NewChannelUseCase(channels, messages, index, listings, users),
		channels: channels,
		messages: messages,
		index:    index,
		listings: listings,
		users:    users,
	}
}

func stripeInput() InitiateChannelInput {
	return InitiateChannelInput{ListingID: "L1", PaymentMethod: "stripe", UseEscrow: true}
}

func TestInitiateCreatesChannelWithEscrowRequest(t *testing.T) {
	f := newFixture()

	channel, err := f.uc.Initiate(context.Background(), "B1", stripeInput())

	assert.NoError(t, err)
	assert.NotEmpty(t, channel.ID)
	assert.ElementsMatch(t, []string{"B1", "S1"}, channel.Participants)
	assert.Equal(t, "Cool Channel", channel.ListingName)
	assert.False(t, channel.AdminJoined)

	log := f.messages.logs[channel.ID]
	if assert.Len(t, log, 1) {
		msg := log[0]
		assert.Contains(t, msg.Text, "Cool Channel")
		assert.Contains(t, msg.Text, "$120")
		assert.Contains(t, msg.Text, "Stripe")
		assert.True(t, msg.IsRequest)
		assert.True(t, msg.IsEscrowRequest)
		if assert.NotNil(t, msg.TransactionData) {
			assert.Equal(t, "L1", msg.TransactionData.ListingID)
			assert.Equal(t, float64(120), msg.TransactionData.Price)
			assert.Equal(t, "stripe", msg.TransactionData.PaymentMethod)
			assert.True(t, msg.TransactionData.UseEscrow)
			assert.GreaterOrEqual(t, msg.TransactionData.TransactionRef, int64(1000000))
			assert.LessOrEqual(t, msg.TransactionData.TransactionRef, int64(9999999))
		}
	}

	if assert.NotNil(t, channel.LastMessage) {
		assert.Equal(t, "🔒 Request to Purchase Cool Channel", channel.LastMessage.Text)
		assert.Equal(t, "B1", channel.LastMessage.SenderID)
	}
}

func TestInitiateWritesBothIndexEntries(t *testing.T) {
	f := newFixture()

	channel, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)

	buyerEntry := f.index.entries["B1"][channel.ID]
	if assert.NotNil(t, buyerEntry) {
		assert.Equal(t, 0, buyerEntry.UnreadCount)
		assert.Equal(t, "S1", buyerEntry.OtherUserID)
		assert.Equal(t, "seller", buyerEntry.OtherUserName) // local part of seller email
	}

	sellerEntry := f.index.entries["S1"][channel.ID]
	if assert.NotNil(t, sellerEntry) {
		assert.Equal(t, 1, sellerEntry.UnreadCount)
		assert.Equal(t, "B1", sellerEntry.OtherUserID)
		assert.Equal(t, "Buyer One", sellerEntry.OtherUserName)
	}
}

func TestInitiateTwiceReturnsSameChannelOnce(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)

	second, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.messages.logs[first.ID], 1)
	assert.Len(t, f.channels.channels, 1)
}

func TestInitiateRejectsSelfContactWithoutWrites(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Initiate(context.Background(), "S1", stripeInput())

	assert.True(t, errors.Is(err, "SELF_CONTACT"))
	assert.Empty(t, f.channels.channels)
	assert.Empty(t, f.messages.logs)
	assert.Empty(t, f.index.entries)
}

func TestInitiateRejectsUnknownListingWithoutWrites(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Initiate(context.Background(), "B1", InitiateChannelInput{ListingID: "missing", PaymentMethod: "stripe"})

	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.Empty(t, f.channels.channels)
	assert.Empty(t, f.messages.logs)
}

func TestInitiateRejectsMissingCaller(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Initiate(context.Background(), "", stripeInput())

	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
	assert.Empty(t, f.channels.channels)
}

func TestInitiateRepairsEmptyExistingChannel(t *testing.T) {
	f := newFixture()
	f.channels.seed(&entity.Channel{
		ID:           "preexisting",
		ListingID:    "L1",
		ListingName:  "Cool Channel",
		Participants: []string{"B1", "S1"},
	})

	channel, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)
	assert.Equal(t, "preexisting", channel.ID)
	assert.Len(t, f.messages.logs["preexisting"], 1)
	if assert.NotNil(t, channel.LastMessage) {
		assert.Equal(t, "🔒 Request to Purchase Cool Channel", channel.LastMessage.Text)
	}

	// A second invocation sees a non-empty log and appends nothing.
	channel, err = f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)
	assert.Equal(t, "preexisting", channel.ID)
	assert.Len(t, f.messages.logs["preexisting"], 1)
}

func TestInitiateReuseDoesNotRecreateIndexEntries(t *testing.T) {
	f := newFixture()
	f.channels.seed(&entity.Channel{
		ID:           "preexisting",
		ListingID:    "L1",
		Participants: []string{"B1", "S1"},
	})

	_, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)
	assert.Empty(t, f.index.entries)
}

func TestInitiateLocatorFailureFallsThroughToCreate(t *testing.T) {
	f := newFixture()
	f.channels.findErr = errors.Internal("query exploded", nil)

	channel, err := f.uc.Initiate(context.Background(), "B1", stripeInput())

	assert.NoError(t, err)
	assert.NotEmpty(t, channel.ID)
	assert.Len(t, f.messages.logs[channel.ID], 1)
}

func TestInitiateCreateConflictFallsBackToReuse(t *testing.T) {
	f := newFixture()
	f.channels.seed(&entity.Channel{
		ID:           "winner",
		ListingID:    "L1",
		ListingName:  "Cool Channel",
		Participants: []string{"B1", "S1"},
	})
	// Simulate the race window: the locator misses the freshly created
	// channel once, the guarded create collides, and the orchestrator
	// re-locates.
	f.channels.missOnce = true

	channel, err := f.uc.Initiate(context.Background(), "B1", stripeInput())

	assert.NoError(t, err)
	assert.Equal(t, "winner", channel.ID)
	assert.Len(t, f.channels.channels, 1)
	assert.Len(t, f.messages.logs["winner"], 1)
}

func TestInitiateAppendFailureLeavesRepairableState(t *testing.T) {
	f := newFixture()
	f.messages.appendErr = errors.Internal("rtdb down", nil)

	_, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.True(t, errors.Is(err, "CHANNEL_CREATE_FAILED"))
	// The channel record is not rolled back.
	assert.Len(t, f.channels.channels, 1)

	// Retrying after the store recovers reuses the record and repairs the
	// missing first message.
	f.messages.appendErr = nil
	channel, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)
	assert.Len(t, f.messages.logs[channel.ID], 1)
	assert.Len(t, f.channels.channels, 1)
}

func TestGetChannelMessagesRequiresParticipant(t *testing.T) {
	f := newFixture()

	channel, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)

	_, err = f.uc.GetChannelMessages(context.Background(), "intruder", channel.ID, 0)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	messages, err := f.uc.GetChannelMessages(context.Background(), "S1", channel.ID, 0)
	assert.NoError(t, err)
	assert.Len(t, messages, 1)

	// Admins may view channels they are not part of.
	messages, err = f.uc.GetChannelMessages(context.Background(), "A1", channel.ID, 0)
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestAdminJoinSetsFlag(t *testing.T) {
	f := newFixture()

	channel, err := f.uc.Initiate(context.Background(), "B1", stripeInput())
	assert.NoError(t, err)
	assert.False(t, channel.AdminJoined)

	joined, err := f.uc.AdminJoin(context.Background(), channel.ID)
	assert.NoError(t, err)
	assert.True(t, joined.AdminJoined)

	// Idempotent.
	joined, err = f.uc.AdminJoin(context.Background(), channel.ID)
	assert.NoError(t, err)
	assert.True(t, joined.AdminJoined)
}
