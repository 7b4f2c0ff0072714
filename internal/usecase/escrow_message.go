package usecase

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"accsmarket/internal/domain/entity"
)

// Fixed escrow business terms. This builder only renders them; the fee is
// collected and the hold window enforced by the escrow agent, not here.
const (
	escrowFeePercent = 8
	escrowFeeMinimum = 3
	escrowHoldDays   = 7
)

const (
	PaymentMethodStripe  = "stripe"
	PaymentMethodBitcoin = "bitcoin"
)

// newTransactionRef draws a random 7-digit reference in [1000000, 9999999].
// The reference is informational; collisions across channels are tolerated.
func newTransactionRef() int64 {
	return 1000000 + rand.Int63n(9000000)
}

func paymentMethodLabel(method string) string {
	if method == PaymentMethodStripe {
		return "Stripe"
	}
	return "Bitcoin"
}

// formatPrice renders the price the way the storefront shows it, without
// trailing zeros: 120 -> "120", 120.5 -> "120.5".
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// escrowRequestSummary is the short form used for lastMessage fields and
// index entries.
func escrowRequestSummary(listingName string) string {
	return fmt.Sprintf("🔒 Request to Purchase %s", listingName)
}

func escrowRequestBody(listingName string, transactionRef int64, price float64, paymentMethod string) string {
	return fmt.Sprintf(`🔒 Request to Purchase %s
Transaction ID: %d
Transaction Amount: $%s
Payment Method: %s
The buyer pays the cost of the channel + %d%% ($%d minimum) service fee.

The seller confirms and agrees to use the escrow service.

The escrow agent verifies everything and assigns manager rights to the buyer.

After %d days (or sooner if agreed), the escrow agent removes other managers and transfers full ownership to the buyer.

The funds are then released to the seller. Payments are sent instantly via all major payment methods.`,
		listingName,
		transactionRef,
		formatPrice(price),
		paymentMethodLabel(paymentMethod),
		escrowFeePercent,
		escrowFeeMinimum,
		escrowHoldDays,
	)
}

// buildEscrowRequest assembles the initial escrow purchase request for a
// channel: the rendered body plus the machine-readable transaction payload.
func buildEscrowRequest(listing *entity.Listing, senderID, senderName, senderPhotoURL, paymentMethod string, useEscrow bool, transactionRef int64) *entity.Message {
	return &entity.Message{
		Text:            escrowRequestBody(listing.DisplayName, transactionRef, listing.Price, paymentMethod),
		SenderID:        senderID,
		SenderName:      senderName,
		SenderPhotoURL:  senderPhotoURL,
		Timestamp:       time.Now().UnixMilli(),
		IsRequest:       true,
		IsEscrowRequest: true,
		TransactionData: &entity.TransactionData{
			ListingID:      listing.ID,
			ListingName:    listing.DisplayName,
			Price:          listing.Price,
			UseEscrow:      useEscrow,
			PaymentMethod:  paymentMethod,
			TransactionRef: transactionRef,
		},
	}
}
