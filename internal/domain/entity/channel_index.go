package entity

import "time"

// ChannelIndexEntry is a per-participant denormalized summary of a channel,
// stored under that participant's own namespace so a user's channel list can
// be served without scanning the canonical channel collection. The two
// entries for a channel may transiently diverge from the canonical record.
type ChannelIndexEntry struct {
	ChannelID    string `json:"channel_id" firestore:"chatId"`
	ListingID    string `json:"listing_id" firestore:"productId"`
	ListingName  string `json:"listing_name" firestore:"productName"`
	ListingImage string `json:"listing_image,omitempty" firestore:"productImage,omitempty"`

	OtherUserID   string `json:"other_user_id" firestore:"otherUserId"`
	OtherUserName string `json:"other_user_name" firestore:"otherUserName"`

	LastMessage          string    `json:"last_message" firestore:"lastMessage"`
	LastMessageTimestamp time.Time `json:"last_message_timestamp" firestore:"lastMessageTimestamp"`
	UnreadCount          int       `json:"unread_count" firestore:"unreadCount"`
	UpdatedAt            time.Time `json:"updated_at" firestore:"updatedAt"`
}
