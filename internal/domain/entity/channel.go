package entity

import "time"

// Channel is the canonical conversation record between a buyer and a seller
// about one listing. The participant pair and listing binding are fixed at
// creation; only LastMessage and AdminJoined change afterwards.
type Channel struct {
	ID           string `json:"id" firestore:"id"`
	ListingID    string `json:"listing_id" firestore:"productId"`
	ListingName  string `json:"listing_name" firestore:"productName"`
	ListingImage string `json:"listing_image,omitempty" firestore:"productImage,omitempty"`

	Participants      []string          `json:"participants" firestore:"participants"`
	ParticipantNames  map[string]string `json:"participant_names" firestore:"participantNames"`
	ParticipantPhotos map[string]string `json:"participant_photos" firestore:"participantPhotos"`

	AdminJoined bool         `json:"admin_joined" firestore:"adminJoined"`
	LastMessage *LastMessage `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// LastMessage is the denormalized summary refreshed on every message append.
type LastMessage struct {
	Text      string    `json:"text" firestore:"text"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}

func (ch *Channel) HasParticipant(userID string) bool {
	for _, p := range ch.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID.
func (ch *Channel) OtherParticipant(userID string) string {
	for _, p := range ch.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}
