package entity

import "time"

// Listing is a social media channel offered for sale. The listings
// subsystem owns these documents; this service only reads them.
type Listing struct {
	ID          string `json:"id" firestore:"id"`
	SellerID    string `json:"seller_id" firestore:"userId"`
	SellerEmail string `json:"seller_email,omitempty" firestore:"userEmail,omitempty"`

	DisplayName  string   `json:"display_name" firestore:"displayName"`
	Description  string   `json:"description,omitempty" firestore:"description,omitempty"`
	Platform     string   `json:"platform" firestore:"platform"`
	Category     string   `json:"category" firestore:"category"`
	Price        float64  `json:"price" firestore:"price"`
	Subscribers  int      `json:"subscribers" firestore:"subscribers"`
	Income       float64  `json:"income,omitempty" firestore:"income,omitempty"`
	Monetization bool     `json:"monetization" firestore:"monetization"`
	ImageURLs    []string `json:"image_urls,omitempty" firestore:"imageUrls,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// PrimaryImage returns the listing's cover image, or "" when none was uploaded.
func (l *Listing) PrimaryImage() string {
	if len(l.ImageURLs) > 0 {
		return l.ImageURLs[0]
	}
	return ""
}
