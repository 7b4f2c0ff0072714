package entity

// Message is one entry in a channel's append-only message log. The log lives
// in Realtime Database, so fields carry json tags only and the timestamp is
// epoch milliseconds. Messages are never mutated or deleted.
type Message struct {
	ID             string `json:"-"` // RTDB push key, not part of the payload
	Text           string `json:"text"`
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName"`
	SenderPhotoURL string `json:"senderPhotoURL,omitempty"`
	Timestamp      int64  `json:"timestamp"`

	IsRequest       bool             `json:"isRequest,omitempty"`
	IsEscrowRequest bool             `json:"isEscrowRequest,omitempty"`
	TransactionData *TransactionData `json:"transactionData,omitempty"`
}

// TransactionData carries the escrow request facts machine-readably,
// mirroring what the rendered message body says.
type TransactionData struct {
	ListingID      string  `json:"productId"`
	ListingName    string  `json:"productName"`
	Price          float64 `json:"price"`
	UseEscrow      bool    `json:"useEscrow"`
	PaymentMethod  string  `json:"paymentMethod"`
	TransactionRef int64   `json:"transactionId"`
}
