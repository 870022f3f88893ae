package model

import "time"

// Message mirrors a row of the `messages` table: a buyer's inquiry about a
// home.  RealtorID is copied from the home when the message is created and
// does not follow later reassignments of the home.
type Message struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	HomeID    uint64    `json:"home_id"`
	BuyerID   uint64    `json:"buyer_id"`
	RealtorID uint64    `json:"realtor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Inquiry is the realtor's view of a message: the text and who sent it.
type Inquiry struct {
	Message string  `json:"message"`
	Buyer   Contact `json:"buyer"`
}
