// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer.
package queue

// InquiryCreatedEvent is published when a buyer sends an inquiry about a
// home.  It carries enough for a notifier to reach the realtor without
// querying the primary database.
type InquiryCreatedEvent struct {
	MessageID   uint64 `json:"message_id"`
	HomeID      uint64 `json:"home_id"`
	HomeAddress string `json:"home_address"`
	BuyerID     uint64 `json:"buyer_id"`
	BuyerName   string `json:"buyer_name"`
	RealtorID   uint64 `json:"realtor_id"`
	RealtorName string `json:"realtor_name"`
	Message     string `json:"message"`
	CreatedAt   string `json:"created_at"`
}
