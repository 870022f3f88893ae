package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/homelist/homelist-api/internal/metrics"
	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/queue"
)

// MessageStore persists inquiries.
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	ListByHome(ctx context.Context, homeID uint64) ([]model.Inquiry, error)
}

// InquiryPublisher forwards new inquiries to the notification queue.
type InquiryPublisher interface {
	PublishInquiry(ctx context.Context, ev queue.InquiryCreatedEvent) error
}

// MessagingService lets buyers contact the realtor of a home.
type MessagingService struct {
	homes     HomeStore
	messages  MessageStore
	publisher InquiryPublisher
	metrics   metrics.Recorder
}

// NewMessagingService wires a MessagingService.  publisher and rec may be
// nil.
func NewMessagingService(homes HomeStore, messages MessageStore, publisher InquiryPublisher, rec metrics.Recorder) *MessagingService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &MessagingService{homes: homes, messages: messages, publisher: publisher, metrics: rec}
}

// Inquire stores a message from buyer to the home's current realtor and
// announces it on the queue.  A failed publish does not fail the inquiry.
func (s *MessagingService) Inquire(ctx context.Context, buyer model.User, homeID uint64, text string) (model.Message, error) {
	realtor, err := s.homes.Realtor(ctx, homeID)
	if err != nil {
		return model.Message{}, err
	}
	m := model.Message{
		Message:   text,
		HomeID:    homeID,
		BuyerID:   buyer.ID,
		RealtorID: realtor.ID,
	}
	if err := s.messages.Create(ctx, &m); err != nil {
		return model.Message{}, fmt.Errorf("store inquiry: %w", err)
	}
	s.metrics.RecordInquiry()

	if s.publisher != nil {
		var address string
		if h, err := s.homes.GetByID(ctx, homeID); err == nil {
			address = h.Address
		}
		ev := queue.InquiryCreatedEvent{
			MessageID:   m.ID,
			HomeID:      homeID,
			HomeAddress: address,
			BuyerID:     buyer.ID,
			BuyerName:   buyer.Name,
			RealtorID:   realtor.ID,
			RealtorName: realtor.Name,
			Message:     text,
			CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishInquiry(ctx, ev); err != nil {
			slog.Warn("messaging: inquiry event not published", "message_id", m.ID, "error", err)
		}
	}
	return m, nil
}

// ListByHome returns the inquiries received for a home.  Callers check
// ownership first.
func (s *MessagingService) ListByHome(ctx context.Context, homeID uint64) ([]model.Inquiry, error) {
	return s.messages.ListByHome(ctx, homeID)
}
