package notification

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

// Publisher is satisfied by the platform Kafka publisher.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Event is the record written to the notification topic.
type Event struct {
	EventID    string    `json:"eventId"`
	UserID     int64     `json:"userId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

// KafkaSender publishes notifications as events keyed by user id so one
// user's messages stay ordered within a partition.
type KafkaSender struct {
	publisher Publisher
	now       func() time.Time
}

func NewKafkaSender(publisher Publisher) *KafkaSender {
	return &KafkaSender{publisher: publisher, now: time.Now}
}

func (s *KafkaSender) Send(ctx context.Context, n domain.Notification) error {
	if s == nil || s.publisher == nil {
		return errors.New("notification publisher not configured")
	}
	event := Event{
		EventID:    uuid.NewString(),
		UserID:     n.UserID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		OccurredAt: s.now().UTC(),
	}
	return s.publisher.Publish(ctx, strconv.FormatInt(n.UserID, 10), event)
}

var _ ports.NotificationSender = (*KafkaSender)(nil)
