package notification

import (
	"context"
	"errors"

	notificationclient "github.com/Apurer/shop-order-service/internal/clients/http/notification"
	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

// HTTPSender delivers notifications through the notification service REST API.
type HTTPSender struct {
	client *notificationclient.Client
}

func NewHTTPSender(client *notificationclient.Client) *HTTPSender {
	return &HTTPSender{client: client}
}

func (s *HTTPSender) Send(ctx context.Context, n domain.Notification) error {
	if s == nil || s.client == nil {
		return errors.New("notification client not configured")
	}
	return s.client.Send(ctx, notificationclient.Request{
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
	})
}

var _ ports.NotificationSender = (*HTTPSender)(nil)
