package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

// SendNotificationActivityName delivers one order notification through the configured sender.
const SendNotificationActivityName = "orders.activities.SendNotification"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	sender ports.NotificationSender
}

// NewActivities wires the notification sender into the Temporal activities bundle.
func NewActivities(sender ports.NotificationSender) *Activities {
	return &Activities{sender: sender}
}

// SendNotification performs a single delivery attempt; retries belong to the workflow's policy.
func (a *Activities) SendNotification(ctx context.Context, notification domain.Notification) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.sender == nil {
		logger.Error("notification activity not initialized", "userId", notification.UserID)
		return errors.New("notification activity not initialized")
	}
	info := activity.GetInfo(ctx)
	logger.Info("SendNotification activity started", "userId", notification.UserID, "type", string(notification.Type), "attempt", info.Attempt)
	if err := a.sender.Send(ctx, notification); err != nil {
		logger.Error("SendNotification activity failed", "userId", notification.UserID, "error", err)
		return err
	}
	logger.Info("SendNotification activity completed", "userId", notification.UserID)
	return nil
}
