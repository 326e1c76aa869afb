package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/shop-order-service/internal/platform/temporal/activities/orders"
)

// NotificationMaxAttempts caps delivery attempts, matching the at-most-a-few-tries
// behaviour of the notifier. Exhausting them only fails the workflow.
const NotificationMaxAttempts = 3

// RunNotificationDeliverySequence delivers one notification with a bounded retry policy.
func RunNotificationDeliverySequence(ctx workflow.Context, notification domain.Notification) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("notification delivery sequence started", "userId", notification.UserID, "type", string(notification.Type))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    NotificationMaxAttempts,
		},
	}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.SendNotificationActivityName, notification).Get(ctx, nil)
	if err != nil {
		logger.Error("notification delivery sequence failed", "userId", notification.UserID, "error", err)
		return err
	}
	logger.Info("notification delivery sequence delivered", "userId", notification.UserID)
	return nil
}
