package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/platform/temporal/sequences"
)

const (
	// NotificationWorkflowName is the public identifier for registering the workflow.
	NotificationWorkflowName = "orders.workflows.Notification"
	// NotificationTaskQueue is the queue consumed by the worker delivering order notifications.
	NotificationTaskQueue = "ORDER_NOTIFICATIONS"
)

// NotificationWorkflowInput carries one notification plus the trace of the request that raised it.
type NotificationWorkflowInput struct {
	Notification domain.Notification
	TraceID      string
}

// NotificationWorkflow durably delivers an order notification.
func NotificationWorkflow(ctx workflow.Context, input NotificationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	userID := input.Notification.UserID
	logger.Info("NotificationWorkflow started", withTraceID(input.TraceID, "userId", userID)...)
	if err := sequences.RunNotificationDeliverySequence(ctx, input.Notification); err != nil {
		logger.Error("NotificationWorkflow failed", withTraceID(input.TraceID, "userId", userID, "error", err)...)
		return err
	}
	logger.Info("NotificationWorkflow completed", withTraceID(input.TraceID, "userId", userID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
