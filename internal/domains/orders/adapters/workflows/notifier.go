package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/shop-order-service/internal/platform/temporal/workflows/orders"
)

var _ ports.NotificationSender = (*TemporalNotifier)(nil)

// TemporalNotifier hands each notification to a durable Temporal workflow.
// Send returns once the workflow is started; delivery and its retries happen
// on the worker.
type TemporalNotifier struct {
	client    client.Client
	taskQueue string
}

// NewTemporalNotifier wires a Temporal client into the notification sender port.
func NewTemporalNotifier(c client.Client) *TemporalNotifier {
	return &TemporalNotifier{client: c, taskQueue: orderworkflows.NotificationTaskQueue}
}

func (n *TemporalNotifier) Send(ctx context.Context, notification domain.Notification) error {
	if n == nil || n.client == nil {
		return errors.New("temporal notifier not configured")
	}
	options := client.StartWorkflowOptions{
		ID:                    buildNotificationWorkflowID(notification),
		TaskQueue:             n.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	_, err := n.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.NotificationWorkflowName,
		orderworkflows.NotificationWorkflowInput{Notification: notification, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return fmt.Errorf("start notification workflow: %w", err)
	}
	return nil
}

func buildNotificationWorkflowID(notification domain.Notification) string {
	return fmt.Sprintf("order-notification-%d-%s", notification.UserID, uuid.NewString())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
