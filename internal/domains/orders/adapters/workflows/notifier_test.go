package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	orderworkflows "github.com/Apurer/shop-order-service/internal/platform/temporal/workflows/orders"
)

func TestTemporalNotifier_StartsWorkflow(t *testing.T) {
	temporalClient := &mocks.Client{}
	notification := domain.OrderCreatedNotification(&domain.Order{ID: 3, UserID: 9})

	temporalClient.On("ExecuteWorkflow",
		mock.Anything,
		mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
			return opts.TaskQueue == orderworkflows.NotificationTaskQueue &&
				strings.HasPrefix(opts.ID, "order-notification-9-") &&
				opts.WorkflowIDReusePolicy == enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE
		}),
		orderworkflows.NotificationWorkflowName,
		orderworkflows.NotificationWorkflowInput{Notification: notification},
	).Return(&mocks.WorkflowRun{}, nil).Once()

	require.NoError(t, NewTemporalNotifier(temporalClient).Send(context.Background(), notification))
	temporalClient.AssertExpectations(t)
}

func TestTemporalNotifier_PropagatesStartError(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	err := NewTemporalNotifier(temporalClient).Send(context.Background(), domain.Notification{UserID: 1})
	require.ErrorContains(t, err, "start notification workflow")
}

func TestTemporalNotifier_AlreadyStartedIsDelivered(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1"))

	require.NoError(t, NewTemporalNotifier(temporalClient).Send(context.Background(), domain.Notification{UserID: 1}))
}

func TestTemporalNotifier_NotConfigured(t *testing.T) {
	require.Error(t, NewTemporalNotifier(nil).Send(context.Background(), domain.Notification{}))
}
