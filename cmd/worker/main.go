package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/shop-order-service/internal/app/api"
	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
	platformobservability "github.com/Apurer/shop-order-service/internal/platform/observability"
	orderactivities "github.com/Apurer/shop-order-service/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/shop-order-service/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "order-notification-worker"

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.TemporalDisabled {
		log.Fatal("TEMPORAL_DISABLED is set; the notification worker has nothing to do")
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	sender, cleanupSender, err := api.BuildNotificationSender(cfg, rest.NewHTTPClient(cfg.HTTPClientTimeout))
	if err != nil {
		logger.Error("failed to build notification sender", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupSender()
	activities := orderactivities.NewActivities(sender)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.NotificationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.NotificationWorkflow, workflow.RegisterOptions{Name: orderworkflows.NotificationWorkflowName})
	w.RegisterActivityWithOptions(activities.SendNotification, activity.RegisterOptions{Name: orderactivities.SendNotificationActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", orderworkflows.NotificationTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace),
		slog.String("notifier", cfg.Notifier),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
