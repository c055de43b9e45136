package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"quickgo/internal/core/application/usecases/queries"
)

// DelayedOrderJob reports orders past their estimated delivery time.
// The report feeds operations dashboards through the logs; the orders
// themselves are left untouched.
type DelayedOrderJob struct {
	handler queries.GetDelayedOrdersQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDelayedOrderJob creates a job that checks for overdue orders.
func NewDelayedOrderJob(handler queries.GetDelayedOrdersQueryHandler, logger *slog.Logger) *DelayedOrderJob {
	return &DelayedOrderJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "delayed_order_job"),
	}
}

// Start begins the delay check, running once a minute.
func (j *DelayedOrderJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		delayed, handleErr := j.handler.Handle(ctx, queries.NewGetDelayedOrdersQuery())
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Delayed order check failed", "error", handleErr)
			return
		}

		for _, overdue := range delayed {
			j.logger.WarnContext(ctx, "Order is past its estimated delivery time",
				"order_id", overdue.ID.String(),
				"order_number", overdue.OrderNumber,
				"status", overdue.Status,
				"estimated_delivery_time", overdue.EstimatedDeliveryTime)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delayed order job started (running every minute)")
	return nil
}

// Stop stops the delayed order job.
func (j *DelayedOrderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Delayed order job stopped")
}
