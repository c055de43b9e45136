package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"quickgo/internal/core/application/usecases/commands"
)

// StalePaymentJob cancels payments that stayed pending past the timeout.
// Each cancelled payment cancels its order in the same transaction, so
// abandoned checkouts do not linger in the restaurant's queue.
type StalePaymentJob struct {
	handler commands.CancelStalePaymentsCommandHandler
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStalePaymentJob creates a job that sweeps payments pending for longer
// than the given timeout.
func NewStalePaymentJob(
	handler commands.CancelStalePaymentsCommandHandler,
	timeout time.Duration,
	logger *slog.Logger,
) *StalePaymentJob {
	return &StalePaymentJob{
		handler: handler,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "stale_payment_job"),
	}
}

// Start begins the sweep, running once a minute.
func (j *StalePaymentJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewCancelStalePaymentsCommand(time.Now().UTC().Add(-j.timeout))
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stale payment sweep could not be constructed", "error", cmdErr)
			return
		}

		swept, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Stale payment sweep failed", "error", handleErr)
			return
		}
		if swept > 0 {
			j.logger.InfoContext(ctx, "Cancelled stale pending payments", "count", swept)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale payment job started (running every minute)",
		"timeout", j.timeout)
	return nil
}

// Stop stops the stale payment job.
func (j *StalePaymentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale payment job stopped")
}
