package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"quickgo/internal/core/application/usecases/commands"
	"quickgo/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	stalePaymentJob *StalePaymentJob
	delayedOrderJob *DelayedOrderJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command and query handlers as dependencies to wire up the job execution.
func NewJobManager(
	cancelStaleHandler commands.CancelStalePaymentsCommandHandler,
	delayedOrdersHandler queries.GetDelayedOrdersQueryHandler,
	staleTimeout time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		stalePaymentJob: NewStalePaymentJob(cancelStaleHandler, staleTimeout, logger),
		delayedOrderJob: NewDelayedOrderJob(delayedOrdersHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.stalePaymentJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale payment job: %w", err)
	}

	if err := jm.delayedOrderJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.stalePaymentJob.Stop()
		return fmt.Errorf("failed to start delayed order job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.delayedOrderJob.Stop()
	jm.stalePaymentJob.Stop()
}
