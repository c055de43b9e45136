// Package jobs provides scheduled background tasks for the order lifecycle.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic housekeeping the marketplace needs.
//
// # Available Jobs
//
// 1. StalePaymentJob - Runs every minute to cancel payments that stayed pending past the timeout
// 2. DelayedOrderJob - Runs every minute to report orders past their estimated delivery time
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(cancelStaleHandler, delayedOrdersHandler, staleTimeout, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Both jobs log failures and keep running. A failed sweep retries on the
// next tick, so a transient database error never needs manual recovery.
package jobs
