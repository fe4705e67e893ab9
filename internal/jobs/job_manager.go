package jobs

import (
	"fmt"

	"orderengine/internal/core/application/usecases/commands"

	"go.uber.org/zap"
)

// Schedules holds the cron expressions (with seconds) of every job.
// Empty values fall back to the job defaults.
type Schedules struct {
	Dispatch string
	Backlog  string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob *OutboxDispatchJob
	backlogJob  *OutboxBacklogJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	dispatchHandler commands.DispatchOutboxCommandHandler,
	backlog BacklogCounter,
	schedules Schedules,
	batchSize int,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob: NewOutboxDispatchJob(dispatchHandler, schedules.Dispatch, batchSize, logger),
		backlogJob:  NewOutboxBacklogJob(backlog, schedules.Backlog, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox dispatch job: %w", err)
	}

	if err := jm.backlogJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.dispatchJob.Stop()
		return fmt.Errorf("failed to start outbox backlog job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.dispatchJob.Stop()
	jm.backlogJob.Stop()
}
