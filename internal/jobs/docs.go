// Package jobs provides scheduled background tasks for the order engine.
//
// Jobs are cron-based, built on github.com/robfig/cron/v3 with second
// precision, and never overlap with themselves: a run that is still going
// when the next tick fires causes that tick to be skipped.
//
// # Available Jobs
//
//  1. OutboxDispatchJob - delivers queued notifications and inventory signals
//  2. OutboxBacklogJob - logs the outbox backlog per status and warns about failed messages
//
// # Usage
//
//	jobManager := jobs.NewJobManager(dispatchHandler, backlog, jobs.Schedules{
//		Dispatch: "*/5 * * * * *",
//		Backlog:  "0 * * * * *",
//	}, batchSize, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
package jobs
