package jobs

import (
	"context"

	"orderengine/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultDispatchSchedule runs the dispatcher every five seconds.
const DefaultDispatchSchedule = "*/5 * * * * *"

// OutboxDispatchJob periodically delivers one outbox batch.
type OutboxDispatchJob struct {
	handler   commands.DispatchOutboxCommandHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewOutboxDispatchJob(
	handler commands.DispatchOutboxCommandHandler,
	schedule string,
	batchSize int,
	logger *zap.Logger,
) *OutboxDispatchJob {
	if schedule == "" {
		schedule = DefaultDispatchSchedule
	}
	logger = logger.With(zap.String("component", "outbox_dispatch_job"))
	return &OutboxDispatchJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      newCron(logger),
		logger:    logger,
	}
}

// Start validates the batch size and schedule, then starts the cron loop.
func (j *OutboxDispatchJob) Start() error {
	cmd, err := commands.NewDispatchOutboxCommand(j.batchSize)
	if err != nil {
		return err
	}
	if _, err = j.cron.AddFunc(j.schedule, func() { j.run(context.Background(), cmd) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("outbox dispatch job started", zap.String("schedule", j.schedule), zap.Int("batch_size", j.batchSize))
	return nil
}

func (j *OutboxDispatchJob) run(ctx context.Context, cmd commands.DispatchOutboxCommand) {
	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("outbox dispatch failed", zap.Error(err))
		return
	}
	if result.Claimed == 0 {
		return
	}
	j.logger.Info("outbox batch dispatched",
		zap.Int("claimed", result.Claimed),
		zap.Int("done", result.Done),
		zap.Int("retried", result.Retried),
		zap.Int("failed", result.Failed),
	)
}

// Stop stops scheduling and waits for a running batch to finish.
func (j *OutboxDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("outbox dispatch job stopped")
}
