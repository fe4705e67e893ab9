package jobs

import (
	"context"
	"sort"

	"orderengine/internal/core/ports"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultBacklogSchedule reports the backlog once a minute.
const DefaultBacklogSchedule = "0 * * * * *"

// BacklogCounter reports outbox messages per status.
type BacklogCounter interface {
	CountByStatus(ctx context.Context) (map[ports.OutboxStatus]int, error)
}

// OutboxBacklogJob logs the outbox backlog. Failed messages need an operator,
// so a non-zero failed count is logged as a warning.
type OutboxBacklogJob struct {
	counter  BacklogCounter
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewOutboxBacklogJob(counter BacklogCounter, schedule string, logger *zap.Logger) *OutboxBacklogJob {
	if schedule == "" {
		schedule = DefaultBacklogSchedule
	}
	logger = logger.With(zap.String("component", "outbox_backlog_job"))
	return &OutboxBacklogJob{counter: counter, schedule: schedule, cron: newCron(logger), logger: logger}
}

func (j *OutboxBacklogJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("outbox backlog job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *OutboxBacklogJob) run(ctx context.Context) {
	counts, err := j.counter.CountByStatus(ctx)
	if err != nil {
		j.logger.Error("outbox backlog query failed", zap.Error(err))
		return
	}

	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	fields := make([]zap.Field, 0, len(statuses))
	for _, status := range statuses {
		fields = append(fields, zap.Int(status, counts[ports.OutboxStatus(status)]))
	}

	if counts[ports.OutboxFailed] > 0 {
		j.logger.Warn("outbox has failed messages", fields...)
		return
	}
	j.logger.Info("outbox backlog", fields...)
}

func (j *OutboxBacklogJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("outbox backlog job stopped")
}
