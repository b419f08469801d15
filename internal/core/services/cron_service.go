package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// noticeRunTimeout bounds one scheduled delinquent notice run
const noticeRunTimeout = 10 * time.Minute

// CronService runs the monthly delinquent notice job
type CronService struct {
	cron     *cron.Cron
	notifier *NotificationService
	schedule string
	entryID  cron.EntryID
}

// NewCronService registers the notice job on a standard five-field schedule
// evaluated in loc
func NewCronService(notifier *NotificationService, schedule string, loc *time.Location) (*CronService, error) {
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{slog.Default()})),
	)
	s := &CronService{
		cron:     c,
		notifier: notifier,
		schedule: schedule,
	}

	id, err := c.AddFunc(schedule, s.runNotices)
	if err != nil {
		return nil, fmt.Errorf("invalid notice schedule %q: %w", schedule, err)
	}
	s.entryID = id
	return s, nil
}

// Start starts the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	slog.Info("notice scheduler started", "schedule", s.schedule, "next_run", s.NextRun())
}

// Stop stops the scheduler and waits for a running job to finish or ctx to expire
func (s *CronService) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("notice scheduler stop timed out")
	}
	slog.Info("notice scheduler stopped")
}

// NextRun returns the next scheduled run, zero before Start
func (s *CronService) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *CronService) runNotices() {
	ctx, cancel := context.WithTimeout(context.Background(), noticeRunTimeout)
	defer cancel()

	slog.Info("running scheduled delinquent notices")
	if _, err := s.notifier.SendDelinquentNotices(ctx, TriggerScheduled); err != nil {
		slog.Error("scheduled delinquent notices failed", "error", err)
	}
}

// cronLogger routes the scheduler's own log lines through slog
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
