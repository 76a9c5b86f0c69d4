package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/app"
)

// DispatchScheduler fires the daily dispatch run on a cron spec. The run
// itself is owned by the dispatch service; this only decides when.
type DispatchScheduler struct {
	cronEngine    *cron.Cron
	dispatcher    app.Dispatcher
	logger        *logrus.Entry
	cronSpecDaily string
}

func NewDispatchScheduler(
	dispatcher app.Dispatcher,
	logger *logrus.Entry,
	cronSpecDaily string, // e.g., "0 9 * * *" (9:00 AM daily)
) *DispatchScheduler {
	return &DispatchScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		dispatcher:    dispatcher,
		logger:        logger,
		cronSpecDaily: cronSpecDaily,
	}
}

func (s *DispatchScheduler) Start() {
	s.logger.Info("Starting dispatch scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpecDaily, func() {
		s.logger.Info("Cron job triggered for daily dispatch")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		report, err := s.dispatcher.Run(ctx, time.Now())
		if err != nil {
			s.logger.WithError(err).Error("Daily dispatch run failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"sent":  report.Sent,
			"total": report.Total(),
		}).Info("Daily dispatch run completed")
	})
	if err != nil {
		s.logger.Fatalf("Could not add daily dispatch cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Dispatch scheduler started")
}

func (s *DispatchScheduler) Stop() {
	s.logger.Info("Stopping dispatch scheduler")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Dispatch scheduler gracefully stopped")
}
