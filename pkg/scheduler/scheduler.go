// Package scheduler runs the background token re-validation job.
package scheduler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/drivebrowse/drivebrowse/pkg/browse"
	"github.com/drivebrowse/drivebrowse/pkg/config"
)

const checkTimeout = 30 * time.Second

// Scheduler manages background jobs for the browse session.
type Scheduler struct {
	cron    *cron.Cron
	session *browse.Session
	cfg     config.Config
	log     *slog.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, session *browse.Session) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		session: session,
		cfg:     cfg,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the scheduler.
func (s *Scheduler) SetLogger(log *slog.Logger) {
	s.log = log
}

// Start adds the token re-validation job and starts the cron loop.
// Without a configured schedule the scheduler stays idle.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.TokenCheckCron == "" {
		s.log.Info("Background token check is disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.TokenCheckCron, func() {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()
		state := s.session.RevalidateToken(checkCtx)
		s.log.Debug("Scheduled token check completed", slog.String("state", state.String()))
	})
	if err != nil {
		return err
	}

	s.log.Info("Starting scheduler", slog.String("schedule", s.cfg.TokenCheckCron))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler")
	s.cron.Stop()
}
