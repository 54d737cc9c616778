package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"givehubtel/internal/pkg/telegram"
	"givehubtel/internal/repository"
)

// stalePendingAge is how long a donation may sit pending before the sweep
// flags it. Failure callbacks never flip a donation to failed, so without
// this sweep an abandoned payment is invisible.
const stalePendingAge = 24 * time.Hour

// Scheduler manages the background jobs.
type Scheduler struct {
	cron    *cron.Cron
	repo    *repository.DonationRepository
	botAPI  *telegram.BotAPI
	channel string
	logger  *zap.Logger
}

// New creates the scheduler. botAPI may be nil when operator reports are not
// configured; the sweep then only logs.
func New(repo *repository.DonationRepository, botAPI *telegram.BotAPI, channel string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		repo:    repo,
		botAPI:  botAPI,
		channel: channel,
		logger:  logger,
	}
}

// Start registers and starts all jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	// Stale pending sweep - every hour
	s.cron.AddFunc("0 0 * * * *", func() {
		s.logger.Debug("Running: stale pending sweep")
		s.sweepStalePending()
	})

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) sweepStalePending() {
	cutoff := time.Now().Add(-stalePendingAge)
	donations, err := s.repo.StalePending(cutoff)
	if err != nil {
		s.logger.Error("stale pending sweep failed", zap.Error(err))
		return
	}
	if len(donations) == 0 {
		return
	}

	for _, d := range donations {
		s.logger.Warn("donation pending past cutoff",
			zap.Uint("donation_id", d.ID),
			zap.String("amount", d.Amount),
			zap.Time("created_at", d.CreatedAt))
	}

	if s.botAPI == nil || s.channel == "" {
		return
	}

	text := fmt.Sprintf(
		"⚠️ Donation follow-up\n\n%d donation(s) have been pending for over %s. Oldest: #%d from %s.",
		len(donations), stalePendingAge,
		donations[0].ID, donations[0].CreatedAt.Format(time.RFC3339),
	)
	if _, err := s.botAPI.SendMessage(s.channel, text); err != nil {
		s.logger.Warn("stale pending report failed", zap.Error(err))
	}
}
