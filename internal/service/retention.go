package service

import (
	"context"
	"time"

	"tank_control/internal/config"
	"tank_control/internal/logger"
	"tank_control/internal/repository"
)

// RetentionService prunes history older than the configured retention
// period. Runs once a day; a failed pass is retried on the next tick.
type RetentionService struct {
	readings repository.ReadingRepo
	events   repository.EventRepo
	actions  repository.ActionRepo
	cfg      *config.Store
	log      *logger.Logger
}

func NewRetentionService(repos *repository.Repository, cfg *config.Store, log *logger.Logger) *RetentionService {
	return &RetentionService{
		readings: repos.Readings,
		events:   repos.Events,
		actions:  repos.Actions,
		cfg:      cfg,
		log:      log,
	}
}

// Run performs one cleanup immediately and then every tick until ctx is
// canceled. Callers normally pass 24h.
func (s *RetentionService) Run(ctx context.Context, tick time.Duration) {
	s.cleanup(ctx)

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.cleanup(ctx)
		}
	}
}

func (s *RetentionService) cleanup(ctx context.Context) {
	days := s.cfg.Snapshot().DataRetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	var total int64
	for _, table := range []struct {
		name   string
		delete func(context.Context, time.Time) (int64, error)
	}{
		{"tank_readings", s.readings.DeleteBefore},
		{"control_events", s.events.DeleteBefore},
		{"control_actions", s.actions.DeleteBefore},
	} {
		n, err := table.delete(ctx, cutoff)
		if err != nil {
			s.log.Errorw("retention cleanup failed", "table", table.name, "err", err)
			continue
		}
		total += n
	}
	s.log.Infow("retention cleanup completed", "cutoff", cutoff, "deleted", total, "retention_days", days)
}
