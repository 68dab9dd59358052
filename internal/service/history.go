package service

import (
	"context"
	"errors"
	"time"

	"tank_control/internal/models"
	"tank_control/internal/repository"
)

type HistoryService struct {
	readings repository.ReadingRepo
	events   repository.EventRepo
	actions  repository.ActionRepo
}

func NewHistoryService(repos *repository.Repository) *HistoryService {
	return &HistoryService{
		readings: repos.Readings,
		events:   repos.Events,
		actions:  repos.Actions,
	}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// defaultLookback is applied when a query gives no bounds at all.
const defaultLookback = 24 * time.Hour

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeRange validates the range and applies the default lookback for
// fully unbounded queries.
func normalizeRange(f RangeFilter) (time.Time, time.Time, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, errInvalidTimeRange
	}
	if from.IsZero() && to.IsZero() {
		from = time.Now().UTC().Add(-defaultLookback)
	}
	return from, to, nil
}

func (s *HistoryService) Temperatures(ctx context.Context, f TempFilter) ([]models.StoredReading, error) {
	from, to, err := normalizeRange(f.RangeFilter)
	if err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	return s.readings.ListRange(ctx, from, to, f.Tank)
}

func (s *HistoryService) Events(ctx context.Context, f LogFilter) ([]models.ControlEvent, error) {
	from, to, err := normalizeRange(f.RangeFilter)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, from, to, f.Type)
}

func (s *HistoryService) Actions(ctx context.Context, f RangeFilter) ([]models.ControlAction, error) {
	from, to, err := normalizeRange(f)
	if err != nil {
		return nil, err
	}
	return s.actions.List(ctx, from, to)
}

// Statistics aggregates readings over the trailing window (default 24h).
func (s *HistoryService) Statistics(ctx context.Context, window time.Duration) (models.TemperatureStats, error) {
	if window <= 0 {
		window = defaultLookback
	}
	return s.readings.Statistics(ctx, time.Now().UTC().Add(-window))
}
