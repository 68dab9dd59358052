package service

import (
	"context"
	"sync"
	"time"

	"tank_control/internal/control"
	"tank_control/internal/logger"
	"tank_control/internal/models"
	"tank_control/internal/repository"
)

// persistTimeout bounds each sink write so a stuck database cannot stall
// the control loop indefinitely.
const persistTimeout = 5 * time.Second

// Recorder is the control loop's event sink: it persists readings, events
// and actions, caches the latest snapshot for Monitoring, and forwards
// snapshots to the live broadcaster. Persistence failures are logged and
// dropped; the loop must never stop over them.
type Recorder struct {
	readings  repository.ReadingRepo
	events    repository.EventRepo
	actions   repository.ActionRepo
	broadcast Broadcaster
	log       *logger.Logger

	mu     sync.RWMutex
	latest models.SystemState
	seen   bool
}

var _ control.EventSink = (*Recorder)(nil)

func NewRecorder(repos *repository.Repository, broadcast Broadcaster, log *logger.Logger) *Recorder {
	return &Recorder{
		readings:  repos.Readings,
		events:    repos.Events,
		actions:   repos.Actions,
		broadcast: broadcast,
		log:       log,
	}
}

// PublishState caches the snapshot, persists its readings and pushes it to
// live consumers.
func (r *Recorder) PublishState(state models.SystemState) {
	r.mu.Lock()
	r.latest = state
	r.seen = true
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := r.readings.InsertBatch(ctx, state.UpdatedAt, state.Readings); err != nil {
		r.log.Errorw("persist readings failed", "err", err)
	}

	if r.broadcast != nil {
		r.broadcast.BroadcastState(state)
	}
}

// PublishEvent appends a discrete event to the log.
func (r *Recorder) PublishEvent(kind, description string, metadata map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	e := models.ControlEvent{
		Type:        kind,
		Description: description,
	}
	if metadata != nil {
		e.Metadata = metadata
	}
	if err := r.events.Append(ctx, e); err != nil {
		r.log.Errorw("persist event failed", "kind", kind, "err", err)
	}
}

// PublishAction records a relay command.
func (r *Recorder) PublishAction(a models.ControlAction) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := r.actions.Append(ctx, a); err != nil {
		r.log.Errorw("persist control action failed", "action", a.Action, "err", err)
	}
}

// Latest returns the most recently published snapshot, if any cycle has
// completed yet.
func (r *Recorder) Latest() (models.SystemState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.seen
}
