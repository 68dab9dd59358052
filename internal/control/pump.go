package control

import "time"

// pumpPhase is the circulation pump run-on state.
type pumpPhase int

const (
	pumpIdle pumpPhase = iota
	pumpRunning
	pumpPendingShutoff
)

// pumpTimer enforces the pump run-on guarantee: once heating has been
// active, the pump keeps running for at least the configured delay after
// heating stops. Owned exclusively by the control loop.
type pumpTimer struct {
	phase    pumpPhase
	deadline time.Time
}

// advance applies one cycle's heating target and reports whether the pump
// must be on and whether the delayed shutoff fired this cycle.
func (t *pumpTimer) advance(now time.Time, heating bool, delay time.Duration) (pumpOn, shutoff bool) {
	if heating {
		// Re-heating cancels any pending shutoff.
		t.phase = pumpRunning
		t.deadline = time.Time{}
		return true, false
	}

	switch t.phase {
	case pumpRunning:
		t.phase = pumpPendingShutoff
		t.deadline = now.Add(delay)
		// delay == 0 resolves within the same cycle
		fallthrough
	case pumpPendingShutoff:
		if !now.Before(t.deadline) {
			t.phase = pumpIdle
			t.deadline = time.Time{}
			return false, true
		}
		return true, false
	default:
		return false, false
	}
}

// override forces the machine into a phase matching a manually commanded
// pump state, discarding any pending deadline. Used while manual override
// bypasses the run-on guarantee.
func (t *pumpTimer) override(pumpOn bool) {
	t.deadline = time.Time{}
	if pumpOn {
		t.phase = pumpRunning
	} else {
		t.phase = pumpIdle
	}
}

// deadlinePtr exposes the pending shutoff deadline for state snapshots.
func (t *pumpTimer) deadlinePtr() *time.Time {
	if t.phase != pumpPendingShutoff {
		return nil
	}
	d := t.deadline
	return &d
}
