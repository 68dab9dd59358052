package control

import "tank_control/internal/models"

// EventSink receives every published snapshot plus discrete occurrences.
// Implementations must not block the control loop for long; persistence
// and broadcast failures are theirs to handle.
type EventSink interface {
	// PublishState receives the snapshot of one completed cycle.
	// Called every cycle, whether or not anything changed.
	PublishState(state models.SystemState)

	// PublishEvent receives a discrete occurrence (sensor failure,
	// safety trip, mode change, actuator error).
	PublishEvent(kind, description string, metadata map[string]any)

	// PublishAction records a relay command together with its inputs.
	PublishAction(action models.ControlAction)
}
