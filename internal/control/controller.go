// Package control implements the periodic control core: sensor sampling
// and averaging, the hysteresis heating decision, the safety ceiling,
// the pump run-on state machine and manual override interposition.
package control

import "tank_control/internal/models"

// decideHeating computes the heating target for one cycle.
//
// prev is the heating state carried over from the previous cycle; this
// memory is what gives the hysteresis its dead band. avg is nil when no
// sensor delivered a reading. The safety ceiling dominates every mode,
// including manual override, and an unavailable average fails safe.
func decideHeating(prev bool, avg *float64, p models.ControlParameters) bool {
	var target bool
	switch {
	case p.ManualOverride:
		target = p.ManualHeating
	case !p.HeatingSystemEnabled:
		target = false
	case avg == nil:
		target = false
	default:
		target = prev
		// Strict inequalities: boundary values stay in the dead band.
		if !prev && *avg < p.SetpointC-p.HysteresisC {
			target = true
		}
		if prev && *avg > p.SetpointC+p.HysteresisC {
			target = false
		}
	}

	if avg == nil || *avg >= p.MaxTemperatureC {
		target = false
	}
	return target
}

// safetyTripped reports whether the average is at or above the ceiling.
func safetyTripped(avg *float64, p models.ControlParameters) bool {
	return avg != nil && *avg >= p.MaxTemperatureC
}
