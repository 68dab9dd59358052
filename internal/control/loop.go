package control

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tank_control/internal/config"
	"tank_control/internal/hardware"
	"tank_control/internal/logger"
	"tank_control/internal/models"
)

const (
	// tankCount is the number of interconnected storage tanks.
	tankCount = 3

	discoveryRetryDelay = 5 * time.Second
)

// appliedState remembers the last state a relay was successfully
// commanded to. An unknown state forces a write on the next cycle, which
// is also how failed writes get retried.
type appliedState struct {
	known bool
	on    bool
}

// Loop is the single-goroutine control loop. All cross-cycle state
// (heating flag, pump timer, trip flags, applied relay states) is owned
// here and never mutated from outside; external intent arrives through
// the config store.
type Loop struct {
	sensors   hardware.SensorGateway
	actuators hardware.ActuatorGateway
	cfg       *config.Store
	sink      EventSink
	log       *logger.Logger

	sensorIDs []string

	heating        bool
	pump           pumpTimer
	tripped        bool
	sensorFault    bool
	appliedHeating appliedState
	appliedPump    appliedState
}

func NewLoop(sensors hardware.SensorGateway, actuators hardware.ActuatorGateway, cfg *config.Store, sink EventSink, log *logger.Logger) *Loop {
	return &Loop{
		sensors:   sensors,
		actuators: actuators,
		cfg:       cfg,
		sink:      sink,
		log:       log,
	}
}

// Run discovers sensors and then drives the control cycle until ctx is
// canceled. Cycles never overlap: a tick that arrives while a cycle is
// still running is simply absorbed by the ticker. On shutdown the loop
// finishes its current cycle and leaves relays as last commanded.
func (l *Loop) Run(ctx context.Context) {
	if err := l.discoverSensors(ctx); err != nil {
		return
	}

	l.sink.PublishEvent(models.EventStartup, "temperature controller started", nil)

	interval := l.updateInterval()
	t := time.NewTicker(interval)
	defer t.Stop()

	l.log.Infow("control loop started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			l.sink.PublishEvent(models.EventShutdown, "temperature controller stopped", nil)
			l.log.Infow("control loop stopped")
			return
		case now := <-t.C:
			l.runCycle(ctx, now)
			if next := l.updateInterval(); next != interval {
				interval = next
				t.Reset(interval)
				l.log.Infow("update interval changed", "interval", interval)
			}
		}
	}
}

func (l *Loop) updateInterval() time.Duration {
	return time.Duration(l.cfg.Snapshot().UpdateIntervalSec) * time.Second
}

// discoverSensors polls the bus until DS18B20 circuits show up or ctx is
// canceled. Circuits are sorted so tank numbering stays stable across runs.
func (l *Loop) discoverSensors(ctx context.Context) error {
	for {
		p := l.cfg.Snapshot()
		dctx, cancel := context.WithTimeout(ctx, time.Duration(p.SensorTimeoutSec)*time.Second)
		circuits, err := l.sensors.Discover(dctx)
		cancel()

		if err == nil && len(circuits) > 0 {
			sort.Strings(circuits)
			if len(circuits) > tankCount {
				circuits = circuits[:tankCount]
			}
			if len(circuits) < tankCount {
				l.log.Warnw("fewer sensors than expected", "found", len(circuits), "expected", tankCount)
			}
			l.sensorIDs = circuits
			l.log.Infow("discovered temperature sensors", "circuits", circuits)
			return nil
		}

		if err != nil {
			l.log.Errorw("sensor discovery failed", "err", err)
		} else {
			l.log.Warnw("no temperature sensors found, retrying")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(discoveryRetryDelay):
		}
	}
}

// runCycle executes one full control cycle at time now: snapshot
// parameters, sample sensors, decide heating, advance the pump machine,
// command relays on change, publish the resulting state.
func (l *Loop) runCycle(ctx context.Context, now time.Time) {
	p := l.cfg.Snapshot()

	readings, avg := l.sample(ctx, p)

	prevHeating := l.heating
	target := decideHeating(prevHeating, avg, p)

	tripped := safetyTripped(avg, p)
	if tripped && !l.tripped {
		l.log.Warnw("safety ceiling reached, heating forced off", "avg_c", *avg, "max_c", p.MaxTemperatureC)
		l.sink.PublishEvent(models.EventSafetyTrip, "average temperature at or above safety ceiling; heating forced off", map[string]any{
			"avg_temp_c":        *avg,
			"max_temperature_c": p.MaxTemperatureC,
			"manual_override":   p.ManualOverride,
		})
	}
	fault := avg == nil
	if fault && !l.sensorFault {
		l.log.Warnw("no valid temperature reading, heating disabled")
		l.sink.PublishEvent(models.EventSensorFailure, "no sensor readings available; heating disabled (fail-safe)", nil)
	}
	l.tripped, l.sensorFault = tripped, fault

	l.heating = target

	var pumpOn bool
	if p.ManualOverride {
		// Manual mode bypasses the run-on guarantee entirely.
		pumpOn = p.ManualPump
		l.pump.override(pumpOn)
	} else {
		var shutoff bool
		pumpOn, shutoff = l.pump.advance(now, target, time.Duration(p.PumpDelaySec)*time.Second)
		if shutoff {
			l.log.Infow("circulation pump deactivated")
			l.sink.PublishAction(models.ControlAction{
				OccurredAt: now,
				Action:     models.ActionPumpOff,
				Heating:    target,
				Pump:       false,
				AvgTempC:   avg,
				SetpointC:  p.SetpointC,
			})
		}
	}

	if target != prevHeating {
		action := models.ActionHeatingOff
		if target {
			action = models.ActionHeatingOn
		}
		l.sink.PublishAction(models.ControlAction{
			OccurredAt: now,
			Action:     action,
			Heating:    target,
			Pump:       pumpOn,
			AvgTempC:   avg,
			SetpointC:  p.SetpointC,
		})
	}

	l.commandRelay(ctx, p.RelayHeating, "heating", target, &l.appliedHeating)
	l.commandRelay(ctx, p.RelayPump, "pump", pumpOn, &l.appliedPump)

	l.sink.PublishState(models.SystemState{
		Readings:             readings,
		AverageTempC:         avg,
		HeatingActive:        target,
		PumpActive:           pumpOn,
		PumpShutoffDeadline:  l.pump.deadlinePtr(),
		SafetyTripped:        tripped,
		ManualOverride:       p.ManualOverride,
		HeatingSystemEnabled: p.HeatingSystemEnabled,
		SetpointC:            p.SetpointC,
		HysteresisC:          p.HysteresisC,
		UpdatedAt:            now.UTC(),
	})
}

// sample reads all discovered sensors with a per-read bound of the
// configured sensor timeout. A failed sensor is marked unavailable but
// never aborts the cycle; the average covers the available subset and is
// nil when no sensor answered.
func (l *Loop) sample(ctx context.Context, p models.ControlParameters) ([]models.TankReading, *float64) {
	timeout := time.Duration(p.SensorTimeoutSec) * time.Second

	readings := make([]models.TankReading, 0, len(l.sensorIDs))
	var sum float64
	var available int

	for i, id := range l.sensorIDs {
		rctx, cancel := context.WithTimeout(ctx, timeout)
		temp, err := l.sensors.ReadTemperature(rctx, id)
		cancel()

		r := models.TankReading{Tank: i + 1, SensorID: id}
		if err != nil {
			l.log.Warnw("sensor read failed", "circuit", id, "tank", r.Tank, "err", err)
		} else {
			r.TemperatureC = temp
			r.Available = true
			sum += temp
			available++
		}
		readings = append(readings, r)
	}

	if available == 0 {
		return readings, nil
	}
	avg := sum / float64(available)
	return readings, &avg
}

// commandRelay writes a relay only when the target differs from the last
// successfully applied state. A failed write leaves the applied state
// stale so the next cycle retries.
func (l *Loop) commandRelay(ctx context.Context, circuit, name string, on bool, applied *appliedState) {
	if applied.known && applied.on == on {
		return
	}
	if err := l.actuators.SetRelay(ctx, circuit, on); err != nil {
		l.log.Errorw("relay write failed", "relay", name, "circuit", circuit, "on", on, "err", err)
		l.sink.PublishEvent(models.EventActuatorError, fmt.Sprintf("failed to set %s relay", name), map[string]any{
			"circuit": circuit,
			"target":  on,
			"error":   err.Error(),
		})
		return
	}
	applied.known, applied.on = true, on
	l.log.Infow("relay set", "relay", name, "circuit", circuit, "on", on)
}
