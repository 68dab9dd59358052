package control

import (
	"testing"
	"time"
)

var pumpEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPumpTimer_RunsWithHeating(t *testing.T) {
	var pt pumpTimer
	on, shutoff := pt.advance(pumpEpoch, true, 60*time.Second)
	if !on || shutoff {
		t.Fatalf("pump must run while heating, got on=%v shutoff=%v", on, shutoff)
	}
	if pt.deadlinePtr() != nil {
		t.Fatalf("no shutoff deadline while heating")
	}
}

func TestPumpTimer_RunOnDelayHonored(t *testing.T) {
	var pt pumpTimer
	delay := 60 * time.Second

	pt.advance(pumpEpoch, true, delay)

	// Heating turns off at t=0; pump must stay on until t=60.
	on, shutoff := pt.advance(pumpEpoch, false, delay)
	if !on || shutoff {
		t.Fatalf("pump must keep running right after heating stops")
	}
	want := pumpEpoch.Add(delay)
	if d := pt.deadlinePtr(); d == nil || !d.Equal(want) {
		t.Fatalf("deadline = %v, want %v", d, want)
	}

	on, shutoff = pt.advance(pumpEpoch.Add(59*time.Second), false, delay)
	if !on || shutoff {
		t.Fatalf("pump must still run at t=59s")
	}

	on, shutoff = pt.advance(pumpEpoch.Add(60*time.Second), false, delay)
	if on || !shutoff {
		t.Fatalf("pump must shut off at t=60s, got on=%v shutoff=%v", on, shutoff)
	}
	if pt.deadlinePtr() != nil {
		t.Fatalf("deadline must clear after shutoff")
	}
}

func TestPumpTimer_ZeroDelayShutsOffSameCycle(t *testing.T) {
	var pt pumpTimer
	pt.advance(pumpEpoch, true, 0)
	on, shutoff := pt.advance(pumpEpoch.Add(time.Second), false, 0)
	if on || !shutoff {
		t.Fatalf("zero delay must stop the pump in the same cycle as heating")
	}
}

func TestPumpTimer_ReheatCancelsPendingShutoff(t *testing.T) {
	var pt pumpTimer
	delay := 60 * time.Second

	pt.advance(pumpEpoch, true, delay)
	pt.advance(pumpEpoch.Add(time.Second), false, delay)
	if pt.deadlinePtr() == nil {
		t.Fatalf("expected pending shutoff")
	}

	on, shutoff := pt.advance(pumpEpoch.Add(2*time.Second), true, delay)
	if !on || shutoff {
		t.Fatalf("re-heating must keep the pump running")
	}
	if pt.deadlinePtr() != nil {
		t.Fatalf("re-heating must cancel the pending deadline")
	}

	// After the original deadline has long passed, a fresh heating-off
	// starts a new full delay.
	later := pumpEpoch.Add(10 * time.Minute)
	on, shutoff = pt.advance(later, false, delay)
	if !on || shutoff {
		t.Fatalf("fresh heating-off must start a new run-on window")
	}
	if d := pt.deadlinePtr(); d == nil || !d.Equal(later.Add(delay)) {
		t.Fatalf("new deadline = %v, want %v", d, later.Add(delay))
	}
}

func TestPumpTimer_IdleStaysIdle(t *testing.T) {
	var pt pumpTimer
	on, shutoff := pt.advance(pumpEpoch, false, 60*time.Second)
	if on || shutoff {
		t.Fatalf("idle pump must stay off without prior heating")
	}
}

func TestPumpTimer_Override(t *testing.T) {
	var pt pumpTimer
	pt.advance(pumpEpoch, true, 60*time.Second)
	pt.advance(pumpEpoch.Add(time.Second), false, 60*time.Second)

	pt.override(false)
	if pt.deadlinePtr() != nil {
		t.Fatalf("override must discard the pending deadline")
	}
	on, shutoff := pt.advance(pumpEpoch.Add(2*time.Second), false, 60*time.Second)
	if on || shutoff {
		t.Fatalf("after override off the machine is idle")
	}
}
