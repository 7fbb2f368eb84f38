package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"gones/cartridge"
)

func TestClampFPSRestrictsToRange(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{10, 30},
		{30, 30},
		{59.94, 59.94},
		{100, 100},
		{240, 100},
	}
	for _, c := range cases {
		if got := clampFPS(c.in); got != c.want {
			t.Errorf("clampFPS(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNativeFPSByRegion(t *testing.T) {
	if got := nativeFPS(cartridge.TimingNTSC); got != 60.0 {
		t.Errorf("NTSC = %v, want 60", got)
	}
	if got := nativeFPS(cartridge.TimingPAL); got != 50.0 {
		t.Errorf("PAL = %v, want 50", got)
	}
	if got := nativeFPS(cartridge.TimingDendy); got != 50.0 {
		t.Errorf("Dendy = %v, want 50", got)
	}
}

func TestNewIntervalDriverOverrideClampsBeforeComputingInterval(t *testing.T) {
	d := NewIntervalDriver(240, cartridge.TimingNTSC)
	want := time.Duration(float64(time.Second) / 100)
	if d.interval != want {
		t.Errorf("interval = %v, want %v", d.interval, want)
	}
}

func TestNewIntervalDriverZeroUsesRegionRate(t *testing.T) {
	d := NewIntervalDriver(0, cartridge.TimingPAL)
	want := time.Duration(float64(time.Second) / 50)
	if d.interval != want {
		t.Errorf("interval = %v, want %v", d.interval, want)
	}
}

func TestIntervalDriverStopHaltsFurtherTicks(t *testing.T) {
	d := NewIntervalDriver(100, cartridge.TimingNTSC)
	var calls int32
	d.Start(func() { atomic.AddInt32(&calls, 1) })
	time.Sleep(50 * time.Millisecond)
	d.Stop()
	seenAtStop := atomic.LoadInt32(&calls)
	if seenAtStop == 0 {
		t.Fatalf("expected at least one tick before Stop")
	}
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != seenAtStop {
		t.Errorf("ticks after Stop = %d, want %d (no further calls)", got, seenAtStop)
	}
}
