package engine

import (
	"time"

	"gones/cartridge"
)

// nativeFPS is the per-region frame rate a real console free-runs at.
func nativeFPS(t cartridge.Timing) float64 {
	switch t {
	case cartridge.TimingPAL, cartridge.TimingDendy:
		return 50.0
	default:
		return 60.0
	}
}

// clampFPS restricts an override to [30, 100]; zero passes through
// unchanged, meaning "no override, use the region-native rate".
func clampFPS(fps float64) float64 {
	switch {
	case fps == 0:
		return 0
	case fps < 30:
		return 30
	case fps > 100:
		return 100
	default:
		return fps
	}
}

// IntervalDriver is a TickDriver for hosts with no windowing system of
// their own to pump frame callbacks — headless tooling and tests. It
// paces RunFrame with a time.Ticker instead of riding a graphics loop.
//
// Grounded on the pack's time.Ticker-driven VM clocks (e.g. the chip8
// interpreters' refresh-rate Ticker), adapted to the TickDriver
// interface so cmd/gones's ebiten loop and this one are interchangeable.
type IntervalDriver struct {
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
}

// NewIntervalDriver builds a driver ticking at fps, clamped to [30, 100];
// fps of zero paces at region's native rate (60 for NTSC, 50 for
// PAL/Dendy, per spec.md's Config.FPS override semantics).
func NewIntervalDriver(fps float64, region cartridge.Timing) *IntervalDriver {
	rate := clampFPS(fps)
	if rate == 0 {
		rate = nativeFPS(region)
	}
	return &IntervalDriver{interval: time.Duration(float64(time.Second) / rate)}
}

// Start implements TickDriver: it ticks at the configured interval,
// invoking frameFn from its own goroutine once per tick until Stop.
func (d *IntervalDriver) Start(frameFn func()) {
	d.ticker = time.NewTicker(d.interval)
	d.done = make(chan struct{})
	go func() {
		for {
			select {
			case <-d.ticker.C:
				frameFn()
			case <-d.done:
				return
			}
		}
	}()
}

// Stop implements TickDriver.
func (d *IntervalDriver) Stop() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
	if d.done != nil {
		close(d.done)
	}
}
