// Package engine is the public surface of gones: Create/Insert/Stop, the
// bus-synchronized frame driver, and the pixel sink / tick driver
// collaborator interfaces a host wires up.
//
// Grounded on bdwalton/gintendo's console.Bus.Run/BIOS loop (the per-cycle
// CPU/PPU interleave) and gintendo.go's top-level wiring, generalized so the
// run loop lives here instead of on the Bus, and so the host supplies the
// tick cadence and pixel destination instead of this package owning an
// ebiten window.
package engine

import (
	"gones/bus"
	"gones/cartridge"
	"gones/controller"
	"gones/localize"
	"gones/neserr"
)

// warmupCycles is the number of CPU cycles the frame driver burns through
// before the first frame, mirroring real hardware's post-reset settle time.
const warmupCycles = 29658

// PixelSink receives one completed frame per POST_RENDER phase: 256x240
// RGBA, row-major, alpha 255.
type PixelSink interface {
	Blit(frame []uint8)
}

// NullSink discards frames; useful for tests and headless tooling.
type NullSink struct{}

// Blit implements PixelSink.
func (NullSink) Blit([]uint8) {}

// TickDriver supplies the periodic cadence that invokes the frame driver.
// Start must call frameFn once per tick until Stop is called.
type TickDriver interface {
	Start(frameFn func())
	Stop()
}

// Config holds the engine's optional settings.
type Config struct {
	// Locale is a BCP-47 tag; empty means auto-detect the host locale,
	// falling back to English.
	Locale string
	// FPS overrides the region-native tick rate; clamped to [30, 100].
	// Zero means "use the region-native rate" (left to the TickDriver).
	FPS float64
}

// Error is a localized, typed failure raised at the engine API boundary.
type Error struct {
	Kind    neserr.Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets callers errors.Is(err, neserr.ErrX) against an engine.Error.
func (e *Error) Unwrap() error { return neserr.ForKind(e.Kind) }

// Engine owns the bus-synchronized emulation core for one inserted
// cartridge at a time.
type Engine struct {
	sink   PixelSink
	table  *localize.Table
	driver TickDriver
	cfg    Config

	b        *bus.Bus
	pad1     *controller.Controller
	pad2     *controller.Controller
	warmedUp bool
	running  bool
}

// Create builds an Engine bound to sink, localized per cfg.Locale.
func Create(sink PixelSink, cfg Config) *Engine {
	return &Engine{
		sink:  sink,
		table: localize.New(cfg.Locale),
		cfg:   cfg,
	}
}

// SetControllers wires the two controller ports; either may be nil.
func (e *Engine) SetControllers(pad1, pad2 *controller.Controller) {
	e.pad1, e.pad2 = pad1, pad2
}

func (e *Engine) wrap(err error) error {
	kind, ok := neserr.KindOf(err)
	if !ok {
		kind = neserr.MalformedFileFormat
	}
	return &Error{Kind: kind, Message: e.table.Message(kind)}
}

// Insert loads a cartridge image and readies the engine to run frames. It
// fails with CartridgeAlreadyInserted if a cartridge is already live, or
// MalformedFileFormat/MapperNotSupported/MirroringUnavailable from the
// cartridge parse.
func (e *Engine) Insert(romData []byte) error {
	if e.b != nil {
		return e.wrap(neserr.ErrCartridgeAlreadyInserted)
	}
	cart, err := cartridge.Load(romData)
	if err != nil {
		return e.wrap(err)
	}
	e.b = bus.New(cart, e.pad1, e.pad2)
	e.warmedUp = false
	return nil
}

// NewIntervalDriver builds an IntervalDriver paced at the inserted
// cartridge's region-native rate, overridden by Config.FPS if set. Insert
// must have succeeded first.
func (e *Engine) NewIntervalDriver() *IntervalDriver {
	return NewIntervalDriver(e.cfg.FPS, e.b.Timing())
}

// Stop tears down the live cartridge, if any. Idempotent.
func (e *Engine) Stop() {
	if e.driver != nil && e.running {
		e.driver.Stop()
		e.running = false
	}
	e.b = nil
	e.warmedUp = false
}

// Run wires driver as the tick source, calling RunFrame once per tick until
// Stop is called or RunFrame returns a fatal error.
func (e *Engine) Run(driver TickDriver) error {
	e.driver = driver
	e.running = true
	var fatal error
	driver.Start(func() {
		if !e.running {
			return
		}
		if err := e.RunFrame(); err != nil {
			fatal = err
			e.running = false
			driver.Stop()
		}
	})
	return fatal
}

// RunFrame executes exactly one frame's worth of bus-synchronized
// CPU/PPU work: it burns the reset warm-up once, then alternates DMA-stall
// consumption with instruction dispatch until PRE_RENDER completes, and
// blits the resulting frame to the sink.
func (e *Engine) RunFrame() error {
	if e.b == nil {
		return nil
	}
	if !e.warmedUp {
		if err := e.warmup(); err != nil {
			return err
		}
	}

	for {
		if e.b.Err() != nil {
			return e.wrap(e.b.Err())
		}

		if stall := e.b.DMAStall(); stall > 0 {
			n := stall
			if n > 110 {
				n = 110
			}
			e.b.ConsumeDMAStall(n)
			if e.b.TickPPU(3 * n) {
				break
			}
			continue
		}

		e.b.ServiceInterrupts()
		cycles, err := e.b.StepCPU()
		if err != nil {
			return e.wrap(err)
		}
		if e.b.TickPPU(3 * int(cycles)) {
			break
		}
	}

	e.sink.Blit(e.b.FrameBuffer())
	return nil
}

// warmup runs instructions until at least warmupCycles CPU cycles have
// elapsed (ticking the PPU in lockstep, as every frame does), then clears
// the PPU's register-write gate.
func (e *Engine) warmup() error {
	total := 0
	for total < warmupCycles {
		if e.b.Err() != nil {
			return e.wrap(e.b.Err())
		}
		cycles, err := e.b.StepCPU()
		if err != nil {
			return e.wrap(err)
		}
		e.b.TickPPU(3 * int(cycles))
		total += int(cycles)
	}
	e.b.ClearWaitCPU()
	e.warmedUp = true
	return nil
}
