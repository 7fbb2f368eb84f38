// Package bus implements the NES address decoder: the single aggregate
// that owns the CPU, PPU, cartridge mapper and controllers, and routes
// every CPU-visible read/write to the right device.
//
// Grounded on bdwalton/gintendo's console/bus.go, generalized from its
// ebiten-driven Bus (which owned the run loop itself) to a passive decoder:
// the frame-driving loop moves to the engine package so bus stays a pure
// memory-mapped aggregate, matching the "Bus as single owning aggregate,
// no run loop of its own" guidance this spec's Design Notes carry forward.
package bus

import (
	"gones/cartridge"
	"gones/controller"
	"gones/cpu"
	"gones/ppu"
)

const (
	ramSize       = 0x0800
	ramMirrorEnd  = 0x1FFF
	ppuMirrorEnd  = 0x3FFF
	oamDMAAddr    = 0x4014
	controller1   = 0x4016
	controller2   = 0x4017
	ioRegionStart = 0x4000
	ioRegionEnd   = 0x4017
	cartStart     = 0x4020
)

// Bus wires a CPU, PPU, cartridge and two controller ports into one
// 16-bit address space.
type Bus struct {
	CPU *cpu.CPU
	PPU *ppu.PPU

	cart *cartridge.Cartridge
	pad1 *controller.Controller
	pad2 *controller.Controller

	ram [ramSize]uint8
	io  [ioRegionEnd - ioRegionStart + 1]uint8

	dmaStall   int
	nmiPending bool
	err        error
}

// New constructs a Bus around a loaded cartridge and the two controller
// ports (either may be nil, in which case reads from that port return 0).
func New(cart *cartridge.Cartridge, pad1, pad2 *controller.Controller) *Bus {
	b := &Bus{cart: cart, pad1: pad1, pad2: pad2}
	b.PPU = ppu.New(cart.Mapper, cart.Mirroring())
	b.CPU = cpu.New(b)
	return b
}

// Err reports the first fatal error raised by a device access, if any. Once
// set it is never cleared; the engine's frame driver checks it after every
// step and aborts the emulation.
func (b *Bus) Err() error { return b.err }

func (b *Bus) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Read implements cpu.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= ramMirrorEnd:
		return b.ram[addr&(ramSize-1)]
	case addr <= ppuMirrorEnd:
		v, err := b.PPU.ReadRegister(uint8(addr & 0x0007))
		if err != nil {
			b.fail(err)
			return 0
		}
		return v
	case addr == controller1:
		if b.pad1 == nil {
			return 0
		}
		return b.pad1.Read()
	case addr == controller2:
		if b.pad2 == nil {
			return 0
		}
		return b.pad2.Read()
	case addr <= ioRegionEnd:
		return b.io[addr-ioRegionStart]
	case addr < cartStart:
		return 0
	default:
		return b.cart.Mapper.ReadPRG(addr)
	}
}

// Write implements cpu.Bus.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr <= ramMirrorEnd:
		b.ram[addr&(ramSize-1)] = value
	case addr <= ppuMirrorEnd:
		nmi, err := b.PPU.WriteRegister(uint8(addr&0x0007), value)
		if err != nil {
			b.fail(err)
			return
		}
		if nmi {
			b.nmiPending = true
		}
	case addr == oamDMAAddr:
		b.triggerOAMDMA(value)
	case addr == controller1:
		if b.pad1 != nil {
			b.pad1.Write(value)
		}
		if b.pad2 != nil {
			b.pad2.Write(value)
		}
	case addr <= ioRegionEnd:
		b.io[addr-ioRegionStart] = value
	case addr < cartStart:
		// open bus
	default:
		b.cart.Mapper.WritePRG(addr, value)
	}
}

// triggerOAMDMA copies 256 bytes starting at value<<8 into OAM, always the
// full 256 bytes regardless of any sink signal (spec.md §9), and arms the
// 513-cycle CPU stall real hardware imposes for the transfer.
func (b *Bus) triggerOAMDMA(value uint8) {
	b.PPU.StartOAMDMA()
	base := uint16(value) << 8
	for i := 0; i < 256; i++ {
		b.PPU.FillOAM(b.Read(base + uint16(i)))
	}
	b.dmaStall = 513
}

// DMAStall reports the number of CPU cycles still owed to an in-flight OAM
// DMA transfer.
func (b *Bus) DMAStall() int { return b.dmaStall }

// ConsumeDMAStall subtracts n cycles from the outstanding DMA stall.
func (b *Bus) ConsumeDMAStall(n int) { b.dmaStall -= n }

// TickPPU advances the PPU by dots and latches any NMI it raises for the
// next ServiceInterrupts call; it reports whether PRE_RENDER just completed.
func (b *Bus) TickPPU(dots int) (endOfFrame bool) {
	end, nmi := b.PPU.Tick(dots)
	if nmi {
		b.nmiPending = true
	}
	return end
}

// ServiceInterrupts runs between instructions: if an NMI is pending (from a
// PPU vblank-entry tick or a control-register write that raised one), it is
// serviced now and the latch cleared.
func (b *Bus) ServiceInterrupts() {
	if b.nmiPending {
		b.CPU.NMI()
		b.nmiPending = false
	}
}

// StepCPU dispatches one instruction and returns its total cycle cost.
func (b *Bus) StepCPU() (uint8, error) {
	cycles, err := b.CPU.Step()
	if err != nil {
		b.fail(err)
		return 0, err
	}
	return cycles, nil
}

// ClearWaitCPU releases the PPU's register-write gate once the reset
// warm-up period has elapsed.
func (b *Bus) ClearWaitCPU() { b.PPU.ClearWaitCPU() }

// FrameBuffer returns the PPU's most recently completed frame.
func (b *Bus) FrameBuffer() []uint8 { return b.PPU.FrameBuffer() }

// Timing reports the region the loaded cartridge declares, for tick
// drivers that pace themselves off the native frame rate.
func (b *Bus) Timing() cartridge.Timing { return b.cart.Timing() }
