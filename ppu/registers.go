package ppu

import (
	"fmt"

	"gones/neserr"
)

// WriteRegister applies a CPU write to $2000+offset. It reports
// whether this write newly raised an NMI (a control write that enables
// NMI while vblank is already latched) and an error if offset names a
// register that is write-undefined by design.
func (p *PPU) WriteRegister(offset uint8, value uint8) (nmi bool, err error) {
	switch offset {
	case RegControl:
		if p.waitCPU {
			return false, nil
		}
		wasEnabled := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = value
		if !wasEnabled && value&ctrlNMIEnable != 0 && p.status&StatusVBlank != 0 {
			nmi = true
		}
	case RegMask:
		if !p.waitCPU {
			p.mask = value
		}
	case RegStatus:
		return false, fmt.Errorf("%w: write to PPUSTATUS", neserr.ErrInvalidPpuRegisterAccess)
	case RegOAMAddr:
		p.oamAddr = value
		p.oamWriteIdx = int(value)
	case RegOAMData:
		if p.status&StatusVBlank != 0 {
			p.oam[p.oamAddr] = value
			p.oamAddr++
		}
	case RegScroll:
		if p.waitCPU {
			return false, nil
		}
		if !p.writeToggle {
			p.scrollX = value
		} else {
			p.scrollY = value
		}
		p.writeToggle = !p.writeToggle
	case RegAddr:
		if p.waitCPU {
			return false, nil
		}
		if !p.writeToggle {
			p.vramAddr = (p.vramAddr & 0x00FF) | uint16(value)<<8
		} else {
			p.vramAddr = (p.vramAddr & 0xFF00) | uint16(value)
		}
		p.writeToggle = !p.writeToggle
	case RegData:
		p.busWrite(p.vramAddr, value)
		p.incrementVRAMAddr()
	}
	return nmi, nil
}

// ReadRegister applies a CPU read of $2000+offset.
func (p *PPU) ReadRegister(offset uint8) (uint8, error) {
	switch offset {
	case RegControl, RegMask:
		return 0, fmt.Errorf("%w: read of write-only register", neserr.ErrInvalidPpuRegisterAccess)
	case RegStatus:
		v := p.status
		p.status &^= StatusVBlank
		p.writeToggle = false
		return v, nil
	case RegOAMData:
		if p.oamClearOpen {
			return 0xFF, nil
		}
		return p.oam[p.oamAddr], nil
	case RegData:
		addr := p.vramAddr
		var result uint8
		if addr < 0x3F00 {
			result = p.readBuffer
			p.readBuffer = p.busRead(addr)
		} else {
			result = p.busRead(addr)
			p.readBuffer = p.busRead(addr - 0x1000)
		}
		p.incrementVRAMAddr()
		return result, nil
	}
	return 0, nil
}

func (p *PPU) incrementVRAMAddr() {
	if p.ctrl&ctrlIncrementDown != 0 {
		p.vramAddr += 32
	} else {
		p.vramAddr++
	}
}

func (p *PPU) busRead(addr uint16) uint8 {
	a := addr % 0x4000
	switch {
	case a < 0x2000:
		return p.chr.ReadCHR(a)
	case a < 0x3F00:
		return p.readVRAM(a)
	default:
		return p.paletteRead(a)
	}
}

func (p *PPU) busWrite(addr uint16, value uint8) {
	a := addr % 0x4000
	switch {
	case a < 0x2000:
		p.chr.WriteCHR(a, value)
	case a < 0x3F00:
		p.vram[p.mirrorAddr(a)] = value
	default:
		p.writePalette(a, value)
	}
}

func (p *PPU) paletteIndex(addr uint16) int {
	return int(addr-0x3F00) % 32
}

func (p *PPU) paletteRead(addr uint16) uint8 {
	return p.palette[p.paletteIndex(addr)]
}

// writePalette applies the write-through mirror: writes to a
// background-color slot (index a multiple of 4) also land on its
// +/-16 alias.
func (p *PPU) writePalette(addr uint16, value uint8) {
	idx := p.paletteIndex(addr)
	p.palette[idx] = value
	if idx%4 == 0 {
		p.palette[idx^0x10] = value
	}
}

// FillOAM is the OAM DMA sink: stores value at the current write
// index and advances it with wraparound at 256. Always called exactly
// 256 times per DMA by the bus, per the authentic (always-256-byte)
// behavior.
func (p *PPU) FillOAM(value uint8) {
	p.oam[p.oamWriteIdx] = value
	p.oamWriteIdx = (p.oamWriteIdx + 1) % 256
}

// StartOAMDMA resets the write index to the current OAM address
// pointer, as real hardware does when $4014 is written.
func (p *PPU) StartOAMDMA() {
	p.oamWriteIdx = int(p.oamAddr)
}

// NMIEnabled reports whether the control register currently requests
// vblank NMIs. The vblank-begin NMI itself is raised inside Tick.
func (p *PPU) NMIEnabled() bool { return p.ctrl&ctrlNMIEnable != 0 }

// Mask returns the latched mask register, for callers that need to
// know whether rendering is enabled (e.g. a host overlay).
func (p *PPU) Mask() uint8 { return p.mask }
