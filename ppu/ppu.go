// Package ppu implements the NES picture processing unit: the
// scanline/dot phase machine, background and sprite rendering, OAM,
// palette storage, nametable mirroring, and the host-visible register
// file at $2000-$2007.
//
// Grounded on bdwalton/gintendo's ppu package (register contract shape,
// SYSTEM_PALETTE, OAM byte layout), generalized to the spec's simpler
// byte-pair scroll model (in place of gintendo's loopy v/t/x compound
// scroll registers) and its exact per-dot background/sprite algorithm.
package ppu

import "gones/cartridge"

// Register offsets from $2000, mirrored every 8 bytes through $3FFF.
const (
	RegControl = 0
	RegMask    = 1
	RegStatus  = 2
	RegOAMAddr = 3
	RegOAMData = 4
	RegScroll  = 5
	RegAddr    = 6
	RegData    = 7
)

// Control latch bits.
const (
	ctrlNametableMask = 0x03
	ctrlIncrementDown = 1 << 2
	ctrlSpritePattern = 1 << 3
	ctrlBGPattern     = 1 << 4
	ctrlLargeSprite   = 1 << 5
	ctrlNMIEnable     = 1 << 7
)

// Mask latch bits.
const (
	MaskGrayscale       = 1 << 0
	MaskShowBGLeft      = 1 << 1
	MaskShowSpritesLeft = 1 << 2
	MaskShowBackground  = 1 << 3
	MaskShowSprites     = 1 << 4
	MaskEmphasizeRed    = 1 << 5
	MaskEmphasizeGreen  = 1 << 6
	MaskEmphasizeBlue   = 1 << 7
)

// Status latch bits.
const (
	StatusSpriteOverflow = 1 << 5
	StatusSprite0Hit     = 1 << 6
	StatusVBlank         = 1 << 7
)

const dotsPerScanline = 341

// Phase is one of the four states of the scanline/dot state machine.
type Phase uint8

const (
	PhasePreRender Phase = iota
	PhaseVisible
	PhasePostRender
	PhaseVBlank
)

// ChrBus is the cartridge-side surface the PPU needs for pattern table
// reads and CHR writes; satisfied directly by cartridge.Mapper.
type ChrBus interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
}

type spritePixel struct {
	color  uint8
	opaque bool
	front  bool
	isZero bool
}

// PPU holds all picture-processing state: registers, OAM, palette,
// nametable VRAM, the phase/dot counters, and the assembled frame
// buffer.
type PPU struct {
	chr    ChrBus
	mirror cartridge.Mirroring

	ctrl, mask, status uint8
	oamAddr            uint8
	scrollX, scrollY   uint8
	vramAddr           uint16
	writeToggle        bool
	readBuffer         uint8

	oam          [256]uint8
	oamWriteIdx  int
	oamClearOpen bool

	vram    [2048]uint8
	palette [32]uint8

	waitCPU bool

	phase     Phase
	counter   int // dots elapsed in the current phase
	evenFrame bool

	frame []uint8 // 256*240*4 RGBA, row-major

	bgLine     [256]uint8 // palette-byte per column (0 = transparent)
	spriteLine [256]spritePixel
	pending    [256]spritePixel // built at dot 65, promoted at dot 340 after the line is merged
}

// New constructs a PPU wired to the cartridge's CHR surface. It starts
// at a frame boundary (the first dot of the visible picture, as though
// PRE_RENDER had just completed), with register writes gated until its
// ~29,658-cycle warm-up.
func New(chr ChrBus, mirror cartridge.Mirroring) *PPU {
	p := &PPU{
		chr:     chr,
		mirror:  mirror,
		waitCPU: true,
		phase:   PhaseVisible,
		frame:   make([]uint8, 256*240*4),
	}
	for i := range p.frame {
		if i%4 == 3 {
			p.frame[i] = 0xFF
		}
	}
	return p
}

// ClearWaitCPU releases the register-write gate; called by the frame
// driver once the reset warm-up period has elapsed.
func (p *PPU) ClearWaitCPU() { p.waitCPU = false }

// FrameBuffer returns the most recently completed frame as row-major
// RGBA bytes.
func (p *PPU) FrameBuffer() []uint8 { return p.frame }

// Phase reports the current scanline phase.
func (p *PPU) Phase() Phase { return p.phase }

func (p *PPU) line() int { return p.counter / dotsPerScanline }
func (p *PPU) dot() int  { return p.counter % dotsPerScanline }

// Tick advances the PPU by n dots, returning whether PRE_RENDER just
// completed (end of frame) and whether an NMI was newly raised.
func (p *PPU) Tick(n int) (endOfFrame, nmi bool) {
	for i := 0; i < n; i++ {
		if e, m := p.tick(); e {
			endOfFrame = true
		} else if m {
			nmi = true
		}
	}
	return
}

func (p *PPU) tick() (endOfFrame, nmi bool) {
	switch p.phase {
	case PhasePreRender:
		if p.counter == 1 {
			p.status &^= StatusSprite0Hit | StatusSpriteOverflow | StatusVBlank
		}
		length := dotsPerScanline
		if !p.evenFrame {
			length--
		}
		if p.counter+1 >= length {
			p.phase = PhaseVisible
			p.counter = 0
			p.evenFrame = !p.evenFrame
			endOfFrame = true
			return
		}
		p.counter++
	case PhaseVisible:
		p.visibleDot(p.line(), p.dot())
		if p.counter+1 >= 240*dotsPerScanline {
			p.phase = PhasePostRender
			p.counter = 0
			return
		}
		p.counter++
	case PhasePostRender:
		if p.counter+1 >= dotsPerScanline {
			p.phase = PhaseVBlank
			p.counter = 0
			return
		}
		p.counter++
	case PhaseVBlank:
		if p.counter == 1 {
			p.status |= StatusVBlank
			if p.ctrl&ctrlNMIEnable != 0 {
				nmi = true
			}
		}
		if p.counter+1 >= 20*dotsPerScanline {
			p.phase = PhasePreRender
			p.counter = 0
			return
		}
		p.counter++
	}
	return
}

func (p *PPU) visibleDot(line, dot int) {
	if dot == 1 {
		p.oamClearOpen = true
	}
	if dot == 65 {
		p.oamClearOpen = false
		p.evaluateSprites(line)
	}
	if dot >= 1 && dot <= 256 {
		p.sampleBackground(line, dot)
	}
	if dot == 340 {
		p.mergeLine(line)
		if line+1 < 240 {
			copy(p.spriteLine[:], p.pending[:])
		}
	}
}

func (p *PPU) nametableBase() uint16 {
	return 0x2000 + uint16(p.ctrl&ctrlNametableMask)*0x0400
}

func (p *PPU) bgPatternBase() uint16 {
	if p.ctrl&ctrlBGPattern != 0 {
		return 0x1000
	}
	return 0x0000
}

// sampleBackground implements the per-dot background algorithm from
// the rendering spec: compute scrolled coordinates, fetch the
// attribute byte and tile index, read the pattern bit planes, and
// store the resulting palette byte (0 = transparent) for this column.
func (p *PPU) sampleBackground(line, dot int) {
	x := (dot - 1) + int(p.scrollX)
	y := line + int(p.scrollY)
	nt := p.nametableBase()
	if x >= 256 {
		x -= 256
		nt ^= 0x0400
	}
	if y >= 240 {
		y -= 240
		nt ^= 0x0800
	}

	attrAddr := nt + 960 + uint16((y/32)*8+(x/32))
	attr := p.readVRAM(attrAddr)
	shift := uint((x%32)/16*4 + (y%32)/16*2)
	paletteIdx := (attr >> shift) & 0x03

	tileAddr := nt + uint16((y/8)*32+(x/8))
	tileIndex := p.readVRAM(tileAddr)

	base := p.bgPatternBase() + uint16(tileIndex)*16 + uint16(y%8)
	lo := p.chr.ReadCHR(base)
	hi := p.chr.ReadCHR(base + 8)

	col := uint(7 - x%8)
	c := ((hi>>col)&1)<<1 | (lo>>col)&1

	if c == 0 {
		p.bgLine[dot-1] = 0
		return
	}
	p.bgLine[dot-1] = p.palette[int(paletteIdx)*4+int(c)]
}

// readVRAM reads a nametable byte through the mirroring policy (used
// only for the internal attribute/tile fetches, not the CPU-facing
// PPUDATA port).
func (p *PPU) readVRAM(addr uint16) uint8 {
	return p.vram[p.mirrorAddr(addr)]
}

func (p *PPU) mirrorAddr(addr uint16) uint16 {
	a := (addr - 0x2000) % 0x1000
	switch p.mirror {
	case cartridge.MirrorHorizontal:
		if a >= 0x0800 {
			return 0x0400 + (a-0x0800)%0x0400
		}
		return a % 0x0400
	case cartridge.MirrorVertical:
		return a % 0x0800
	default:
		return a % 0x0800
	}
}
