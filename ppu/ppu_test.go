package ppu

import (
	"errors"
	"testing"

	"gones/cartridge"
	"gones/neserr"
)

type stubChr struct {
	mem [0x2000]uint8
}

func (c *stubChr) ReadCHR(addr uint16) uint8     { return c.mem[addr%0x2000] }
func (c *stubChr) WriteCHR(addr uint16, v uint8) { c.mem[addr%0x2000] = v }

func newTestPPU(mirror cartridge.Mirroring) (*PPU, *stubChr) {
	chr := &stubChr{}
	p := New(chr, mirror)
	p.ClearWaitCPU()
	return p, chr
}

func TestPaletteWriteMirrorsBackdropSlots(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)

	if _, err := p.WriteRegister(RegAddr, 0x3F); err != nil {
		t.Fatalf("addr hi: %v", err)
	}
	if _, err := p.WriteRegister(RegAddr, 0x00); err != nil {
		t.Fatalf("addr lo: %v", err)
	}
	if _, err := p.WriteRegister(RegData, 0x22); err != nil {
		t.Fatalf("data: %v", err)
	}

	if got := p.palette[0]; got != 0x22 {
		t.Errorf("palette[0] = %02x, want 0x22", got)
	}
	if got := p.palette[0x10]; got != 0x22 {
		t.Errorf("palette[0x10] = %02x, want 0x22 (mirrored)", got)
	}
}

func TestPPUDATAReadIsBufferedBelowPalette(t *testing.T) {
	p, chr := newTestPPU(cartridge.MirrorHorizontal)
	chr.mem[0x0010] = 0xAB

	p.WriteRegister(RegAddr, 0x00)
	p.WriteRegister(RegAddr, 0x10)

	first, err := p.ReadRegister(RegData)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if first != 0 {
		t.Errorf("first buffered read = %02x, want 0 (stale buffer)", first)
	}

	second, err := p.ReadRegister(RegData)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if second != 0xAB {
		t.Errorf("second read = %02x, want 0xAB", second)
	}
}

func TestPPUDATAPaletteReadIsUnbuffered(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	p.palette[0] = 0x30

	p.WriteRegister(RegAddr, 0x3F)
	p.WriteRegister(RegAddr, 0x00)

	v, err := p.ReadRegister(RegData)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0x30 {
		t.Errorf("palette read = %02x, want 0x30 (immediate, unbuffered)", v)
	}
}

func TestStatusReadClearsVBlankAndToggle(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	p.status |= StatusVBlank
	p.WriteRegister(RegAddr, 0x12)

	v, err := p.ReadRegister(RegStatus)
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	if v&StatusVBlank == 0 {
		t.Errorf("status read should report vblank set before clearing")
	}
	if p.status&StatusVBlank != 0 {
		t.Errorf("status read should clear vblank")
	}
	if p.writeToggle {
		t.Errorf("status read should reset the write toggle")
	}
}

func TestWriteToPPUSTATUSIsFatal(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	_, err := p.WriteRegister(RegStatus, 0xFF)
	if !errors.Is(err, neserr.ErrInvalidPpuRegisterAccess) {
		t.Errorf("got %v, want ErrInvalidPpuRegisterAccess", err)
	}
}

func TestControlWriteRaisesNMIOnEnableDuringVBlank(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	p.status |= StatusVBlank

	nmi, err := p.WriteRegister(RegControl, 0x00)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if nmi {
		t.Errorf("enabling nothing should not raise NMI")
	}

	nmi, err = p.WriteRegister(RegControl, ctrlNMIEnable)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !nmi {
		t.Errorf("enabling NMI while vblank is set should raise NMI")
	}

	nmi, _ = p.WriteRegister(RegControl, ctrlNMIEnable)
	if nmi {
		t.Errorf("rewriting the same enabled state should not re-raise NMI")
	}
}

func TestRegisterWritesIgnoredBeforeWaitCPUCleared(t *testing.T) {
	chr := &stubChr{}
	p := New(chr, cartridge.MirrorHorizontal)

	if _, err := p.WriteRegister(RegControl, 0xFF); err != nil {
		t.Fatalf("write: %v", err)
	}
	if p.ctrl != 0 {
		t.Errorf("control write should be ignored before wait_cpu clears, got %02x", p.ctrl)
	}
}

func TestFrameTimingCompletesAt262Scanlines(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	p.evenFrame = true

	total := 262 * dotsPerScanline
	dots := 0
	ended := false
	for i := 0; i < total; i++ {
		if e, _ := p.Tick(1); e {
			ended = true
			dots = i + 1
			break
		}
	}
	if !ended {
		t.Fatalf("frame never completed within %d dots", total)
	}
	if dots != total {
		t.Errorf("even frame completed at dot %d, want %d", dots, total)
	}
}

func TestOddFrameIsOneDotShorter(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	p.evenFrame = false

	total := 262*dotsPerScanline - 1
	for i := 0; i < total-1; i++ {
		if e, _ := p.Tick(1); e {
			t.Fatalf("frame completed early at dot %d", i+1)
		}
	}
	e, _ := p.Tick(1)
	if !e {
		t.Errorf("odd frame should complete at dot %d", total)
	}
}

func TestHorizontalMirroring(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	if a, b := p.mirrorAddr(0x2000), p.mirrorAddr(0x2400); a != b {
		t.Errorf("horizontal mirror: 0x2000 (%x) should equal 0x2400 (%x)", a, b)
	}
	if a, b := p.mirrorAddr(0x2000), p.mirrorAddr(0x2800); a == b {
		t.Errorf("horizontal mirror: 0x2000 (%x) should differ from 0x2800 (%x)", a, b)
	}
}

func TestVerticalMirroring(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorVertical)
	if a, b := p.mirrorAddr(0x2000), p.mirrorAddr(0x2800); a != b {
		t.Errorf("vertical mirror: 0x2000 (%x) should equal 0x2800 (%x)", a, b)
	}
	if a, b := p.mirrorAddr(0x2000), p.mirrorAddr(0x2400); a == b {
		t.Errorf("vertical mirror: 0x2000 (%x) should differ from 0x2400 (%x)", a, b)
	}
}
