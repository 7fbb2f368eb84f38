package bus

import (
	"testing"

	"gones/cartridge"
	"gones/controller"
)

func makeTestCartridge(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	img := make([]byte, 16+16384+8192)
	copy(img[:4], []byte{0x4E, 0x45, 0x53, 0x1A})
	img[4] = 1 // 16 KiB PRG
	img[5] = 1 // 8 KiB CHR
	c, err := cartridge.Load(img)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func TestRAMMirroring(t *testing.T) {
	b := New(makeTestCartridge(t), nil, nil)
	b.Write(0x0000, 0x42)
	if got := b.Read(0x0800); got != 0x42 {
		t.Errorf("0x0800 = %02x, want 0x42 (mirrors 0x0000)", got)
	}
	if got := b.Read(0x1800); got != 0x42 {
		t.Errorf("0x1800 = %02x, want 0x42 (mirrors 0x0000)", got)
	}
}

func TestOAMDMATransfersAllBytesAndArmsStall(t *testing.T) {
	b := New(makeTestCartridge(t), nil, nil)
	for i := 0; i < 256; i++ {
		b.ram[i] = uint8(i)
	}
	b.Write(0x4014, 0x00)

	if b.DMAStall() != 513 {
		t.Errorf("dma stall = %d, want 513", b.DMAStall())
	}

	b.PPU.ClearWaitCPU()
	for i := 0; i < 256; i++ {
		b.PPU.WriteRegister(3, uint8(i)) // oamaddr = i
		got, err := b.PPU.ReadRegister(4)
		if err != nil {
			t.Fatalf("oamdata read %d: %v", i, err)
		}
		if got != uint8(i) {
			t.Errorf("oam[%d] = %02x, want %02x", i, got, i)
		}
	}
}

func TestOAMDMAConsumptionCapsAt110PerStep(t *testing.T) {
	b := New(makeTestCartridge(t), nil, nil)
	b.Write(0x4014, 0x00)

	n := b.DMAStall()
	if n > 110 {
		n = 110
	}
	b.ConsumeDMAStall(n)
	if b.DMAStall() != 513-110 {
		t.Errorf("dma stall after one step = %d, want %d", b.DMAStall(), 513-110)
	}
}

func TestControllerStrobeRoutedToPort(t *testing.T) {
	polled := false
	pad1 := controller.New(func() uint8 {
		polled = true
		return 0
	})
	b := New(makeTestCartridge(t), pad1, nil)
	b.Write(0x4016, 1)
	b.Write(0x4016, 0)
	if !polled {
		t.Errorf("expected controller 1 to be polled on strobe release")
	}
}

func TestInvalidPPURegisterWriteIsFatal(t *testing.T) {
	b := New(makeTestCartridge(t), nil, nil)
	b.Write(0x2002, 0xFF) // PPUSTATUS is write-undefined
	if b.Err() == nil {
		t.Errorf("expected a fatal error latched on the bus")
	}
}
