package cartridge

import "testing"

func makeNES2Header(prgLo, chrLo, prgHiNibble, chrHiNibble uint8) []byte {
	b := make([]byte, 16)
	copy(b, signature)
	b[4] = prgLo
	b[5] = chrLo
	b[7] = flag7NES2Value // low nibble 0 (mapper 0), NES 2.0 identifier bits set
	b[9] = (chrHiNibble << 4) | prgHiNibble
	return b
}

func TestNES2PRGSizeExtensionKeepsHighBits(t *testing.T) {
	// prgHi=0x01, prgLo=0x02 -> 12-bit size 0x102 (258) 16 KiB units.
	b := makeNES2Header(0x02, 0x01, 0x01, 0x00)
	h, err := parseHeader(b)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.prgSize != 0x102 {
		t.Errorf("prgSize = %#x, want 0x102", h.prgSize)
	}
	if got, want := h.prgROMSize(), 0x102*16384; got != want {
		t.Errorf("prgROMSize() = %d, want %d", got, want)
	}
}

func TestNES2CHRSizeExtensionKeepsHighBits(t *testing.T) {
	// chrHi=0x0A, chrLo=0x03 -> 12-bit size 0xA03 8 KiB units.
	b := makeNES2Header(0x00, 0x03, 0x00, 0x0A)
	h, err := parseHeader(b)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.chrSize != 0xA03 {
		t.Errorf("chrSize = %#x, want 0xA03", h.chrSize)
	}
	if got, want := h.chrROMSize(), 0xA03*8192; got != want {
		t.Errorf("chrROMSize() = %d, want %d", got, want)
	}
}

func TestINES1HeaderLeavesSizesUnextended(t *testing.T) {
	b := make([]byte, 16)
	copy(b, signature)
	b[4] = 2
	b[5] = 1
	h, err := parseHeader(b)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.prgSize != 2 || h.chrSize != 1 {
		t.Errorf("prgSize=%d chrSize=%d, want 2,1", h.prgSize, h.chrSize)
	}
}
