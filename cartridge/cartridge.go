package cartridge

import (
	"fmt"

	"gones/neserr"
)

// Cartridge holds a parsed ROM image: header-derived metadata, PRG/CHR
// storage, and the mapper that owns bank-switching.
// Grounded on bdwalton/gintendo's nesrom.ROM and nesrom/header.go, merged
// into one type since this engine owns the cartridge for the life of the
// session rather than loading it from a path at package-init time.
type Cartridge struct {
	hdr    *header
	Mapper Mapper
}

// Mirroring reports the nametable mirroring policy selected by the header.
func (c *Cartridge) Mirroring() Mirroring { return c.hdr.mirroringMode() }

// Timing reports the region timing declared by the header.
func (c *Cartridge) Timing() Timing { return c.hdr.timing() }

// MapperID reports the decoded mapper id from the header.
func (c *Cartridge) MapperID() uint16 { return c.hdr.mapperID() }

// Load parses an iNES/NES 2.0 image and constructs its mapper.
func Load(data []byte) (*Cartridge, error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if hdr.mirroringMode() == MirrorFourScreen {
		return nil, fmt.Errorf("%w: four-screen mirroring", neserr.ErrMirroringUnavailable)
	}

	off := 16
	if hdr.hasTrainer() {
		off += 512
	}

	prgSize := hdr.prgROMSize()
	chrSize := hdr.chrROMSize()
	if off+prgSize+chrSize > len(data) {
		return nil, fmt.Errorf("%w: declared PRG/CHR size exceeds image", neserr.ErrMalformedFileFormat)
	}

	prg := data[off : off+prgSize]
	off += prgSize
	chr := data[off : off+chrSize]

	m, err := newMapper(hdr.mapperID(), prg, chr)
	if err != nil {
		return nil, err
	}

	return &Cartridge{hdr: hdr, Mapper: m}, nil
}

func errMapperNotSupported(id uint16) error {
	return fmt.Errorf("%w: mapper %d", neserr.ErrMapperNotSupported, id)
}
