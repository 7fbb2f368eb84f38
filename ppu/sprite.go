package ppu

// evaluateSprites scans primary OAM starting at the current OAM
// address pointer, collecting up to 8 sprites whose y-range covers
// line+1, and renders them straight into p.pending (promoted into
// p.spriteLine at dot 340 of the current line, once it has been merged;
// nothing is promoted after line 239). Real hardware fetches one
// sprite per 8-dot window starting at dot 257; since only the final
// per-pixel result is externally observable here, this engine performs
// the equivalent work in one step at dot 65, when the matching set is
// already known.
// Grounded on the sprite byte layout in bdwalton/gintendo's ppu/oam.go.
func (p *PPU) evaluateSprites(line int) {
	for i := range p.pending {
		p.pending[i] = spritePixel{}
	}

	target := line + 1
	if target >= 240 {
		return
	}

	startSprite := int(p.oamAddr) / 4
	matched := 0
	for i := 0; i < 64; i++ {
		idx := (startSprite + i) % 64
		y := int(p.oam[idx*4])
		if target < y || target >= y+8 {
			continue
		}

		if matched == 8 {
			p.status |= StatusSpriteOverflow
			break
		}

		p.renderSprite(idx, y, target, matched == 0 && idx == 0)
		matched++
	}
}

func (p *PPU) spritePatternBase() uint16 {
	if p.ctrl&ctrlSpritePattern != 0 {
		return 0x1000
	}
	return 0x0000
}

func (p *PPU) renderSprite(idx, topY, line int, isZero bool) {
	sp := OAMFromBytes(p.oam[idx*4 : idx*4+4])

	front := sp.renderP == FRONT

	row := line - topY
	if sp.flipV {
		row = 7 - row
	}

	base := p.spritePatternBase() + uint16(sp.tileId)*16 + uint16(row)
	lo := p.chr.ReadCHR(base)
	hi := p.chr.ReadCHR(base + 8)

	for i := 0; i < 8; i++ {
		bit := uint(7 - i)
		if sp.flipH {
			bit = uint(i)
		}
		c := ((hi>>bit)&1)<<1 | (lo>>bit)&1
		if c == 0 {
			continue
		}

		col := int(sp.x) + i
		if col < 0 || col > 255 {
			continue
		}
		if p.pending[col].opaque {
			continue // lower OAM index already claimed this column
		}

		p.pending[col] = spritePixel{
			color:  p.palette[16+int(sp.palette)*4+int(c)],
			opaque: true,
			front:  front,
			isZero: isZero,
		}
	}
}

// mergeLine composes the background and sprite line buffers into the
// frame buffer row for line, and latches sprite-0-hit.
func (p *PPU) mergeLine(line int) {
	for x := 0; x < 256; x++ {
		bg := p.bgLine[x]
		sp := p.spriteLine[x]

		var out uint8
		switch {
		case bg == 0 && sp.opaque:
			out = sp.color
		case bg == 0:
			out = p.palette[0]
		case sp.opaque && sp.front:
			out = sp.color
		default:
			out = bg
		}

		if bg != 0 && sp.opaque && sp.isZero && sp.front {
			p.status |= StatusSprite0Hit
		}

		rgb := systemPalette[out&0x3F]
		off := (line*256 + x) * 4
		p.frame[off] = rgb[0]
		p.frame[off+1] = rgb[1]
		p.frame[off+2] = rgb[2]
		p.frame[off+3] = 0xFF
	}
}
