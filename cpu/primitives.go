package cpu

import "math/bits"

// The primitive operations used by the instruction table. Each updates
// flags as documented and leaves PC to the caller (Step advances it
// after dispatch unless the primitive itself redirected control flow).

func (c *CPU) lda(mode uint8) { c.A = c.read(c.operandAddr(mode)); c.setNZ(c.A) }
func (c *CPU) ldx(mode uint8) { c.X = c.read(c.operandAddr(mode)); c.setNZ(c.X) }
func (c *CPU) ldy(mode uint8) { c.Y = c.read(c.operandAddr(mode)); c.setNZ(c.Y) }

func (c *CPU) sta(mode uint8) { c.write(c.operandAddr(mode), c.A) }
func (c *CPU) stx(mode uint8) { c.write(c.operandAddr(mode), c.X) }
func (c *CPU) sty(mode uint8) { c.write(c.operandAddr(mode), c.Y) }

func (c *CPU) tax(uint8) { c.X = c.A; c.setNZ(c.X) }
func (c *CPU) tay(uint8) { c.Y = c.A; c.setNZ(c.Y) }
func (c *CPU) tsx(uint8) { c.X = c.S; c.setNZ(c.X) }
func (c *CPU) txa(uint8) { c.A = c.X; c.setNZ(c.A) }
func (c *CPU) txs(uint8) { c.S = c.X }
func (c *CPU) tya(uint8) { c.A = c.Y; c.setNZ(c.A) }

// addWithCarry implements ADC's flag/result computation; SBC feeds it
// the operand's ones-complement.
func (c *CPU) addWithCarry(operand uint8) {
	sum := uint16(c.A) + uint16(operand) + uint16(c.P&FlagCarry)
	result := uint8(sum)

	c.setFlag(FlagCarry, sum&0x100 != 0)
	c.setFlag(FlagOverflow, (c.A^result)&(operand^result)&0x80 != 0)

	c.A = result
	c.setNZ(c.A)
}

func (c *CPU) adc(mode uint8) { c.addWithCarry(c.read(c.operandAddr(mode))) }
func (c *CPU) sbc(mode uint8) { c.addWithCarry(^c.read(c.operandAddr(mode))) }

func (c *CPU) and(mode uint8) { c.A &= c.read(c.operandAddr(mode)); c.setNZ(c.A) }
func (c *CPU) ora(mode uint8) { c.A |= c.read(c.operandAddr(mode)); c.setNZ(c.A) }
func (c *CPU) eor(mode uint8) { c.A ^= c.read(c.operandAddr(mode)); c.setNZ(c.A) }

func (c *CPU) asl(mode uint8) {
	old, new := c.shiftOperand(mode, func(v uint8) uint8 { return v << 1 })
	c.setFlag(FlagCarry, old&0x80 != 0)
	c.setNZ(new)
}

func (c *CPU) lsr(mode uint8) {
	old, new := c.shiftOperand(mode, func(v uint8) uint8 { return v >> 1 })
	c.setFlag(FlagCarry, old&0x01 != 0)
	c.setNZ(new)
}

func (c *CPU) rol(mode uint8) {
	carryIn := c.P & FlagCarry
	old, new := c.shiftOperand(mode, func(v uint8) uint8 { return bits.RotateLeft8(v, 1)&0xFE | carryIn })
	c.setFlag(FlagCarry, old&0x80 != 0)
	c.setNZ(new)
}

func (c *CPU) ror(mode uint8) {
	carryIn := c.P & FlagCarry
	old, new := c.shiftOperand(mode, func(v uint8) uint8 { return bits.RotateLeft8(v, -1)&0x7F | (carryIn << 7) })
	c.setFlag(FlagCarry, old&0x01 != 0)
	c.setNZ(new)
}

// shiftOperand applies f to the accumulator or a memory operand,
// returning the value before and after the shift.
func (c *CPU) shiftOperand(mode uint8, f func(uint8) uint8) (old, new uint8) {
	if mode == Accumulator {
		old = c.A
		new = f(old)
		c.A = new
		return
	}
	addr := c.operandAddr(mode)
	old = c.read(addr)
	new = f(old)
	c.write(addr, new)
	return
}

// compare implements CMP/CPX/CPY: C = (reg >= operand) unconditionally.
func (c *CPU) compare(reg, operand uint8) {
	c.setFlag(FlagCarry, reg >= operand)
	c.setNZ(reg - operand)
}

func (c *CPU) cmp(mode uint8) { c.compare(c.A, c.read(c.operandAddr(mode))) }
func (c *CPU) cpx(mode uint8) { c.compare(c.X, c.read(c.operandAddr(mode))) }
func (c *CPU) cpy(mode uint8) { c.compare(c.Y, c.read(c.operandAddr(mode))) }

func (c *CPU) inc(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.read(addr) + 1
	c.write(addr, v)
	c.setNZ(v)
}

func (c *CPU) dec(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.read(addr) - 1
	c.write(addr, v)
	c.setNZ(v)
}

func (c *CPU) inx(uint8) { c.X++; c.setNZ(c.X) }
func (c *CPU) iny(uint8) { c.Y++; c.setNZ(c.Y) }
func (c *CPU) dex(uint8) { c.X--; c.setNZ(c.X) }
func (c *CPU) dey(uint8) { c.Y--; c.setNZ(c.Y) }

// bit is flags-only: N = operand bit 7, V = operand bit 6, Z = (A&operand)==0.
// This is the authentic hardware semantic (see Design Notes: the source
// this engine is distilled from set N/V/Z from A^operand instead).
func (c *CPU) bit(mode uint8) {
	o := c.read(c.operandAddr(mode))
	c.setFlag(FlagZero, (c.A&o) == 0)
	c.flagsOff(FlagNegative | FlagOverflow)
	c.flagsOn(o & (FlagNegative | FlagOverflow))
}

// branch redirects PC when (P&mask != 0) == want, charging the extra
// cycles documented for taken/page-crossing branches.
func (c *CPU) branch(mask uint8, want bool) {
	if (c.P&mask != 0) != want {
		return
	}
	target := c.operandAddr(Relative)
	if crossesPage(c.PC+1, target) {
		c.extra += 2
	} else {
		c.extra++
	}
	c.PC = target
}

func (c *CPU) bcc(uint8) { c.branch(FlagCarry, false) }
func (c *CPU) bcs(uint8) { c.branch(FlagCarry, true) }
func (c *CPU) beq(uint8) { c.branch(FlagZero, true) }
func (c *CPU) bne(uint8) { c.branch(FlagZero, false) }
func (c *CPU) bmi(uint8) { c.branch(FlagNegative, true) }
func (c *CPU) bpl(uint8) { c.branch(FlagNegative, false) }
func (c *CPU) bvc(uint8) { c.branch(FlagOverflow, false) }
func (c *CPU) bvs(uint8) { c.branch(FlagOverflow, true) }

func (c *CPU) jmp(mode uint8) { c.PC = c.operandAddr(mode) }

func (c *CPU) jsr(uint8) {
	target := c.operandAddr(Absolute)
	c.pushAddr(c.PC + 1) // points at the last byte of the JSR operand
	c.PC = target
}

func (c *CPU) rts(uint8) { c.PC = c.popAddr() + 1 }

func (c *CPU) brk(uint8) {
	c.pushAddr(c.PC + 1)
	c.pushByte(c.P | FlagBreak | FlagUnused)
	c.flagsOn(FlagInterruptDisable)
	c.PC = c.read16(VectorBRK)
}

func (c *CPU) rti(uint8) {
	c.P = (c.popByte() &^ FlagBreak) | FlagUnused
	c.PC = c.popAddr()
}

func (c *CPU) pha(uint8) { c.pushByte(c.A) }
func (c *CPU) php(uint8) { c.pushByte(c.P | FlagBreak | FlagUnused) }
func (c *CPU) pla(uint8) { c.A = c.popByte(); c.setNZ(c.A) }
func (c *CPU) plp(uint8) { c.P = (c.popByte() &^ FlagBreak) | FlagUnused }

func (c *CPU) clc(uint8) { c.flagsOff(FlagCarry) }
func (c *CPU) sec(uint8) { c.flagsOn(FlagCarry) }
func (c *CPU) cld(uint8) { c.flagsOff(FlagDecimal) }
func (c *CPU) sed(uint8) { c.flagsOn(FlagDecimal) }
func (c *CPU) cli(uint8) { c.flagsOff(FlagInterruptDisable) }
func (c *CPU) sei(uint8) { c.flagsOn(FlagInterruptDisable) }
func (c *CPU) clv(uint8) { c.flagsOff(FlagOverflow) }

func (c *CPU) nop(uint8) {}
