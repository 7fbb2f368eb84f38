package cpu

import (
	"fmt"

	"gones/neserr"
)

// entry describes one of the 256 possible opcode bytes: its addressing
// mode, total instruction width in bytes, base cycle cost, and the
// primitive that implements it. A nil exec marks an illegal opcode.
type entry struct {
	name   string
	mode   uint8
	bytes  uint8
	cycles uint8
	exec   func(*CPU, uint8)
}

// table is indexed directly by opcode byte — a fixed-size dispatch
// array instead of gintendo's reflect.ValueOf(...).MethodByName lookup,
// per the recommendation that the instruction table be a plain array of
// (cycles, function pointer) pairs.
var table = buildTable()

func buildTable() [256]entry {
	var t [256]entry
	def := func(op uint8, name string, mode, bytes, cycles uint8, exec func(*CPU, uint8)) {
		t[op] = entry{name, mode, bytes, cycles, exec}
	}

	def(0x69, "ADC", Immediate, 2, 2, (*CPU).adc)
	def(0x65, "ADC", ZeroPage, 2, 3, (*CPU).adc)
	def(0x75, "ADC", ZeroPageX, 2, 4, (*CPU).adc)
	def(0x6D, "ADC", Absolute, 3, 4, (*CPU).adc)
	def(0x7D, "ADC", AbsoluteX, 3, 4, (*CPU).adc)
	def(0x79, "ADC", AbsoluteY, 3, 4, (*CPU).adc)
	def(0x61, "ADC", IndirectX, 2, 6, (*CPU).adc)
	def(0x71, "ADC", IndirectY, 2, 5, (*CPU).adc)

	def(0x29, "AND", Immediate, 2, 2, (*CPU).and)
	def(0x25, "AND", ZeroPage, 2, 3, (*CPU).and)
	def(0x35, "AND", ZeroPageX, 2, 4, (*CPU).and)
	def(0x2D, "AND", Absolute, 3, 4, (*CPU).and)
	def(0x3D, "AND", AbsoluteX, 3, 4, (*CPU).and)
	def(0x39, "AND", AbsoluteY, 3, 4, (*CPU).and)
	def(0x21, "AND", IndirectX, 2, 6, (*CPU).and)
	def(0x31, "AND", IndirectY, 2, 5, (*CPU).and)

	def(0x0A, "ASL", Accumulator, 1, 2, (*CPU).asl)
	def(0x06, "ASL", ZeroPage, 2, 5, (*CPU).asl)
	def(0x16, "ASL", ZeroPageX, 2, 6, (*CPU).asl)
	def(0x0E, "ASL", Absolute, 3, 6, (*CPU).asl)
	def(0x1E, "ASL", AbsoluteX, 3, 7, (*CPU).asl)

	def(0x90, "BCC", Relative, 2, 2, (*CPU).bcc)
	def(0xB0, "BCS", Relative, 2, 2, (*CPU).bcs)
	def(0xF0, "BEQ", Relative, 2, 2, (*CPU).beq)
	def(0x30, "BMI", Relative, 2, 2, (*CPU).bmi)
	def(0xD0, "BNE", Relative, 2, 2, (*CPU).bne)
	def(0x10, "BPL", Relative, 2, 2, (*CPU).bpl)
	def(0x50, "BVC", Relative, 2, 2, (*CPU).bvc)
	def(0x70, "BVS", Relative, 2, 2, (*CPU).bvs)

	def(0x24, "BIT", ZeroPage, 2, 3, (*CPU).bit)
	def(0x2C, "BIT", Absolute, 3, 4, (*CPU).bit)

	def(0x00, "BRK", Implicit, 2, 7, (*CPU).brk)

	def(0x18, "CLC", Implicit, 1, 2, (*CPU).clc)
	def(0xD8, "CLD", Implicit, 1, 2, (*CPU).cld)
	def(0x58, "CLI", Implicit, 1, 2, (*CPU).cli)
	def(0xB8, "CLV", Implicit, 1, 2, (*CPU).clv)

	def(0xC9, "CMP", Immediate, 2, 2, (*CPU).cmp)
	def(0xC5, "CMP", ZeroPage, 2, 3, (*CPU).cmp)
	def(0xD5, "CMP", ZeroPageX, 2, 4, (*CPU).cmp)
	def(0xCD, "CMP", Absolute, 3, 4, (*CPU).cmp)
	def(0xDD, "CMP", AbsoluteX, 3, 4, (*CPU).cmp)
	def(0xD9, "CMP", AbsoluteY, 3, 4, (*CPU).cmp)
	def(0xC1, "CMP", IndirectX, 2, 6, (*CPU).cmp)
	def(0xD1, "CMP", IndirectY, 2, 5, (*CPU).cmp)

	def(0xE0, "CPX", Immediate, 2, 2, (*CPU).cpx)
	def(0xE4, "CPX", ZeroPage, 2, 3, (*CPU).cpx)
	def(0xEC, "CPX", Absolute, 3, 4, (*CPU).cpx)

	def(0xC0, "CPY", Immediate, 2, 2, (*CPU).cpy)
	def(0xC4, "CPY", ZeroPage, 2, 3, (*CPU).cpy)
	def(0xCC, "CPY", Absolute, 3, 4, (*CPU).cpy)

	def(0xC6, "DEC", ZeroPage, 2, 5, (*CPU).dec)
	def(0xD6, "DEC", ZeroPageX, 2, 6, (*CPU).dec)
	def(0xCE, "DEC", Absolute, 3, 6, (*CPU).dec)
	def(0xDE, "DEC", AbsoluteX, 3, 7, (*CPU).dec)
	def(0xCA, "DEX", Implicit, 1, 2, (*CPU).dex)
	def(0x88, "DEY", Implicit, 1, 2, (*CPU).dey)

	def(0x49, "EOR", Immediate, 2, 2, (*CPU).eor)
	def(0x45, "EOR", ZeroPage, 2, 3, (*CPU).eor)
	def(0x55, "EOR", ZeroPageX, 2, 4, (*CPU).eor)
	def(0x4D, "EOR", Absolute, 3, 4, (*CPU).eor)
	def(0x5D, "EOR", AbsoluteX, 3, 4, (*CPU).eor)
	def(0x59, "EOR", AbsoluteY, 3, 4, (*CPU).eor)
	def(0x41, "EOR", IndirectX, 2, 6, (*CPU).eor)
	def(0x51, "EOR", IndirectY, 2, 5, (*CPU).eor)

	def(0xE6, "INC", ZeroPage, 2, 5, (*CPU).inc)
	def(0xF6, "INC", ZeroPageX, 2, 6, (*CPU).inc)
	def(0xEE, "INC", Absolute, 3, 6, (*CPU).inc)
	def(0xFE, "INC", AbsoluteX, 3, 7, (*CPU).inc)
	def(0xE8, "INX", Implicit, 1, 2, (*CPU).inx)
	def(0xC8, "INY", Implicit, 1, 2, (*CPU).iny)

	def(0x4C, "JMP", Absolute, 3, 3, (*CPU).jmp)
	def(0x6C, "JMP", Indirect, 3, 5, (*CPU).jmp)
	def(0x20, "JSR", Absolute, 3, 6, (*CPU).jsr)

	def(0xA9, "LDA", Immediate, 2, 2, (*CPU).lda)
	def(0xA5, "LDA", ZeroPage, 2, 3, (*CPU).lda)
	def(0xB5, "LDA", ZeroPageX, 2, 4, (*CPU).lda)
	def(0xAD, "LDA", Absolute, 3, 4, (*CPU).lda)
	def(0xBD, "LDA", AbsoluteX, 3, 4, (*CPU).lda)
	def(0xB9, "LDA", AbsoluteY, 3, 4, (*CPU).lda)
	def(0xA1, "LDA", IndirectX, 2, 6, (*CPU).lda)
	def(0xB1, "LDA", IndirectY, 2, 5, (*CPU).lda)

	def(0xA2, "LDX", Immediate, 2, 2, (*CPU).ldx)
	def(0xA6, "LDX", ZeroPage, 2, 3, (*CPU).ldx)
	def(0xB6, "LDX", ZeroPageY, 2, 4, (*CPU).ldx)
	def(0xAE, "LDX", Absolute, 3, 4, (*CPU).ldx)
	def(0xBE, "LDX", AbsoluteY, 3, 4, (*CPU).ldx)

	def(0xA0, "LDY", Immediate, 2, 2, (*CPU).ldy)
	def(0xA4, "LDY", ZeroPage, 2, 3, (*CPU).ldy)
	def(0xB4, "LDY", ZeroPageX, 2, 4, (*CPU).ldy)
	def(0xAC, "LDY", Absolute, 3, 4, (*CPU).ldy)
	def(0xBC, "LDY", AbsoluteX, 3, 4, (*CPU).ldy)

	def(0x4A, "LSR", Accumulator, 1, 2, (*CPU).lsr)
	def(0x46, "LSR", ZeroPage, 2, 5, (*CPU).lsr)
	def(0x56, "LSR", ZeroPageX, 2, 6, (*CPU).lsr)
	def(0x4E, "LSR", Absolute, 3, 6, (*CPU).lsr)
	def(0x5E, "LSR", AbsoluteX, 3, 7, (*CPU).lsr)

	def(0xEA, "NOP", Implicit, 1, 2, (*CPU).nop)

	def(0x09, "ORA", Immediate, 2, 2, (*CPU).ora)
	def(0x05, "ORA", ZeroPage, 2, 3, (*CPU).ora)
	def(0x15, "ORA", ZeroPageX, 2, 4, (*CPU).ora)
	def(0x0D, "ORA", Absolute, 3, 4, (*CPU).ora)
	def(0x1D, "ORA", AbsoluteX, 3, 4, (*CPU).ora)
	def(0x19, "ORA", AbsoluteY, 3, 4, (*CPU).ora)
	def(0x01, "ORA", IndirectX, 2, 6, (*CPU).ora)
	def(0x11, "ORA", IndirectY, 2, 5, (*CPU).ora)

	def(0x48, "PHA", Implicit, 1, 3, (*CPU).pha)
	def(0x08, "PHP", Implicit, 1, 3, (*CPU).php)
	def(0x68, "PLA", Implicit, 1, 4, (*CPU).pla)
	def(0x28, "PLP", Implicit, 1, 4, (*CPU).plp)

	def(0x2A, "ROL", Accumulator, 1, 2, (*CPU).rol)
	def(0x26, "ROL", ZeroPage, 2, 5, (*CPU).rol)
	def(0x36, "ROL", ZeroPageX, 2, 6, (*CPU).rol)
	def(0x2E, "ROL", Absolute, 3, 6, (*CPU).rol)
	def(0x3E, "ROL", AbsoluteX, 3, 7, (*CPU).rol)

	def(0x6A, "ROR", Accumulator, 1, 2, (*CPU).ror)
	def(0x66, "ROR", ZeroPage, 2, 5, (*CPU).ror)
	def(0x76, "ROR", ZeroPageX, 2, 6, (*CPU).ror)
	def(0x6E, "ROR", Absolute, 3, 6, (*CPU).ror)
	def(0x7E, "ROR", AbsoluteX, 3, 7, (*CPU).ror)

	def(0x40, "RTI", Implicit, 1, 6, (*CPU).rti)
	def(0x60, "RTS", Implicit, 1, 6, (*CPU).rts)

	def(0xE9, "SBC", Immediate, 2, 2, (*CPU).sbc)
	def(0xE5, "SBC", ZeroPage, 2, 3, (*CPU).sbc)
	def(0xF5, "SBC", ZeroPageX, 2, 4, (*CPU).sbc)
	def(0xED, "SBC", Absolute, 3, 4, (*CPU).sbc)
	def(0xFD, "SBC", AbsoluteX, 3, 4, (*CPU).sbc)
	def(0xF9, "SBC", AbsoluteY, 3, 4, (*CPU).sbc)
	def(0xE1, "SBC", IndirectX, 2, 6, (*CPU).sbc)
	def(0xF1, "SBC", IndirectY, 2, 5, (*CPU).sbc)

	def(0x38, "SEC", Implicit, 1, 2, (*CPU).sec)
	def(0xF8, "SED", Implicit, 1, 2, (*CPU).sed)
	def(0x78, "SEI", Implicit, 1, 2, (*CPU).sei)

	def(0x85, "STA", ZeroPage, 2, 3, (*CPU).sta)
	def(0x95, "STA", ZeroPageX, 2, 4, (*CPU).sta)
	def(0x8D, "STA", Absolute, 3, 4, (*CPU).sta)
	def(0x9D, "STA", AbsoluteX, 3, 5, (*CPU).sta)
	def(0x99, "STA", AbsoluteY, 3, 5, (*CPU).sta)
	def(0x81, "STA", IndirectX, 2, 6, (*CPU).sta)
	def(0x91, "STA", IndirectY, 2, 6, (*CPU).sta)

	def(0x86, "STX", ZeroPage, 2, 3, (*CPU).stx)
	def(0x96, "STX", ZeroPageY, 2, 4, (*CPU).stx)
	def(0x8E, "STX", Absolute, 3, 4, (*CPU).stx)

	def(0x84, "STY", ZeroPage, 2, 3, (*CPU).sty)
	def(0x94, "STY", ZeroPageX, 2, 4, (*CPU).sty)
	def(0x8C, "STY", Absolute, 3, 4, (*CPU).sty)

	def(0xAA, "TAX", Implicit, 1, 2, (*CPU).tax)
	def(0xA8, "TAY", Implicit, 1, 2, (*CPU).tay)
	def(0xBA, "TSX", Implicit, 1, 2, (*CPU).tsx)
	def(0x8A, "TXA", Implicit, 1, 2, (*CPU).txa)
	def(0x9A, "TXS", Implicit, 1, 2, (*CPU).txs)
	def(0x98, "TYA", Implicit, 1, 2, (*CPU).tya)

	return t
}

// Step executes exactly one instruction at PC and returns the total
// cycle cost (base + any page-cross/branch extra). An undefined opcode
// is fatal, per spec.
func (c *CPU) Step() (uint8, error) {
	opcode := c.read(c.PC)
	e := table[opcode]
	if e.exec == nil {
		return 0, fmt.Errorf("%w: opcode 0x%02x at pc 0x%04x", neserr.ErrInvalidInstruction, opcode, c.PC)
	}

	c.extra = 0
	c.PC++
	before := c.PC

	e.exec(c, e.mode)

	if c.PC == before {
		c.PC += uint16(e.bytes) - 1
	}

	return e.cycles + c.extra, nil
}
