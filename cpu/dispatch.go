package cpu

import (
	"errors"
	"log"
)

// dispatchEntry is one opcode's decode-table row: its mnemonic (for tracing),
// whether it's one of the unofficial opcodes this core chooses to support,
// and the closure that executes it against the already-fetched opcode byte.
type dispatchEntry struct {
	mnemonic   string
	unofficial bool
	exec       func(c *Chip) error
}

// dispatchTable maps every opcode byte to its decode-table row. Entries left
// nil are decode misses: opcodes this core either can't express (HLT/JAM
// variants, which lock the bus) or has chosen not to implement (the unstable
// unofficial opcodes ANC, ALR, ARR, XAA, LAX-immediate, LAS, AXS, SHA, SHX,
// SHY, TAS — their undocumented write-back behavior varies enough across
// silicon revisions that emulating them faithfully isn't worth it here
// from an otherwise broad unofficial-opcode set).
var dispatchTable [256]*dispatchEntry

func reg(op uint8, mnemonic string, unofficial bool, fn func(c *Chip) error) {
	dispatchTable[op] = &dispatchEntry{mnemonic: mnemonic, unofficial: unofficial, exec: fn}
}

// ok wraps a no-error instruction method so it fits the table's
// func(*Chip) error shape.
func ok(fn func(c *Chip)) func(c *Chip) error {
	return func(c *Chip) error {
		fn(c)
		return nil
	}
}

func init() {
	reg(0x00, "BRK", false, func(c *Chip) error { return c.brk() })
	reg(0x01, "ORA", false, ok(func(c *Chip) { c.ora(ModeIndirectX, false) }))
	reg(0x03, "SLO", true, ok(func(c *Chip) { c.slo(ModeIndirectX) }))
	reg(0x04, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPage) }))
	reg(0x05, "ORA", false, ok(func(c *Chip) { c.ora(ModeZeroPage, false) }))
	reg(0x06, "ASL", false, ok(func(c *Chip) { c.asl(ModeZeroPage) }))
	reg(0x07, "SLO", true, ok(func(c *Chip) { c.slo(ModeZeroPage) }))
	reg(0x08, "PHP", false, ok(func(c *Chip) { c.php() }))
	reg(0x09, "ORA", false, ok(func(c *Chip) { c.ora(ModeImmediate, false) }))
	reg(0x0A, "ASL", false, ok(func(c *Chip) { c.asl(ModeAccumulator) }))
	reg(0x0C, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeAbsolute) }))
	reg(0x0D, "ORA", false, ok(func(c *Chip) { c.ora(ModeAbsolute, false) }))
	reg(0x0E, "ASL", false, ok(func(c *Chip) { c.asl(ModeAbsolute) }))
	reg(0x0F, "SLO", true, ok(func(c *Chip) { c.slo(ModeAbsolute) }))

	reg(0x10, "BPL", false, ok(func(c *Chip) { c.bpl() }))
	reg(0x11, "ORA", false, ok(func(c *Chip) { c.ora(ModeIndirectY, false) }))
	reg(0x13, "SLO", true, ok(func(c *Chip) { c.slo(ModeIndirectY) }))
	reg(0x14, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPageX) }))
	reg(0x15, "ORA", false, ok(func(c *Chip) { c.ora(ModeZeroPageX, false) }))
	reg(0x16, "ASL", false, ok(func(c *Chip) { c.asl(ModeZeroPageX) }))
	reg(0x17, "SLO", true, ok(func(c *Chip) { c.slo(ModeZeroPageX) }))
	reg(0x18, "CLC", false, ok(func(c *Chip) { c.clc() }))
	reg(0x19, "ORA", false, ok(func(c *Chip) { c.ora(ModeAbsoluteY, false) }))
	reg(0x1A, "NOP", true, ok(func(c *Chip) { c.nop() }))
	reg(0x1B, "SLO", true, ok(func(c *Chip) { c.slo(ModeAbsoluteY) }))
	reg(0x1C, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeAbsoluteX) }))
	reg(0x1D, "ORA", false, ok(func(c *Chip) { c.ora(ModeAbsoluteX, false) }))
	reg(0x1E, "ASL", false, ok(func(c *Chip) { c.asl(ModeAbsoluteX) }))
	reg(0x1F, "SLO", true, ok(func(c *Chip) { c.slo(ModeAbsoluteX) }))

	reg(0x20, "JSR", false, ok(func(c *Chip) { c.jsr() }))
	reg(0x21, "AND", false, ok(func(c *Chip) { c.and(ModeIndirectX, false) }))
	reg(0x23, "RLA", true, ok(func(c *Chip) { c.rla(ModeIndirectX) }))
	reg(0x24, "BIT", false, ok(func(c *Chip) { c.bit(ModeZeroPage, false) }))
	reg(0x25, "AND", false, ok(func(c *Chip) { c.and(ModeZeroPage, false) }))
	reg(0x26, "ROL", false, ok(func(c *Chip) { c.rol(ModeZeroPage) }))
	reg(0x27, "RLA", true, ok(func(c *Chip) { c.rla(ModeZeroPage) }))
	reg(0x28, "PLP", false, ok(func(c *Chip) { c.plp() }))
	reg(0x29, "AND", false, ok(func(c *Chip) { c.and(ModeImmediate, false) }))
	reg(0x2A, "ROL", false, ok(func(c *Chip) { c.rol(ModeAccumulator) }))
	reg(0x2C, "BIT", false, ok(func(c *Chip) { c.bit(ModeAbsolute, false) }))
	reg(0x2D, "AND", false, ok(func(c *Chip) { c.and(ModeAbsolute, false) }))
	reg(0x2E, "ROL", false, ok(func(c *Chip) { c.rol(ModeAbsolute) }))
	reg(0x2F, "RLA", true, ok(func(c *Chip) { c.rla(ModeAbsolute) }))

	reg(0x30, "BMI", false, ok(func(c *Chip) { c.bmi() }))
	reg(0x31, "AND", false, ok(func(c *Chip) { c.and(ModeIndirectY, false) }))
	reg(0x33, "RLA", true, ok(func(c *Chip) { c.rla(ModeIndirectY) }))
	reg(0x34, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPageX) }))
	reg(0x35, "AND", false, ok(func(c *Chip) { c.and(ModeZeroPageX, false) }))
	reg(0x36, "ROL", false, ok(func(c *Chip) { c.rol(ModeZeroPageX) }))
	reg(0x37, "RLA", true, ok(func(c *Chip) { c.rla(ModeZeroPageX) }))
	reg(0x38, "SEC", false, ok(func(c *Chip) { c.sec() }))
	reg(0x39, "AND", false, ok(func(c *Chip) { c.and(ModeAbsoluteY, false) }))
	reg(0x3A, "NOP", true, ok(func(c *Chip) { c.nop() }))
	reg(0x3B, "RLA", true, ok(func(c *Chip) { c.rla(ModeAbsoluteY) }))
	reg(0x3C, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeAbsoluteX) }))
	reg(0x3D, "AND", false, ok(func(c *Chip) { c.and(ModeAbsoluteX, false) }))
	reg(0x3E, "ROL", false, ok(func(c *Chip) { c.rol(ModeAbsoluteX) }))
	reg(0x3F, "RLA", true, ok(func(c *Chip) { c.rla(ModeAbsoluteX) }))

	reg(0x40, "RTI", false, ok(func(c *Chip) { c.rti() }))
	reg(0x41, "EOR", false, ok(func(c *Chip) { c.eor(ModeIndirectX, false) }))
	reg(0x43, "SRE", true, ok(func(c *Chip) { c.sre(ModeIndirectX) }))
	reg(0x44, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPage) }))
	reg(0x45, "EOR", false, ok(func(c *Chip) { c.eor(ModeZeroPage, false) }))
	reg(0x46, "LSR", false, ok(func(c *Chip) { c.lsr(ModeZeroPage) }))
	reg(0x47, "SRE", true, ok(func(c *Chip) { c.sre(ModeZeroPage) }))
	reg(0x48, "PHA", false, ok(func(c *Chip) { c.pha() }))
	reg(0x49, "EOR", false, ok(func(c *Chip) { c.eor(ModeImmediate, false) }))
	reg(0x4A, "LSR", false, ok(func(c *Chip) { c.lsr(ModeAccumulator) }))
	reg(0x4C, "JMP", false, ok(func(c *Chip) { c.jmp() }))
	reg(0x4D, "EOR", false, ok(func(c *Chip) { c.eor(ModeAbsolute, false) }))
	reg(0x4E, "LSR", false, ok(func(c *Chip) { c.lsr(ModeAbsolute) }))
	reg(0x4F, "SRE", true, ok(func(c *Chip) { c.sre(ModeAbsolute) }))

	reg(0x50, "BVC", false, ok(func(c *Chip) { c.bvc() }))
	reg(0x51, "EOR", false, ok(func(c *Chip) { c.eor(ModeIndirectY, false) }))
	reg(0x53, "SRE", true, ok(func(c *Chip) { c.sre(ModeIndirectY) }))
	reg(0x54, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPageX) }))
	reg(0x55, "EOR", false, ok(func(c *Chip) { c.eor(ModeZeroPageX, false) }))
	reg(0x56, "LSR", false, ok(func(c *Chip) { c.lsr(ModeZeroPageX) }))
	reg(0x57, "SRE", true, ok(func(c *Chip) { c.sre(ModeZeroPageX) }))
	reg(0x58, "CLI", false, ok(func(c *Chip) { c.cli() }))
	reg(0x59, "EOR", false, ok(func(c *Chip) { c.eor(ModeAbsoluteY, false) }))
	reg(0x5A, "NOP", true, ok(func(c *Chip) { c.nop() }))
	reg(0x5B, "SRE", true, ok(func(c *Chip) { c.sre(ModeAbsoluteY) }))
	reg(0x5C, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeAbsoluteX) }))
	reg(0x5D, "EOR", false, ok(func(c *Chip) { c.eor(ModeAbsoluteX, false) }))
	reg(0x5E, "LSR", false, ok(func(c *Chip) { c.lsr(ModeAbsoluteX) }))
	reg(0x5F, "SRE", true, ok(func(c *Chip) { c.sre(ModeAbsoluteX) }))

	reg(0x60, "RTS", false, ok(func(c *Chip) { c.rts() }))
	reg(0x61, "ADC", false, ok(func(c *Chip) { c.adc(ModeIndirectX, false) }))
	reg(0x63, "RRA", true, ok(func(c *Chip) { c.rra(ModeIndirectX) }))
	reg(0x64, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPage) }))
	reg(0x65, "ADC", false, ok(func(c *Chip) { c.adc(ModeZeroPage, false) }))
	reg(0x66, "ROR", false, ok(func(c *Chip) { c.ror(ModeZeroPage) }))
	reg(0x67, "RRA", true, ok(func(c *Chip) { c.rra(ModeZeroPage) }))
	reg(0x68, "PLA", false, ok(func(c *Chip) { c.pla() }))
	reg(0x69, "ADC", false, ok(func(c *Chip) { c.adc(ModeImmediate, false) }))
	reg(0x6A, "ROR", false, ok(func(c *Chip) { c.ror(ModeAccumulator) }))
	reg(0x6C, "JMP", false, ok(func(c *Chip) { c.jmpIndirect() }))
	reg(0x6D, "ADC", false, ok(func(c *Chip) { c.adc(ModeAbsolute, false) }))
	reg(0x6E, "ROR", false, ok(func(c *Chip) { c.ror(ModeAbsolute) }))
	reg(0x6F, "RRA", true, ok(func(c *Chip) { c.rra(ModeAbsolute) }))

	reg(0x70, "BVS", false, ok(func(c *Chip) { c.bvs() }))
	reg(0x71, "ADC", false, ok(func(c *Chip) { c.adc(ModeIndirectY, false) }))
	reg(0x73, "RRA", true, ok(func(c *Chip) { c.rra(ModeIndirectY) }))
	reg(0x74, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPageX) }))
	reg(0x75, "ADC", false, ok(func(c *Chip) { c.adc(ModeZeroPageX, false) }))
	reg(0x76, "ROR", false, ok(func(c *Chip) { c.ror(ModeZeroPageX) }))
	reg(0x77, "RRA", true, ok(func(c *Chip) { c.rra(ModeZeroPageX) }))
	reg(0x78, "SEI", false, ok(func(c *Chip) { c.sei() }))
	reg(0x79, "ADC", false, ok(func(c *Chip) { c.adc(ModeAbsoluteY, false) }))
	reg(0x7A, "NOP", true, ok(func(c *Chip) { c.nop() }))
	reg(0x7B, "RRA", true, ok(func(c *Chip) { c.rra(ModeAbsoluteY) }))
	reg(0x7C, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeAbsoluteX) }))
	reg(0x7D, "ADC", false, ok(func(c *Chip) { c.adc(ModeAbsoluteX, false) }))
	reg(0x7E, "ROR", false, ok(func(c *Chip) { c.ror(ModeAbsoluteX) }))
	reg(0x7F, "RRA", true, ok(func(c *Chip) { c.rra(ModeAbsoluteX) }))

	reg(0x80, "NOP", true, ok(func(c *Chip) { c.nopImmediate() }))
	reg(0x81, "STA", false, ok(func(c *Chip) { c.sta(ModeIndirectX) }))
	reg(0x82, "NOP", true, ok(func(c *Chip) { c.nopImmediate() }))
	reg(0x83, "SAX", true, ok(func(c *Chip) { c.sax(ModeIndirectX) }))
	reg(0x84, "STY", false, ok(func(c *Chip) { c.sty(ModeZeroPage) }))
	reg(0x85, "STA", false, ok(func(c *Chip) { c.sta(ModeZeroPage) }))
	reg(0x86, "STX", false, ok(func(c *Chip) { c.stx(ModeZeroPage) }))
	reg(0x87, "SAX", true, ok(func(c *Chip) { c.sax(ModeZeroPage) }))
	reg(0x88, "DEY", false, ok(func(c *Chip) { c.dey() }))
	reg(0x89, "NOP", true, ok(func(c *Chip) { c.nopImmediate() }))
	reg(0x8A, "TXA", false, ok(func(c *Chip) { c.txa() }))
	reg(0x8C, "STY", false, ok(func(c *Chip) { c.sty(ModeAbsolute) }))
	reg(0x8D, "STA", false, ok(func(c *Chip) { c.sta(ModeAbsolute) }))
	reg(0x8E, "STX", false, ok(func(c *Chip) { c.stx(ModeAbsolute) }))
	reg(0x8F, "SAX", true, ok(func(c *Chip) { c.sax(ModeAbsolute) }))

	reg(0x90, "BCC", false, ok(func(c *Chip) { c.bcc() }))
	reg(0x91, "STA", false, ok(func(c *Chip) { c.sta(ModeIndirectY) }))
	reg(0x94, "STY", false, ok(func(c *Chip) { c.sty(ModeZeroPageX) }))
	reg(0x95, "STA", false, ok(func(c *Chip) { c.sta(ModeZeroPageX) }))
	reg(0x96, "STX", false, ok(func(c *Chip) { c.stx(ModeZeroPageY) }))
	reg(0x97, "SAX", true, ok(func(c *Chip) { c.sax(ModeZeroPageY) }))
	reg(0x98, "TYA", false, ok(func(c *Chip) { c.tya() }))
	reg(0x99, "STA", false, ok(func(c *Chip) { c.sta(ModeAbsoluteY) }))
	reg(0x9A, "TXS", false, ok(func(c *Chip) { c.txs() }))
	reg(0x9D, "STA", false, ok(func(c *Chip) { c.sta(ModeAbsoluteX) }))

	reg(0xA0, "LDY", false, ok(func(c *Chip) { c.ldy(ModeImmediate, false) }))
	reg(0xA1, "LDA", false, ok(func(c *Chip) { c.lda(ModeIndirectX, false) }))
	reg(0xA2, "LDX", false, ok(func(c *Chip) { c.ldx(ModeImmediate, false) }))
	reg(0xA3, "LAX", true, ok(func(c *Chip) { c.lax(ModeIndirectX, false) }))
	reg(0xA4, "LDY", false, ok(func(c *Chip) { c.ldy(ModeZeroPage, false) }))
	reg(0xA5, "LDA", false, ok(func(c *Chip) { c.lda(ModeZeroPage, false) }))
	reg(0xA6, "LDX", false, ok(func(c *Chip) { c.ldx(ModeZeroPage, false) }))
	reg(0xA7, "LAX", true, ok(func(c *Chip) { c.lax(ModeZeroPage, false) }))
	reg(0xA8, "TAY", false, ok(func(c *Chip) { c.tay() }))
	reg(0xA9, "LDA", false, ok(func(c *Chip) { c.lda(ModeImmediate, false) }))
	reg(0xAA, "TAX", false, ok(func(c *Chip) { c.tax() }))
	reg(0xAC, "LDY", false, ok(func(c *Chip) { c.ldy(ModeAbsolute, false) }))
	reg(0xAD, "LDA", false, ok(func(c *Chip) { c.lda(ModeAbsolute, false) }))
	reg(0xAE, "LDX", false, ok(func(c *Chip) { c.ldx(ModeAbsolute, false) }))
	reg(0xAF, "LAX", true, ok(func(c *Chip) { c.lax(ModeAbsolute, false) }))

	reg(0xB0, "BCS", false, ok(func(c *Chip) { c.bcs() }))
	reg(0xB1, "LDA", false, ok(func(c *Chip) { c.lda(ModeIndirectY, false) }))
	reg(0xB3, "LAX", true, ok(func(c *Chip) { c.lax(ModeIndirectY, false) }))
	reg(0xB4, "LDY", false, ok(func(c *Chip) { c.ldy(ModeZeroPageX, false) }))
	reg(0xB5, "LDA", false, ok(func(c *Chip) { c.lda(ModeZeroPageX, false) }))
	reg(0xB6, "LDX", false, ok(func(c *Chip) { c.ldx(ModeZeroPageY, false) }))
	reg(0xB7, "LAX", true, ok(func(c *Chip) { c.lax(ModeZeroPageY, false) }))
	reg(0xB8, "CLV", false, ok(func(c *Chip) { c.clv() }))
	reg(0xB9, "LDA", false, ok(func(c *Chip) { c.lda(ModeAbsoluteY, false) }))
	reg(0xBA, "TSX", false, ok(func(c *Chip) { c.tsx() }))
	reg(0xBC, "LDY", false, ok(func(c *Chip) { c.ldy(ModeAbsoluteX, false) }))
	reg(0xBD, "LDA", false, ok(func(c *Chip) { c.lda(ModeAbsoluteX, false) }))
	reg(0xBE, "LDX", false, ok(func(c *Chip) { c.ldx(ModeAbsoluteY, false) }))
	reg(0xBF, "LAX", true, ok(func(c *Chip) { c.lax(ModeAbsoluteY, false) }))

	reg(0xC0, "CPY", false, ok(func(c *Chip) { c.cpy(ModeImmediate, false) }))
	reg(0xC1, "CMP", false, ok(func(c *Chip) { c.cmp(ModeIndirectX, false) }))
	reg(0xC2, "NOP", true, ok(func(c *Chip) { c.nopImmediate() }))
	reg(0xC3, "DCP", true, ok(func(c *Chip) { c.dcp(ModeIndirectX) }))
	reg(0xC4, "CPY", false, ok(func(c *Chip) { c.cpy(ModeZeroPage, false) }))
	reg(0xC5, "CMP", false, ok(func(c *Chip) { c.cmp(ModeZeroPage, false) }))
	reg(0xC6, "DEC", false, ok(func(c *Chip) { c.dec(ModeZeroPage) }))
	reg(0xC7, "DCP", true, ok(func(c *Chip) { c.dcp(ModeZeroPage) }))
	reg(0xC8, "INY", false, ok(func(c *Chip) { c.iny() }))
	reg(0xC9, "CMP", false, ok(func(c *Chip) { c.cmp(ModeImmediate, false) }))
	reg(0xCA, "DEX", false, ok(func(c *Chip) { c.dex() }))
	reg(0xCC, "CPY", false, ok(func(c *Chip) { c.cpy(ModeAbsolute, false) }))
	reg(0xCD, "CMP", false, ok(func(c *Chip) { c.cmp(ModeAbsolute, false) }))
	reg(0xCE, "DEC", false, ok(func(c *Chip) { c.dec(ModeAbsolute) }))
	reg(0xCF, "DCP", true, ok(func(c *Chip) { c.dcp(ModeAbsolute) }))

	reg(0xD0, "BNE", false, ok(func(c *Chip) { c.bne() }))
	reg(0xD1, "CMP", false, ok(func(c *Chip) { c.cmp(ModeIndirectY, false) }))
	reg(0xD3, "DCP", true, ok(func(c *Chip) { c.dcp(ModeIndirectY) }))
	reg(0xD4, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPageX) }))
	reg(0xD5, "CMP", false, ok(func(c *Chip) { c.cmp(ModeZeroPageX, false) }))
	reg(0xD6, "DEC", false, ok(func(c *Chip) { c.dec(ModeZeroPageX) }))
	reg(0xD7, "DCP", true, ok(func(c *Chip) { c.dcp(ModeZeroPageX) }))
	reg(0xD8, "CLD", false, ok(func(c *Chip) { c.cld() }))
	reg(0xD9, "CMP", false, ok(func(c *Chip) { c.cmp(ModeAbsoluteY, false) }))
	reg(0xDA, "NOP", true, ok(func(c *Chip) { c.nop() }))
	reg(0xDB, "DCP", true, ok(func(c *Chip) { c.dcp(ModeAbsoluteY) }))
	reg(0xDC, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeAbsoluteX) }))
	reg(0xDD, "CMP", false, ok(func(c *Chip) { c.cmp(ModeAbsoluteX, false) }))
	reg(0xDE, "DEC", false, ok(func(c *Chip) { c.dec(ModeAbsoluteX) }))
	reg(0xDF, "DCP", true, ok(func(c *Chip) { c.dcp(ModeAbsoluteX) }))

	reg(0xE0, "CPX", false, ok(func(c *Chip) { c.cpx(ModeImmediate, false) }))
	reg(0xE1, "SBC", false, ok(func(c *Chip) { c.sbc(ModeIndirectX, false) }))
	reg(0xE2, "NOP", true, ok(func(c *Chip) { c.nopImmediate() }))
	reg(0xE3, "ISC", true, ok(func(c *Chip) { c.isc(ModeIndirectX) }))
	reg(0xE4, "CPX", false, ok(func(c *Chip) { c.cpx(ModeZeroPage, false) }))
	reg(0xE5, "SBC", false, ok(func(c *Chip) { c.sbc(ModeZeroPage, false) }))
	reg(0xE6, "INC", false, ok(func(c *Chip) { c.inc(ModeZeroPage) }))
	reg(0xE7, "ISC", true, ok(func(c *Chip) { c.isc(ModeZeroPage) }))
	reg(0xE8, "INX", false, ok(func(c *Chip) { c.inx() }))
	reg(0xE9, "SBC", false, ok(func(c *Chip) { c.sbc(ModeImmediate, false) }))
	reg(0xEA, "NOP", false, ok(func(c *Chip) { c.nop() }))
	reg(0xEB, "SBC", true, ok(func(c *Chip) { c.sbc(ModeImmediate, false) }))
	reg(0xEC, "CPX", false, ok(func(c *Chip) { c.cpx(ModeAbsolute, false) }))
	reg(0xED, "SBC", false, ok(func(c *Chip) { c.sbc(ModeAbsolute, false) }))
	reg(0xEE, "INC", false, ok(func(c *Chip) { c.inc(ModeAbsolute) }))
	reg(0xEF, "ISC", true, ok(func(c *Chip) { c.isc(ModeAbsolute) }))

	reg(0xF0, "BEQ", false, ok(func(c *Chip) { c.beq() }))
	reg(0xF1, "SBC", false, ok(func(c *Chip) { c.sbc(ModeIndirectY, false) }))
	reg(0xF3, "ISC", true, ok(func(c *Chip) { c.isc(ModeIndirectY) }))
	reg(0xF4, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeZeroPageX) }))
	reg(0xF5, "SBC", false, ok(func(c *Chip) { c.sbc(ModeZeroPageX, false) }))
	reg(0xF6, "INC", false, ok(func(c *Chip) { c.inc(ModeZeroPageX) }))
	reg(0xF7, "ISC", true, ok(func(c *Chip) { c.isc(ModeZeroPageX) }))
	reg(0xF8, "SED", false, ok(func(c *Chip) { c.sed() }))
	reg(0xF9, "SBC", false, ok(func(c *Chip) { c.sbc(ModeAbsoluteY, false) }))
	reg(0xFA, "NOP", true, ok(func(c *Chip) { c.nop() }))
	reg(0xFB, "ISC", true, ok(func(c *Chip) { c.isc(ModeAbsoluteY) }))
	reg(0xFC, "NOP", true, ok(func(c *Chip) { c.nopRead(ModeAbsoluteX) }))
	reg(0xFD, "SBC", false, ok(func(c *Chip) { c.sbc(ModeAbsoluteX, false) }))
	reg(0xFE, "INC", false, ok(func(c *Chip) { c.inc(ModeAbsoluteX) }))
	reg(0xFF, "ISC", true, ok(func(c *Chip) { c.isc(ModeAbsoluteX) }))

	// The remaining bytes (0x02/0x12/0x22/... HLT, and the unstable unofficial
	// opcodes ANC/ALR/ARR/XAA/AXS/LAX-immediate/LAS/SHA/SHX/SHY/TAS) are left
	// unregistered; Step reports them as DecodeMiss.
}

// StepInfo is the pre-execution snapshot and decode result Step hands back,
// enough for a tracer to render one log-compatible instruction line.
type StepInfo struct {
	PC         uint16
	A, X, Y    uint8
	P          uint8
	SP         uint8
	Cycle      uint64
	Opcode     uint8
	Mnemonic   string
	Unofficial bool
}

// Step fetches, decodes, and executes exactly one instruction. The returned
// StepInfo reflects register state as of the opcode fetch, before the
// instruction's own effects are applied. A DecodeMiss is absorbed here (the
// opcode fetch has already advanced PC past the offending byte, and the
// event is logged) but still returned so a caller such as the tracer can
// observe it; Run treats it as non-fatal. ErrBreak is returned verbatim on
// BRK and is the only error Run treats as a clean stop.
func (c *Chip) Step() (StepInfo, error) {
	c.opPC = c.PC
	info := StepInfo{
		PC:    c.opPC,
		A:     c.A,
		X:     c.X,
		Y:     c.Y,
		P:     c.P,
		SP:    c.SP,
		Cycle: c.DisplayCycle(),
	}

	opcode := c.tickRead(c.PC)
	c.PC++
	info.Opcode = opcode

	entry := dispatchTable[opcode]
	if entry == nil {
		miss := DecodeMiss{Opcode: opcode, PC: c.opPC}
		log.Printf("go6502: %v", miss)
		return info, miss
	}
	info.Mnemonic = entry.mnemonic
	info.Unofficial = entry.unofficial
	err := entry.exec(c)
	return info, err
}

// Run steps the chip until BRK retires (ErrBreak, returned as nil since it's
// normal termination) or Step returns an error other than DecodeMiss.
func (c *Chip) Run() error {
	for {
		_, err := c.Step()
		if err == nil {
			continue
		}
		if errors.Is(err, ErrBreak) {
			return nil
		}
		var miss DecodeMiss
		if errors.As(err, &miss) {
			continue
		}
		return err
	}
}
