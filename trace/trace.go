// Package trace renders log-compatible trace lines: one line per retired
// instruction, in the fixed-width column layout a reference 6502 trace tool
// (nestest and its descendants) emits. It disassembles independently of the
// cpu package's dispatch table, the same way the teacher's disassemble
// package stands apart from execution — tracing must be able to describe an
// opcode's bytes without ever stepping the chip.
package trace

import (
	"fmt"
	"strings"

	"github.com/go6502/core/cpu"
	"github.com/go6502/core/memory"
)

type addrMode int

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZP
	modeZPX
	modeZPY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirectX
	modeIndirectY
	modeIndirect
	modeRelative
	modeUnknown
)

type opMeta struct {
	mnemonic   string
	mode       addrMode
	unofficial bool
}

// opcodes mirrors the cpu package's dispatch table by opcode byte, but as
// pure metadata: every byte gets an entry here, including the ones cpu.Step
// reports as a DecodeMiss, since a trace line still has to describe
// whatever byte actually sits in memory.
var opcodes [256]opMeta

func reg(op uint8, mnemonic string, mode addrMode, unofficial bool) {
	opcodes[op] = opMeta{mnemonic: mnemonic, mode: mode, unofficial: unofficial}
}

func init() {
	for i := range opcodes {
		opcodes[i] = opMeta{mnemonic: "???", mode: modeImplied, unofficial: true}
	}

	reg(0x00, "BRK", modeImplied, false)
	reg(0x01, "ORA", modeIndirectX, false)
	reg(0x02, "HLT", modeImplied, true)
	reg(0x03, "SLO", modeIndirectX, true)
	reg(0x04, "NOP", modeZP, true)
	reg(0x05, "ORA", modeZP, false)
	reg(0x06, "ASL", modeZP, false)
	reg(0x07, "SLO", modeZP, true)
	reg(0x08, "PHP", modeImplied, false)
	reg(0x09, "ORA", modeImmediate, false)
	reg(0x0A, "ASL", modeAccumulator, false)
	reg(0x0B, "ANC", modeImmediate, true)
	reg(0x0C, "NOP", modeAbsolute, true)
	reg(0x0D, "ORA", modeAbsolute, false)
	reg(0x0E, "ASL", modeAbsolute, false)
	reg(0x0F, "SLO", modeAbsolute, true)

	reg(0x10, "BPL", modeRelative, false)
	reg(0x11, "ORA", modeIndirectY, false)
	reg(0x12, "HLT", modeImplied, true)
	reg(0x13, "SLO", modeIndirectY, true)
	reg(0x14, "NOP", modeZPX, true)
	reg(0x15, "ORA", modeZPX, false)
	reg(0x16, "ASL", modeZPX, false)
	reg(0x17, "SLO", modeZPX, true)
	reg(0x18, "CLC", modeImplied, false)
	reg(0x19, "ORA", modeAbsoluteY, false)
	reg(0x1A, "NOP", modeImplied, true)
	reg(0x1B, "SLO", modeAbsoluteY, true)
	reg(0x1C, "NOP", modeAbsoluteX, true)
	reg(0x1D, "ORA", modeAbsoluteX, false)
	reg(0x1E, "ASL", modeAbsoluteX, false)
	reg(0x1F, "SLO", modeAbsoluteX, true)

	reg(0x20, "JSR", modeAbsolute, false)
	reg(0x21, "AND", modeIndirectX, false)
	reg(0x22, "HLT", modeImplied, true)
	reg(0x23, "RLA", modeIndirectX, true)
	reg(0x24, "BIT", modeZP, false)
	reg(0x25, "AND", modeZP, false)
	reg(0x26, "ROL", modeZP, false)
	reg(0x27, "RLA", modeZP, true)
	reg(0x28, "PLP", modeImplied, false)
	reg(0x29, "AND", modeImmediate, false)
	reg(0x2A, "ROL", modeAccumulator, false)
	reg(0x2B, "ANC", modeImmediate, true)
	reg(0x2C, "BIT", modeAbsolute, false)
	reg(0x2D, "AND", modeAbsolute, false)
	reg(0x2E, "ROL", modeAbsolute, false)
	reg(0x2F, "RLA", modeAbsolute, true)

	reg(0x30, "BMI", modeRelative, false)
	reg(0x31, "AND", modeIndirectY, false)
	reg(0x32, "HLT", modeImplied, true)
	reg(0x33, "RLA", modeIndirectY, true)
	reg(0x34, "NOP", modeZPX, true)
	reg(0x35, "AND", modeZPX, false)
	reg(0x36, "ROL", modeZPX, false)
	reg(0x37, "RLA", modeZPX, true)
	reg(0x38, "SEC", modeImplied, false)
	reg(0x39, "AND", modeAbsoluteY, false)
	reg(0x3A, "NOP", modeImplied, true)
	reg(0x3B, "RLA", modeAbsoluteY, true)
	reg(0x3C, "NOP", modeAbsoluteX, true)
	reg(0x3D, "AND", modeAbsoluteX, false)
	reg(0x3E, "ROL", modeAbsoluteX, false)
	reg(0x3F, "RLA", modeAbsoluteX, true)

	reg(0x40, "RTI", modeImplied, false)
	reg(0x41, "EOR", modeIndirectX, false)
	reg(0x42, "HLT", modeImplied, true)
	reg(0x43, "SRE", modeIndirectX, true)
	reg(0x44, "NOP", modeZP, true)
	reg(0x45, "EOR", modeZP, false)
	reg(0x46, "LSR", modeZP, false)
	reg(0x47, "SRE", modeZP, true)
	reg(0x48, "PHA", modeImplied, false)
	reg(0x49, "EOR", modeImmediate, false)
	reg(0x4A, "LSR", modeAccumulator, false)
	reg(0x4B, "ALR", modeImmediate, true)
	reg(0x4C, "JMP", modeAbsolute, false)
	reg(0x4D, "EOR", modeAbsolute, false)
	reg(0x4E, "LSR", modeAbsolute, false)
	reg(0x4F, "SRE", modeAbsolute, true)

	reg(0x50, "BVC", modeRelative, false)
	reg(0x51, "EOR", modeIndirectY, false)
	reg(0x52, "HLT", modeImplied, true)
	reg(0x53, "SRE", modeIndirectY, true)
	reg(0x54, "NOP", modeZPX, true)
	reg(0x55, "EOR", modeZPX, false)
	reg(0x56, "LSR", modeZPX, false)
	reg(0x57, "SRE", modeZPX, true)
	reg(0x58, "CLI", modeImplied, false)
	reg(0x59, "EOR", modeAbsoluteY, false)
	reg(0x5A, "NOP", modeImplied, true)
	reg(0x5B, "SRE", modeAbsoluteY, true)
	reg(0x5C, "NOP", modeAbsoluteX, true)
	reg(0x5D, "EOR", modeAbsoluteX, false)
	reg(0x5E, "LSR", modeAbsoluteX, false)
	reg(0x5F, "SRE", modeAbsoluteX, true)

	reg(0x60, "RTS", modeImplied, false)
	reg(0x61, "ADC", modeIndirectX, false)
	reg(0x62, "HLT", modeImplied, true)
	reg(0x63, "RRA", modeIndirectX, true)
	reg(0x64, "NOP", modeZP, true)
	reg(0x65, "ADC", modeZP, false)
	reg(0x66, "ROR", modeZP, false)
	reg(0x67, "RRA", modeZP, true)
	reg(0x68, "PLA", modeImplied, false)
	reg(0x69, "ADC", modeImmediate, false)
	reg(0x6A, "ROR", modeAccumulator, false)
	reg(0x6B, "ARR", modeImmediate, true)
	reg(0x6C, "JMP", modeIndirect, false)
	reg(0x6D, "ADC", modeAbsolute, false)
	reg(0x6E, "ROR", modeAbsolute, false)
	reg(0x6F, "RRA", modeAbsolute, true)

	reg(0x70, "BVS", modeRelative, false)
	reg(0x71, "ADC", modeIndirectY, false)
	reg(0x72, "HLT", modeImplied, true)
	reg(0x73, "RRA", modeIndirectY, true)
	reg(0x74, "NOP", modeZPX, true)
	reg(0x75, "ADC", modeZPX, false)
	reg(0x76, "ROR", modeZPX, false)
	reg(0x77, "RRA", modeZPX, true)
	reg(0x78, "SEI", modeImplied, false)
	reg(0x79, "ADC", modeAbsoluteY, false)
	reg(0x7A, "NOP", modeImplied, true)
	reg(0x7B, "RRA", modeAbsoluteY, true)
	reg(0x7C, "NOP", modeAbsoluteX, true)
	reg(0x7D, "ADC", modeAbsoluteX, false)
	reg(0x7E, "ROR", modeAbsoluteX, false)
	reg(0x7F, "RRA", modeAbsoluteX, true)

	reg(0x80, "NOP", modeImmediate, true)
	reg(0x81, "STA", modeIndirectX, false)
	reg(0x82, "NOP", modeImmediate, true)
	reg(0x83, "SAX", modeIndirectX, true)
	reg(0x84, "STY", modeZP, false)
	reg(0x85, "STA", modeZP, false)
	reg(0x86, "STX", modeZP, false)
	reg(0x87, "SAX", modeZP, true)
	reg(0x88, "DEY", modeImplied, false)
	reg(0x89, "NOP", modeImmediate, true)
	reg(0x8A, "TXA", modeImplied, false)
	reg(0x8B, "XAA", modeImmediate, true)
	reg(0x8C, "STY", modeAbsolute, false)
	reg(0x8D, "STA", modeAbsolute, false)
	reg(0x8E, "STX", modeAbsolute, false)
	reg(0x8F, "SAX", modeAbsolute, true)

	reg(0x90, "BCC", modeRelative, false)
	reg(0x91, "STA", modeIndirectY, false)
	reg(0x92, "HLT", modeImplied, true)
	reg(0x93, "SHA", modeIndirectY, true)
	reg(0x94, "STY", modeZPX, false)
	reg(0x95, "STA", modeZPX, false)
	reg(0x96, "STX", modeZPY, false)
	reg(0x97, "SAX", modeZPY, true)
	reg(0x98, "TYA", modeImplied, false)
	reg(0x99, "STA", modeAbsoluteY, false)
	reg(0x9A, "TXS", modeImplied, false)
	reg(0x9B, "TAS", modeAbsoluteY, true)
	reg(0x9C, "SHY", modeAbsoluteX, true)
	reg(0x9D, "STA", modeAbsoluteX, false)
	reg(0x9E, "SHX", modeAbsoluteY, true)
	reg(0x9F, "SHA", modeAbsoluteY, true)

	reg(0xA0, "LDY", modeImmediate, false)
	reg(0xA1, "LDA", modeIndirectX, false)
	reg(0xA2, "LDX", modeImmediate, false)
	reg(0xA3, "LAX", modeIndirectX, true)
	reg(0xA4, "LDY", modeZP, false)
	reg(0xA5, "LDA", modeZP, false)
	reg(0xA6, "LDX", modeZP, false)
	reg(0xA7, "LAX", modeZP, true)
	reg(0xA8, "TAY", modeImplied, false)
	reg(0xA9, "LDA", modeImmediate, false)
	reg(0xAA, "TAX", modeImplied, false)
	reg(0xAB, "LXA", modeImmediate, true)
	reg(0xAC, "LDY", modeAbsolute, false)
	reg(0xAD, "LDA", modeAbsolute, false)
	reg(0xAE, "LDX", modeAbsolute, false)
	reg(0xAF, "LAX", modeAbsolute, true)

	reg(0xB0, "BCS", modeRelative, false)
	reg(0xB1, "LDA", modeIndirectY, false)
	reg(0xB2, "HLT", modeImplied, true)
	reg(0xB3, "LAX", modeIndirectY, true)
	reg(0xB4, "LDY", modeZPX, false)
	reg(0xB5, "LDA", modeZPX, false)
	reg(0xB6, "LDX", modeZPY, false)
	reg(0xB7, "LAX", modeZPY, true)
	reg(0xB8, "CLV", modeImplied, false)
	reg(0xB9, "LDA", modeAbsoluteY, false)
	reg(0xBA, "TSX", modeImplied, false)
	reg(0xBB, "LAS", modeAbsoluteY, true)
	reg(0xBC, "LDY", modeAbsoluteX, false)
	reg(0xBD, "LDA", modeAbsoluteX, false)
	reg(0xBE, "LDX", modeAbsoluteY, false)
	reg(0xBF, "LAX", modeAbsoluteY, true)

	reg(0xC0, "CPY", modeImmediate, false)
	reg(0xC1, "CMP", modeIndirectX, false)
	reg(0xC2, "NOP", modeImmediate, true)
	reg(0xC3, "DCP", modeIndirectX, true)
	reg(0xC4, "CPY", modeZP, false)
	reg(0xC5, "CMP", modeZP, false)
	reg(0xC6, "DEC", modeZP, false)
	reg(0xC7, "DCP", modeZP, true)
	reg(0xC8, "INY", modeImplied, false)
	reg(0xC9, "CMP", modeImmediate, false)
	reg(0xCA, "DEX", modeImplied, false)
	reg(0xCB, "AXS", modeImmediate, true)
	reg(0xCC, "CPY", modeAbsolute, false)
	reg(0xCD, "CMP", modeAbsolute, false)
	reg(0xCE, "DEC", modeAbsolute, false)
	reg(0xCF, "DCP", modeAbsolute, true)

	reg(0xD0, "BNE", modeRelative, false)
	reg(0xD1, "CMP", modeIndirectY, false)
	reg(0xD2, "HLT", modeImplied, true)
	reg(0xD3, "DCP", modeIndirectY, true)
	reg(0xD4, "NOP", modeZPX, true)
	reg(0xD5, "CMP", modeZPX, false)
	reg(0xD6, "DEC", modeZPX, false)
	reg(0xD7, "DCP", modeZPX, true)
	reg(0xD8, "CLD", modeImplied, false)
	reg(0xD9, "CMP", modeAbsoluteY, false)
	reg(0xDA, "NOP", modeImplied, true)
	reg(0xDB, "DCP", modeAbsoluteY, true)
	reg(0xDC, "NOP", modeAbsoluteX, true)
	reg(0xDD, "CMP", modeAbsoluteX, false)
	reg(0xDE, "DEC", modeAbsoluteX, false)
	reg(0xDF, "DCP", modeAbsoluteX, true)

	reg(0xE0, "CPX", modeImmediate, false)
	reg(0xE1, "SBC", modeIndirectX, false)
	reg(0xE2, "NOP", modeImmediate, true)
	reg(0xE3, "ISC", modeIndirectX, true)
	reg(0xE4, "CPX", modeZP, false)
	reg(0xE5, "SBC", modeZP, false)
	reg(0xE6, "INC", modeZP, false)
	reg(0xE7, "ISC", modeZP, true)
	reg(0xE8, "INX", modeImplied, false)
	reg(0xE9, "SBC", modeImmediate, false)
	reg(0xEA, "NOP", modeImplied, false)
	reg(0xEB, "SBC", modeImmediate, true)
	reg(0xEC, "CPX", modeAbsolute, false)
	reg(0xED, "SBC", modeAbsolute, false)
	reg(0xEE, "INC", modeAbsolute, false)
	reg(0xEF, "ISC", modeAbsolute, true)

	reg(0xF0, "BEQ", modeRelative, false)
	reg(0xF1, "SBC", modeIndirectY, false)
	reg(0xF2, "HLT", modeImplied, true)
	reg(0xF3, "ISC", modeIndirectY, true)
	reg(0xF4, "NOP", modeZPX, true)
	reg(0xF5, "SBC", modeZPX, false)
	reg(0xF6, "INC", modeZPX, false)
	reg(0xF7, "ISC", modeZPX, true)
	reg(0xF8, "SED", modeImplied, false)
	reg(0xF9, "SBC", modeAbsoluteY, false)
	reg(0xFA, "NOP", modeImplied, true)
	reg(0xFB, "ISC", modeAbsoluteY, true)
	reg(0xFC, "NOP", modeAbsoluteX, true)
	reg(0xFD, "SBC", modeAbsoluteX, false)
	reg(0xFE, "INC", modeAbsoluteX, false)
	reg(0xFF, "ISC", modeAbsoluteX, true)
}

// byteLen reports how many bytes (including the opcode) an instruction in
// mode occupies.
func byteLen(mode addrMode) int {
	switch mode {
	case modeImplied, modeAccumulator:
		return 1
	case modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirect:
		return 3
	default:
		return 2
	}
}

// readsMemory reports whether mode resolves to an effective address worth
// annotating with "= VV" (the byte currently sitting there). JMP/JSR's
// absolute and indirect targets are excluded since those are jump targets,
// not data operands; trace distinguishes them by mnemonic.
func readsMemory(mnemonic string, mode addrMode) bool {
	switch mode {
	case modeZP, modeZPX, modeZPY, modeIndirectX, modeIndirectY:
		return true
	case modeAbsolute, modeAbsoluteX, modeAbsoluteY:
		return mnemonic != "JMP" && mnemonic != "JSR"
	default:
		return false
	}
}

// resolveAddr computes the effective address a memory-referencing mode
// would use, without consuming any cycles or mutating chip state, for the
// "= VV" annotation. x and y supply the index registers; mem supplies the
// pointer/base bytes.
func resolveAddr(mode addrMode, b0, b1 uint8, x, y uint8, mem memory.Bank) uint16 {
	switch mode {
	case modeZP:
		return uint16(b0)
	case modeZPX:
		return uint16(b0+x) & 0xFF
	case modeZPY:
		return uint16(b0+y) & 0xFF
	case modeAbsolute:
		return uint16(b1)<<8 | uint16(b0)
	case modeAbsoluteX:
		return (uint16(b1)<<8 | uint16(b0)) + uint16(x)
	case modeAbsoluteY:
		return (uint16(b1)<<8 | uint16(b0)) + uint16(y)
	case modeIndirectX:
		ptr := b0 + x
		lo := mem.Read(uint16(ptr))
		hi := mem.Read(uint16(ptr+1) & 0xFF)
		return uint16(hi)<<8 | uint16(lo)
	case modeIndirectY:
		lo := mem.Read(uint16(b0))
		hi := mem.Read(uint16(b0+1) & 0xFF)
		base := uint16(hi)<<8 | uint16(lo)
		return base + uint16(y)
	default:
		return 0
	}
}

// opstr renders the disassembled operand in 6502 convention: $xx for
// zero-page, $xxxx for absolute/relative targets, #$xx for immediate, and
// the indexed/indirect decorations around them.
func opstr(mode addrMode, b0, b1 uint8, branchTarget uint16) string {
	switch mode {
	case modeImmediate:
		return fmt.Sprintf("#$%02X", b0)
	case modeZP:
		return fmt.Sprintf("$%02X", b0)
	case modeZPX:
		return fmt.Sprintf("$%02X,X", b0)
	case modeZPY:
		return fmt.Sprintf("$%02X,Y", b0)
	case modeAbsolute:
		return fmt.Sprintf("$%02X%02X", b1, b0)
	case modeAbsoluteX:
		return fmt.Sprintf("$%02X%02X,X", b1, b0)
	case modeAbsoluteY:
		return fmt.Sprintf("$%02X%02X,Y", b1, b0)
	case modeIndirectX:
		return fmt.Sprintf("($%02X,X)", b0)
	case modeIndirectY:
		return fmt.Sprintf("($%02X),Y", b0)
	case modeIndirect:
		return fmt.Sprintf("($%02X%02X)", b1, b0)
	case modeRelative:
		return fmt.Sprintf("$%04X", branchTarget)
	case modeAccumulator:
		return "A"
	default:
		return ""
	}
}

// Line renders one fixed-width trace line for the instruction about to
// execute at c.PC. It only reads mem; it never advances the chip, so it
// must be called before cpu.Chip.Step, not after.
func Line(c *cpu.Chip, mem memory.Bank) string {
	pc := c.PC
	opcode := mem.Read(pc)
	meta := opcodes[opcode]
	length := byteLen(meta.mode)

	var raw [3]uint8
	raw[0] = opcode
	for i := 1; i < length; i++ {
		raw[i] = mem.Read(pc + uint16(i))
	}

	byteCols := make([]string, length)
	for i := 0; i < length; i++ {
		byteCols[i] = fmt.Sprintf("%02X", raw[i])
	}
	bytesField := strings.Join(byteCols, " ")

	mnemonic := meta.mnemonic
	if meta.unofficial {
		mnemonic = "*" + mnemonic
	} else {
		mnemonic = " " + mnemonic
	}

	var operand string
	switch meta.mode {
	case modeRelative:
		disp := int8(raw[1])
		target := pc + 2 + uint16(int16(disp))
		operand = opstr(meta.mode, raw[1], 0, target)
	default:
		var b0, b1 uint8
		if length > 1 {
			b0 = raw[1]
		}
		if length > 2 {
			b1 = raw[2]
		}
		operand = opstr(meta.mode, b0, b1, 0)
		if readsMemory(meta.mnemonic, meta.mode) {
			addr := resolveAddr(meta.mode, b0, b1, c.X, c.Y, mem)
			operand = fmt.Sprintf("%s = %02X", operand, mem.Read(addr))
		}
	}

	opField := fmt.Sprintf("%s %s", mnemonic, operand)

	return fmt.Sprintf("%04X  %-8s %-28s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		pc, bytesField, opField, c.A, c.X, c.Y, c.P, c.SP, c.DisplayCycle())
}
