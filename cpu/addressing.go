package cpu

import "github.com/go6502/core/memory"

// Mode enumerates the 6502 addressing-mode variants this core supports.
// Each carries its own documented cycle cost; see the comments below for the
// full table this file implements.
type Mode int

const (
	ModeImplied Mode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirectX
	ModeIndirectY
	ModeIndirect // JMP only.
	ModeRelative // Branches only; handled by performBranch, not here.
)

// operandAddr resolves every memory-referencing mode except Immediate,
// Accumulator, Implied, Indirect (JMP-only) and Relative (branch-only),
// which have their own call sites since they don't produce a plain
// effective address the same way. penaltyAlways forces the page-cross
// "oops" cycle unconditionally, as required for store and read-modify-write
// instructions using AbsoluteX/Y or IndirectY.
func (c *Chip) operandAddr(mode Mode, penaltyAlways bool) uint16 {
	switch mode {
	case ModeZeroPage:
		zp := c.tickRead(c.PC)
		c.PC++
		return memory.WrapZP(zp)
	case ModeZeroPageX:
		return c.zeroPageIndexed(c.X)
	case ModeZeroPageY:
		return c.zeroPageIndexed(c.Y)
	case ModeAbsolute:
		return c.absolute()
	case ModeAbsoluteX:
		return c.absoluteIndexed(c.X, penaltyAlways)
	case ModeAbsoluteY:
		return c.absoluteIndexed(c.Y, penaltyAlways)
	case ModeIndirectX:
		return c.indirectX()
	case ModeIndirectY:
		return c.indirectY(penaltyAlways)
	default:
		panic(InvalidCPUState{Reason: "operandAddr called with a non-memory addressing mode"})
	}
}

// zeroPageIndexed implements ZeroPageX/ZeroPageY: fetch the base zero-page
// byte, dummy-read it before the index is applied (the real 6502 always
// does this extra bus cycle), then wrap the indexed sum into page $00.
func (c *Chip) zeroPageIndexed(index uint8) uint16 {
	base := c.tickRead(c.PC)
	c.PC++
	c.tickRead(memory.WrapZP(base))
	return memory.WrapZP(base + index)
}

// absolute fetches a little-endian 16-bit address from the two bytes
// following the opcode.
func (c *Chip) absolute() uint16 {
	lo := c.tickRead(c.PC)
	c.PC++
	hi := c.tickRead(c.PC)
	c.PC++
	return uint16(hi)<<8 | uint16(lo)
}

// absoluteIndexed fetches a little-endian base address and adds index to
// it. If the add carries out of the low byte (a page cross) an extra "oops"
// cycle is spent re-reading at the bogus (uncorrected high byte) address
// before the real access happens; penaltyAlways forces that cycle even
// without a carry, as stores and RMW instructions always pay it.
func (c *Chip) absoluteIndexed(index uint8, penaltyAlways bool) uint16 {
	base := c.absolute()
	addr := base + uint16(index)
	crossed := (base & 0xFF00) != (addr & 0xFF00)
	if crossed || penaltyAlways {
		bogus := (base & 0xFF00) | (addr & 0x00FF)
		c.tickRead(bogus)
	}
	return addr
}

// indirectX implements (d,X): fetch the pointer byte, dummy-read it before
// X is added, then fetch the effective address low/high from the
// zero-page-wrapped pointer+X and pointer+X+1.
func (c *Chip) indirectX() uint16 {
	ptr := c.tickRead(c.PC)
	c.PC++
	c.tickRead(memory.WrapZP(ptr))
	ptr += c.X
	lo := c.tickRead(memory.WrapZP(ptr))
	hi := c.tickRead(memory.WrapZP(ptr + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// indirectY implements (d),Y: fetch the pointer byte and the base address
// it points at (zero-page-wrapped on the high-byte read), then add Y with
// the same oops-cycle behavior as absoluteIndexed.
func (c *Chip) indirectY(penaltyAlways bool) uint16 {
	ptr := c.tickRead(c.PC)
	c.PC++
	lo := c.tickRead(memory.WrapZP(ptr))
	hi := c.tickRead(memory.WrapZP(ptr + 1))
	base := uint16(hi)<<8 | uint16(lo)
	addr := base + uint16(c.Y)
	crossed := (base & 0xFF00) != (addr & 0xFF00)
	if crossed || penaltyAlways {
		bogus := (base & 0xFF00) | (addr & 0x00FF)
		c.tickRead(bogus)
	}
	return addr
}

// indirectJMP implements JMP's indirect mode including the infamous
// page-wrap bug: when the pointer sits at $xxFF the high byte is fetched
// from $xx00, not $(xx+1)00.
func (c *Chip) indirectJMP() uint16 {
	ptr := c.absolute()
	lo := c.tickRead(ptr)
	hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
	hi := c.tickRead(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

// readOperand resolves mode and returns the byte an instruction should
// operate on, covering every mode a "read" instruction (LDA, ADC, CMP, ...)
// can use. Accumulator and Immediate are handled here directly since
// neither produces a bus-addressable effective address.
func (c *Chip) readOperand(mode Mode, penaltyAlways bool) uint8 {
	switch mode {
	case ModeAccumulator:
		c.tickDummy()
		return c.A
	case ModeImmediate:
		v := c.tickRead(c.PC)
		c.PC++
		return v
	default:
		addr := c.operandAddr(mode, penaltyAlways)
		return c.tickRead(addr)
	}
}

// store resolves mode to an effective address and writes val to it. Store
// instructions always pay the indexed-addressing "oops" cycle
// unconditionally.
func (c *Chip) store(mode Mode, val uint8) {
	addr := c.operandAddr(mode, true)
	c.tickWrite(addr, val)
}

// rmw implements the three-bus-cycle read-modify-write shape shared by
// ASL/LSR/ROL/ROR/INC/DEC and the unofficial SLO/RLA/SRE/RRA/ISC/DCP: read
// the old value, dummy-write it back unchanged, then write the value op
// computes. op is responsible for any flag side effects. For Accumulator
// mode there's no bus-addressable target, just the instruction's mandatory
// dummy read of PC.
func (c *Chip) rmw(mode Mode, op func(old uint8) uint8) {
	if mode == ModeAccumulator {
		c.tickDummy()
		c.A = op(c.A)
		return
	}
	addr := c.operandAddr(mode, true)
	old := c.tickRead(addr)
	c.tickWrite(addr, old)
	c.tickWrite(addr, op(old))
}
