package cpu

// This file implements the effect each mnemonic has on Chip state given an
// already-resolved addressing mode. Official opcodes
// come first, followed by the unofficial opcodes this core chooses to
// support.

// --- Load/Store ---

func (c *Chip) lda(mode Mode, penalty bool) { c.A = c.readOperand(mode, penalty); c.setZN(c.A) }
func (c *Chip) ldx(mode Mode, penalty bool) { c.X = c.readOperand(mode, penalty); c.setZN(c.X) }
func (c *Chip) ldy(mode Mode, penalty bool) { c.Y = c.readOperand(mode, penalty); c.setZN(c.Y) }

func (c *Chip) sta(mode Mode) { c.store(mode, c.A) }
func (c *Chip) stx(mode Mode) { c.store(mode, c.X) }
func (c *Chip) sty(mode Mode) { c.store(mode, c.Y) }

// --- Transfer ---

func (c *Chip) tax() { c.implied(); c.X = c.A; c.setZN(c.X) }
func (c *Chip) tay() { c.implied(); c.Y = c.A; c.setZN(c.Y) }
func (c *Chip) txa() { c.implied(); c.A = c.X; c.setZN(c.A) }
func (c *Chip) tya() { c.implied(); c.A = c.Y; c.setZN(c.A) }
func (c *Chip) tsx() { c.implied(); c.X = c.SP; c.setZN(c.X) }
func (c *Chip) txs() { c.implied(); c.SP = c.X }

// implied spends the mandatory dummy PC read every implied-mode instruction
// (transfers, flag ops, register inc/dec, NOP) pays.
func (c *Chip) implied() { c.tickDummy() }

// --- Stack ---

func (c *Chip) pha() { c.implied(); c.push(c.A) }
func (c *Chip) php() { c.implied(); c.push(c.packP()) }
func (c *Chip) pla() {
	c.implied()
	c.tickDummy() // PLA/PLP/RTI/RTS all spend an extra cycle incrementing SP before the pop.
	c.A = c.pop()
	c.setZN(c.A)
}
func (c *Chip) plp() {
	c.implied()
	c.tickDummy()
	c.P = unpackP(c.pop())
}

// --- Logical ---

func (c *Chip) and(mode Mode, penalty bool) { c.A &= c.readOperand(mode, penalty); c.setZN(c.A) }
func (c *Chip) ora(mode Mode, penalty bool) { c.A |= c.readOperand(mode, penalty); c.setZN(c.A) }
func (c *Chip) eor(mode Mode, penalty bool) { c.A ^= c.readOperand(mode, penalty); c.setZN(c.A) }

func (c *Chip) bit(mode Mode, penalty bool) {
	v := c.readOperand(mode, penalty)
	c.setFlag(P_ZERO, c.A&v == 0)
	c.setFlag(P_NEGATIVE, v&0x80 != 0)
	c.setFlag(P_OVERFLOW, v&0x40 != 0)
}

// --- Arithmetic ---

// adc implements binary-mode addition with carry; decimal mode has no
// arithmetic effect on this platform, so D is never consulted.
func (c *Chip) adc(mode Mode, penalty bool) {
	operand := c.readOperand(mode, penalty)
	c.addWithCarry(operand)
}

// sbc is ADC with the operand's bitwise complement.
func (c *Chip) sbc(mode Mode, penalty bool) {
	operand := c.readOperand(mode, penalty)
	c.addWithCarry(operand ^ 0xFF)
}

func (c *Chip) addWithCarry(operand uint8) {
	carryIn := uint16(0)
	if c.flag(P_CARRY) {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(operand) + carryIn
	c.setFlag(P_CARRY, sum > 0xFF)
	result := uint8(sum)
	c.setFlag(P_OVERFLOW, (c.A^result)&(operand^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func (c *Chip) compare(reg uint8, mode Mode, penalty bool) {
	v := c.readOperand(mode, penalty)
	diff := reg - v
	c.setFlag(P_CARRY, reg >= v)
	c.setFlag(P_ZERO, reg == v)
	c.setFlag(P_NEGATIVE, diff&0x80 != 0)
}

func (c *Chip) cmp(mode Mode, penalty bool) { c.compare(c.A, mode, penalty) }
func (c *Chip) cpx(mode Mode, penalty bool) { c.compare(c.X, mode, penalty) }
func (c *Chip) cpy(mode Mode, penalty bool) { c.compare(c.Y, mode, penalty) }

// --- Shift/rotate ---

func (c *Chip) asl(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		c.setFlag(P_CARRY, old&0x80 != 0)
		res := old << 1
		c.setZN(res)
		return res
	})
}

func (c *Chip) lsr(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		c.setFlag(P_CARRY, old&0x01 != 0)
		res := old >> 1
		c.setZN(res)
		return res
	})
}

func (c *Chip) rol(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		carryIn := uint8(0)
		if c.flag(P_CARRY) {
			carryIn = 1
		}
		c.setFlag(P_CARRY, old&0x80 != 0)
		res := (old << 1) | carryIn
		c.setZN(res)
		return res
	})
}

func (c *Chip) ror(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		carryIn := uint8(0)
		if c.flag(P_CARRY) {
			carryIn = 0x80
		}
		c.setFlag(P_CARRY, old&0x01 != 0)
		res := (old >> 1) | carryIn
		c.setZN(res)
		return res
	})
}

// --- Increment/Decrement ---

func (c *Chip) inc(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		res := old + 1
		c.setZN(res)
		return res
	})
}

func (c *Chip) dec(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		res := old - 1
		c.setZN(res)
		return res
	})
}

func (c *Chip) inx() { c.implied(); c.X++; c.setZN(c.X) }
func (c *Chip) dex() { c.implied(); c.X--; c.setZN(c.X) }
func (c *Chip) iny() { c.implied(); c.Y++; c.setZN(c.Y) }
func (c *Chip) dey() { c.implied(); c.Y--; c.setZN(c.Y) }

// --- Branches ---

// performBranch implements Relative addressing for the eight conditional
// branches: the displacement byte is always consumed (1 cycle); if taken,
// one more cycle is spent, and a further cycle if the branch target crosses
// a page boundary.
func (c *Chip) performBranch(taken bool) {
	disp := c.tickRead(c.PC)
	c.PC++
	if !taken {
		return
	}
	c.tickDummy()
	oldPC := c.PC
	c.PC = uint16(int32(c.PC) + int32(int8(disp)))
	if oldPC&0xFF00 != c.PC&0xFF00 {
		c.tickDummy()
	}
}

func (c *Chip) bcc() { c.performBranch(!c.flag(P_CARRY)) }
func (c *Chip) bcs() { c.performBranch(c.flag(P_CARRY)) }
func (c *Chip) bne() { c.performBranch(!c.flag(P_ZERO)) }
func (c *Chip) beq() { c.performBranch(c.flag(P_ZERO)) }
func (c *Chip) bpl() { c.performBranch(!c.flag(P_NEGATIVE)) }
func (c *Chip) bmi() { c.performBranch(c.flag(P_NEGATIVE)) }
func (c *Chip) bvc() { c.performBranch(!c.flag(P_OVERFLOW)) }
func (c *Chip) bvs() { c.performBranch(c.flag(P_OVERFLOW)) }

// --- Jumps and subroutines ---

func (c *Chip) jmp() { c.PC = c.absolute() }

func (c *Chip) jmpIndirect() { c.PC = c.indirectJMP() }

// jsr pushes the address of the JSR instruction's last byte (PC+2-1, i.e.
// the current PC after consuming the low operand byte, which is the address
// of the still-unread high operand byte) then jumps.
func (c *Chip) jsr() {
	lo := c.tickRead(c.PC)
	c.PC++
	c.tickDummy()
	ret := c.PC
	c.push(uint8(ret >> 8))
	c.push(uint8(ret))
	hi := c.tickRead(c.PC)
	c.PC = uint16(hi)<<8 | uint16(lo)
}

func (c *Chip) rts() {
	c.implied()
	c.tickDummy()
	lo := c.pop()
	hi := c.pop()
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.tickDummy()
	c.PC++
}

// brk pushes PC+2 then P (with B and the always-1 bit set), disables
// interrupts, and loads PC from the IRQ/BRK vector. Returning ErrBreak signals
// the fetch/execute loop to stop.
func (c *Chip) brk() error {
	c.tickRead(c.PC) // the padding byte after the BRK opcode is still fetched.
	c.PC++
	ret := c.PC
	c.push(uint8(ret >> 8))
	c.push(uint8(ret))
	c.push(c.packP())
	c.setFlag(P_INTERRUPT, true)
	lo := c.tickRead(IRQ_VECTOR)
	hi := c.tickRead(IRQ_VECTOR + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	return ErrBreak
}

// rti pops P (discarding B, keeping the always-1 bit), then PC directly with
// no +1 adjustment, unlike RTS.
func (c *Chip) rti() {
	c.implied()
	c.tickDummy()
	c.P = unpackP(c.pop())
	lo := c.pop()
	hi := c.pop()
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// --- Flag ops ---

func (c *Chip) clc() { c.implied(); c.setFlag(P_CARRY, false) }
func (c *Chip) sec() { c.implied(); c.setFlag(P_CARRY, true) }
func (c *Chip) cld() { c.implied(); c.setFlag(P_DECIMAL, false) }
func (c *Chip) sed() { c.implied(); c.setFlag(P_DECIMAL, true) }
func (c *Chip) cli() { c.implied(); c.setFlag(P_INTERRUPT, false) }
func (c *Chip) sei() { c.implied(); c.setFlag(P_INTERRUPT, true) }
func (c *Chip) clv() { c.implied(); c.setFlag(P_OVERFLOW, false) }

// --- NOP and unofficial NOP-likes ---

func (c *Chip) nop()              { c.implied() }
func (c *Chip) nopImmediate()     { c.readOperand(ModeImmediate, false) } // SKB
func (c *Chip) nopRead(mode Mode) { c.readOperand(mode, false) }          // IGN/NOP-read

// --- Unofficial opcodes ---

// lax loads the operand into both A and X in one instruction.
func (c *Chip) lax(mode Mode, penalty bool) {
	v := c.readOperand(mode, penalty)
	c.A, c.X = v, v
	c.setZN(v)
}

// sax stores A AND X with no flag effects.
func (c *Chip) sax(mode Mode) { c.store(mode, c.A&c.X) }

// slo is ASL followed by ORA on the shifted value, as a single RMW op.
func (c *Chip) slo(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		c.setFlag(P_CARRY, old&0x80 != 0)
		res := old << 1
		c.A |= res
		c.setZN(c.A)
		return res
	})
}

// rla is ROL followed by AND with the rotated value.
func (c *Chip) rla(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		carryIn := uint8(0)
		if c.flag(P_CARRY) {
			carryIn = 1
		}
		c.setFlag(P_CARRY, old&0x80 != 0)
		res := (old << 1) | carryIn
		c.A &= res
		c.setZN(c.A)
		return res
	})
}

// sre is LSR followed by EOR with the shifted value.
func (c *Chip) sre(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		c.setFlag(P_CARRY, old&0x01 != 0)
		res := old >> 1
		c.A ^= res
		c.setZN(c.A)
		return res
	})
}

// rra is ROR followed by ADC with the rotated value.
func (c *Chip) rra(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		carryIn := uint8(0)
		if c.flag(P_CARRY) {
			carryIn = 0x80
		}
		c.setFlag(P_CARRY, old&0x01 != 0)
		res := (old >> 1) | carryIn
		c.addWithCarry(res)
		return res
	})
}

// dcp is DEC followed by a CMP against A, used by real programs to compare
// and decrement a loop counter in one instruction.
func (c *Chip) dcp(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		res := old - 1
		c.setFlag(P_CARRY, c.A >= res)
		c.setFlag(P_ZERO, c.A == res)
		c.setFlag(P_NEGATIVE, (c.A-res)&0x80 != 0)
		return res
	})
}

// isc (also known as ISB) is INC followed by SBC with the incremented value.
func (c *Chip) isc(mode Mode) {
	c.rmw(mode, func(old uint8) uint8 {
		res := old + 1
		c.addWithCarry(res ^ 0xFF)
		return res
	})
}
