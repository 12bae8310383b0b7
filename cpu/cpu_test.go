package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	deep "github.com/go-test/deep"

	"github.com/go6502/core/memory"
)

const loadAddr = uint16(0xC000)

// newTestChip builds a Chip over a flat 64 KiB RAM bank with program loaded
// at loadAddr and the reset vector pointed at it.
func newTestChip(t *testing.T, program []uint8) *Chip {
	t.Helper()
	bank, err := memory.New8BitRAMBank(1<<16, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	for i, b := range program {
		bank.Write(loadAddr+uint16(i), b)
	}
	bank.Write(RESET_VECTOR, uint8(loadAddr&0xFF))
	bank.Write(RESET_VECTOR+1, uint8(loadAddr>>8))
	return NewChip(bank, false)
}

// runToBreak steps c until ErrBreak (or a terminal error) and returns the
// number of instructions retired.
func runToBreak(t *testing.T, c *Chip) int {
	t.Helper()
	for steps := 0; ; steps++ {
		_, err := c.Step()
		if err == nil {
			continue
		}
		if err == ErrBreak {
			return steps + 1
		}
		if _, ok := err.(DecodeMiss); ok {
			continue
		}
		t.Fatalf("unexpected error: %v\nstate: %s", err, spew.Sdump(c))
	}
}

func TestReset(t *testing.T) {
	c := newTestChip(t, []uint8{0x00})
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Fatalf("registers not zeroed after reset: %s", spew.Sdump(c))
	}
	if c.SP != resetStackPointer {
		t.Fatalf("SP = %.2X, want %.2X", c.SP, resetStackPointer)
	}
	if c.P != P_S1|P_INTERRUPT {
		t.Fatalf("P = %.2X, want %.2X", c.P, P_S1|P_INTERRUPT)
	}
	if c.PC != loadAddr {
		t.Fatalf("PC = %.4X, want %.4X", c.PC, loadAddr)
	}
}

func TestDisplayCycleOffset(t *testing.T) {
	bank, _ := memory.New8BitRAMBank(1<<16, nil)
	c := NewChip(bank, true)
	if c.PC != 0xC000 {
		t.Fatalf("log-compat PC = %.4X, want C000", c.PC)
	}
	if got, want := c.DisplayCycle(), logCompatCycleOffset; got != want {
		t.Fatalf("DisplayCycle() = %d, want %d", got, want)
	}
	c.Cycle = 100
	if got, want := c.DisplayCycle(), uint64(107); got != want {
		t.Fatalf("DisplayCycle() = %d, want %d", got, want)
	}
}

// Scenario 1: LDA #$05; ADC #$03; BRK.
func TestScenarioLDAADC(t *testing.T) {
	c := newTestChip(t, []uint8{0xA9, 0x05, 0x69, 0x03, 0x00})
	runToBreak(t, c)
	if c.A != 0x08 {
		t.Fatalf("A = %.2X, want 08", c.A)
	}
	if c.flag(P_ZERO) || c.flag(P_NEGATIVE) || c.flag(P_CARRY) || c.flag(P_OVERFLOW) {
		t.Fatalf("unexpected flags set: P=%.2X", c.P)
	}
	if c.Cycle != 11 {
		t.Fatalf("Cycle = %d, want 11", c.Cycle)
	}
}

// Scenario 2: LDA #$80; ADC #$80 overflows into a zero result.
func TestScenarioADCOverflow(t *testing.T) {
	c := newTestChip(t, []uint8{0xA9, 0x80, 0x69, 0x80, 0x00})
	runToBreak(t, c)
	if c.A != 0x00 {
		t.Fatalf("A = %.2X, want 00", c.A)
	}
	if !c.flag(P_CARRY) || !c.flag(P_OVERFLOW) || !c.flag(P_ZERO) || c.flag(P_NEGATIVE) {
		t.Fatalf("flags = %.2X, want C=1 V=1 Z=1 N=0", c.P)
	}
}

// Scenario 3: LDX #$03; DEX x3.
func TestScenarioDEXLoop(t *testing.T) {
	c := newTestChip(t, []uint8{0xA2, 0x03, 0xCA, 0xCA, 0xCA, 0x00})
	runToBreak(t, c)
	if c.X != 0x00 {
		t.Fatalf("X = %.2X, want 00", c.X)
	}
	if !c.flag(P_ZERO) || c.flag(P_NEGATIVE) {
		t.Fatalf("flags = %.2X, want Z=1 N=0", c.P)
	}
}

// Scenario 4: LDA #$01; ASL A x8 shifts the set bit out entirely.
func TestScenarioASLLoop(t *testing.T) {
	c := newTestChip(t, []uint8{0xA9, 0x01, 0x0A, 0x0A, 0x0A, 0x0A, 0x0A, 0x0A, 0x0A, 0x0A, 0x00})
	runToBreak(t, c)
	if c.A != 0x00 {
		t.Fatalf("A = %.2X, want 00", c.A)
	}
	if !c.flag(P_CARRY) || !c.flag(P_ZERO) {
		t.Fatalf("flags = %.2X, want C=1 Z=1", c.P)
	}
}

// Scenario 5: LDA #$FF; STA $10; LDA $10.
func TestScenarioStoreReload(t *testing.T) {
	c := newTestChip(t, []uint8{0xA9, 0xFF, 0x85, 0x10, 0xA5, 0x10, 0x00})
	runToBreak(t, c)
	if c.A != 0xFF {
		t.Fatalf("A = %.2X, want FF", c.A)
	}
	if got := c.mem.Read(0x0010); got != 0xFF {
		t.Fatalf("mem[$10] = %.2X, want FF", got)
	}
	if c.flag(P_ZERO) || !c.flag(P_NEGATIVE) {
		t.Fatalf("flags = %.2X, want Z=0 N=1", c.P)
	}
}

// Scenario 6: JSR/RTS round-trip leaves PC at the BRK byte and SP
// restored to its pre-JSR value.
func TestScenarioJSRRTS(t *testing.T) {
	c := newTestChip(t, []uint8{
		0x20, 0x06, 0xC0, // C000: JSR $C006
		0x00,             // C003: BRK
		0xEA, 0xEA,       // C004-C005: padding, never reached
		0x60,             // C006: RTS
	})
	spBefore := c.SP
	if _, err := c.Step(); err != nil {
		t.Fatalf("JSR: %v", err)
	}
	if c.PC != 0xC006 {
		t.Fatalf("PC after JSR = %.4X, want C006", c.PC)
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("RTS: %v", err)
	}
	if c.PC != 0xC003 {
		t.Fatalf("PC after RTS = %.4X, want C003 (the BRK byte)", c.PC)
	}
	if c.SP != spBefore {
		t.Fatalf("SP after RTS = %.2X, want %.2X (unchanged from pre-JSR)", c.SP, spBefore)
	}
}

// Round-trip invariants.
func TestRoundTripInvariants(t *testing.T) {
	t.Run("CLC SEC leaves carry set", func(t *testing.T) {
		c := newTestChip(t, []uint8{0x18, 0x38, 0x00})
		runToBreak(t, c)
		if !c.flag(P_CARRY) {
			t.Fatalf("C = 0, want 1")
		}
	})

	t.Run("LDA PHA LDA#0 PLA restores A", func(t *testing.T) {
		c := newTestChip(t, []uint8{0xA9, 0x42, 0x48, 0xA9, 0x00, 0x68, 0x00})
		runToBreak(t, c)
		if c.A != 0x42 {
			t.Fatalf("A = %.2X, want 42", c.A)
		}
	})

	t.Run("ROR A; ROL A with C=0 is identity", func(t *testing.T) {
		for v := 0; v < 256; v++ {
			c := newTestChip(t, []uint8{0xA9, uint8(v), 0x6A, 0x2A, 0x00})
			runToBreak(t, c)
			if c.A != uint8(v) {
				t.Fatalf("v=%.2X: A = %.2X after ROR/ROL, want unchanged", v, c.A)
			}
			if c.flag(P_CARRY) {
				t.Fatalf("v=%.2X: C set after ROR/ROL, want clear", v)
			}
		}
	})

	t.Run("push then pop is identity", func(t *testing.T) {
		c := newTestChip(t, []uint8{0x00})
		before := c.SP
		c.push(0x77)
		if got := c.pop(); got != 0x77 {
			t.Fatalf("pop() = %.2X, want 77", got)
		}
		if c.SP != before {
			t.Fatalf("SP = %.2X, want %.2X", c.SP, before)
		}
	})

	t.Run("packP/unpackP round trip for PHP/BRK pushes", func(t *testing.T) {
		c := newTestChip(t, []uint8{0x00})
		c.P = P_CARRY | P_ZERO
		packed := c.packP()
		if want := c.P | 0x30; packed != want {
			t.Fatalf("packP() = %.2X, want %.2X", packed, want)
		}
		if got, want := unpackP(packed), (packed|0x20)&0xEF; got != want {
			t.Fatalf("unpackP(packP()) = %.2X, want %.2X", got, want)
		}
	})
}

func TestZeroPageIndexingNeverLeavesPageZero(t *testing.T) {
	bases := []uint8{0x00, 0x01, 0x80, 0xFE, 0xFF}
	indices := []uint8{0x00, 0x01, 0x02, 0x7F, 0xFF}
	for _, base := range bases {
		for _, idx := range indices {
			c := newTestChip(t, []uint8{0x00})
			c.mem.Write(c.PC, base)
			addr := c.zeroPageIndexed(idx)
			if addr > 0xFF {
				t.Fatalf("zeroPageIndexed base=%.2X idx=%.2X = %.4X, want <= FF", base, idx, addr)
			}
			if want := uint16(base + idx); addr != want {
				t.Fatalf("zeroPageIndexed base=%.2X idx=%.2X = %.4X, want %.4X", base, idx, addr, want)
			}
		}
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c := newTestChip(t, []uint8{0x00})
	c.mem.Write(0x30FF, 0x80)
	c.mem.Write(0x3000, 0x12) // wrap reads low+1 from $3000, not $3100.
	c.mem.Write(0x3100, 0x34) // if the bug weren't modeled, this byte would be used instead.
	// Operand bytes of JMP ($30FF), read by indirectJMP from PC.
	c.mem.Write(c.PC, 0xFF)
	c.mem.Write(c.PC+1, 0x30)
	got := c.indirectJMP()
	if want := uint16(0x1280); got != want {
		t.Fatalf("indirectJMP() = %.4X, want %.4X", got, want)
	}
}

func TestAbsoluteIndexedPageCrossPenalty(t *testing.T) {
	cases := []struct {
		name          string
		base          uint16
		index         uint8
		wantExtraTick bool
	}{
		{"no cross", 0x1000, 0x01, false},
		{"crosses page", 0x10FF, 0x01, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestChip(t, []uint8{0x00})
			c.PC = 0xC000
			c.mem.Write(0xC000, uint8(tc.base&0xFF))
			c.mem.Write(0xC001, uint8(tc.base>>8))
			before := c.Cycle
			c.absoluteIndexed(tc.index, false)
			gotExtra := c.Cycle-before > 2
			if gotExtra != tc.wantExtraTick {
				t.Fatalf("ticks = %d, wantExtraTick = %v", c.Cycle-before, tc.wantExtraTick)
			}
		})
	}
}

func TestUnofficialLAX(t *testing.T) {
	c := newTestChip(t, []uint8{0xA7, 0x10, 0x00}) // LAX $10; BRK
	c.mem.Write(0x0010, 0x99)
	runToBreak(t, c)
	if c.A != 0x99 || c.X != 0x99 {
		t.Fatalf("A=%.2X X=%.2X after LAX, want both 99", c.A, c.X)
	}
	if !c.flag(P_NEGATIVE) {
		t.Fatalf("N not set for LAX of a negative value")
	}
}

func TestUnofficialSAX(t *testing.T) {
	c := newTestChip(t, []uint8{0xA9, 0x0F, 0xA2, 0xF0, 0x87, 0x10, 0x00})
	runToBreak(t, c)
	if got := c.mem.Read(0x0010); got != 0x00 {
		t.Fatalf("mem[$10] after SAX = %.2X, want 00 (A&X)", got)
	}
}

func TestUnofficialDCP(t *testing.T) {
	// LDA #$05; DCP $10 decrements mem[$10] from $06 to $05, then compares
	// against A: equal, so Z set and C set (A >= result).
	c := newTestChip(t, []uint8{0xA9, 0x05, 0xC7, 0x10, 0x00})
	c.mem.Write(0x0010, 0x06)
	runToBreak(t, c)
	if got := c.mem.Read(0x0010); got != 0x05 {
		t.Fatalf("mem[$10] after DCP = %.2X, want 05", got)
	}
	if !c.flag(P_ZERO) || !c.flag(P_CARRY) {
		t.Fatalf("flags = %.2X, want Z=1 C=1", c.P)
	}
}

func TestUnofficialSLO(t *testing.T) {
	// LDA #$01; SLO $10; BRK: SLO shifts mem[$10] left (setting carry from
	// the bit shifted out) then ORs the shifted value into A.
	c := newTestChip(t, []uint8{0xA9, 0x01, 0x07, 0x10, 0x00})
	c.mem.Write(0x0010, 0x80)
	runToBreak(t, c)
	if c.A != 0x01 {
		t.Fatalf("A = %.2X after SLO, want 01", c.A)
	}
	if got := c.mem.Read(0x0010); got != 0x00 {
		t.Fatalf("mem[$10] after SLO = %.2X, want 00", got)
	}
	if !c.flag(P_CARRY) {
		t.Fatalf("C not set for SLO shifting a set bit 7 out")
	}
}

func TestUnofficialRLA(t *testing.T) {
	// SEC; LDA #$0F; RLA $10; BRK: RLA rotates mem[$10] left through carry
	// then ANDs the rotated value into A.
	c := newTestChip(t, []uint8{0x38, 0xA9, 0x0F, 0x27, 0x10, 0x00})
	c.mem.Write(0x0010, 0x80)
	runToBreak(t, c)
	if c.A != 0x01 {
		t.Fatalf("A = %.2X after RLA, want 01", c.A)
	}
	if got := c.mem.Read(0x0010); got != 0x01 {
		t.Fatalf("mem[$10] after RLA = %.2X, want 01", got)
	}
	if !c.flag(P_CARRY) {
		t.Fatalf("C not set for RLA rotating a set bit 7 out")
	}
}

func TestUnofficialSRE(t *testing.T) {
	// LDA #$FF; SRE $10; BRK: SRE shifts mem[$10] right (setting carry from
	// the bit shifted out) then EORs the shifted value into A.
	c := newTestChip(t, []uint8{0xA9, 0xFF, 0x47, 0x10, 0x00})
	c.mem.Write(0x0010, 0x01)
	runToBreak(t, c)
	if c.A != 0xFF {
		t.Fatalf("A = %.2X after SRE, want FF", c.A)
	}
	if got := c.mem.Read(0x0010); got != 0x00 {
		t.Fatalf("mem[$10] after SRE = %.2X, want 00", got)
	}
	if !c.flag(P_CARRY) {
		t.Fatalf("C not set for SRE shifting a set bit 0 out")
	}
	if !c.flag(P_NEGATIVE) {
		t.Fatalf("N not set for SRE leaving A = FF")
	}
}

func TestUnofficialRRA(t *testing.T) {
	// SEC; LDA #$10; RRA $10; BRK: RRA rotates mem[$10] right through carry
	// then ADCs the rotated value into A.
	c := newTestChip(t, []uint8{0x38, 0xA9, 0x10, 0x67, 0x10, 0x00})
	c.mem.Write(0x0010, 0x01)
	runToBreak(t, c)
	if c.A != 0x91 {
		t.Fatalf("A = %.2X after RRA, want 91", c.A)
	}
	if got := c.mem.Read(0x0010); got != 0x80 {
		t.Fatalf("mem[$10] after RRA = %.2X, want 80", got)
	}
	if c.flag(P_CARRY) {
		t.Fatalf("C set after RRA's ADC, want clear")
	}
}

func TestUnofficialISC(t *testing.T) {
	// SEC; LDA #$10; ISC $10; BRK: ISC increments mem[$10] then SBCs the
	// incremented value from A.
	c := newTestChip(t, []uint8{0x38, 0xA9, 0x10, 0xE7, 0x10, 0x00})
	c.mem.Write(0x0010, 0x01)
	runToBreak(t, c)
	if c.A != 0x0E {
		t.Fatalf("A = %.2X after ISC, want 0E", c.A)
	}
	if got := c.mem.Read(0x0010); got != 0x02 {
		t.Fatalf("mem[$10] after ISC = %.2X, want 02", got)
	}
	if !c.flag(P_CARRY) {
		t.Fatalf("C not set for ISC's SBC with no borrow")
	}
}

func TestUnofficialSBCImmediateEB(t *testing.T) {
	c := newTestChip(t, []uint8{0xA9, 0x10, 0x38, 0xEB, 0x05, 0x00})
	runToBreak(t, c)
	if c.A != 0x0B {
		t.Fatalf("A = %.2X, want 0B", c.A)
	}
}

func TestUniversalInvariantsCycleMonotonic(t *testing.T) {
	c := newTestChip(t, []uint8{
		0xA9, 0xFF, 0xAA, 0xA8, 0xE8, 0xC8, 0x00,
	})
	prevCycle := c.Cycle
	for {
		_, err := c.Step()
		if c.Cycle < prevCycle {
			t.Fatalf("Cycle decreased: %d -> %d", prevCycle, c.Cycle)
		}
		prevCycle = c.Cycle
		if err != nil {
			break
		}
	}
}

type regSnapshot struct {
	A, X, Y, SP uint8
	PC          uint16
	P           uint8
}

func TestResetSnapshotMatchesCanonicalState(t *testing.T) {
	c := newTestChip(t, []uint8{0x00})
	got := regSnapshot{A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC, P: c.P}
	want := regSnapshot{A: 0, X: 0, Y: 0, SP: resetStackPointer, PC: loadAddr, P: P_S1 | P_INTERRUPT}
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatalf("post-reset state mismatch: %v\nfull state: %s", diff, spew.Sdump(c))
	}
}
