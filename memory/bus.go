// Package memory implements the flat, byte-addressed 64 KiB bus this CORE
// drives: a mirrored 2 KiB internal RAM bank, unmapped I/O stubs, and a
// cartridge PRG-ROM bank mirrored for 16 KiB images. Each region is its own
// Bank, composed by Bus into the single address space cpu.Chip reads and
// writes through.
package memory

import (
	"fmt"
	"math/rand"
	"time"
)

// Bank is one region of the address space: RAM, PRG-ROM, or the composed
// Bus itself. Parent/DatabusVal let a caller walk up to the outermost bank
// to read the last value that actually crossed the physical bus, since a
// bank mapped behind a decoder doesn't see every transaction a sibling
// region does.
type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with val. Writes to ROM regions are silent no-ops.
	Write(addr uint16, val uint8)
	// PowerOn resets the bank to its power-on state. RAM is randomized
	// (matching real hardware, which doesn't guarantee a zeroed stack or
	// zero page); ROM contents never change.
	PowerOn()
	// Parent holds a reference (if non-nil) to the next level out in a
	// chain of composed banks, so LatestDatabusVal can find the bus.
	Parent() Bank
	// DatabusVal returns the last value this bank saw cross its own Read
	// or Write.
	DatabusVal() uint8
}

// LatestDatabusVal walks b's parent chain to the outermost Bank (the Bus)
// and returns its DatabusVal — the byte that last actually crossed the
// physical 6502 bus, as opposed to b's own possibly-stale last transaction
// if b sits behind a region decoder that wasn't addressed most recently.
func LatestDatabusVal(b Bank) uint8 {
	if b.Parent() != nil {
		return LatestDatabusVal(b.Parent())
	}
	return b.DatabusVal()
}

// ram backs the console's 2 KiB of internal work RAM, addressable at
// $0000-$07FF and mirrored through $0000-$1FFF by Bus.
type ram struct {
	cells      []uint8
	parent     Bank
	databusVal uint8
}

// New8BitRAMBank creates an R/W RAM bank of the given size. Size must be a
// power of 2 and no larger than 64 KiB, or addresses alias in ways a caller
// didn't ask for.
func New8BitRAMBank(size int, parent Bank) (Bank, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("invalid size: %d must be a power of 2", size)
	}
	if size > 1<<16 {
		return nil, fmt.Errorf("invalid size: %d is bigger than 64k", size)
	}
	return &ram{cells: make([]uint8, size), parent: parent}, nil
}

// Read implements Bank, masking addr into the RAM window.
func (r *ram) Read(addr uint16) uint8 {
	addr &= uint16(len(r.cells) - 1)
	val := r.cells[addr]
	r.databusVal = val
	return val
}

// Write implements Bank, masking addr into the RAM window.
func (r *ram) Write(addr uint16, val uint8) {
	addr &= uint16(len(r.cells) - 1)
	r.databusVal = val
	r.cells[addr] = val
}

// PowerOn implements Bank. Real 6502 RAM doesn't come up zeroed, so this
// fills every cell with noise the way the console's own SRAM would.
func (r *ram) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	for i := range r.cells {
		r.cells[i] = uint8(rand.Intn(256))
	}
}

// Parent implements Bank.
func (r *ram) Parent() Bank {
	return r.parent
}

// DatabusVal implements Bank.
func (r *ram) DatabusVal() uint8 {
	return r.databusVal
}

// prg implements a read-only Bank over a cartridge PRG-ROM image. Writes are
// silently dropped as the 6502 bus defines for ROM regions. A 16 KiB image is
// mirrored so that addr and addr+0x4000 return the same byte, matching the
// $8000-$BFFF / $C000-$FFFF mirroring a 16 KiB cartridge exhibits on this
// platform.
type prg struct {
	rom        []uint8
	parent     Bank
	databusVal uint8
}

// NewPRGBank wraps a cartridge PRG-ROM image (16 KiB or 32 KiB) as a
// read-only Bank. A 16 KiB image is mirrored to fill the full 32 KiB window.
func NewPRGBank(rom []uint8, parent Bank) Bank {
	b := &prg{parent: parent}
	switch len(rom) {
	case 0x4000:
		b.rom = make([]uint8, 0x8000)
		copy(b.rom, rom)
		copy(b.rom[0x4000:], rom)
	default:
		b.rom = make([]uint8, len(rom))
		copy(b.rom, rom)
	}
	return b
}

// Read implements Bank, masking addr into the PRG window.
func (p *prg) Read(addr uint16) uint8 {
	if len(p.rom) == 0 {
		return 0xFF
	}
	val := p.rom[int(addr)%len(p.rom)]
	p.databusVal = val
	return val
}

// Write implements Bank. ROM writes are a no-op.
func (p *prg) Write(addr uint16, val uint8) {
	p.databusVal = val
}

// PowerOn implements Bank. PRG contents don't change.
func (p *prg) PowerOn() {}

// Parent implements Bank.
func (p *prg) Parent() Bank {
	return p.parent
}

// DatabusVal implements Bank.
func (p *prg) DatabusVal() uint8 {
	return p.databusVal
}

// Bus composes the flat 64 KiB NES-shaped address space this CORE drives:
// 2 KiB of internal RAM mirrored through $0000-$1FFF, I/O regions stubbed out
// to a constant $FF, and PRG-ROM mapped at $8000-$FFFF (mirrored for 16 KiB
// images). It satisfies Bank so it can be handed directly to cpu.NewChip.
type Bus struct {
	ram        Bank
	prg        Bank
	databusVal uint8
}

const (
	ramSize   = 0x0800
	ramMask   = ramSize - 1
	ramTop    = 0x2000
	prgBottom = 0x8000
)

// NewBus assembles a Bus over the given PRG-ROM image. prg may be nil for
// tests that only exercise RAM.
func NewBus(prg []uint8) (*Bus, error) {
	ram, err := New8BitRAMBank(ramSize, nil)
	if err != nil {
		return nil, err
	}
	b := &Bus{ram: ram}
	if prg != nil {
		b.prg = NewPRGBank(prg, nil)
	}
	return b, nil
}

// Read implements Bank.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < ramTop:
		v := b.ram.Read(addr & ramMask)
		b.databusVal = v
		return v
	case addr >= prgBottom && b.prg != nil:
		v := b.prg.Read(addr - prgBottom)
		b.databusVal = v
		return v
	default:
		b.databusVal = 0xFF
		return 0xFF
	}
}

// Write implements Bank. Writes outside RAM (including all of PRG-ROM and
// the unmapped I/O stubs) are no-ops.
func (b *Bus) Write(addr uint16, val uint8) {
	if addr < ramTop {
		b.ram.Write(addr&ramMask, val)
	}
	b.databusVal = val
}

// PowerOn implements Bank.
func (b *Bus) PowerOn() {
	b.ram.PowerOn()
}

// Parent implements Bank. A Bus is always the outermost bank.
func (b *Bus) Parent() Bank {
	return nil
}

// DatabusVal implements Bank.
func (b *Bus) DatabusVal() uint8 {
	return b.databusVal
}

// WrapZP implements the zero-page wraparound (`addr & 0xFF`) that the
// zero-page-X/Y and indirect addressing modes rely on so their effective
// address never leaves page $00.
func WrapZP(addr uint8) uint16 {
	return uint16(addr) & 0xFF
}
