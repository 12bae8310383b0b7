// Package cart decodes the narrow slice of the iNES cartridge format this
// CORE needs: the 16-byte header giving the PRG-ROM size, followed by that
// many 16 KiB banks of program ROM. Header fields beyond that (CHR-ROM size,
// mapper number, mirroring flags) are parsed and kept for a future
// collaborator but otherwise unused here; this package's job ends at handing
// the CPU a memory.Bank and a PC entry point.
package cart

import (
	"fmt"

	"github.com/go6502/core/memory"
)

const (
	headerSize  = 16
	prgBankSize = 16 * 1024
)

// Header is the 16-byte iNES header, field-for-field.
type Header struct {
	// Bytes 0-3: constant "NES" followed by MS-DOS end-of-file ($1A).
	Constant [4]byte
	// Byte 4: size of PRG-ROM in 16 KiB units.
	PRGSize uint8
	// Byte 5: size of CHR-ROM in 8 KiB units (0 means CHR-RAM).
	CHRSize uint8
	// Byte 6: mapper low nibble, mirroring, battery, trainer presence.
	Flags6 uint8
	// Byte 7: mapper high nibble, VS/Playchoice, NES 2.0 marker.
	Flags7 uint8
	// Byte 8: PRG-RAM size, rarely used.
	Flags8 uint8
	// Byte 9: TV system, rarely used.
	Flags9 uint8
	// Byte 10: TV system / PRG-RAM presence, unofficial extension.
	Flags10 uint8
}

// parseHeader reads the 16 raw header bytes into a Header. It doesn't
// validate anything; that's Load's job once it has the full struct to look
// at.
func parseHeader(b []uint8) Header {
	var h Header
	copy(h.Constant[:], b[0:4])
	h.PRGSize = b[4]
	h.CHRSize = b[5]
	h.Flags6 = b[6]
	h.Flags7 = b[7]
	h.Flags8 = b[8]
	h.Flags9 = b[9]
	h.Flags10 = b[10]
	return h
}

// isValidMagic reports whether h's constant field is the iNES magic "NES"
// followed by the MS-DOS end-of-file byte.
func (h Header) isValidMagic() bool {
	return h.Constant == [4]byte{'N', 'E', 'S', 0x1A}
}

// MalformedROM indicates the ROM image failed to parse as iNES. This is a
// fatal, construction-time error; the CORE itself never recovers from it.
type MalformedROM struct {
	Reason string
}

// Error implements the error interface.
func (e MalformedROM) Error() string {
	return fmt.Sprintf("malformed ROM: %s", e.Reason)
}

// ROM holds the decoded cartridge: the header it was parsed from, the
// CORE-facing memory.Bank, and the reset vector read out of it once mapped.
type ROM struct {
	Header Header
	Bus    *memory.Bus
	PRG    []uint8
	Reset  uint16
}

// Load decodes an iNES image and maps its PRG-ROM onto a fresh memory.Bus:
// 16 KiB images mirror into $C000-$FFFF, 32 KiB images fill $8000-$FFFF
// directly. CHR-ROM (if present, trailing the PRG banks) is read past and
// discarded since this CORE has no PPU collaborator to hand it to.
func Load(data []uint8) (*ROM, error) {
	if len(data) < headerSize {
		return nil, MalformedROM{fmt.Sprintf("file too short for an iNES header: %d bytes", len(data))}
	}
	header := parseHeader(data[:headerSize])
	if !header.isValidMagic() {
		return nil, MalformedROM{"missing 'NES\\x1A' magic in header"}
	}
	prgBanks := int(header.PRGSize)
	if prgBanks != 1 && prgBanks != 2 {
		return nil, MalformedROM{fmt.Sprintf("unsupported PRG bank count %d; CORE only maps flat 16/32 KiB images", prgBanks)}
	}
	prgLen := prgBanks * prgBankSize
	if len(data) < headerSize+prgLen {
		return nil, MalformedROM{fmt.Sprintf("header claims %d PRG bytes but file only has %d past the header", prgLen, len(data)-headerSize)}
	}
	prg := make([]uint8, prgLen)
	copy(prg, data[headerSize:headerSize+prgLen])

	bus, err := memory.NewBus(prg)
	if err != nil {
		return nil, MalformedROM{fmt.Sprintf("building bus: %v", err)}
	}
	bus.PowerOn()

	lo := bus.Read(0xFFFC)
	hi := bus.Read(0xFFFD)
	reset := uint16(hi)<<8 | uint16(lo)

	return &ROM{Header: header, Bus: bus, PRG: prg, Reset: reset}, nil
}

// LoadFlat builds an ROM directly from a raw PRG-ROM image (16 KiB or 32
// KiB), skipping iNES header decoding entirely. This is the entry point
// the hand-assembled test scenarios use, and matches the narrow collaborator
// contract: the core receives only the PRG-ROM bytes; header parsing is a
// collaborator's job.
func LoadFlat(prg []uint8) (*ROM, error) {
	if len(prg) != prgBankSize && len(prg) != 2*prgBankSize {
		return nil, MalformedROM{fmt.Sprintf("PRG image must be 16 KiB or 32 KiB, got %d bytes", len(prg))}
	}
	bus, err := memory.NewBus(prg)
	if err != nil {
		return nil, MalformedROM{fmt.Sprintf("building bus: %v", err)}
	}
	bus.PowerOn()
	lo := bus.Read(0xFFFC)
	hi := bus.Read(0xFFFD)
	reset := uint16(hi)<<8 | uint16(lo)
	return &ROM{Bus: bus, PRG: prg, Reset: reset}, nil
}
