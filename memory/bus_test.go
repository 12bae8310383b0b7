package memory

import "testing"

func TestNewPRGBankMirrors16KiB(t *testing.T) {
	rom := make([]uint8, 0x4000)
	rom[0] = 0xAA
	rom[0x3FFF] = 0xBB
	bank := NewPRGBank(rom, nil)
	if got := bank.Read(0x0000); got != 0xAA {
		t.Fatalf("Read(0x0000) = %.2X, want AA", got)
	}
	if got := bank.Read(0x4000); got != 0xAA {
		t.Fatalf("Read(0x4000) = %.2X, want AA (mirrored)", got)
	}
	if got := bank.Read(0x7FFF); got != 0xBB {
		t.Fatalf("Read(0x7FFF) = %.2X, want BB (mirrored)", got)
	}
}

func TestNewPRGBank32KiBIsNotMirrored(t *testing.T) {
	rom := make([]uint8, 0x8000)
	rom[0] = 0x11
	rom[0x4000] = 0x22
	bank := NewPRGBank(rom, nil)
	if got := bank.Read(0x0000); got != 0x11 {
		t.Fatalf("Read(0x0000) = %.2X, want 11", got)
	}
	if got := bank.Read(0x4000); got != 0x22 {
		t.Fatalf("Read(0x4000) = %.2X, want 22 (not mirrored)", got)
	}
}

func TestPRGBankWritesAreNoOps(t *testing.T) {
	rom := []uint8{0x42}
	bank := NewPRGBank(rom, nil)
	bank.Write(0, 0xFF)
	if got := bank.Read(0); got != 0x42 {
		t.Fatalf("Read(0) after write = %.2X, want unchanged 42", got)
	}
}

func TestBusRAMMirroring(t *testing.T) {
	bus, err := NewBus(nil)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	bus.Write(0x0010, 0x77)
	for _, mirror := range []uint16{0x0010, 0x0810, 0x1010, 0x1810} {
		if got := bus.Read(mirror); got != 0x77 {
			t.Fatalf("Read(%.4X) = %.2X, want 77 (RAM mirror)", mirror, got)
		}
	}
}

func TestBusPRGMapping(t *testing.T) {
	prg := make([]uint8, 0x4000)
	prg[0] = 0x01
	prg[0x3FFF] = 0x02
	bus, err := NewBus(prg)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	if got := bus.Read(0x8000); got != 0x01 {
		t.Fatalf("Read(0x8000) = %.2X, want 01", got)
	}
	if got := bus.Read(0xFFFF); got != 0x02 {
		t.Fatalf("Read(0xFFFF) = %.2X, want 02 (mirrored into $C000-$FFFF)", got)
	}
}

func TestBusUnmappedRegionReadsFF(t *testing.T) {
	bus, err := NewBus(nil)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	if got := bus.Read(0x4000); got != 0xFF {
		t.Fatalf("Read(0x4000) = %.2X, want FF", got)
	}
}

func TestBusWritesOutsideRAMAreDropped(t *testing.T) {
	prg := make([]uint8, 0x4000)
	bus, err := NewBus(prg)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	bus.Write(0x8000, 0x99)
	if got := bus.Read(0x8000); got != 0x00 {
		t.Fatalf("Read(0x8000) after write = %.2X, want unchanged 00", got)
	}
}

func TestWrapZP(t *testing.T) {
	cases := []struct {
		in   uint8
		want uint16
	}{
		{0x00, 0x00},
		{0xFF, 0xFF},
		{0x80, 0x80},
	}
	for _, tc := range cases {
		if got := WrapZP(tc.in); got != tc.want {
			t.Fatalf("WrapZP(%.2X) = %.4X, want %.4X", tc.in, got, tc.want)
		}
	}
}
