package memory

import "testing"

func TestRAMWrapping(t *testing.T) {
	r, err := NewRAM(256)
	if err != nil {
		t.Fatalf("NewRAM: %v", err)
	}
	r.Write(0x0010, 0x42)
	if got := r.Read(0x0110); got != 0x42 {
		t.Errorf("wrapped read = %#x, want 0x42", got)
	}
}

func TestRAMLoadAt(t *testing.T) {
	r := NewFlat64K()
	r.PowerOn()
	r.LoadAt(0x0100, []uint8{1, 2, 3, 4})
	for i, want := range []uint8{1, 2, 3, 4} {
		if got := r.Read(uint16(0x0100 + i)); got != want {
			t.Errorf("byte %d = %#x, want %#x", i, got, want)
		}
	}
}

func TestROMReadOnly(t *testing.T) {
	rom := NewROM([]uint8{0xAA, 0xBB, 0xCC})
	rom.Write(0, 0x00)
	if got := rom.Read(0); got != 0xAA {
		t.Errorf("ROM write mutated contents: got %#x", got)
	}
	if got := rom.Read(3); got != 0xAA {
		t.Errorf("ROM read past end should wrap to index 0, got %#x", got)
	}
}

func TestRouterMapping(t *testing.T) {
	ram := NewFlat64K()
	ram.PowerOn()
	rom := NewROM([]uint8{0xDE, 0xAD})

	r := NewRouter()
	r.Map(0x0000, 0x8000, ram)
	r.Map(0xF000, 0x1000, rom)

	r.Write(0x1234, 0x55)
	if got := r.Read(0x1234); got != 0x55 {
		t.Errorf("RAM region read = %#x, want 0x55", got)
	}
	if got := r.Read(0xF000); got != 0xDE {
		t.Errorf("ROM region read = %#x, want 0xDE", got)
	}
	// Writes to ROM are discarded.
	r.Write(0xF000, 0x99)
	if got := r.Read(0xF000); got != 0xDE {
		t.Errorf("ROM region mutated via router write: got %#x", got)
	}
	// Unmapped address reads as open bus.
	if got := r.Read(0xE000); got != 0xFF {
		t.Errorf("unmapped read = %#x, want 0xFF", got)
	}
}

func TestRouterOverrideOrder(t *testing.T) {
	rom := NewROM([]uint8{0x11})
	p, _ := NewRAM(1)
	p.PowerOn()
	p.Write(0, 0x77)

	r := NewRouter()
	r.Map(0x0000, 0x10000, rom)
	r.Map(0x2000, 1, p)

	if got := r.Read(0x0000); got != 0x11 {
		t.Errorf("ROM base read = %#x, want 0x11", got)
	}
	if got := r.Read(0x2000); got != 0x77 {
		t.Errorf("narrow override read = %#x, want 0x77", got)
	}
}
