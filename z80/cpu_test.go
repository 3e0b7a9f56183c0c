package z80

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/cpirich/retrocore/io"
	"github.com/cpirich/retrocore/memory"
)

func newChip(t *testing.T, program ...uint8) (*Chip, *memory.RAM) {
	t.Helper()
	ram := memory.NewFlat64K()
	ram.PowerOn()
	ram.LoadAt(0, program)
	c := New(ram, io.NullBus{})
	c.Reset()
	c.PC = 0
	return c, ram
}

func TestResetState(t *testing.T) {
	c, _ := newChip(t)
	if c.A != 0xFF || c.F != 0xFF {
		t.Fatalf("A/F = %#x/%#x, want $FF/$FF", c.A, c.F)
	}
	if c.bc() != 0xFFFF || c.SP != 0xFFFF || c.IX != 0xFFFF || c.IY != 0xFFFF {
		t.Fatalf("16-bit regs not all $FFFF after reset")
	}
	if c.IFF1 || c.IFF2 || c.IM != 0 {
		t.Fatalf("interrupts should start disabled, IM0")
	}
}

func TestLDAndADD(t *testing.T) {
	// LD B,$10 ; LD A,$20 ; ADD A,B
	c, _ := newChip(t, 0x06, 0x10, 0x3E, 0x20, 0x80)
	c.Step()
	c.Step()
	c.Step()
	if c.A != 0x30 {
		t.Fatalf("A = %#x, want $30", c.A)
	}
	if c.flag(FlagC) || c.flag(FlagZ) {
		t.Fatalf("unexpected flags: %#x", c.F)
	}
}

func TestJRTaken(t *testing.T) {
	// JR +5
	c, _ := newChip(t, 0x18, 0x05)
	c.Step()
	if c.PC != 0x0007 {
		t.Fatalf("PC = %#x, want $0007", c.PC)
	}
}

func TestDJNZLoop(t *testing.T) {
	// LD B,$03 ; loop: DJNZ loop
	c, _ := newChip(t, 0x06, 0x03, 0x10, 0xFE)
	c.Step() // LD B,3
	for i := 0; i < 2; i++ {
		c.Step() // DJNZ taken twice
	}
	if c.B != 1 {
		t.Fatalf("B = %d, want 1 after two taken branches", c.B)
	}
	c.Step() // final DJNZ, B->0, not taken
	if c.B != 0 {
		t.Fatalf("B = %d, want 0", c.B)
	}
	if c.PC != 4 {
		t.Fatalf("PC = %#x, want 4 (fell through)", c.PC)
	}
}

func TestIXDisplacementLoadStore(t *testing.T) {
	// LD IX,$2000 ; LD (IX+2),$42 ; LD A,(IX+2)
	c, _ := newChip(t, 0xDD, 0x21, 0x00, 0x20, 0xDD, 0x36, 0x02, 0x42, 0xDD, 0x7E, 0x02)
	c.Step()
	if c.IX != 0x2000 {
		t.Fatalf("IX = %#x, want $2000", c.IX)
	}
	c.Step()
	c.Step()
	if c.A != 0x42 {
		t.Fatalf("A = %#x, want $42", c.A)
	}
}

func TestPushPopAFMasking(t *testing.T) {
	// PUSH AF ; POP AF round-trips all 8 F bits (no forced bits on Z80).
	c, _ := newChip(t, 0xF5, 0xF1)
	c.SP = 0x2000
	c.A = 0x81
	c.F = 0x55
	c.Step()
	c.A, c.F = 0, 0
	c.Step()
	if c.A != 0x81 || c.F != 0x55 {
		t.Fatalf("A/F after PUSH/POP AF = %#x/%#x, want $81/$55", c.A, c.F)
	}
}

func TestHaltAndNMI(t *testing.T) {
	c, _ := newChip(t, 0x76) // HALT
	c.SP = 0x2000
	c.Step()
	if !c.Halted() {
		t.Fatalf("expected halted")
	}
	if n := c.Step(); n != 4 {
		t.Fatalf("halted step should cost 4 cycles, got %d", n)
	}
	c.NMI()
	if c.Halted() {
		t.Fatalf("NMI should clear halted")
	}
	if c.PC != 0x0066 {
		t.Fatalf("PC after NMI = %#x, want $0066, state: %s", c.PC, spew.Sdump(c))
	}
}

func TestEIDelaysOneInstruction(t *testing.T) {
	// EI ; NOP
	c, _ := newChip(t, 0xFB, 0x00)
	c.Step() // EI: IFF1 not yet set
	if c.IFF1 {
		t.Fatalf("IFF1 should not be set immediately after EI")
	}
	c.Step() // NOP: commits the pending EI
	if !c.IFF1 {
		t.Fatalf("IFF1 should be set after the instruction following EI")
	}
}

func TestLDIRCopiesBlock(t *testing.T) {
	prog := []uint8{
		0x21, 0x00, 0x30, // LD HL,$3000
		0x11, 0x00, 0x40, // LD DE,$4000
		0x01, 0x03, 0x00, // LD BC,$0003
		0xED, 0xB0, // LDIR
	}
	c, ram := newChip(t, prog...)
	ram.Write(0x3000, 0xAA)
	ram.Write(0x3001, 0xBB)
	ram.Write(0x3002, 0xCC)
	for i := 0; i < 3; i++ {
		c.Step()
	}
	for c.bc() != 0 {
		c.Step()
	}
	if ram.Read(0x4000) != 0xAA || ram.Read(0x4001) != 0xBB || ram.Read(0x4002) != 0xCC {
		t.Fatalf("LDIR did not copy the expected bytes")
	}
	if c.hl() != 0x3003 || c.de() != 0x4003 {
		t.Fatalf("HL/DE = %#x/%#x after LDIR, want $3003/$4003", c.hl(), c.de())
	}
}

func TestBITInstructionSetsZero(t *testing.T) {
	// LD A,$00 ; BIT 7,A
	c, _ := newChip(t, 0x3E, 0x00, 0xCB, 0x7F)
	c.Step()
	c.Step()
	if !c.flag(FlagZ) {
		t.Fatalf("Z should be set, bit 7 of 0 is clear")
	}
}

func TestExxSwapsShadowSet(t *testing.T) {
	c, _ := newChip(t, 0xD9) // EXX
	c.B, c.C = 0x11, 0x22
	c.B2, c.C2 = 0x33, 0x44
	c.Step()
	if c.B != 0x33 || c.C != 0x44 {
		t.Fatalf("EXX did not swap BC with shadow, got %#x%#x", c.B, c.C)
	}
}
