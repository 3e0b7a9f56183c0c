package cpu6502

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/cpirich/retrocore/memory"
)

func newTestChip(t *testing.T) (*Chip, *memory.RAM) {
	t.Helper()
	ram := memory.NewFlat64K()
	ram.PowerOn()
	ram.Write(ResetVector, 0x00)
	ram.Write(ResetVector+1, 0x80)
	c := New(ram, nil, nil)
	c.Reset()
	return c, ram
}

func TestResetVectorsPC(t *testing.T) {
	c, _ := newTestChip(t)
	if c.PC != 0x8000 {
		t.Fatalf("PC after reset = %#x, want 0x8000", c.PC)
	}
	if c.S != 0xFD {
		t.Fatalf("S after reset = %#x, want 0xFD", c.S)
	}
	if c.P&FlagI == 0 {
		t.Fatalf("I flag should be set after reset")
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, ram := newTestChip(t)
	ram.Write(0x8000, 0xA9) // LDA #$00
	ram.Write(0x8001, 0x00)
	cycles := c.Step()
	if cycles != 2 {
		t.Errorf("cycles = %d, want 2", cycles)
	}
	if c.A != 0 {
		t.Errorf("A = %#x, want 0", c.A)
	}
	if c.P&FlagZ == 0 {
		t.Errorf("Z flag should be set for LDA #0")
	}
}

func TestAbsoluteXPageCrossPenalty(t *testing.T) {
	c, ram := newTestChip(t)
	ram.Write(0x8000, 0xBD) // LDA $80FF,X
	ram.Write(0x8001, 0xFF)
	ram.Write(0x8002, 0x80)
	c.X = 1 // crosses into $8100
	ram.Write(0x8100, 0x42)
	cycles := c.Step()
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5 (4 base + 1 page cross)", cycles)
	}
	if c.A != 0x42 {
		t.Errorf("A = %#x, want 0x42", c.A)
	}
}

func TestPHPSetsBreakAndUnused(t *testing.T) {
	c, ram := newTestChip(t)
	c.P = FlagU // clear everything else, including B
	ram.Write(0x8000, 0x08) // PHP
	c.Step()
	pushed := ram.Read(0x0100 + uint16(c.S) + 1)
	if pushed&FlagB == 0 {
		t.Errorf("pushed status missing B: %#x", pushed)
	}
	if pushed&FlagU == 0 {
		t.Errorf("pushed status missing U: %#x", pushed)
	}
}

func TestJMPIndirectPageBoundaryBug(t *testing.T) {
	c, ram := newTestChip(t)
	ram.Write(0x8000, 0x6C) // JMP ($30FF)
	ram.Write(0x8001, 0xFF)
	ram.Write(0x8002, 0x30)
	ram.Write(0x30FF, 0x80)
	ram.Write(0x3000, 0x12) // buggy high byte source: $3000, not $3100
	ram.Write(0x3100, 0x99) // if the bug were absent, this would be used
	c.Step()
	if c.PC != 0x1280 {
		t.Fatalf("PC = %#x, want 0x1280 (bug wraps high byte fetch to $3000), state: %s", c.PC, spew.Sdump(c))
	}
}

func TestBITFlags(t *testing.T) {
	c, ram := newTestChip(t)
	c.A = 0x0F
	ram.Write(0x8000, 0x24) // BIT $10
	ram.Write(0x8001, 0x10)
	ram.Write(0x0010, 0xC0) // bits 7,6 set, rest clear -> A&M == 0
	c.Step()
	if c.P&FlagZ == 0 {
		t.Errorf("Z should be set (A & M == 0)")
	}
	if c.P&FlagN == 0 {
		t.Errorf("N should mirror bit 7 of M")
	}
	if c.P&FlagV == 0 {
		t.Errorf("V should mirror bit 6 of M")
	}
}

func TestCompareFlags(t *testing.T) {
	c, ram := newTestChip(t)
	c.A = 0x10
	ram.Write(0x8000, 0xC9) // CMP #$10
	ram.Write(0x8001, 0x10)
	c.Step()
	if c.P&FlagC == 0 {
		t.Errorf("C should be set when A >= M")
	}
	if c.P&FlagZ == 0 {
		t.Errorf("Z should be set when A == M")
	}
}

func TestADCDecimalMode(t *testing.T) {
	c, ram := newTestChip(t)
	c.P |= FlagD
	c.A = 0x58
	ram.Write(0x8000, 0x69) // ADC #$46 (decimal 58+46 = 104 -> BCD 0x04, C=1)
	ram.Write(0x8001, 0x46)
	c.Step()
	if c.A != 0x04 {
		t.Errorf("A = %#x, want 0x04 (58+46=104 BCD)", c.A)
	}
	if c.P&FlagC == 0 {
		t.Errorf("C should be set on BCD carry")
	}
}

func TestSBCDecimalMode(t *testing.T) {
	c, ram := newTestChip(t)
	c.P |= FlagD | FlagC // C set means no borrow going in
	c.A = 0x46
	ram.Write(0x8000, 0xE9) // SBC #$12 -> 46-12=34 BCD
	ram.Write(0x8001, 0x12)
	c.Step()
	if c.A != 0x34 {
		t.Errorf("A = %#x, want 0x34", c.A)
	}
	if c.P&FlagC == 0 {
		t.Errorf("C should remain set (no borrow)")
	}
}

func TestBranchTakenPageCross(t *testing.T) {
	c, ram := newTestChip(t)
	c.PC = 0x80F0
	ram.Write(0x80F0, 0xF0) // BEQ +offset crossing to next page
	ram.Write(0x80F1, 0x20) // +32 -> 0x80F2+0x20 = 0x8112, crosses page
	c.P |= FlagZ
	cycles := c.Step()
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4 (2 base + taken + page cross)", cycles)
	}
	if c.PC != 0x8112 {
		t.Errorf("PC = %#x, want 0x8112", c.PC)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, ram := newTestChip(t)
	ram.Write(0x8000, 0x20) // JSR $9000
	ram.Write(0x8001, 0x00)
	ram.Write(0x8002, 0x90)
	ram.Write(0x9000, 0x60) // RTS
	c.Step()
	if c.PC != 0x9000 {
		t.Fatalf("PC after JSR = %#x, want 0x9000", c.PC)
	}
	c.Step()
	if c.PC != 0x8003 {
		t.Fatalf("PC after RTS = %#x, want 0x8003", c.PC)
	}
}

func TestBRKPushesBAndVectorsIRQ(t *testing.T) {
	c, ram := newTestChip(t)
	ram.Write(IRQVector, 0x00)
	ram.Write(IRQVector+1, 0x90)
	ram.Write(0x8000, 0x00) // BRK
	c.Step()
	if c.PC != 0x9000 {
		t.Fatalf("PC after BRK = %#x, want 0x9000, state: %s", c.PC, spew.Sdump(c))
	}
	pushedStatus := ram.Read(0x0100 + uint16(c.S) + 1)
	if pushedStatus&FlagB == 0 {
		t.Errorf("BRK should push status with B=1")
	}
	if c.P&FlagI == 0 {
		t.Errorf("BRK should set I")
	}
}
