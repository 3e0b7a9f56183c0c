// Package cpu6502 implements a cycle-approximate MOS 6502 interpreter: one
// Step() call executes exactly one instruction and returns the number of
// clock cycles it consumed (base cost plus page-cross and taken-branch
// penalties). This is deliberately not cycle-exact — there is no
// sub-instruction tick state machine — per the functional-test-oriented
// scope this core targets. Undocumented opcodes are out of scope; any
// opcode not in the documented set behaves as a single-byte, two-cycle NOP
// so that stray illegal bytes in a ROM image don't stall emulation.
package cpu6502

import (
	"fmt"

	"github.com/cpirich/retrocore/memory"
)

// Flag bit masks for the status register. U is always logically 1 in the
// live register; B is only meaningful in a byte pushed to the stack by
// BRK/PHP (or pulled by PLP/RTI, which discard it).
const (
	FlagC = uint8(0x01) // Carry
	FlagZ = uint8(0x02) // Zero
	FlagI = uint8(0x04) // IRQ disable
	FlagD = uint8(0x08) // Decimal mode
	FlagB = uint8(0x10) // Break (push-only)
	FlagU = uint8(0x20) // Unused, always 1
	FlagV = uint8(0x40) // Overflow
	FlagN = uint8(0x80) // Negative
)

// Vector addresses for reset/NMI/IRQ.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// InvalidCPUState reports an internal precondition failure (a bug in this
// package, not something a guest program can trigger).
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("cpu6502: invalid CPU state: %s", e.Reason)
}

// Chip is one MOS 6502. It is bound to a single memory.Memory for its
// entire lifetime; Reset/Step/Run never reassign the bus.
type Chip struct {
	A, X, Y uint8
	S       uint8
	P       uint8
	PC      uint16

	cycles uint64
	halted bool
	mem    memory.Memory
	irq    irqSender
	nmi    irqSender
}

// irqSender is the narrow slice of irq.Sender this package depends on,
// declared locally so cpu6502 doesn't need to import the irq package just
// for one method (both irq.Sender and irq.Line satisfy it structurally).
type irqSender interface {
	Raised() bool
}

// New creates a powered-off Chip bound to mem. Call Reset before Step.
// irqSrc/nmiSrc may be nil if that machine has no such line.
func New(mem memory.Memory, irqSrc, nmiSrc irqSender) *Chip {
	return &Chip{mem: mem, irq: irqSrc, nmi: nmiSrc}
}

// Reset loads SP, P and PC per power-on/reset convention: SP=$FD,
// P=I|U, PC from the reset vector. Cycles are not reset (they are a
// monotone counter for the Chip's lifetime).
func (c *Chip) Reset() {
	c.S = 0xFD
	c.P = FlagI | FlagU
	c.PC = c.readWord(ResetVector)
	c.halted = false
}

// IRQ services a maskable interrupt if I is clear: push PC, push status
// (B=0, U=1), set I, and load PC from the IRQ vector. Returns the cycles
// consumed (7) or 0 if the interrupt was masked.
func (c *Chip) IRQ() uint32 {
	if c.P&FlagI != 0 {
		return 0
	}
	c.pushWord(c.PC)
	c.pushByte((c.P | FlagU) &^ FlagB)
	c.P |= FlagI
	c.PC = c.readWord(IRQVector)
	c.cycles += 7
	return 7
}

// NMI services a non-maskable interrupt unconditionally, same push shape
// as IRQ, vectoring through NMIVector.
func (c *Chip) NMI() uint32 {
	c.pushWord(c.PC)
	c.pushByte((c.P | FlagU) &^ FlagB)
	c.P |= FlagI
	c.PC = c.readWord(NMIVector)
	c.cycles += 7
	return 7
}

// Halted reports whether the CPU has executed a halting illegal opcode.
// Since this core implements only documented opcodes, this is always
// false in practice; the field and accessor exist to satisfy the common
// CPU interface shared with the 8080/Z80 cores.
func (c *Chip) Halted() bool { return c.halted }

// Cycles returns the total cycle count consumed since the Chip was
// created (or since the field was last reset by the embedding harness).
func (c *Chip) Cycles() uint64 { return c.cycles }

// Step executes exactly one instruction (polling for a pending
// interrupt first) and returns the cycles it consumed.
func (c *Chip) Step() uint32 {
	if c.halted {
		return 0
	}
	if c.nmi != nil && c.nmi.Raised() {
		return c.NMI()
	}
	if c.irq != nil && c.irq.Raised() && c.P&FlagI == 0 {
		return c.IRQ()
	}
	op := c.fetch8()
	cycles := c.dispatch(op)
	c.cycles += uint64(cycles)
	return cycles
}

// Run steps the CPU until at least cycleBudget cycles have been consumed
// or the CPU halts, whichever comes first, returning the exact number of
// cycles actually consumed in this call.
func (c *Chip) Run(cycleBudget uint32) uint32 {
	var spent uint32
	for spent < cycleBudget {
		if c.halted {
			break
		}
		spent += c.Step()
	}
	return spent
}

// --- memory helpers ---

func (c *Chip) fetch8() uint8 {
	v := c.mem.Read(c.PC)
	c.PC++
	return v
}

func (c *Chip) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Chip) readWord(addr uint16) uint16 {
	lo := c.mem.Read(addr)
	hi := c.mem.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// readWordZPWrap reads a 16-bit little-endian word from zero page with
// wraparound at the page boundary (used by Indirect,X / Indirect),Y).
func (c *Chip) readWordZPWrap(zp uint8) uint16 {
	lo := c.mem.Read(uint16(zp))
	hi := c.mem.Read(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Chip) pushByte(v uint8) {
	c.mem.Write(0x0100+uint16(c.S), v)
	c.S--
}

func (c *Chip) pullByte() uint8 {
	c.S++
	return c.mem.Read(0x0100 + uint16(c.S))
}

func (c *Chip) pushWord(v uint16) {
	c.pushByte(uint8(v >> 8))
	c.pushByte(uint8(v))
}

func (c *Chip) pullWord() uint16 {
	lo := c.pullByte()
	hi := c.pullByte()
	return uint16(hi)<<8 | uint16(lo)
}

// PushByte/PullByte/PushWord/PullWord are exported for harness use (the
// CP/M and functional-test harnesses synthesize an initial stack frame
// before handing control to the CPU).
func (c *Chip) PushByte(v uint8)   { c.pushByte(v) }
func (c *Chip) PullByte() uint8    { return c.pullByte() }
func (c *Chip) PushWord(v uint16)  { c.pushWord(v) }
func (c *Chip) PullWord() uint16   { return c.pullWord() }

// --- flag helpers ---

func (c *Chip) setZN(v uint8) {
	c.P &^= FlagZ | FlagN
	if v == 0 {
		c.P |= FlagZ
	}
	if v&0x80 != 0 {
		c.P |= FlagN
	}
}

func (c *Chip) flag(mask uint8) bool { return c.P&mask != 0 }

func (c *Chip) setFlag(mask uint8, v bool) {
	if v {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}
