// Package cpu8080 implements a cycle-approximate Intel 8080 interpreter.
// Decoding follows the well-known octal field split of the opcode byte
// (x = bits 7-6, y = bits 5-3, z = bits 2-0; p = y>>1, q = y&1) which maps
// directly onto the four dispatch groups described in the design: x=0
// miscellaneous, x=1 MOV/HLT, x=2 ALU on register/memory, x=3 stack/
// branch/IO/ALU-immediate.
package cpu8080

import (
	"github.com/cpirich/retrocore/io"
	"github.com/cpirich/retrocore/memory"
)

// Flag bit masks. Bits 1, 3 and 5 of F are forced to 1, 0, 0 respectively
// on every write; AC is the half-carry flag used by DAA.
const (
	FlagCY = uint8(0x01)
	flag1  = uint8(0x02) // always 1
	FlagP  = uint8(0x04)
	flag3  = uint8(0x08) // always 0
	FlagAC = uint8(0x10)
	flag5  = uint8(0x20) // always 0
	FlagZ  = uint8(0x40)
	FlagS  = uint8(0x80)
)

// szpTable precomputes S, Z and P for every possible byte result so ALU
// ops don't recompute parity by hand each time.
var szpTable [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		var f uint8
		if v&0x80 != 0 {
			f |= FlagS
		}
		if v == 0 {
			f |= FlagZ
		}
		bits := 0
		for b := uint8(1); b != 0; b <<= 1 {
			if v&b != 0 {
				bits++
			}
		}
		if bits%2 == 0 {
			f |= FlagP
		}
		szpTable[i] = f
	}
}

func maskF(f uint8) uint8 {
	return (f | flag1) &^ (flag3 | flag5)
}

// Chip is one Intel 8080.
type Chip struct {
	A, B, C, D, E, H, L uint8
	F                   uint8
	SP, PC              uint16

	ie      bool // interrupts enabled
	halted  bool
	cycles  uint64
	mem     memory.Memory
	io      io.Bus
}

// New creates a powered-off Chip. Call Reset before Step.
func New(mem memory.Memory, bus io.Bus) *Chip {
	if bus == nil {
		bus = io.NullBus{}
	}
	return &Chip{mem: mem, io: bus}
}

// Reset zeros all registers, sets F to the always-one bit, disables
// interrupts, and clears halted. PC starts at 0.
func (c *Chip) Reset() {
	c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0
	c.F = flag1
	c.SP, c.PC = 0, 0
	c.ie = false
	c.halted = false
}

// Halted reports whether HLT has been executed and no interrupt has
// since cleared it.
func (c *Chip) Halted() bool { return c.halted }

// Cycles returns the total consumed cycle count.
func (c *Chip) Cycles() uint64 { return c.cycles }

// InterruptsEnabled reports the interrupt-enable latch state (DI/EI).
func (c *Chip) InterruptsEnabled() bool { return c.ie }

// IRQ services an interrupt on vector (0-7, corresponding to RST 0-7) if
// interrupts are enabled: clears the enable latch, pushes PC, and jumps to
// vector<<3. Returns cycles consumed (11) or 0 if masked.
func (c *Chip) IRQ(vector uint8) uint32 {
	if !c.ie {
		return 0
	}
	c.halted = false
	c.ie = false
	c.pushWord(c.PC)
	c.PC = uint16(vector&0x07) << 3
	c.cycles += 11
	return 11
}

// Step decodes and executes one instruction, returning cycles consumed.
// While halted, Step consumes 4 cycles and does not advance PC.
func (c *Chip) Step() uint32 {
	if c.halted {
		c.cycles += 4
		return 4
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

// --- memory/stack helpers ---

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

func (c *Chip) pushByte(v uint8) {
	c.SP--
	c.mem.Write(c.SP, v)
}

func (c *Chip) pullByte() uint8 {
	v := c.mem.Read(c.SP)
	c.SP++
	return v
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

// --- register-pair views ---

func (c *Chip) bc() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *Chip) de() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *Chip) hl() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *Chip) af() uint16 { return uint16(c.A)<<8 | uint16(maskF(c.F)) }

func (c *Chip) setBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *Chip) setDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *Chip) setHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }
func (c *Chip) setAF(v uint16) { c.A, c.F = uint8(v>>8), maskF(uint8(v)) }

// getRP/setRP index the BC,DE,HL,SP quartet used by LXI/INX/DCX/DAD/etc.
func (c *Chip) getRP(p uint8) uint16 {
	switch p {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	default:
		return c.SP
	}
}

func (c *Chip) setRP(p uint8, v uint16) {
	switch p {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.SP = v
	}
}

// getRP2/setRP2 index the BC,DE,HL,AF quartet used by PUSH/POP.
func (c *Chip) getRP2(p uint8) uint16 {
	if p == 3 {
		return c.af()
	}
	return c.getRP(p)
}

func (c *Chip) setRP2(p uint8, v uint16) {
	if p == 3 {
		c.setAF(v)
		return
	}
	c.setRP(p, v)
}

// getReg/setReg index the B,C,D,E,H,L,(HL),A octet used throughout.
func (c *Chip) getReg(z uint8) uint8 {
	switch z {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.mem.Read(c.hl())
	default:
		return c.A
	}
}

func (c *Chip) setReg(z uint8, v uint8) {
	switch z {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.mem.Write(c.hl(), v)
	default:
		c.A = v
	}
}

func (c *Chip) flag(mask uint8) bool { return c.F&mask != 0 }

func (c *Chip) setFlag(mask uint8, v bool) {
	if v {
		c.F |= mask
	} else {
		c.F &^= mask
	}
	c.F = maskF(c.F)
}
