// Package disassemble renders one 6502 instruction at a time as text,
// reading straight off whatever memory.Memory backs a running core so the
// CLI's disasm command can show a human the instructions in a program. The
// opcode-to-mnemonic/addressing-mode table below mirrors the decode
// knowledge in cpu6502/opcodes.go's dispatch switch (same opcode bytes,
// same addressing modes) but as a lookup table rather than a switch, since
// a pure decoder has no side effects to sequence and an indexed table is
// the simpler shape for "format this byte, don't execute it".
package disassemble

import (
	"fmt"

	"github.com/cpirich/retrocore/memory"
)

// addrMode enumerates the 6502 addressing modes this table needs to
// format an operand. Named to match cpu6502's own addrMode enum.
type addrMode int

const (
	modeImplicit addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
	modeRelative
)

type instr struct {
	mnemonic string
	mode     addrMode
}

// undocumented is returned for any opcode byte cpu6502's dispatch doesn't
// recognize; the core executes those as a 2-cycle NOP, so the
// disassembly shows the same fallback rather than a fabricated mnemonic.
var undocumented = instr{"???", modeImplicit}

// table mirrors cpu6502/opcodes.go's dispatch switch, opcode for opcode.
var table = [256]instr{
	0xA9: {"LDA", modeImmediate},
	0xA5: {"LDA", modeZeroPage},
	0xB5: {"LDA", modeZeroPageX},
	0xAD: {"LDA", modeAbsolute},
	0xBD: {"LDA", modeAbsoluteX},
	0xB9: {"LDA", modeAbsoluteY},
	0xA1: {"LDA", modeIndirectX},
	0xB1: {"LDA", modeIndirectY},

	0xA2: {"LDX", modeImmediate},
	0xA6: {"LDX", modeZeroPage},
	0xB6: {"LDX", modeZeroPageY},
	0xAE: {"LDX", modeAbsolute},
	0xBE: {"LDX", modeAbsoluteY},

	0xA0: {"LDY", modeImmediate},
	0xA4: {"LDY", modeZeroPage},
	0xB4: {"LDY", modeZeroPageX},
	0xAC: {"LDY", modeAbsolute},
	0xBC: {"LDY", modeAbsoluteX},

	0x85: {"STA", modeZeroPage},
	0x95: {"STA", modeZeroPageX},
	0x8D: {"STA", modeAbsolute},
	0x9D: {"STA", modeAbsoluteX},
	0x99: {"STA", modeAbsoluteY},
	0x81: {"STA", modeIndirectX},
	0x91: {"STA", modeIndirectY},

	0x86: {"STX", modeZeroPage},
	0x96: {"STX", modeZeroPageY},
	0x8E: {"STX", modeAbsolute},

	0x84: {"STY", modeZeroPage},
	0x94: {"STY", modeZeroPageX},
	0x8C: {"STY", modeAbsolute},

	0xAA: {"TAX", modeImplicit},
	0xA8: {"TAY", modeImplicit},
	0xBA: {"TSX", modeImplicit},
	0x8A: {"TXA", modeImplicit},
	0x9A: {"TXS", modeImplicit},
	0x98: {"TYA", modeImplicit},

	0x48: {"PHA", modeImplicit},
	0x08: {"PHP", modeImplicit},
	0x68: {"PLA", modeImplicit},
	0x28: {"PLP", modeImplicit},

	0x69: {"ADC", modeImmediate},
	0x65: {"ADC", modeZeroPage},
	0x75: {"ADC", modeZeroPageX},
	0x6D: {"ADC", modeAbsolute},
	0x7D: {"ADC", modeAbsoluteX},
	0x79: {"ADC", modeAbsoluteY},
	0x61: {"ADC", modeIndirectX},
	0x71: {"ADC", modeIndirectY},

	0xE9: {"SBC", modeImmediate},
	0xE5: {"SBC", modeZeroPage},
	0xF5: {"SBC", modeZeroPageX},
	0xED: {"SBC", modeAbsolute},
	0xFD: {"SBC", modeAbsoluteX},
	0xF9: {"SBC", modeAbsoluteY},
	0xE1: {"SBC", modeIndirectX},
	0xF1: {"SBC", modeIndirectY},

	0x29: {"AND", modeImmediate},
	0x25: {"AND", modeZeroPage},
	0x35: {"AND", modeZeroPageX},
	0x2D: {"AND", modeAbsolute},
	0x3D: {"AND", modeAbsoluteX},
	0x39: {"AND", modeAbsoluteY},
	0x21: {"AND", modeIndirectX},
	0x31: {"AND", modeIndirectY},

	0x09: {"ORA", modeImmediate},
	0x05: {"ORA", modeZeroPage},
	0x15: {"ORA", modeZeroPageX},
	0x0D: {"ORA", modeAbsolute},
	0x1D: {"ORA", modeAbsoluteX},
	0x19: {"ORA", modeAbsoluteY},
	0x01: {"ORA", modeIndirectX},
	0x11: {"ORA", modeIndirectY},

	0x49: {"EOR", modeImmediate},
	0x45: {"EOR", modeZeroPage},
	0x55: {"EOR", modeZeroPageX},
	0x4D: {"EOR", modeAbsolute},
	0x5D: {"EOR", modeAbsoluteX},
	0x59: {"EOR", modeAbsoluteY},
	0x41: {"EOR", modeIndirectX},
	0x51: {"EOR", modeIndirectY},

	0xC9: {"CMP", modeImmediate},
	0xC5: {"CMP", modeZeroPage},
	0xD5: {"CMP", modeZeroPageX},
	0xCD: {"CMP", modeAbsolute},
	0xDD: {"CMP", modeAbsoluteX},
	0xD9: {"CMP", modeAbsoluteY},
	0xC1: {"CMP", modeIndirectX},
	0xD1: {"CMP", modeIndirectY},

	0xE0: {"CPX", modeImmediate},
	0xE4: {"CPX", modeZeroPage},
	0xEC: {"CPX", modeAbsolute},

	0xC0: {"CPY", modeImmediate},
	0xC4: {"CPY", modeZeroPage},
	0xCC: {"CPY", modeAbsolute},

	0x24: {"BIT", modeZeroPage},
	0x2C: {"BIT", modeAbsolute},

	0xE8: {"INX", modeImplicit},
	0xC8: {"INY", modeImplicit},
	0xCA: {"DEX", modeImplicit},
	0x88: {"DEY", modeImplicit},

	0xE6: {"INC", modeZeroPage},
	0xF6: {"INC", modeZeroPageX},
	0xEE: {"INC", modeAbsolute},
	0xFE: {"INC", modeAbsoluteX},

	0xC6: {"DEC", modeZeroPage},
	0xD6: {"DEC", modeZeroPageX},
	0xCE: {"DEC", modeAbsolute},
	0xDE: {"DEC", modeAbsoluteX},

	0x0A: {"ASL", modeAccumulator},
	0x06: {"ASL", modeZeroPage},
	0x16: {"ASL", modeZeroPageX},
	0x0E: {"ASL", modeAbsolute},
	0x1E: {"ASL", modeAbsoluteX},

	0x4A: {"LSR", modeAccumulator},
	0x46: {"LSR", modeZeroPage},
	0x56: {"LSR", modeZeroPageX},
	0x4E: {"LSR", modeAbsolute},
	0x5E: {"LSR", modeAbsoluteX},

	0x2A: {"ROL", modeAccumulator},
	0x26: {"ROL", modeZeroPage},
	0x36: {"ROL", modeZeroPageX},
	0x2E: {"ROL", modeAbsolute},
	0x3E: {"ROL", modeAbsoluteX},

	0x6A: {"ROR", modeAccumulator},
	0x66: {"ROR", modeZeroPage},
	0x76: {"ROR", modeZeroPageX},
	0x6E: {"ROR", modeAbsolute},
	0x7E: {"ROR", modeAbsoluteX},

	0x18: {"CLC", modeImplicit},
	0x38: {"SEC", modeImplicit},
	0x58: {"CLI", modeImplicit},
	0x78: {"SEI", modeImplicit},
	0xB8: {"CLV", modeImplicit},
	0xD8: {"CLD", modeImplicit},
	0xF8: {"SED", modeImplicit},

	0x90: {"BCC", modeRelative},
	0xB0: {"BCS", modeRelative},
	0xF0: {"BEQ", modeRelative},
	0xD0: {"BNE", modeRelative},
	0x10: {"BPL", modeRelative},
	0x30: {"BMI", modeRelative},
	0x50: {"BVC", modeRelative},
	0x70: {"BVS", modeRelative},

	0x4C: {"JMP", modeAbsolute},
	0x6C: {"JMP", modeIndirect},
	0x20: {"JSR", modeAbsolute},
	0x60: {"RTS", modeImplicit},
	0x40: {"RTI", modeImplicit},
	0x00: {"BRK", modeImplicit},

	0xEA: {"NOP", modeImplicit},
}

// operandLen reports how many bytes follow the opcode byte for mode.
func operandLen(mode addrMode) int {
	switch mode {
	case modeImmediate, modeZeroPage, modeZeroPageX, modeZeroPageY,
		modeIndirectX, modeIndirectY, modeRelative:
		return 1
	case modeAbsolute, modeAbsoluteX, modeAbsoluteY, modeIndirect:
		return 2
	default:
		return 0
	}
}

func read16(r memory.Memory, addr uint16) uint16 {
	lo := r.Read(addr)
	hi := r.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Step disassembles the instruction at pc, returning its text and the
// number of bytes it occupies so the caller can advance to the next one.
// This never executes anything — it only reads, so LDA, JMP, LDA in
// memory disassembles as that literal sequence rather than following the
// jump. It reads the opcode at pc plus however many operand bytes follow
// it (none for implied/accumulator modes).
func Step(pc uint16, r memory.Memory) (string, int) {
	op := r.Read(pc)
	in := table[op]
	if in.mnemonic == "" {
		in = undocumented
	}

	length := 1 + operandLen(in.mode)
	if op == 0x00 {
		// BRK's second byte is a padding/signature byte the core skips
		// over (cpu6502 does c.PC++ before pushing), not a real operand.
		length = 2
	}

	var operand string
	switch in.mode {
	case modeAccumulator:
		operand = " A"
	case modeImmediate:
		operand = fmt.Sprintf(" #$%02X", r.Read(pc+1))
	case modeZeroPage:
		operand = fmt.Sprintf(" $%02X", r.Read(pc+1))
	case modeZeroPageX:
		operand = fmt.Sprintf(" $%02X,X", r.Read(pc+1))
	case modeZeroPageY:
		operand = fmt.Sprintf(" $%02X,Y", r.Read(pc+1))
	case modeIndirectX:
		operand = fmt.Sprintf(" ($%02X,X)", r.Read(pc+1))
	case modeIndirectY:
		operand = fmt.Sprintf(" ($%02X),Y", r.Read(pc+1))
	case modeAbsolute:
		operand = fmt.Sprintf(" $%04X", read16(r, pc+1))
	case modeAbsoluteX:
		operand = fmt.Sprintf(" $%04X,X", read16(r, pc+1))
	case modeAbsoluteY:
		operand = fmt.Sprintf(" $%04X,Y", read16(r, pc+1))
	case modeIndirect:
		operand = fmt.Sprintf(" ($%04X)", read16(r, pc+1))
	case modeRelative:
		offset := int8(r.Read(pc + 1))
		target := uint16(int32(pc) + 2 + int32(offset))
		operand = fmt.Sprintf(" $%04X", target)
	}

	return in.mnemonic + operand, length
}
