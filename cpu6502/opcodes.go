package cpu6502

// addrMode enumerates the 13 addressing modes from the spec. Relative is
// handled inline by the branch instructions rather than through the
// generic resolvers below since its semantics (signed offset from the
// byte *after* the branch) don't fit the read/write/rmw shape.
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
)

// addr resolves mode to a memory address, reporting whether a page
// boundary was crossed while forming it (relevant only to AbsoluteX,
// AbsoluteY and IndirectY). Immediate/Accumulator/Implicit have no
// address and must not call this.
func (c *Chip) addr(mode addrMode) (uint16, bool) {
	switch mode {
	case modeZeroPage:
		return uint16(c.fetch8()), false
	case modeZeroPageX:
		return uint16(c.fetch8() + c.X), false
	case modeZeroPageY:
		return uint16(c.fetch8() + c.Y), false
	case modeAbsolute:
		return c.fetch16(), false
	case modeAbsoluteX:
		base := c.fetch16()
		a := base + uint16(c.X)
		return a, (base & 0xFF00) != (a & 0xFF00)
	case modeAbsoluteY:
		base := c.fetch16()
		a := base + uint16(c.Y)
		return a, (base & 0xFF00) != (a & 0xFF00)
	case modeIndirectX:
		zp := c.fetch8() + c.X
		return c.readWordZPWrap(zp), false
	case modeIndirectY:
		zp := c.fetch8()
		base := c.readWordZPWrap(zp)
		a := base + uint16(c.Y)
		return a, (base & 0xFF00) != (a & 0xFF00)
	case modeIndirect:
		// JMP (a) only; reproduces the page-boundary bug where the high
		// byte is fetched from the start of the same page, not the next,
		// when the pointer's low byte is $FF.
		ptr := c.fetch16()
		lo := c.mem.Read(ptr)
		hiAddr := ptr + 1
		if ptr&0x00FF == 0x00FF {
			hiAddr = ptr & 0xFF00
		}
		hi := c.mem.Read(hiAddr)
		return uint16(hi)<<8 | uint16(lo), false
	}
	panic("cpu6502: addr called with mode that has no address")
}

// load resolves mode, reads the operand, and returns the value plus the
// cycle penalty (0 or 1) for a page crossing on a *read*.
func (c *Chip) load(mode addrMode) (uint8, int) {
	if mode == modeImmediate {
		return c.fetch8(), 0
	}
	a, crossed := c.addr(mode)
	v := c.mem.Read(a)
	if crossed {
		return v, 1
	}
	return v, 0
}

// store resolves mode and writes val; per spec, writes never get a
// page-cross penalty (the extra read is unconditional and already priced
// into the base cycle count for that opcode).
func (c *Chip) store(mode addrMode, val uint8) {
	a, _ := c.addr(mode)
	c.mem.Write(a, val)
}

// rmw resolves mode and returns the address plus its current value, for
// read-modify-write instructions (INC/DEC/ASL/LSR/ROL/ROR) which always
// pay the unconditional-extra-read cost already folded into their base
// cycle count.
func (c *Chip) rmw(mode addrMode) (uint16, uint8) {
	a, _ := c.addr(mode)
	return a, c.mem.Read(a)
}

// dispatch executes the instruction named by op (the opcode byte, already
// consumed from PC) and returns total cycles consumed including any
// addressing/branch penalty.
func (c *Chip) dispatch(op uint8) uint32 {
	switch op {
	// --- loads/stores ---
	case 0xA9:
		return c.opLoad(&c.A, modeImmediate, 2)
	case 0xA5:
		return c.opLoad(&c.A, modeZeroPage, 3)
	case 0xB5:
		return c.opLoad(&c.A, modeZeroPageX, 4)
	case 0xAD:
		return c.opLoad(&c.A, modeAbsolute, 4)
	case 0xBD:
		return c.opLoad(&c.A, modeAbsoluteX, 4)
	case 0xB9:
		return c.opLoad(&c.A, modeAbsoluteY, 4)
	case 0xA1:
		return c.opLoad(&c.A, modeIndirectX, 6)
	case 0xB1:
		return c.opLoad(&c.A, modeIndirectY, 5)

	case 0xA2:
		return c.opLoad(&c.X, modeImmediate, 2)
	case 0xA6:
		return c.opLoad(&c.X, modeZeroPage, 3)
	case 0xB6:
		return c.opLoad(&c.X, modeZeroPageY, 4)
	case 0xAE:
		return c.opLoad(&c.X, modeAbsolute, 4)
	case 0xBE:
		return c.opLoad(&c.X, modeAbsoluteY, 4)

	case 0xA0:
		return c.opLoad(&c.Y, modeImmediate, 2)
	case 0xA4:
		return c.opLoad(&c.Y, modeZeroPage, 3)
	case 0xB4:
		return c.opLoad(&c.Y, modeZeroPageX, 4)
	case 0xAC:
		return c.opLoad(&c.Y, modeAbsolute, 4)
	case 0xBC:
		return c.opLoad(&c.Y, modeAbsoluteX, 4)

	case 0x85:
		return c.opStore(c.A, modeZeroPage, 3)
	case 0x95:
		return c.opStore(c.A, modeZeroPageX, 4)
	case 0x8D:
		return c.opStore(c.A, modeAbsolute, 4)
	case 0x9D:
		return c.opStore(c.A, modeAbsoluteX, 5)
	case 0x99:
		return c.opStore(c.A, modeAbsoluteY, 5)
	case 0x81:
		return c.opStore(c.A, modeIndirectX, 6)
	case 0x91:
		return c.opStore(c.A, modeIndirectY, 6)

	case 0x86:
		return c.opStore(c.X, modeZeroPage, 3)
	case 0x96:
		return c.opStore(c.X, modeZeroPageY, 4)
	case 0x8E:
		return c.opStore(c.X, modeAbsolute, 4)

	case 0x84:
		return c.opStore(c.Y, modeZeroPage, 3)
	case 0x94:
		return c.opStore(c.Y, modeZeroPageX, 4)
	case 0x8C:
		return c.opStore(c.Y, modeAbsolute, 4)

	// --- transfers ---
	case 0xAA: // TAX
		c.X = c.A
		c.setZN(c.X)
		return 2
	case 0xA8: // TAY
		c.Y = c.A
		c.setZN(c.Y)
		return 2
	case 0xBA: // TSX
		c.X = c.S
		c.setZN(c.X)
		return 2
	case 0x8A: // TXA
		c.A = c.X
		c.setZN(c.A)
		return 2
	case 0x9A: // TXS (flags unaffected)
		c.S = c.X
		return 2
	case 0x98: // TYA
		c.A = c.Y
		c.setZN(c.A)
		return 2

	// --- stack ---
	case 0x48: // PHA
		c.pushByte(c.A)
		return 3
	case 0x08: // PHP — pushed copy always has B=1, U=1 regardless of live status.
		c.pushByte(c.P | FlagB | FlagU)
		return 3
	case 0x68: // PLA
		c.A = c.pullByte()
		c.setZN(c.A)
		return 4
	case 0x28: // PLP — U forced 1, B discarded (not part of the live register).
		c.P = (c.pullByte() &^ FlagB) | FlagU
		return 4

	// --- ALU: ADC/SBC ---
	case 0x69:
		return c.opALU(c.adc, modeImmediate, 2)
	case 0x65:
		return c.opALU(c.adc, modeZeroPage, 3)
	case 0x75:
		return c.opALU(c.adc, modeZeroPageX, 4)
	case 0x6D:
		return c.opALU(c.adc, modeAbsolute, 4)
	case 0x7D:
		return c.opALU(c.adc, modeAbsoluteX, 4)
	case 0x79:
		return c.opALU(c.adc, modeAbsoluteY, 4)
	case 0x61:
		return c.opALU(c.adc, modeIndirectX, 6)
	case 0x71:
		return c.opALU(c.adc, modeIndirectY, 5)

	case 0xE9:
		return c.opALU(c.sbc, modeImmediate, 2)
	case 0xE5:
		return c.opALU(c.sbc, modeZeroPage, 3)
	case 0xF5:
		return c.opALU(c.sbc, modeZeroPageX, 4)
	case 0xED:
		return c.opALU(c.sbc, modeAbsolute, 4)
	case 0xFD:
		return c.opALU(c.sbc, modeAbsoluteX, 4)
	case 0xF9:
		return c.opALU(c.sbc, modeAbsoluteY, 4)
	case 0xE1:
		return c.opALU(c.sbc, modeIndirectX, 6)
	case 0xF1:
		return c.opALU(c.sbc, modeIndirectY, 5)

	// --- ALU: AND/ORA/EOR ---
	case 0x29:
		return c.opALU(c.and, modeImmediate, 2)
	case 0x25:
		return c.opALU(c.and, modeZeroPage, 3)
	case 0x35:
		return c.opALU(c.and, modeZeroPageX, 4)
	case 0x2D:
		return c.opALU(c.and, modeAbsolute, 4)
	case 0x3D:
		return c.opALU(c.and, modeAbsoluteX, 4)
	case 0x39:
		return c.opALU(c.and, modeAbsoluteY, 4)
	case 0x21:
		return c.opALU(c.and, modeIndirectX, 6)
	case 0x31:
		return c.opALU(c.and, modeIndirectY, 5)

	case 0x09:
		return c.opALU(c.ora, modeImmediate, 2)
	case 0x05:
		return c.opALU(c.ora, modeZeroPage, 3)
	case 0x15:
		return c.opALU(c.ora, modeZeroPageX, 4)
	case 0x0D:
		return c.opALU(c.ora, modeAbsolute, 4)
	case 0x1D:
		return c.opALU(c.ora, modeAbsoluteX, 4)
	case 0x19:
		return c.opALU(c.ora, modeAbsoluteY, 4)
	case 0x01:
		return c.opALU(c.ora, modeIndirectX, 6)
	case 0x11:
		return c.opALU(c.ora, modeIndirectY, 5)

	case 0x49:
		return c.opALU(c.eor, modeImmediate, 2)
	case 0x45:
		return c.opALU(c.eor, modeZeroPage, 3)
	case 0x55:
		return c.opALU(c.eor, modeZeroPageX, 4)
	case 0x4D:
		return c.opALU(c.eor, modeAbsolute, 4)
	case 0x5D:
		return c.opALU(c.eor, modeAbsoluteX, 4)
	case 0x59:
		return c.opALU(c.eor, modeAbsoluteY, 4)
	case 0x41:
		return c.opALU(c.eor, modeIndirectX, 6)
	case 0x51:
		return c.opALU(c.eor, modeIndirectY, 5)

	// --- compares ---
	case 0xC9:
		return c.opCompare(c.A, modeImmediate, 2)
	case 0xC5:
		return c.opCompare(c.A, modeZeroPage, 3)
	case 0xD5:
		return c.opCompare(c.A, modeZeroPageX, 4)
	case 0xCD:
		return c.opCompare(c.A, modeAbsolute, 4)
	case 0xDD:
		return c.opCompare(c.A, modeAbsoluteX, 4)
	case 0xD9:
		return c.opCompare(c.A, modeAbsoluteY, 4)
	case 0xC1:
		return c.opCompare(c.A, modeIndirectX, 6)
	case 0xD1:
		return c.opCompare(c.A, modeIndirectY, 5)

	case 0xE0:
		return c.opCompare(c.X, modeImmediate, 2)
	case 0xE4:
		return c.opCompare(c.X, modeZeroPage, 3)
	case 0xEC:
		return c.opCompare(c.X, modeAbsolute, 4)

	case 0xC0:
		return c.opCompare(c.Y, modeImmediate, 2)
	case 0xC4:
		return c.opCompare(c.Y, modeZeroPage, 3)
	case 0xCC:
		return c.opCompare(c.Y, modeAbsolute, 4)

	// --- BIT ---
	case 0x24:
		return c.opBit(modeZeroPage, 3)
	case 0x2C:
		return c.opBit(modeAbsolute, 4)

	// --- increments/decrements (register) ---
	case 0xE8:
		c.X++
		c.setZN(c.X)
		return 2
	case 0xC8:
		c.Y++
		c.setZN(c.Y)
		return 2
	case 0xCA:
		c.X--
		c.setZN(c.X)
		return 2
	case 0x88:
		c.Y--
		c.setZN(c.Y)
		return 2

	// --- increments/decrements/shifts (memory, RMW) ---
	case 0xE6:
		return c.opRMW(c.incOp, modeZeroPage, 5)
	case 0xF6:
		return c.opRMW(c.incOp, modeZeroPageX, 6)
	case 0xEE:
		return c.opRMW(c.incOp, modeAbsolute, 6)
	case 0xFE:
		return c.opRMW(c.incOp, modeAbsoluteX, 7)

	case 0xC6:
		return c.opRMW(c.decOp, modeZeroPage, 5)
	case 0xD6:
		return c.opRMW(c.decOp, modeZeroPageX, 6)
	case 0xCE:
		return c.opRMW(c.decOp, modeAbsolute, 6)
	case 0xDE:
		return c.opRMW(c.decOp, modeAbsoluteX, 7)

	case 0x0A:
		c.A = c.aslVal(c.A)
		return 2
	case 0x06:
		return c.opRMW(c.aslOp, modeZeroPage, 5)
	case 0x16:
		return c.opRMW(c.aslOp, modeZeroPageX, 6)
	case 0x0E:
		return c.opRMW(c.aslOp, modeAbsolute, 6)
	case 0x1E:
		return c.opRMW(c.aslOp, modeAbsoluteX, 7)

	case 0x4A:
		c.A = c.lsrVal(c.A)
		return 2
	case 0x46:
		return c.opRMW(c.lsrOp, modeZeroPage, 5)
	case 0x56:
		return c.opRMW(c.lsrOp, modeZeroPageX, 6)
	case 0x4E:
		return c.opRMW(c.lsrOp, modeAbsolute, 6)
	case 0x5E:
		return c.opRMW(c.lsrOp, modeAbsoluteX, 7)

	case 0x2A:
		c.A = c.rolVal(c.A)
		return 2
	case 0x26:
		return c.opRMW(c.rolOp, modeZeroPage, 5)
	case 0x36:
		return c.opRMW(c.rolOp, modeZeroPageX, 6)
	case 0x2E:
		return c.opRMW(c.rolOp, modeAbsolute, 6)
	case 0x3E:
		return c.opRMW(c.rolOp, modeAbsoluteX, 7)

	case 0x6A:
		c.A = c.rorVal(c.A)
		return 2
	case 0x66:
		return c.opRMW(c.rorOp, modeZeroPage, 5)
	case 0x76:
		return c.opRMW(c.rorOp, modeZeroPageX, 6)
	case 0x6E:
		return c.opRMW(c.rorOp, modeAbsolute, 6)
	case 0x7E:
		return c.opRMW(c.rorOp, modeAbsoluteX, 7)

	// --- flags ---
	case 0x18:
		c.setFlag(FlagC, false)
		return 2
	case 0x38:
		c.setFlag(FlagC, true)
		return 2
	case 0x58:
		c.setFlag(FlagI, false)
		return 2
	case 0x78:
		c.setFlag(FlagI, true)
		return 2
	case 0xB8:
		c.setFlag(FlagV, false)
		return 2
	case 0xD8:
		c.setFlag(FlagD, false)
		return 2
	case 0xF8:
		c.setFlag(FlagD, true)
		return 2

	// --- branches ---
	case 0x90:
		return c.branch(!c.flag(FlagC))
	case 0xB0:
		return c.branch(c.flag(FlagC))
	case 0xF0:
		return c.branch(c.flag(FlagZ))
	case 0xD0:
		return c.branch(!c.flag(FlagZ))
	case 0x10:
		return c.branch(!c.flag(FlagN))
	case 0x30:
		return c.branch(c.flag(FlagN))
	case 0x50:
		return c.branch(!c.flag(FlagV))
	case 0x70:
		return c.branch(c.flag(FlagV))

	// --- jumps/calls ---
	case 0x4C:
		c.PC, _ = c.addr(modeAbsolute)
		return 3
	case 0x6C:
		c.PC, _ = c.addr(modeIndirect)
		return 5
	case 0x20: // JSR
		target, _ := c.addr(modeAbsolute)
		c.pushWord(c.PC - 1)
		c.PC = target
		return 6
	case 0x60: // RTS
		c.PC = c.pullWord() + 1
		return 6
	case 0x40: // RTI
		c.P = (c.pullByte() &^ FlagB) | FlagU
		c.PC = c.pullWord()
		return 6
	case 0x00: // BRK
		c.PC++ // skip the padding byte after the opcode
		c.pushWord(c.PC)
		c.pushByte(c.P | FlagB | FlagU)
		c.P |= FlagI
		c.PC = c.readWord(IRQVector)
		return 7

	case 0xEA: // NOP
		return 2
	}

	// Undocumented opcode: out of scope per spec. Treat as a documented
	// single-byte NOP so a stray illegal byte doesn't stall emulation.
	return 2
}

// opLoad loads dst from mode and updates Z/N.
func (c *Chip) opLoad(dst *uint8, mode addrMode, base int) uint32 {
	v, extra := c.load(mode)
	*dst = v
	c.setZN(*dst)
	return uint32(base + extra)
}

func (c *Chip) opStore(val uint8, mode addrMode, base int) uint32 {
	c.store(mode, val)
	return uint32(base)
}

func (c *Chip) opALU(fn func(uint8), mode addrMode, base int) uint32 {
	v, extra := c.load(mode)
	fn(v)
	return uint32(base + extra)
}

func (c *Chip) opCompare(reg uint8, mode addrMode, base int) uint32 {
	v, extra := c.load(mode)
	c.compare(reg, v)
	return uint32(base + extra)
}

func (c *Chip) opBit(mode addrMode, base int) uint32 {
	v, _ := c.load(mode)
	c.setFlag(FlagZ, c.A&v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
	c.setFlag(FlagV, v&0x40 != 0)
	return uint32(base)
}

func (c *Chip) opRMW(fn func(uint8) uint8, mode addrMode, base int) uint32 {
	a, v := c.rmw(mode)
	c.mem.Write(a, fn(v))
	return uint32(base)
}

// --- ALU implementations ---

func (c *Chip) and(v uint8) { c.A &= v; c.setZN(c.A) }
func (c *Chip) ora(v uint8) { c.A |= v; c.setZN(c.A) }
func (c *Chip) eor(v uint8) { c.A ^= v; c.setZN(c.A) }

// adc implements ADC including NMOS decimal-mode behavior (Klaus Dormann
// expects NMOS: Z from the binary low byte, N/V from the BCD intermediate
// (low nibble adjusted, high nibble not yet), C from the BCD carry).
func (c *Chip) adc(v uint8) {
	carryIn := uint16(0)
	if c.flag(FlagC) {
		carryIn = 1
	}
	binSum := uint16(c.A) + uint16(v) + carryIn

	if !c.flag(FlagD) {
		c.setFlag(FlagV, (^(uint16(c.A)^uint16(v)))&(uint16(c.A)^binSum)&0x80 != 0)
		c.setFlag(FlagC, binSum > 0xFF)
		c.A = uint8(binSum)
		c.setZN(c.A)
		return
	}

	// Decimal mode: Z from binary result's low byte, N/V from the BCD
	// intermediate, C from the BCD carry.
	binResult := uint8(binSum)
	c.setFlag(FlagZ, binResult == 0)

	lo := (c.A & 0x0F) + (v & 0x0F) + uint8(carryIn)
	hi := uint16(c.A&0xF0) + uint16(v&0xF0)
	if lo > 9 {
		hi += 0x10
		lo += 6
	}
	bcdInterim := uint8(hi&0xF0) | (lo & 0x0F)
	c.setFlag(FlagN, bcdInterim&0x80 != 0)
	c.setFlag(FlagV, (^(uint16(c.A)^uint16(v)))&(uint16(c.A)^uint16(bcdInterim))&0x80 != 0)
	if hi > 0x90 {
		hi += 0x60
	}
	c.setFlag(FlagC, hi > 0xFF)
	c.A = uint8(hi&0xF0) | (lo & 0x0F)
}

// sbc implements SBC including NMOS decimal-mode behavior (N, V, Z and C
// all reflect the binary result even in decimal mode; only the stored
// digits differ).
func (c *Chip) sbc(v uint8) {
	borrowIn := uint16(0)
	if !c.flag(FlagC) {
		borrowIn = 1
	}
	binDiff := uint16(c.A) - uint16(v) - borrowIn

	c.setFlag(FlagV, (uint16(c.A)^uint16(v))&(uint16(c.A)^binDiff)&0x80 != 0)
	c.setFlag(FlagC, binDiff < 0x100)
	binResult := uint8(binDiff)

	if !c.flag(FlagD) {
		c.A = binResult
		c.setZN(c.A)
		return
	}

	c.setZN(binResult)

	lo := int(c.A&0x0F) - int(v&0x0F) - int(borrowIn)
	hi := int(c.A&0xF0) - int(v&0xF0)
	if lo < 0 {
		lo -= 6
		hi -= 0x10
	}
	if hi < 0 {
		hi -= 0x60
	}
	c.A = uint8(hi&0xF0) | uint8(lo&0x0F)
}

func (c *Chip) compare(reg, v uint8) {
	c.setFlag(FlagC, reg >= v)
	c.setZN(reg - v)
}

func (c *Chip) incOp(v uint8) uint8 { v++; c.setZN(v); return v }
func (c *Chip) decOp(v uint8) uint8 { v--; c.setZN(v); return v }

func (c *Chip) aslVal(v uint8) uint8 {
	c.setFlag(FlagC, v&0x80 != 0)
	v <<= 1
	c.setZN(v)
	return v
}
func (c *Chip) aslOp(v uint8) uint8 { return c.aslVal(v) }

func (c *Chip) lsrVal(v uint8) uint8 {
	c.setFlag(FlagC, v&0x01 != 0)
	v >>= 1
	c.setZN(v)
	return v
}
func (c *Chip) lsrOp(v uint8) uint8 { return c.lsrVal(v) }

func (c *Chip) rolVal(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 1
	}
	c.setFlag(FlagC, v&0x80 != 0)
	v = (v << 1) | carryIn
	c.setZN(v)
	return v
}
func (c *Chip) rolOp(v uint8) uint8 { return c.rolVal(v) }

func (c *Chip) rorVal(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 0x80
	}
	c.setFlag(FlagC, v&0x01 != 0)
	v = (v >> 1) | carryIn
	c.setZN(v)
	return v
}
func (c *Chip) rorOp(v uint8) uint8 { return c.rorVal(v) }

// branch implements the 8 conditional branches: base cost 2, +1 if taken,
// +1 more if the branch crosses a page boundary.
func (c *Chip) branch(taken bool) uint32 {
	offset := int8(c.fetch8())
	if !taken {
		return 2
	}
	old := c.PC
	c.PC = uint16(int32(c.PC) + int32(offset))
	cycles := uint32(3)
	if (old & 0xFF00) != (c.PC & 0xFF00) {
		cycles++
	}
	return cycles
}
