package cpu8080

// condition evaluates cc[y]: NZ,Z,NC,C,PO,PE,P,M.
func (c *Chip) condition(y uint8) bool {
	switch y {
	case 0:
		return !c.flag(FlagZ)
	case 1:
		return c.flag(FlagZ)
	case 2:
		return !c.flag(FlagCY)
	case 3:
		return c.flag(FlagCY)
	case 4:
		return !c.flag(FlagP)
	case 5:
		return c.flag(FlagP)
	case 6:
		return !c.flag(FlagS)
	default:
		return c.flag(FlagS)
	}
}

// dispatch executes the instruction named by op and returns cycles
// consumed. Decoding follows x/y/z/p/q as described in the package doc.
func (c *Chip) dispatch(op uint8) uint32 {
	x := op >> 6
	y := (op >> 3) & 0x07
	z := op & 0x07
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.dispatchX0(y, z, p, q)
	case 1:
		if z == 6 && y == 6 {
			c.halted = true
			return 7
		}
		c.setReg(y, c.getReg(z))
		if y == 6 || z == 6 {
			return 7
		}
		return 5
	case 2:
		v := c.getReg(z)
		c.alu(y, v)
		if z == 6 {
			return 7
		}
		return 4
	default: // x == 3
		return c.dispatchX3(y, z, p, q)
	}
}

func (c *Chip) dispatchX0(y, z, p, q uint8) uint32 {
	switch z {
	case 0:
		// NOP and its seven documented-alias no-op slots ($08,$10,$18,$20,$28,$30,$38).
		return 4
	case 1:
		if q == 0 {
			c.setRP(p, c.fetch16())
			return 10
		}
		c.dad(p)
		return 10
	case 2:
		return c.dispatchIndirectLoadStore(p, q)
	case 3:
		if q == 0 {
			c.setRP(p, c.getRP(p)+1)
		} else {
			c.setRP(p, c.getRP(p)-1)
		}
		return 5
	case 4:
		c.setReg(y, c.inr(c.getReg(y)))
		if y == 6 {
			return 10
		}
		return 5
	case 5:
		c.setReg(y, c.dcr(c.getReg(y)))
		if y == 6 {
			return 10
		}
		return 5
	case 6:
		c.setReg(y, c.fetch8())
		if y == 6 {
			return 10
		}
		return 7
	default: // z == 7
		return c.dispatchRotateMisc(y)
	}
}

func (c *Chip) dispatchIndirectLoadStore(p, q uint8) uint32 {
	switch {
	case p == 0 && q == 0: // STAX B
		c.mem.Write(c.bc(), c.A)
	case p == 0 && q == 1: // LDAX B
		c.A = c.mem.Read(c.bc())
	case p == 1 && q == 0: // STAX D
		c.mem.Write(c.de(), c.A)
	case p == 1 && q == 1: // LDAX D
		c.A = c.mem.Read(c.de())
	case p == 2 && q == 0: // SHLD nn
		a := c.fetch16()
		c.mem.Write(a, c.L)
		c.mem.Write(a+1, c.H)
	case p == 2 && q == 1: // LHLD nn
		a := c.fetch16()
		c.L = c.mem.Read(a)
		c.H = c.mem.Read(a + 1)
	case p == 3 && q == 0: // STA nn
		c.mem.Write(c.fetch16(), c.A)
	default: // p == 3, q == 1: LDA nn
		c.A = c.mem.Read(c.fetch16())
	}
	return 13
}

func (c *Chip) dispatchRotateMisc(y uint8) uint32 {
	switch y {
	case 0:
		c.rlc()
	case 1:
		c.rrc()
	case 2:
		c.ral()
	case 3:
		c.rar()
	case 4:
		c.daa()
	case 5:
		c.A = ^c.A // CMA, flags unaffected
	case 6:
		c.setFlag(FlagCY, true) // STC
	default:
		c.setFlag(FlagCY, !c.flag(FlagCY)) // CMC
	}
	return 4
}

func (c *Chip) dispatchX3(y, z, p, q uint8) uint32 {
	switch z {
	case 0: // conditional RET
		if c.condition(y) {
			c.PC = c.pullWord()
			return 11
		}
		return 5
	case 1:
		if q == 0 {
			c.setRP2(p, c.pullWord())
			return 10
		}
		switch p {
		case 0, 1: // RET ($C9), and its documented alias $D9
			c.PC = c.pullWord()
		case 2: // PCHL
			c.PC = c.hl()
		default: // SPHL
			c.SP = c.hl()
		}
		return 10
	case 2: // conditional JMP
		target := c.fetch16()
		if c.condition(y) {
			c.PC = target
		}
		return 10
	case 3:
		return c.dispatchMiscJump(y)
	case 4: // conditional CALL
		target := c.fetch16()
		if c.condition(y) {
			c.pushWord(c.PC)
			c.PC = target
			return 17
		}
		return 11
	case 5:
		if q == 0 {
			c.pushWord(c.getRP2(p))
			return 11
		}
		// CALL nn ($CD) and its documented aliases ($DD,$ED,$FD).
		target := c.fetch16()
		c.pushWord(c.PC)
		c.PC = target
		return 17
	case 6:
		c.alu(y, c.fetch8())
		return 7
	default: // z == 7: RST y
		c.pushWord(c.PC)
		c.PC = uint16(y) << 3
		return 11
	}
}

func (c *Chip) dispatchMiscJump(y uint8) uint32 {
	switch y {
	case 0: // JMP nn
		c.PC = c.fetch16()
		return 10
	case 1: // documented alias for JMP nn ($CB)
		c.PC = c.fetch16()
		return 10
	case 2: // OUT n
		port := c.fetch8()
		c.io.Out(uint16(port), c.A)
		return 10
	case 3: // IN n
		port := c.fetch8()
		c.A = c.io.In(uint16(port))
		return 10
	case 4: // XTHL
		v := c.mem.Read(c.SP)
		v2 := c.mem.Read(c.SP + 1)
		c.mem.Write(c.SP, c.L)
		c.mem.Write(c.SP+1, c.H)
		c.L, c.H = v, v2
		return 18
	case 5: // XCHG
		c.H, c.L, c.D, c.E = c.D, c.E, c.H, c.L
		return 5
	case 6: // DI
		c.ie = false
		return 4
	default: // EI
		c.ie = true
		return 4
	}
}

// --- ALU dispatch for x=2 and x=3,z=6 ---

func (c *Chip) alu(y uint8, v uint8) {
	switch y {
	case 0:
		c.add(v, false)
	case 1:
		c.add(v, c.flag(FlagCY))
	case 2:
		c.sub(v, false)
	case 3:
		c.sub(v, c.flag(FlagCY))
	case 4:
		c.ana(v)
	case 5:
		c.xra(v)
	case 6:
		c.ora(v)
	default:
		c.cmp(v)
	}
}

func (c *Chip) add(v uint8, withCarry bool) {
	carry := uint16(0)
	if withCarry {
		carry = 1
	}
	res := uint16(c.A) + uint16(v) + carry
	c.setFlag(FlagAC, (c.A&0x0F)+(v&0x0F)+uint8(carry) > 0x0F)
	c.setFlag(FlagCY, res > 0xFF)
	c.A = uint8(res)
	c.setSZP(c.A)
}

func (c *Chip) sub(v uint8, withBorrow bool) {
	borrow := uint16(0)
	if withBorrow {
		borrow = 1
	}
	res := uint16(c.A) - uint16(v) - borrow
	c.setFlag(FlagAC, int(c.A&0x0F)-int(v&0x0F)-int(borrow) >= 0)
	c.setFlag(FlagCY, res > 0xFF) // underflow wraps past 0xFF
	c.A = uint8(res)
	c.setSZP(c.A)
}

func (c *Chip) ana(v uint8) {
	// Documented 8080 quirk: AC is set from the OR of bit 3 of both
	// operands, not from an actual nibble carry.
	c.setFlag(FlagAC, (c.A|v)&0x08 != 0)
	c.A &= v
	c.setFlag(FlagCY, false)
	c.setSZP(c.A)
}

func (c *Chip) xra(v uint8) {
	c.A ^= v
	c.setFlag(FlagAC, false)
	c.setFlag(FlagCY, false)
	c.setSZP(c.A)
}

func (c *Chip) ora(v uint8) {
	c.A |= v
	c.setFlag(FlagAC, false)
	c.setFlag(FlagCY, false)
	c.setSZP(c.A)
}

func (c *Chip) cmp(v uint8) {
	res := uint16(c.A) - uint16(v)
	c.setFlag(FlagAC, int(c.A&0x0F)-int(v&0x0F) >= 0)
	c.setFlag(FlagCY, res > 0xFF)
	c.setSZP(uint8(res))
}

func (c *Chip) setSZP(v uint8) {
	c.F = (c.F &^ (FlagS | FlagZ | FlagP)) | szpTable[v]
	c.F = maskF(c.F)
}

// inr/dcr preserve CY and only touch S,Z,AC,P.
func (c *Chip) inr(v uint8) uint8 {
	res := v + 1
	c.setFlag(FlagAC, v&0x0F == 0x0F)
	c.F = (c.F &^ (FlagS | FlagZ | FlagP)) | szpTable[res]
	c.F = maskF(c.F)
	return res
}

func (c *Chip) dcr(v uint8) uint8 {
	res := v - 1
	c.setFlag(FlagAC, v&0x0F != 0)
	c.F = (c.F &^ (FlagS | FlagZ | FlagP)) | szpTable[res]
	c.F = maskF(c.F)
	return res
}

func (c *Chip) dad(p uint8) {
	res := uint32(c.hl()) + uint32(c.getRP(p))
	c.setFlag(FlagCY, res > 0xFFFF)
	c.setHL(uint16(res))
}

func (c *Chip) rlc() {
	carry := c.A & 0x80
	c.A = (c.A << 1) | (carry >> 7)
	c.setFlag(FlagCY, carry != 0)
}

func (c *Chip) rrc() {
	carry := c.A & 0x01
	c.A = (c.A >> 1) | (carry << 7)
	c.setFlag(FlagCY, carry != 0)
}

func (c *Chip) ral() {
	carryIn := uint8(0)
	if c.flag(FlagCY) {
		carryIn = 1
	}
	carryOut := c.A & 0x80
	c.A = (c.A << 1) | carryIn
	c.setFlag(FlagCY, carryOut != 0)
}

func (c *Chip) rar() {
	carryIn := uint8(0)
	if c.flag(FlagCY) {
		carryIn = 0x80
	}
	carryOut := c.A & 0x01
	c.A = (c.A >> 1) | carryIn
	c.setFlag(FlagCY, carryOut != 0)
}

// daa implements the standard decimal-adjust algorithm: add $06 if the low
// nibble is >9 or AC is set; add $60 (and set CY) if the (possibly
// adjusted) high nibble is >9 or CY was already set.
func (c *Chip) daa() {
	adjust := uint8(0)
	cy := c.flag(FlagCY)
	lowNibble := c.A & 0x0F
	if lowNibble > 9 || c.flag(FlagAC) {
		adjust += 0x06
	}
	highNibble := (c.A >> 4) & 0x0F
	if highNibble > 9 || cy || (highNibble == 9 && lowNibble > 9) {
		adjust += 0x60
		cy = true
	}
	c.setFlag(FlagAC, lowNibble+(adjust&0x0F) > 0x0F)
	c.A += adjust
	c.setFlag(FlagCY, cy)
	c.setSZP(c.A)
}
