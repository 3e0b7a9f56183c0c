package z80

// dispatchCB handles the unprefixed CB table: rotate/shift group, BIT,
// RES, SET over the plain register/( HL) operand set.
func (c *Chip) dispatchCB() uint32 {
	op := c.fetchOp()
	x := op >> 6
	y := (op >> 3) & 0x07
	z := op & 0x07

	v := c.getReg(z)
	switch x {
	case 0:
		res := c.cbRotate(y, v)
		c.setReg(z, res)
		if z == 6 {
			return 15
		}
		return 8
	case 1:
		c.bit(y, v)
		if z == 6 {
			return 12
		}
		return 8
	case 2:
		res := v &^ (1 << y)
		c.setReg(z, res)
		if z == 6 {
			return 15
		}
		return 8
	default:
		res := v | (1 << y)
		c.setReg(z, res)
		if z == 6 {
			return 15
		}
		return 8
	}
}

// dispatchIndexedCB handles DDCB/FDCB: a displacement byte precedes the
// sub-opcode, the operand is always (IX+d)/(IY+d), and non-(HL) encodings
// also copy the result into the register named by z (the documented
// "undocumented" result-to-register behavior).
func (c *Chip) dispatchIndexedCB() uint32 {
	c.disp = int8(c.fetch8())
	op := c.fetch8()
	x := op >> 6
	y := (op >> 3) & 0x07
	z := op & 0x07

	addr := c.hlAddr()
	v := c.mem.Read(addr)

	if x == 1 {
		c.bit(y, v)
		return 20
	}

	var res uint8
	switch x {
	case 0:
		res = c.cbRotate(y, v)
	case 2:
		res = v &^ (1 << y)
	default:
		res = v | (1 << y)
	}
	c.mem.Write(addr, res)
	if z != 6 {
		c.setReg(z, res)
	}
	return 23
}

func (c *Chip) cbRotate(y uint8, v uint8) uint8 {
	switch y {
	case 0:
		return c.cbRLC(v)
	case 1:
		return c.cbRRC(v)
	case 2:
		return c.cbRL(v)
	case 3:
		return c.cbRR(v)
	case 4:
		return c.cbSLA(v)
	case 5:
		return c.cbSRA(v)
	case 6:
		return c.cbSLL(v)
	default:
		return c.cbSRL(v)
	}
}

func (c *Chip) setCBFlags(res uint8, carry bool) {
	c.F = szpTable[res]
	c.setFlag(FlagH, false)
	c.setFlag(FlagN, false)
	c.setFlag(FlagC, carry)
}

func (c *Chip) cbRLC(v uint8) uint8 {
	carry := v&0x80 != 0
	res := v << 1
	if carry {
		res |= 1
	}
	c.setCBFlags(res, carry)
	return res
}

func (c *Chip) cbRRC(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v >> 1
	if carry {
		res |= 0x80
	}
	c.setCBFlags(res, carry)
	return res
}

func (c *Chip) cbRL(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 1
	}
	carry := v&0x80 != 0
	res := (v << 1) | carryIn
	c.setCBFlags(res, carry)
	return res
}

func (c *Chip) cbRR(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 0x80
	}
	carry := v&0x01 != 0
	res := (v >> 1) | carryIn
	c.setCBFlags(res, carry)
	return res
}

func (c *Chip) cbSLA(v uint8) uint8 {
	carry := v&0x80 != 0
	res := v << 1
	c.setCBFlags(res, carry)
	return res
}

func (c *Chip) cbSRA(v uint8) uint8 {
	carry := v&0x01 != 0
	res := (v >> 1) | (v & 0x80)
	c.setCBFlags(res, carry)
	return res
}

// cbSLL is the undocumented "shift left, set bit 0" variant (opcode $30-37
// of the CB table), included because some exercisers probe it.
func (c *Chip) cbSLL(v uint8) uint8 {
	carry := v&0x80 != 0
	res := (v << 1) | 1
	c.setCBFlags(res, carry)
	return res
}

func (c *Chip) cbSRL(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v >> 1
	c.setCBFlags(res, carry)
	return res
}

func (c *Chip) bit(y uint8, v uint8) {
	mask := uint8(1) << y
	zero := v&mask == 0
	c.setFlag(FlagZ, zero)
	c.setFlag(FlagPV, zero)
	c.setFlag(FlagS, y == 7 && !zero)
	c.setFlag(FlagH, true)
	c.setFlag(FlagN, false)
	c.F = (c.F &^ (Flag3 | Flag5)) | (v & (Flag3 | Flag5))
}
