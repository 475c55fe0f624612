package z80

// readReg8/writeReg8 map the standard Z80 3-bit register field to
// B,C,D,E,H,L,(HL),A. Index 6 (regHL) means "memory at (HL)" and is handled by callers specially since
// it costs an extra bus cycle the plain register forms don't.
const regHL = 6

func (c *CPU) readReg8(idx uint8) uint8 {
	switch idx {
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
	case regHL:
		return c.bus.ReadByte(c.HL())
	case 7:
		return c.A
	}
	panic("z80: invalid register index")
}

func (c *CPU) writeReg8(idx uint8, v uint8) {
	switch idx {
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
	case regHL:
		c.bus.WriteByte(c.HL(), v)
	case 7:
		c.A = v
	default:
		panic("z80: invalid register index")
	}
}

// readRegPairSP/writeRegPairSP map the 2-bit "dd" field used by 16-bit
// load/arithmetic opcodes: 0=BC 1=DE 2=HL 3=SP. In the "qq" form used by
// PUSH/POP, 3 means AF; those opcodes are decoded separately.
func (c *CPU) readRegPairSP(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	case 3:
		return c.SP
	}
	panic("z80: invalid register pair index")
}

func (c *CPU) writeRegPairSP(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	case 3:
		c.SP = v
	}
}

func (c *CPU) daa() {
	a := c.A
	adjust := uint8(0)
	carry := c.flag(flagC)

	if c.flag(flagH) || a&0xF > 9 {
		adjust |= 0x06
	}
	if carry || a > 0x99 {
		adjust |= 0x60
		carry = true
	}

	if c.flag(flagN) {
		a -= adjust
	} else {
		a += adjust
	}

	c.setFlag(flagH, c.flag(flagN) && c.flag(flagH) && (c.A&0xF) < 6)
	c.A = a
	c.setSZ(c.A)
	c.setFlag(flagPV, parity(c.A))
	c.setFlag(flagC, carry)
	c.setUndoc(c.A)
}
