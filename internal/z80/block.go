package z80

// blockOps dispatches the ED A0-BB block transfer/search/IO instructions,
// the repeating forms of which (LDIR/LDDR/CPIR/CPDR/INIR/INDR/OTIR/OTDR)
// are expressed as "do one step, then back PC up 2 if not yet done" so a
// single Step() call still returns after one pass, matching the m68k and
// CB dispatch convention of one Step() per instruction rather than
// blocking the caller for the whole repeated transfer.
var blockOps = map[uint8]func(*CPU) int{
	0xA0: (*CPU).ldi,
	0xA1: (*CPU).cpi,
	0xA2: (*CPU).ini,
	0xA3: (*CPU).outi,
	0xA8: (*CPU).ldd,
	0xA9: (*CPU).cpd,
	0xAA: (*CPU).ind,
	0xAB: (*CPU).outd,
	0xB0: (*CPU).ldir,
	0xB1: (*CPU).cpir,
	0xB2: (*CPU).inir,
	0xB3: (*CPU).otir,
	0xB8: (*CPU).lddr,
	0xB9: (*CPU).cpdr,
	0xBA: (*CPU).indr,
	0xBB: (*CPU).otdr,
}

func (c *CPU) ldi() int {
	v := c.bus.ReadByte(c.HL())
	c.bus.WriteByte(c.DE(), v)
	c.SetHL(c.HL() + 1)
	c.SetDE(c.DE() + 1)
	c.SetBC(c.BC() - 1)
	c.setFlag(flagH, false)
	c.setFlag(flagN, false)
	c.setFlag(flagPV, c.BC() != 0)
	n := v + c.A
	c.setFlag(flagY, n&0x02 != 0)
	c.setFlag(flagX, n&0x08 != 0)
	return 16
}

func (c *CPU) ldd() int {
	v := c.bus.ReadByte(c.HL())
	c.bus.WriteByte(c.DE(), v)
	c.SetHL(c.HL() - 1)
	c.SetDE(c.DE() - 1)
	c.SetBC(c.BC() - 1)
	c.setFlag(flagH, false)
	c.setFlag(flagN, false)
	c.setFlag(flagPV, c.BC() != 0)
	n := v + c.A
	c.setFlag(flagY, n&0x02 != 0)
	c.setFlag(flagX, n&0x08 != 0)
	return 16
}

func (c *CPU) ldir() int {
	c.ldi()
	if c.BC() != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) lddr() int {
	c.ldd()
	if c.BC() != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) cpi() int {
	v := c.bus.ReadByte(c.HL())
	result := c.A - v
	c.SetHL(c.HL() + 1)
	c.SetBC(c.BC() - 1)
	c.setFlag(flagH, int8(c.A&0xF)-int8(v&0xF) < 0)
	c.setSZ(result)
	c.setFlag(flagN, true)
	c.setFlag(flagPV, c.BC() != 0)
	n := result
	if c.flag(flagH) {
		n--
	}
	c.setFlag(flagY, n&0x02 != 0)
	c.setFlag(flagX, n&0x08 != 0)
	return 16
}

func (c *CPU) cpd() int {
	v := c.bus.ReadByte(c.HL())
	result := c.A - v
	c.SetHL(c.HL() - 1)
	c.SetBC(c.BC() - 1)
	c.setFlag(flagH, int8(c.A&0xF)-int8(v&0xF) < 0)
	c.setSZ(result)
	c.setFlag(flagN, true)
	c.setFlag(flagPV, c.BC() != 0)
	n := result
	if c.flag(flagH) {
		n--
	}
	c.setFlag(flagY, n&0x02 != 0)
	c.setFlag(flagX, n&0x08 != 0)
	return 16
}

func (c *CPU) cpir() int {
	c.cpi()
	if c.BC() != 0 && !c.flag(flagZ) {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) cpdr() int {
	c.cpd()
	if c.BC() != 0 && !c.flag(flagZ) {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) ini() int {
	v := c.bus.In(c.C)
	c.bus.WriteByte(c.HL(), v)
	c.SetHL(c.HL() + 1)
	c.B = c.decByte(c.B)
	c.setFlag(flagN, true)
	return 16
}

func (c *CPU) ind() int {
	v := c.bus.In(c.C)
	c.bus.WriteByte(c.HL(), v)
	c.SetHL(c.HL() - 1)
	c.B = c.decByte(c.B)
	c.setFlag(flagN, true)
	return 16
}

func (c *CPU) inir() int {
	c.ini()
	if c.B != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) indr() int {
	c.ind()
	if c.B != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) outi() int {
	v := c.bus.ReadByte(c.HL())
	c.SetHL(c.HL() + 1)
	c.B = c.decByte(c.B)
	c.bus.Out(c.C, v)
	c.setFlag(flagN, true)
	return 16
}

func (c *CPU) outd() int {
	v := c.bus.ReadByte(c.HL())
	c.SetHL(c.HL() - 1)
	c.B = c.decByte(c.B)
	c.bus.Out(c.C, v)
	c.setFlag(flagN, true)
	return 16
}

func (c *CPU) otir() int {
	c.outi()
	if c.B != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) otdr() int {
	c.outd()
	if c.B != 0 {
		c.PC -= 2
		return 21
	}
	return 16
}
