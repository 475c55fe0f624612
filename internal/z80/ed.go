package z80

// executeED handles the ED-prefixed page: extended 16-bit loads and
// arithmetic, the interrupt-mode/refresh-register instructions, and the
// block transfer/compare/IO instructions in block.go.
func (c *CPU) executeED() int {
	opcode := c.fetchByte()

	if opcode >= 0xA0 && opcode <= 0xBB {
		if t, ok := blockOps[opcode]; ok {
			return t(c)
		}
		c.log.Errorf("z80: unimplemented ED block opcode %#02x at pc %#04x", opcode, c.PC-2)
		return 8
	}

	row := (opcode >> 3) & 0x7
	col := opcode & 0x7
	pair := row // for the 16-bit arithmetic/load rows, bits 5-4 select BC/DE/HL/SP

	switch col {
	case 0: // IN r,(C)
		v := c.bus.In(c.C)
		if row != 6 {
			c.writeReg8(row, v)
		}
		c.setSZ(v)
		c.setFlag(flagH, false)
		c.setFlag(flagPV, parity(v))
		c.setFlag(flagN, false)
		return 12
	case 1: // OUT (C),r
		var v uint8
		if row != 6 {
			v = c.readReg8(row)
		}
		c.bus.Out(c.C, v)
		return 12
	case 2: // SBC/ADC HL,rr
		rr := (pair >> 1) & 0x3
		if pair&0x1 == 0 {
			c.SetHL(c.sbcWord16(c.HL(), c.readRegPairSP(rr)))
		} else {
			c.SetHL(c.adcWord16(c.HL(), c.readRegPairSP(rr)))
		}
		return 15
	case 3: // LD (nn),rr / LD rr,(nn)
		rr := (pair >> 1) & 0x3
		addr := c.fetchWord()
		if pair&0x1 == 0 {
			c.writeWord(addr, c.readRegPairSP(rr))
		} else {
			c.writeRegPairSP(rr, c.readWord(addr))
		}
		return 20
	case 4: // NEG
		c.A = c.subByte(0, c.A, false)
		return 8
	case 5: // RETN/RETI
		c.IFF1 = c.IFF2
		c.PC = c.pop()
		return 14
	case 6: // IM n
		switch row {
		case 0, 1, 4, 5:
			c.IM = 0
		case 2, 6:
			c.IM = 1
		case 3, 7:
			c.IM = 2
		}
		return 8
	case 7:
		return c.executeEDMisc(row)
	}
	return 8
}

func (c *CPU) executeEDMisc(row uint8) int {
	switch row {
	case 0: // LD I,A
		c.I = c.A
		return 9
	case 1: // LD R,A
		c.R = c.A
		return 9
	case 2: // LD A,I
		c.A = c.I
		c.setSZ(c.A)
		c.setFlag(flagH, false)
		c.setFlag(flagPV, c.IFF2)
		c.setFlag(flagN, false)
		return 9
	case 3: // LD A,R
		c.A = c.R
		c.setSZ(c.A)
		c.setFlag(flagH, false)
		c.setFlag(flagPV, c.IFF2)
		c.setFlag(flagN, false)
		return 9
	case 4: // RRD
		c.rrd()
		return 18
	case 5: // RLD
		c.rld()
		return 18
	default: // NOP-equivalent undocumented forms
		return 8
	}
}
