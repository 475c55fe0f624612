package z80

// execute dispatches a fetched opcode byte. The bulk of the encoding space
// (LD r,r'; ALU A,r; INC/DEC r) follows regular bit-field patterns and is
// handled by a handful of range checks; the remaining, irregular opcodes
// are listed explicitly.
func (c *CPU) execute(opcode uint8) int {
	switch {
	case opcode == 0xCB:
		return c.executeCB()
	case opcode == 0xED:
		return c.executeED()
	case opcode == 0xDD:
		return c.executeIndexed(&c.IX)
	case opcode == 0xFD:
		return c.executeIndexed(&c.IY)
	case opcode >= 0x40 && opcode <= 0x7F && opcode != 0x76:
		dst, src := (opcode>>3)&0x7, opcode&0x7
		c.writeReg8(dst, c.readReg8(src))
		if dst == regHL || src == regHL {
			return 7
		}
		return 4
	case opcode == 0x76: // HALT
		c.halted = true
		return 4
	case opcode >= 0x80 && opcode <= 0xBF:
		return c.executeALU((opcode>>3)&0x7, c.readReg8(opcode&0x7), opcode&0x7 == regHL)
	case opcode&0xC7 == 0x04: // INC r
		reg := (opcode >> 3) & 0x7
		c.writeReg8(reg, c.incByte(c.readReg8(reg)))
		if reg == regHL {
			return 11
		}
		return 4
	case opcode&0xC7 == 0x05: // DEC r
		reg := (opcode >> 3) & 0x7
		c.writeReg8(reg, c.decByte(c.readReg8(reg)))
		if reg == regHL {
			return 11
		}
		return 4
	case opcode&0xC7 == 0x06: // LD r,n
		reg := (opcode >> 3) & 0x7
		c.writeReg8(reg, c.fetchByte())
		if reg == regHL {
			return 10
		}
		return 7
	default:
		return c.executeMisc(opcode)
	}
}

// executeALU applies one of the eight ALU operations (ADD,ADC,SUB,SBC,AND,
// XOR,OR,CP) to A and operand; fromHL adds the extra memory-access cycle.
func (c *CPU) executeALU(op uint8, operand uint8, fromHL bool) int {
	switch op {
	case 0:
		c.A = c.addByte(c.A, operand, false)
	case 1:
		c.A = c.addByte(c.A, operand, c.flag(flagC))
	case 2:
		c.A = c.subByte(c.A, operand, false)
	case 3:
		c.A = c.subByte(c.A, operand, c.flag(flagC))
	case 4:
		c.A = c.andByte(c.A, operand)
	case 5:
		c.A = c.xorByte(c.A, operand)
	case 6:
		c.A = c.orByte(c.A, operand)
	case 7:
		c.cpByte(c.A, operand)
	}
	if fromHL {
		return 7
	}
	return 4
}

// executeMisc handles every opcode outside the regular LD/ALU/INC/DEC
// ranges above: 16-bit loads and arithmetic, control flow, stack
// operations, and the single-byte accumulator/flag instructions.
func (c *CPU) executeMisc(opcode uint8) int {
	switch opcode {
	case 0x00: // NOP
		return 4
	case 0x01, 0x11, 0x21, 0x31: // LD dd,nn
		c.writeRegPairSP((opcode>>4)&0x3, c.fetchWord())
		return 10
	case 0x02: // LD (BC),A
		c.bus.WriteByte(c.BC(), c.A)
		return 7
	case 0x12: // LD (DE),A
		c.bus.WriteByte(c.DE(), c.A)
		return 7
	case 0x0A: // LD A,(BC)
		c.A = c.bus.ReadByte(c.BC())
		return 7
	case 0x1A: // LD A,(DE)
		c.A = c.bus.ReadByte(c.DE())
		return 7
	case 0x22: // LD (nn),HL
		c.writeWord(c.fetchWord(), c.HL())
		return 16
	case 0x2A: // LD HL,(nn)
		c.SetHL(c.readWord(c.fetchWord()))
		return 16
	case 0x32: // LD (nn),A
		c.bus.WriteByte(c.fetchWord(), c.A)
		return 13
	case 0x3A: // LD A,(nn)
		c.A = c.bus.ReadByte(c.fetchWord())
		return 13
	case 0x03, 0x13, 0x23, 0x33: // INC dd
		idx := (opcode >> 4) & 0x3
		c.writeRegPairSP(idx, c.readRegPairSP(idx)+1)
		return 6
	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC dd
		idx := (opcode >> 4) & 0x3
		c.writeRegPairSP(idx, c.readRegPairSP(idx)-1)
		return 6
	case 0x09, 0x19, 0x29, 0x39: // ADD HL,dd
		c.SetHL(c.addWord16(c.HL(), c.readRegPairSP((opcode>>4)&0x3)))
		return 11
	case 0x07:
		c.rlca()
		return 4
	case 0x0F:
		c.rrca()
		return 4
	case 0x17:
		c.rla()
		return 4
	case 0x1F:
		c.rra()
		return 4
	case 0x27:
		c.daa()
		return 4
	case 0x2F: // CPL
		c.A = ^c.A
		c.setFlag(flagH, true)
		c.setFlag(flagN, true)
		c.setUndoc(c.A)
		return 4
	case 0x37: // SCF
		c.setFlag(flagH, false)
		c.setFlag(flagN, false)
		c.setFlag(flagC, true)
		c.setUndoc(c.A)
		return 4
	case 0x3F: // CCF
		c.setFlag(flagH, c.flag(flagC))
		c.setFlag(flagN, false)
		c.setFlag(flagC, !c.flag(flagC))
		c.setUndoc(c.A)
		return 4
	case 0x08: // EX AF,AF'
		c.exAF()
		return 4
	case 0x10: // DJNZ d
		return c.djnz()
	case 0x18: // JR d
		c.jr(true)
		return 12
	case 0x20, 0x28, 0x30, 0x38: // JR cc,d
		return c.jrConditional(opcode)
	case 0xC6:
		c.A = c.addByte(c.A, c.fetchByte(), false)
		return 7
	case 0xCE:
		c.A = c.addByte(c.A, c.fetchByte(), c.flag(flagC))
		return 7
	case 0xD6:
		c.A = c.subByte(c.A, c.fetchByte(), false)
		return 7
	case 0xDE:
		c.A = c.subByte(c.A, c.fetchByte(), c.flag(flagC))
		return 7
	case 0xE6:
		c.A = c.andByte(c.A, c.fetchByte())
		return 7
	case 0xEE:
		c.A = c.xorByte(c.A, c.fetchByte())
		return 7
	case 0xF6:
		c.A = c.orByte(c.A, c.fetchByte())
		return 7
	case 0xFE:
		c.cpByte(c.A, c.fetchByte())
		return 7
	case 0xC1, 0xD1, 0xE1: // POP qq (not AF)
		c.writeRegPairSP((opcode>>4)&0x3, c.pop())
		return 10
	case 0xF1: // POP AF
		c.SetAF(c.pop())
		return 10
	case 0xC5, 0xD5, 0xE5: // PUSH qq (not AF)
		c.push(c.readRegPairSP((opcode >> 4) & 0x3))
		return 11
	case 0xF5: // PUSH AF
		c.push(c.AF())
		return 11
	case 0xC3: // JP nn
		c.PC = c.fetchWord()
		return 10
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA: // JP cc,nn
		target := c.fetchWord()
		if c.testCond((opcode >> 3) & 0x7) {
			c.PC = target
		}
		return 10
	case 0xE9: // JP (HL)
		c.PC = c.HL()
		return 4
	case 0xF9: // LD SP,HL
		c.SP = c.HL()
		return 6
	case 0xCD: // CALL nn
		target := c.fetchWord()
		c.push(c.PC)
		c.PC = target
		return 17
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC: // CALL cc,nn
		target := c.fetchWord()
		if c.testCond((opcode >> 3) & 0x7) {
			c.push(c.PC)
			c.PC = target
			return 17
		}
		return 10
	case 0xC9: // RET
		c.PC = c.pop()
		return 10
	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8: // RET cc
		if c.testCond((opcode >> 3) & 0x7) {
			c.PC = c.pop()
			return 11
		}
		return 5
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST n
		c.push(c.PC)
		c.PC = uint16(opcode & 0x38)
		return 11
	case 0xE3: // EX (SP),HL
		v := c.readWord(c.SP)
		c.writeWord(c.SP, c.HL())
		c.SetHL(v)
		return 19
	case 0xEB: // EX DE,HL
		c.exDEHL()
		return 4
	case 0xD9: // EXX
		c.exx()
		return 4
	case 0xF3: // DI
		c.IFF1, c.IFF2 = false, false
		return 4
	case 0xFB: // EI
		c.IFF1, c.IFF2 = true, true
		return 4
	case 0xD3: // OUT (n),A
		c.bus.Out(c.fetchByte(), c.A)
		return 11
	case 0xDB: // IN A,(n)
		c.A = c.bus.In(c.fetchByte())
		return 11
	}
	c.log.Errorf("z80: unimplemented opcode %#02x at pc %#04x", opcode, c.PC-1)
	return 4
}

// exDEHL implements EX DE,HL.
func (c *CPU) exDEHL() {
	d, e, h, l := c.D, c.E, c.H, c.L
	c.D, c.E = h, l
	c.H, c.L = d, e
}

func (c *CPU) testCond(cc uint8) bool {
	switch cc {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	case 3:
		return c.flag(flagC)
	case 4:
		return !c.flag(flagPV)
	case 5:
		return c.flag(flagPV)
	case 6:
		return !c.flag(flagS)
	case 7:
		return c.flag(flagS)
	}
	panic("z80: invalid condition code")
}
