package z80

// executeIndexed handles the DD/FD-prefixed instructions, which replace
// HL with IX or IY and add an 8-bit signed displacement to (HL)-based
// memory operands. Only the displacement forms and the whole-register
// loads/arithmetic a Genesis sound driver plausibly uses are implemented;
// the CB-prefixed IX/IY bit instructions (DD CB d op) fall through to the
// unimplemented-opcode log below.
func (c *CPU) executeIndexed(idx *uint16) int {
	opcode := c.fetchByte()

	switch opcode {
	case 0x21: // LD IX,nn
		*idx = c.fetchWord()
		return 14
	case 0x22: // LD (nn),IX
		c.writeWord(c.fetchWord(), *idx)
		return 20
	case 0x2A: // LD IX,(nn)
		*idx = c.readWord(c.fetchWord())
		return 20
	case 0x23: // INC IX
		*idx++
		return 10
	case 0x2B: // DEC IX
		*idx--
		return 10
	case 0x09, 0x19, 0x29, 0x39: // ADD IX,rr (rr=2 means IX itself)
		pairIdx := (opcode >> 4) & 0x3
		var operand uint16
		if pairIdx == 2 {
			operand = *idx
		} else {
			operand = c.readRegPairSP(pairIdx)
		}
		*idx = c.addWord16(*idx, operand)
		return 15
	case 0xE5: // PUSH IX
		c.push(*idx)
		return 15
	case 0xE1: // POP IX
		*idx = c.pop()
		return 14
	case 0xE9: // JP (IX)
		c.PC = *idx
		return 8
	case 0xF9: // LD SP,IX
		c.SP = *idx
		return 10
	case 0xE3: // EX (SP),IX
		v := c.readWord(c.SP)
		c.writeWord(c.SP, *idx)
		*idx = v
		return 23
	case 0x34: // INC (IX+d)
		addr := c.indexedAddr(idx)
		c.bus.WriteByte(addr, c.incByte(c.bus.ReadByte(addr)))
		return 23
	case 0x35: // DEC (IX+d)
		addr := c.indexedAddr(idx)
		c.bus.WriteByte(addr, c.decByte(c.bus.ReadByte(addr)))
		return 23
	case 0x36: // LD (IX+d),n
		addr := c.indexedAddr(idx)
		c.bus.WriteByte(addr, c.fetchByte())
		return 19
	}

	switch {
	case opcode >= 0x46 && opcode <= 0x7E && opcode&0x7 == 0x6 && opcode != 0x76:
		// LD r,(IX+d)
		reg := (opcode >> 3) & 0x7
		c.writeReg8(reg, c.bus.ReadByte(c.indexedAddr(idx)))
		return 19
	case opcode >= 0x70 && opcode <= 0x77 && opcode != 0x76:
		// LD (IX+d),r
		reg := opcode & 0x7
		c.bus.WriteByte(c.indexedAddr(idx), c.readReg8(reg))
		return 19
	case opcode >= 0x86 && opcode <= 0xBE && opcode&0x7 == 0x6:
		// ALU A,(IX+d)
		op := (opcode >> 3) & 0x7
		return c.executeALU(op, c.bus.ReadByte(c.indexedAddr(idx)), true) + 15
	}

	c.log.Errorf("z80: unimplemented indexed opcode %#02x at pc %#04x", opcode, c.PC-2)
	return 8
}

func (c *CPU) indexedAddr(idx *uint16) uint16 {
	disp := int8(c.fetchByte())
	return uint16(int32(*idx) + int32(disp))
}
