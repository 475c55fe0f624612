package m68k

// executeClass5 covers opcode class 0101: ADDQ/SUBQ (when the size field is
// not 11) and Scc/DBcc (when it is).
func (c *CPU) executeClass5(opcode uint16) *Exception {
	sizeField := (opcode >> 6) & 0x3
	if sizeField == 0x3 {
		mode := (opcode >> 3) & 0x7
		if mode == 0x1 {
			return c.executeDbcc(opcode)
		}
		return c.executeScc(opcode)
	}
	size, _ := sizeFromBits(sizeField)
	return c.executeAddqSubq(opcode, size)
}

func (c *CPU) executeAddqSubq(opcode uint16, size Size) *Exception {
	data := uint32((opcode >> 9) & 0x7)
	if data == 0 {
		data = 8
	}
	isSub := opcode&0x0100 != 0

	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	dest := c.resolveEA(mode, reg, size)

	if dest.mode == EAAddrDirect {
		// ADDQ/SUBQ to an address register affects the whole 32-bit
		// register and leaves flags unaffected, like ADDA/SUBA.
		cur := c.AReg(reg)
		if isSub {
			c.SetAReg(reg, cur-data)
		} else {
			c.SetAReg(reg, cur+data)
		}
		return nil
	}

	dv, ex := c.readOperand(dest, size)
	if ex != nil {
		return ex
	}
	var result uint32
	var carry, overflow bool
	if isSub {
		result, carry, overflow = subWithExtend(dv, data, false, size)
	} else {
		result, carry, overflow = addWithExtend(dv, data, false, size)
	}
	c.SR.SetNZ(result, size)
	c.SR.SetV(overflow)
	c.SR.SetC(carry)
	c.SR.SetX(carry)
	return c.writeOperand(dest, size, result)
}

func (c *CPU) executeScc(opcode uint16) *Exception {
	cond := Condition((opcode >> 8) & 0xF)
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	dest := c.resolveEA(mode, reg, SizeByte)

	var v uint32
	if c.SR.Test(cond) {
		v = 0xFF
	}
	return c.writeOperand(dest, SizeByte, v)
}

func (c *CPU) executeDbcc(opcode uint16) *Exception {
	cond := Condition((opcode >> 8) & 0xF)
	reg := uint8(opcode & 0x7)
	disp := int32(int16(c.fetchWord()))
	branchPC := c.PC - 2

	if c.SR.Test(cond) {
		return nil
	}
	remaining := int16(uint16(c.D[reg])) - 1
	c.D[reg] = (c.D[reg] &^ 0xFFFF) | uint32(uint16(remaining))
	if remaining != -1 {
		c.PC = uint32(int64(branchPC) + int64(disp))
	}
	return nil
}

// executeBranch covers opcode class 0110: Bcc/BRA/BSR. An 8-bit
// displacement in the low byte of the opcode selects the short form;
// 0x00 means a 16-bit extension-word displacement follows.
func (c *CPU) executeBranch(opcode uint16) *Exception {
	cond := Condition((opcode >> 8) & 0xF)
	branchPC := c.PC

	var disp int32
	low := opcode & 0xFF
	if low == 0x00 {
		disp = int32(int16(c.fetchWord()))
	} else {
		disp = int32(int8(low))
	}

	if cond == CondF { // BSR
		sp := c.SP() - 4
		c.SetSP(sp)
		if ex := c.writeMem(sp, SizeLong, c.PC); ex != nil {
			return ex
		}
		c.PC = uint32(int64(branchPC) + int64(disp))
		return nil
	}

	if c.SR.Test(cond) {
		c.PC = uint32(int64(branchPC) + int64(disp))
	}
	return nil
}
