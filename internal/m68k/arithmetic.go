package m68k

// addWithExtend computes a+b(+x) at size, returning the truncated result
// and the carry/overflow flags.
func addWithExtend(a, b uint32, x bool, size Size) (result uint32, carry, overflow bool) {
	var ext uint64
	if x {
		ext = 1
	}
	full := uint64(size.mask(a)) + uint64(size.mask(b)) + ext
	result = size.mask(uint32(full))
	carry = full > uint64(sizeFullMask(size))
	signA, signB, signR := size.signBit(a), size.signBit(b), size.signBit(result)
	overflow = signA == signB && signA != signR
	return
}

// subWithExtend computes a-b(-x) at size (dest minus source).
func subWithExtend(a, b uint32, x bool, size Size) (result uint32, carry, overflow bool) {
	var ext int64
	if x {
		ext = 1
	}
	full := int64(size.mask(a)) - int64(size.mask(b)) - ext
	result = size.mask(uint32(full))
	carry = full < 0
	signA, signB, signR := size.signBit(a), size.signBit(b), size.signBit(result)
	overflow = signA != signB && signR == signB
	return
}

// executeAddSub covers opcode classes 1001 (SUB/SUBA/SUBX) and 1101
// (ADD/ADDA/ADDX): bits 8-6 select the op-mode (data-register destination
// byte/word/long, address-register destination word/long, or memory
// destination with extend variants), and bit 8 alone distinguishes the
// register/extend forms from the memory forms within each size.
func (c *CPU) executeAddSub(opcode uint16, isSub bool) *Exception {
	reg := uint8((opcode >> 9) & 0x7)
	opmode := (opcode >> 6) & 0x7
	mode := uint8((opcode >> 3) & 0x7)
	eaReg := uint8(opcode & 0x7)

	switch opmode {
	case 0x3, 0x7: // ADDA/SUBA, word or long
		size := SizeWord
		if opmode == 0x7 {
			size = SizeLong
		}
		src := c.resolveEA(mode, eaReg, size)
		v, ex := c.readOperand(src, size)
		if ex != nil {
			return ex
		}
		v = size.signExtend(v)
		cur := c.AReg(reg)
		if isSub {
			c.SetAReg(reg, cur-v)
		} else {
			c.SetAReg(reg, cur+v)
		}
		return nil
	case 0x0, 0x1, 0x2: // <ea> + Dn -> Dn
		size, _ := sizeFromBits(opmode)
		src := c.resolveEA(mode, eaReg, size)
		v, ex := c.readOperand(src, size)
		if ex != nil {
			return ex
		}
		c.addSubToReg(reg, v, size, isSub)
		return nil
	default: // 0x4,0x5,0x6: Dn + <ea> -> <ea>, or ADDX/SUBX Dy,Dx / -(Ay),-(Ax)
		size, _ := sizeFromBits(opmode - 4)
		if mode == 0 { // ADDX/SUBX Dy,Dx: Rx (reg) is destination, Ry (eaReg) is source
			c.addSubXToReg(reg, c.D[eaReg], size, isSub)
			return nil
		}
		if mode == 1 { // ADDX/SUBX -(Ay),-(Ax)
			return c.addSubXMemory(reg, eaReg, size, isSub)
		}
		dest := c.resolveEA(mode, eaReg, size)
		dv, ex := c.readOperand(dest, size)
		if ex != nil {
			return ex
		}
		var result uint32
		var carry, overflow bool
		if isSub {
			result, carry, overflow = subWithExtend(dv, c.D[reg], false, size)
		} else {
			result, carry, overflow = addWithExtend(dv, c.D[reg], false, size)
		}
		c.SR.SetNZ(result, size)
		c.SR.SetV(overflow)
		c.SR.SetC(carry)
		c.SR.SetX(carry)
		return c.writeOperand(dest, size, result)
	}
}

// addSubToReg implements the non-extend "<ea> op Dn -> Dn" register forms
// of ADD/SUB, which never fault (the register write has no addressing
// mode to go wrong).
func (c *CPU) addSubToReg(reg uint8, v uint32, size Size, isSub bool) {
	dv := c.D[reg]
	var result uint32
	var carry, overflow bool
	if isSub {
		result, carry, overflow = subWithExtend(dv, v, false, size)
	} else {
		result, carry, overflow = addWithExtend(dv, v, false, size)
	}
	c.SR.SetNZ(result, size)
	c.SR.SetV(overflow)
	c.SR.SetC(carry)
	c.SR.SetX(carry)
	c.D[reg] = (c.D[reg] &^ sizeFullMask(size)) | (result & sizeFullMask(size))
}

// addSubXToReg implements ADDX/SUBX Dy,Dx: like addSubToReg but folding in
// the extend bit and the "Z only if the whole chain stayed zero" rule.
func (c *CPU) addSubXToReg(destReg uint8, src uint32, size Size, isSub bool) {
	dv := c.D[destReg]
	var result uint32
	var carry, overflow bool
	if isSub {
		result, carry, overflow = subWithExtend(dv, src, c.SR.X(), size)
	} else {
		result, carry, overflow = addWithExtend(dv, src, c.SR.X(), size)
	}
	c.SR.SetZ(c.SR.Z() && result == 0)
	c.SR.SetN(size.signBit(result))
	c.SR.SetV(overflow)
	c.SR.SetC(carry)
	c.SR.SetX(carry)
	c.D[destReg] = (c.D[destReg] &^ sizeFullMask(size)) | (result & sizeFullMask(size))
}

func (c *CPU) addSubXMemory(xReg, yReg uint8, size Size, isSub bool) *Exception {
	step := uint32(size)
	c.SetAReg(yReg, c.AReg(yReg)-step)
	src, ex := c.readMem(c.AReg(yReg), size)
	if ex != nil {
		return ex
	}
	c.SetAReg(xReg, c.AReg(xReg)-step)
	dst, ex2 := c.readMem(c.AReg(xReg), size)
	if ex2 != nil {
		return ex2
	}

	var result uint32
	var carry, overflow bool
	if isSub {
		result, carry, overflow = subWithExtend(dst, src, c.SR.X(), size)
	} else {
		result, carry, overflow = addWithExtend(dst, src, c.SR.X(), size)
	}
	c.SR.SetZ(c.SR.Z() && result == 0)
	c.SR.SetN(size.signBit(result))
	c.SR.SetV(overflow)
	c.SR.SetC(carry)
	c.SR.SetX(carry)
	return c.writeMem(c.AReg(xReg), size, result)
}

// executeClass8 covers OR, DIVU, DIVS, SBCD (opcode class 1000).
func (c *CPU) executeClass8(opcode uint16) *Exception {
	opmode := (opcode >> 6) & 0x7
	reg := uint8((opcode >> 9) & 0x7)
	mode := uint8((opcode >> 3) & 0x7)
	eaReg := uint8(opcode & 0x7)

	switch opmode {
	case 0x3:
		return c.executeDivu(reg, mode, eaReg)
	case 0x7:
		return c.executeDivs(reg, mode, eaReg)
	case 0x4:
		if mode == 0 {
			return c.executeSbcd(reg, eaReg, false)
		}
		if mode == 1 {
			return c.executeSbcd(reg, eaReg, true)
		}
	}
	return c.executeOr(opcode, opmode, reg, mode, eaReg)
}

func (c *CPU) executeOr(opcode uint16, opmode uint16, reg uint8, mode, eaReg uint8) *Exception {
	if opmode <= 0x2 {
		size, _ := sizeFromBits(opmode)
		src := c.resolveEA(mode, eaReg, size)
		v, ex := c.readOperand(src, size)
		if ex != nil {
			return ex
		}
		result := size.mask(c.D[reg]) | v
		c.SR.SetNZ(result, size)
		c.SR.SetV(false)
		c.SR.SetC(false)
		c.D[reg] = (c.D[reg] &^ sizeFullMask(size)) | result
		return nil
	}
	size, _ := sizeFromBits(opmode - 4)
	dest := c.resolveEA(mode, eaReg, size)
	dv, ex := c.readOperand(dest, size)
	if ex != nil {
		return ex
	}
	result := dv | size.mask(c.D[reg])
	c.SR.SetNZ(result, size)
	c.SR.SetV(false)
	c.SR.SetC(false)
	return c.writeOperand(dest, size, result)
}

func (c *CPU) executeDivu(reg uint8, mode, eaReg uint8) *Exception {
	src := c.resolveEA(mode, eaReg, SizeWord)
	divisor, ex := c.readOperand(src, SizeWord)
	if ex != nil {
		return ex
	}
	if uint16(divisor) == 0 {
		e := Exception{Vector: VectorZeroDivide}
		return &e
	}
	dividend := c.D[reg]
	quotient := dividend / uint32(uint16(divisor))
	remainder := dividend % uint32(uint16(divisor))
	if quotient > 0xFFFF {
		c.SR.SetV(true)
		return nil
	}
	c.SR.SetV(false)
	c.SR.SetC(false)
	c.SR.SetNZ(quotient, SizeWord)
	c.D[reg] = remainder<<16 | (quotient & 0xFFFF)
	return nil
}

func (c *CPU) executeDivs(reg uint8, mode, eaReg uint8) *Exception {
	src := c.resolveEA(mode, eaReg, SizeWord)
	v, ex := c.readOperand(src, SizeWord)
	if ex != nil {
		return ex
	}
	divisor := int32(int16(uint16(v)))
	if divisor == 0 {
		e := Exception{Vector: VectorZeroDivide}
		return &e
	}
	dividend := int32(c.D[reg])
	quotient := dividend / divisor
	remainder := dividend % divisor
	if quotient > 0x7FFF || quotient < -0x8000 {
		c.SR.SetV(true)
		return nil
	}
	c.SR.SetV(false)
	c.SR.SetC(false)
	c.SR.SetNZ(uint32(quotient)&0xFFFF, SizeWord)
	c.D[reg] = uint32(remainder)<<16 | (uint32(quotient) & 0xFFFF)
	return nil
}

// executeClassB covers CMP/CMPA/CMPM/EOR (opcode class 1011).
func (c *CPU) executeClassB(opcode uint16) *Exception {
	opmode := (opcode >> 6) & 0x7
	reg := uint8((opcode >> 9) & 0x7)
	mode := uint8((opcode >> 3) & 0x7)
	eaReg := uint8(opcode & 0x7)

	switch {
	case opmode == 0x3 || opmode == 0x7:
		size := SizeWord
		if opmode == 0x7 {
			size = SizeLong
		}
		src := c.resolveEA(mode, eaReg, size)
		v, ex := c.readOperand(src, size)
		if ex != nil {
			return ex
		}
		v = size.signExtend(v)
		c.compare(c.AReg(reg), v, SizeLong)
		return nil
	case opmode <= 0x2:
		size, _ := sizeFromBits(opmode)
		src := c.resolveEA(mode, eaReg, size)
		v, ex := c.readOperand(src, size)
		if ex != nil {
			return ex
		}
		c.compare(c.D[reg], v, size)
		return nil
	case mode == 1: // CMPM (Ay)+,(Ax)+
		size, _ := sizeFromBits(opmode - 4)
		srcOp := c.resolveEA(1, eaReg, size)
		src, ex := c.readOperand(srcOp, size)
		if ex != nil {
			return ex
		}
		destOp := c.resolveEA(1, reg, size)
		dst, ex2 := c.readOperand(destOp, size)
		if ex2 != nil {
			return ex2
		}
		c.compare(dst, src, size)
		return nil
	default: // EOR Dn,<ea>
		size, _ := sizeFromBits(opmode - 4)
		dest := c.resolveEA(mode, eaReg, size)
		dv, ex := c.readOperand(dest, size)
		if ex != nil {
			return ex
		}
		result := dv ^ size.mask(c.D[reg])
		c.SR.SetNZ(result, size)
		c.SR.SetV(false)
		c.SR.SetC(false)
		return c.writeOperand(dest, size, result)
	}
}

// compare implements CMP's flag update: like SUB but the destination is
// never written and X is left unchanged.
func (c *CPU) compare(dst, src uint32, size Size) {
	result, carry, overflow := subWithExtend(dst, src, false, size)
	c.SR.SetNZ(result, size)
	c.SR.SetV(overflow)
	c.SR.SetC(carry)
}

// executeClassC covers AND, MULU, MULS, EXG, ABCD (opcode class 1100).
func (c *CPU) executeClassC(opcode uint16) *Exception {
	opmode := (opcode >> 6) & 0x7
	reg := uint8((opcode >> 9) & 0x7)
	mode := uint8((opcode >> 3) & 0x7)
	eaReg := uint8(opcode & 0x7)

	switch opmode {
	case 0x3:
		return c.executeMul(reg, mode, eaReg, false)
	case 0x7:
		return c.executeMul(reg, mode, eaReg, true)
	case 0x4:
		if mode == 0 {
			return c.executeAbcd(reg, eaReg, false)
		}
		if mode == 1 {
			return c.executeAbcd(reg, eaReg, true)
		}
	case 0x5:
		if opcode&0xF8 == 0x40 || opcode&0xF8 == 0x48 {
			return c.executeExg(opcode, reg, eaReg)
		}
	case 0x6:
		if opcode&0xF8 == 0x88 {
			return c.executeExg(opcode, reg, eaReg)
		}
	}
	return c.executeAnd(opmode, reg, mode, eaReg)
}

func (c *CPU) executeAnd(opmode uint16, reg uint8, mode, eaReg uint8) *Exception {
	if opmode <= 0x2 {
		size, _ := sizeFromBits(opmode)
		src := c.resolveEA(mode, eaReg, size)
		v, ex := c.readOperand(src, size)
		if ex != nil {
			return ex
		}
		result := size.mask(c.D[reg]) & v
		c.SR.SetNZ(result, size)
		c.SR.SetV(false)
		c.SR.SetC(false)
		c.D[reg] = (c.D[reg] &^ sizeFullMask(size)) | result
		return nil
	}
	size, _ := sizeFromBits(opmode - 4)
	dest := c.resolveEA(mode, eaReg, size)
	dv, ex := c.readOperand(dest, size)
	if ex != nil {
		return ex
	}
	result := dv & size.mask(c.D[reg])
	c.SR.SetNZ(result, size)
	c.SR.SetV(false)
	c.SR.SetC(false)
	return c.writeOperand(dest, size, result)
}

func (c *CPU) executeMul(reg uint8, mode, eaReg uint8, signed bool) *Exception {
	src := c.resolveEA(mode, eaReg, SizeWord)
	v, ex := c.readOperand(src, SizeWord)
	if ex != nil {
		return ex
	}
	var result uint32
	if signed {
		result = uint32(int32(int16(uint16(c.D[reg]))) * int32(int16(uint16(v))))
	} else {
		result = (c.D[reg] & 0xFFFF) * (v & 0xFFFF)
	}
	c.D[reg] = result
	c.SR.SetNZ(result, SizeLong)
	c.SR.SetV(false)
	c.SR.SetC(false)
	return nil
}

func (c *CPU) executeExg(opcode uint16, reg, eaReg uint8) *Exception {
	mode := (opcode >> 3) & 0x1F
	switch mode {
	case 0x08: // Dx,Dy
		c.D[reg], c.D[eaReg] = c.D[eaReg], c.D[reg]
	case 0x09: // Ax,Ay
		av, bv := c.AReg(reg), c.AReg(eaReg)
		c.SetAReg(reg, bv)
		c.SetAReg(eaReg, av)
	default: // Dx,Ay
		dv := c.D[reg]
		av := c.AReg(eaReg)
		c.D[reg] = av
		c.SetAReg(eaReg, dv)
	}
	return nil
}
