package m68k

// executeMove decodes MOVE/MOVEA (opcode classes 01/10/11, which share the
// size-then-dest-then-src field layout): bits 13-12 select size (01=byte,
// 11=word, 10=long), bits 11-9/8-6 the destination register/mode, bits 5-0
// the source effective address.
func (c *CPU) executeMove(opcode uint16) *Exception {
	var size Size
	switch (opcode >> 12) & 0x3 {
	case 0x1:
		size = SizeByte
	case 0x3:
		size = SizeWord
	case 0x2:
		size = SizeLong
	default:
		return c.illegal()
	}

	srcMode := uint8((opcode >> 3) & 0x7)
	srcReg := uint8(opcode & 0x7)
	destReg := uint8((opcode >> 9) & 0x7)
	destMode := uint8((opcode >> 6) & 0x7)

	src := c.resolveEA(srcMode, srcReg, size)
	value, ex := c.readOperand(src, size)
	if ex != nil {
		return ex
	}

	isMovea := destMode == 1
	dest := c.resolveEA(destMode, destReg, size)

	if isMovea {
		c.SetAReg(destReg, size.signExtend(value))
		return nil
	}

	c.SR.SetNZ(value, size)
	c.SR.SetV(false)
	c.SR.SetC(false)

	return c.writeOperand(dest, size, value)
}

// executeMoveq implements MOVEQ #imm,Dn: an 8-bit immediate sign-extended
// into a data register, with the usual NZVC update and no memory access.
func (c *CPU) executeMoveq(opcode uint16) *Exception {
	if opcode&0x0100 != 0 {
		return c.illegal() // bit 8 set selects a different class-7 form this core doesn't implement
	}
	reg := uint8((opcode >> 9) & 0x7)
	imm := int32(int8(opcode & 0xFF))
	c.D[reg] = uint32(imm)
	c.SR.SetNZ(uint32(imm), SizeLong)
	c.SR.SetV(false)
	c.SR.SetC(false)
	return nil
}

// executeClass4 covers the large "miscellaneous" opcode class 0100: unary
// data ops (NEGX/CLR/NEG/NOT/TST), NBCD, SWAP/EXT, LEA/PEA, JMP/JSR,
// MOVEM, and the single-opcode control instructions (NOP/RTS/RTE/RTR/
// TRAP/TRAPV/LINK/UNLK/STOP/RESET/ILLEGAL), each identified by its own bit
// pattern within the class.
func (c *CPU) executeClass4(opcode uint16) *Exception {
	switch {
	case opcode == 0x4AFC:
		return c.illegal()
	case opcode&0xFFC0 == 0x4E80 && opcode&0x38 != 0x08:
		return c.executeJmpJsr(opcode, false)
	case opcode&0xFFC0 == 0x4EC0:
		return c.executeJmpJsr(opcode, true)
	case opcode&0xFFC0 == 0x4840:
		return c.executeSwapOrPea(opcode)
	case opcode&0xFFB8 == 0x4880:
		return c.executeExt(opcode)
	case opcode&0xFFC0 == 0x40C0:
		return c.executeMoveFromSR(opcode)
	case opcode&0xFFC0 == 0x44C0:
		return c.executeMoveToCCR(opcode)
	case opcode&0xFFC0 == 0x46C0:
		return c.executeMoveToSR(opcode)
	case opcode&0xFF00 == 0x4000:
		return c.executeUnary(opcode, unaryNegX)
	case opcode&0xFF00 == 0x4200:
		return c.executeUnary(opcode, unaryClr)
	case opcode&0xFF00 == 0x4400:
		return c.executeUnary(opcode, unaryNeg)
	case opcode&0xFF00 == 0x4600:
		return c.executeUnary(opcode, unaryNot)
	case opcode&0xFFC0 == 0x4AC0:
		return c.executeTas(opcode)
	case opcode&0xFF00 == 0x4A00:
		return c.executeUnary(opcode, unaryTst)
	case opcode&0xFFC0 == 0x4800:
		return c.executeNbcd(opcode)
	case opcode&0xFB80 == 0x4880:
		return c.executeMovem(opcode)
	case opcode&0xF1C0 == 0x41C0:
		return c.executeLea(opcode)
	case opcode&0xF1C0 == 0x4180:
		return c.executeChk(opcode)
	case opcode == 0x4E71:
		return nil // NOP
	case opcode == 0x4E73:
		return c.executeRte()
	case opcode == 0x4E77:
		return c.executeRtr()
	case opcode == 0x4E75:
		return c.executeRts()
	case opcode == 0x4E76:
		return c.executeTrapv()
	case opcode&0xFFF0 == 0x4E40:
		return c.executeTrap(opcode)
	case opcode&0xFFF8 == 0x4E50:
		return c.executeLink(opcode, SizeWord)
	case opcode&0xFFF8 == 0x4E58:
		return c.executeUnlk(opcode)
	case opcode&0xFFF8 == 0x4E60:
		return c.executeMoveUSP(opcode)
	case opcode == 0x4E70:
		return nil // RESET: host-visible only through the bus; the core treats it as a no-op on the CPU side
	case opcode == 0x4E72:
		return c.executeStop()
	default:
		return c.illegal()
	}
}

func (c *CPU) executeLea(opcode uint16) *Exception {
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	destReg := uint8((opcode >> 9) & 0x7)
	op := c.resolveEA(mode, reg, SizeLong)
	if op.mode == EADataDirect || op.mode == EAAddrDirect || op.mode == EAImmediate {
		return c.illegal()
	}
	c.SetAReg(destReg, op.addr)
	return nil
}

func (c *CPU) executeSwapOrPea(opcode uint16) *Exception {
	if opcode&0x38 == 0 {
		reg := uint8(opcode & 0x7)
		v := c.D[reg]
		v = v<<16 | v>>16
		c.D[reg] = v
		c.SR.SetNZ(v, SizeLong)
		c.SR.SetV(false)
		c.SR.SetC(false)
		return nil
	}
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	op := c.resolveEA(mode, reg, SizeLong)
	if op.mode == EADataDirect || op.mode == EAAddrDirect || op.mode == EAImmediate {
		return c.illegal()
	}
	sp := c.SP() - 4
	c.SetSP(sp)
	return c.writeMem(sp, SizeLong, op.addr)
}

func (c *CPU) executeExt(opcode uint16) *Exception {
	reg := uint8(opcode & 0x7)
	wordToLong := opcode&0x40 != 0
	if wordToLong {
		v := uint32(int32(int16(uint16(c.D[reg]))))
		c.D[reg] = v
		c.SR.SetNZ(v, SizeLong)
	} else {
		v := uint16(int16(int8(uint8(c.D[reg]))))
		c.D[reg] = (c.D[reg] &^ 0xFFFF) | uint32(v)
		c.SR.SetNZ(uint32(v), SizeWord)
	}
	c.SR.SetV(false)
	c.SR.SetC(false)
	return nil
}

type unaryOp uint8

const (
	unaryNegX unaryOp = iota
	unaryClr
	unaryNeg
	unaryNot
	unaryTst
)

func (c *CPU) executeUnary(opcode uint16, op unaryOp) *Exception {
	size, ok := sizeFromBits((opcode >> 6) & 0x3)
	if !ok {
		return c.illegal()
	}
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	dest := c.resolveEA(mode, reg, size)

	switch op {
	case unaryClr:
		c.SR.SetZ(true)
		c.SR.SetN(false)
		c.SR.SetV(false)
		c.SR.SetC(false)
		return c.writeOperand(dest, size, 0)
	case unaryTst:
		v, ex := c.readOperand(dest, size)
		if ex != nil {
			return ex
		}
		c.SR.SetNZ(v, size)
		c.SR.SetV(false)
		c.SR.SetC(false)
		return nil
	case unaryNeg, unaryNegX:
		v, ex := c.readOperand(dest, size)
		if ex != nil {
			return ex
		}
		extend := op == unaryNegX && c.SR.X()
		result, carry, overflow := subWithExtend(0, v, extend, size)
		if op == unaryNegX {
			c.SR.SetZ(c.SR.Z() && result == 0)
		} else {
			c.SR.SetZ(result == 0)
		}
		c.SR.SetN(size.signBit(result))
		c.SR.SetV(overflow)
		c.SR.SetC(carry)
		c.SR.SetX(carry)
		return c.writeOperand(dest, size, result)
	default: // unaryNot
		v, ex := c.readOperand(dest, size)
		if ex != nil {
			return ex
		}
		result := size.mask(^v)
		c.SR.SetNZ(result, size)
		c.SR.SetV(false)
		c.SR.SetC(false)
		return c.writeOperand(dest, size, result)
	}
}

// executeTas implements TAS: set the sign/zero flags from the tested byte,
// then set its top bit.
func (c *CPU) executeTas(opcode uint16) *Exception {
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	dest := c.resolveEA(mode, reg, SizeByte)
	v, ex := c.readOperand(dest, SizeByte)
	if ex != nil {
		return ex
	}
	c.SR.SetNZ(v, SizeByte)
	c.SR.SetV(false)
	c.SR.SetC(false)
	return c.writeOperand(dest, SizeByte, v|0x80)
}

// executeMovem implements MOVEM: a register-list word followed by a
// transfer of each selected register to/from memory, four bytes (long) or
// two (word, sign-extended on load) at a time. Predecrement-mode transfers
// walk the register list in reverse order, matching real hardware.
func (c *CPU) executeMovem(opcode uint16) *Exception {
	toMemory := opcode&0x0400 == 0
	size := SizeWord
	if opcode&0x40 != 0 {
		size = SizeLong
	}
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	list := c.fetchWord()

	regOrder := func(i int) (isAddr bool, n uint8) {
		if i < 8 {
			return false, uint8(i)
		}
		return true, uint8(i - 8)
	}

	if mode == 4 { // predecrement: list bit 0 = A7, stored first (highest address) down to D0
		addr := c.AReg(reg)
		for i := 0; i < 16; i++ {
			if list&(1<<uint(i)) == 0 {
				continue
			}
			isAddr, n := regOrder(15 - i)
			addr -= uint32(size)
			var v uint32
			if isAddr {
				v = c.AReg(n)
			} else {
				v = c.D[n]
			}
			if ex := c.writeMem(addr, size, v); ex != nil {
				return ex
			}
		}
		c.SetAReg(reg, addr)
		return nil
	}

	op := c.resolveEA(mode, reg, size)
	addr := op.addr
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		isAddr, n := regOrder(i)
		if toMemory {
			var v uint32
			if isAddr {
				v = c.AReg(n)
			} else {
				v = c.D[n]
			}
			if ex := c.writeMem(addr, size, v); ex != nil {
				return ex
			}
		} else {
			v, ex := c.readMem(addr, size)
			if ex != nil {
				return ex
			}
			if size == SizeWord {
				v = uint32(int32(int16(v)))
			}
			if isAddr {
				c.SetAReg(n, v)
			} else {
				c.D[n] = v
			}
		}
		addr += uint32(size)
	}
	if mode == 3 { // postincrement
		c.SetAReg(reg, addr)
	}
	return nil
}

func (c *CPU) executeJmpJsr(opcode uint16, isJsr bool) *Exception {
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	op := c.resolveEA(mode, reg, SizeLong)
	if op.mode == EADataDirect || op.mode == EAAddrDirect || op.mode == EAPostInc || op.mode == EAPreDec || op.mode == EAImmediate {
		return c.illegal()
	}
	if isJsr {
		sp := c.SP() - 4
		c.SetSP(sp)
		if ex := c.writeMem(sp, SizeLong, c.PC); ex != nil {
			return ex
		}
	}
	c.PC = op.addr
	return nil
}

func (c *CPU) executeRts() *Exception {
	ret, ex := c.readMem(c.SP(), SizeLong)
	if ex != nil {
		return ex
	}
	c.SetSP(c.SP() + 4)
	c.PC = ret
	return nil
}

func (c *CPU) executeRte() *Exception {
	if !c.SR.Supervisor() {
		e := Exception{Vector: VectorPrivilegeViolate}
		return &e
	}
	sr, ex := c.readMem(c.SP(), SizeWord)
	if ex != nil {
		return ex
	}
	pc, ex2 := c.readMem(c.SP()+2, SizeLong)
	if ex2 != nil {
		return ex2
	}
	c.SetSP(c.SP() + 6)
	c.SR = StatusRegister(sr)
	c.PC = pc
	return nil
}

func (c *CPU) executeRtr() *Exception {
	ccr, ex := c.readMem(c.SP(), SizeWord)
	if ex != nil {
		return ex
	}
	pc, ex2 := c.readMem(c.SP()+2, SizeLong)
	if ex2 != nil {
		return ex2
	}
	c.SetSP(c.SP() + 6)
	c.SR = (c.SR &^ 0x1F) | StatusRegister(ccr&0x1F)
	c.PC = pc
	return nil
}

func (c *CPU) executeTrap(opcode uint16) *Exception {
	vec := uint8(opcode & 0xF)
	e := Exception{Vector: uint8(VectorTrapBase) + vec}
	return &e
}

func (c *CPU) executeTrapv() *Exception {
	if !c.SR.V() {
		return nil
	}
	e := Exception{Vector: VectorTRAPV}
	return &e
}

// executeStop loads the immediate word into SR and idles the processor
// until an interrupt above the new mask arrives.
func (c *CPU) executeStop() *Exception {
	if !c.SR.Supervisor() {
		e := Exception{Vector: VectorPrivilegeViolate}
		return &e
	}
	c.SR = StatusRegister(c.fetchWord())
	c.stopped = true
	return nil
}

func (c *CPU) executeLink(opcode uint16, _ Size) *Exception {
	reg := uint8(opcode & 0x7)
	disp := int32(int16(c.fetchWord()))
	sp := c.SP() - 4
	c.SetSP(sp)
	if ex := c.writeMem(sp, SizeLong, c.AReg(reg)); ex != nil {
		return ex
	}
	c.SetAReg(reg, sp)
	c.SetSP(uint32(int64(sp) + int64(disp)))
	return nil
}

func (c *CPU) executeUnlk(opcode uint16) *Exception {
	reg := uint8(opcode & 0x7)
	newSP := c.AReg(reg)
	v, ex := c.readMem(newSP, SizeLong)
	if ex != nil {
		return ex
	}
	c.SetSP(newSP + 4)
	c.SetAReg(reg, v)
	return nil
}

func (c *CPU) executeMoveUSP(opcode uint16) *Exception {
	if !c.SR.Supervisor() {
		e := Exception{Vector: VectorPrivilegeViolate}
		return &e
	}
	reg := uint8(opcode & 0x7)
	toUSP := opcode&0x8 == 0
	if toUSP {
		c.SetUSP(c.AReg(reg))
	} else {
		c.SetAReg(reg, c.USP())
	}
	return nil
}

func (c *CPU) executeMoveFromSR(opcode uint16) *Exception {
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	dest := c.resolveEA(mode, reg, SizeWord)
	return c.writeOperand(dest, SizeWord, uint32(c.SR))
}

func (c *CPU) executeMoveToCCR(opcode uint16) *Exception {
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	src := c.resolveEA(mode, reg, SizeWord)
	v, ex := c.readOperand(src, SizeWord)
	if ex != nil {
		return ex
	}
	c.SR = (c.SR &^ 0x1F) | StatusRegister(v&0x1F)
	return nil
}

func (c *CPU) executeMoveToSR(opcode uint16) *Exception {
	if !c.SR.Supervisor() {
		e := Exception{Vector: VectorPrivilegeViolate}
		return &e
	}
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	src := c.resolveEA(mode, reg, SizeWord)
	v, ex := c.readOperand(src, SizeWord)
	if ex != nil {
		return ex
	}
	c.SR = StatusRegister(v)
	return nil
}

func (c *CPU) executeNbcd(opcode uint16) *Exception {
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)
	dest := c.resolveEA(mode, reg, SizeByte)
	v, ex := c.readOperand(dest, SizeByte)
	if ex != nil {
		return ex
	}
	result, carry := bcdSubtract(0, uint8(v), c.SR.X())
	c.SR.SetC(carry)
	c.SR.SetX(carry)
	if result != 0 {
		c.SR.SetZ(false)
	}
	return c.writeOperand(dest, SizeByte, uint32(result))
}

func (c *CPU) executeChk(opcode uint16) *Exception {
	reg := uint8((opcode >> 9) & 0x7)
	mode := uint8((opcode >> 3) & 0x7)
	srcReg := uint8(opcode & 0x7)
	src := c.resolveEA(mode, srcReg, SizeWord)
	bound, ex := c.readOperand(src, SizeWord)
	if ex != nil {
		return ex
	}
	v := int16(uint16(c.D[reg]))
	if v < 0 {
		c.SR.SetN(true)
		e := Exception{Vector: VectorCHK}
		return &e
	}
	if v > int16(uint16(bound)) {
		c.SR.SetN(false)
		e := Exception{Vector: VectorCHK}
		return &e
	}
	return nil
}
