package m68k

// bcdAdd adds two packed-BCD bytes plus an extend bit, nibble by nibble
// with decimal correction, the standard 68000 ABCD algorithm.
func bcdAdd(a, b uint8, x bool) (result uint8, carry bool) {
	var extend uint8
	if x {
		extend = 1
	}
	lo := (a & 0x0F) + (b & 0x0F) + extend
	hi := (a >> 4) + (b >> 4)
	if lo > 9 {
		lo += 6
	}
	if lo > 0x0F {
		hi++
		lo &= 0x0F
	}
	if hi > 9 {
		hi += 6
		carry = true
	}
	if hi > 0x0F {
		carry = true
		hi &= 0x0F
	}
	return hi<<4 | lo, carry
}

// bcdSubtract computes a-b-x in packed BCD, the shared SBCD/NBCD algorithm.
func bcdSubtract(a, b uint8, x bool) (result uint8, borrow bool) {
	var extend int8
	if x {
		extend = 1
	}
	lo := int8(a&0x0F) - int8(b&0x0F) - extend
	hi := int8(a>>4) - int8(b>>4)
	if lo < 0 {
		lo += 10
		hi--
	}
	if hi < 0 {
		hi += 10
		borrow = true
	}
	return uint8(hi)<<4 | uint8(lo&0x0F), borrow
}

// executeAbcd implements ABCD Dy,Dx / ABCD -(Ay),-(Ax): destReg/srcReg are
// the Rx/Ry fields (bits 11-9 and 2-0).
func (c *CPU) executeAbcd(destReg, srcReg uint8, memMode bool) *Exception {
	if memMode {
		c.SetAReg(srcReg, c.AReg(srcReg)-1)
		srcV, ex := c.readMem(c.AReg(srcReg), SizeByte)
		if ex != nil {
			return ex
		}
		c.SetAReg(destReg, c.AReg(destReg)-1)
		dstV, ex2 := c.readMem(c.AReg(destReg), SizeByte)
		if ex2 != nil {
			return ex2
		}
		result, carry := bcdAdd(uint8(dstV), uint8(srcV), c.SR.X())
		c.SR.SetZ(c.SR.Z() && result == 0)
		c.SR.SetC(carry)
		c.SR.SetX(carry)
		return c.writeMem(c.AReg(destReg), SizeByte, uint32(result))
	}
	result, carry := bcdAdd(uint8(c.D[destReg]), uint8(c.D[srcReg]), c.SR.X())
	c.SR.SetZ(c.SR.Z() && result == 0)
	c.SR.SetC(carry)
	c.SR.SetX(carry)
	c.D[destReg] = (c.D[destReg] &^ 0xFF) | uint32(result)
	return nil
}

// executeSbcd implements SBCD Dy,Dx / SBCD -(Ay),-(Ax): Dx - Dy - X.
func (c *CPU) executeSbcd(destReg, srcReg uint8, memMode bool) *Exception {
	if memMode {
		c.SetAReg(srcReg, c.AReg(srcReg)-1)
		srcV, ex := c.readMem(c.AReg(srcReg), SizeByte)
		if ex != nil {
			return ex
		}
		c.SetAReg(destReg, c.AReg(destReg)-1)
		dstV, ex2 := c.readMem(c.AReg(destReg), SizeByte)
		if ex2 != nil {
			return ex2
		}
		result, borrow := bcdSubtract(uint8(dstV), uint8(srcV), c.SR.X())
		c.SR.SetZ(c.SR.Z() && result == 0)
		c.SR.SetC(borrow)
		c.SR.SetX(borrow)
		return c.writeMem(c.AReg(destReg), SizeByte, uint32(result))
	}
	result, borrow := bcdSubtract(uint8(c.D[destReg]), uint8(c.D[srcReg]), c.SR.X())
	c.SR.SetZ(c.SR.Z() && result == 0)
	c.SR.SetC(borrow)
	c.SR.SetX(borrow)
	c.D[destReg] = (c.D[destReg] &^ 0xFF) | uint32(result)
	return nil
}
