package m68k

// shiftType is the 68000's four shift/rotate families (bits 4-3 of the
// register form, bits 10-9 of the memory form).
type shiftType uint8

const (
	shiftArithmetic shiftType = iota
	shiftLogical
	shiftRotateExtend
	shiftRotate
)

// executeShiftRotate covers opcode class 1110: ASx/LSx/ROXx/ROx, both the
// register form (variable count, byte/word/long on a data register) and
// the memory form (fixed count of one, word size, on any non-register
// effective address).
func (c *CPU) executeShiftRotate(opcode uint16) *Exception {
	if opcode&0xC0 == 0xC0 {
		return c.executeShiftMemory(opcode)
	}
	return c.executeShiftRegister(opcode)
}

func (c *CPU) executeShiftMemory(opcode uint16) *Exception {
	left := opcode&0x0100 != 0
	typ := shiftType((opcode >> 9) & 0x3)
	mode := uint8((opcode >> 3) & 0x7)
	reg := uint8(opcode & 0x7)

	dest := c.resolveEA(mode, reg, SizeWord)
	v, ex := c.readOperand(dest, SizeWord)
	if ex != nil {
		return ex
	}
	result := c.shiftN(v, 1, SizeWord, left, typ)
	return c.writeOperand(dest, SizeWord, result)
}

func (c *CPU) executeShiftRegister(opcode uint16) *Exception {
	size, ok := sizeFromBits((opcode >> 6) & 0x3)
	if !ok {
		return c.illegal()
	}
	left := opcode&0x0100 != 0
	typ := shiftType((opcode >> 3) & 0x3)
	countField := uint8((opcode >> 9) & 0x7)
	reg := uint8(opcode & 0x7)

	var count uint8
	if opcode&0x20 != 0 {
		count = uint8(c.D[countField] % 64)
	} else {
		count = countField
		if count == 0 {
			count = 8
		}
	}

	v := size.mask(c.D[reg])
	result := c.shiftN(v, count, size, left, typ)
	c.D[reg] = (c.D[reg] &^ sizeFullMask(size)) | result
	return nil
}

// shiftN performs count single-bit shifts/rotates, updating N/Z/V/C/X as
// it goes and returning the final (size-masked) value. count == 0 clears C
// and leaves X untouched, per the 68000's documented zero-count behavior.
func (c *CPU) shiftN(v uint32, count uint8, size Size, left bool, typ shiftType) uint32 {
	if count == 0 {
		c.SR.SetC(false)
		c.SR.SetNZ(v, size)
		c.SR.SetV(false)
		return v
	}

	signMask := uint32(1) << (size*8 - 1)
	var lastOut bool
	overflow := false

	for i := uint8(0); i < count; i++ {
		signBefore := v&signMask != 0
		switch typ {
		case shiftArithmetic:
			if left {
				lastOut = v&signMask != 0
				v = size.mask(v << 1)
				if (v&signMask != 0) != signBefore {
					overflow = true
				}
			} else {
				lastOut = v&1 != 0
				v = size.mask(v >> 1)
				if signBefore {
					v |= signMask
				}
			}
			c.SR.SetX(lastOut)
		case shiftLogical:
			if left {
				lastOut = v&signMask != 0
				v = size.mask(v << 1)
			} else {
				lastOut = v&1 != 0
				v = size.mask(v >> 1)
			}
			c.SR.SetX(lastOut)
		case shiftRotateExtend:
			x := c.SR.X()
			if left {
				lastOut = v&signMask != 0
				v = size.mask(v<<1) | b2u32(x)
			} else {
				lastOut = v&1 != 0
				v = size.mask(v>>1) | (b2u32(x) << (size*8 - 1))
			}
			c.SR.SetX(lastOut)
		case shiftRotate:
			if left {
				lastOut = v&signMask != 0
				v = size.mask(v<<1) | b2u32(lastOut)
			} else {
				lastOut = v&1 != 0
				v = size.mask(v>>1) | (b2u32(lastOut) << (size*8 - 1))
			}
		}
	}

	c.SR.SetC(lastOut)
	c.SR.SetNZ(v, size)
	if typ == shiftArithmetic {
		c.SR.SetV(overflow)
	} else {
		c.SR.SetV(false)
	}
	return v
}

func b2u32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
