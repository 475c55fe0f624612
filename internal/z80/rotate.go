package z80

// rlc/rrc/rl/rr/sla/sra/sll/srl implement the CB-prefixed rotate/shift
// family. Each updates S/Z/H(=0)/PV(parity)/N(=0)/C and the undocumented
// Y/X bits from the result, except the accumulator-only forms (RLCA etc.)
// which leave S/Z/PV untouched — those are implemented separately below.

func (r *Registers) rlc(v uint8) uint8 {
	carry := v&0x80 != 0
	result := v<<1 | b2u8(carry)
	r.setRotateFlags(result, carry)
	return result
}

func (r *Registers) rrc(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v>>1 | (b2u8(carry) << 7)
	r.setRotateFlags(result, carry)
	return result
}

func (r *Registers) rl(v uint8) uint8 {
	carry := v&0x80 != 0
	result := v<<1 | b2u8(r.flag(flagC))
	r.setRotateFlags(result, carry)
	return result
}

func (r *Registers) rr(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v>>1 | (b2u8(r.flag(flagC)) << 7)
	r.setRotateFlags(result, carry)
	return result
}

func (r *Registers) sla(v uint8) uint8 {
	carry := v&0x80 != 0
	result := v << 1
	r.setRotateFlags(result, carry)
	return result
}

func (r *Registers) sra(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v>>1 | (v & 0x80)
	r.setRotateFlags(result, carry)
	return result
}

// sll is the undocumented "shift left, shift 1 into bit 0" opcode present
// at CB 30-37 on real Z80 silicon.
func (r *Registers) sll(v uint8) uint8 {
	carry := v&0x80 != 0
	result := v<<1 | 1
	r.setRotateFlags(result, carry)
	return result
}

func (r *Registers) srl(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v >> 1
	r.setRotateFlags(result, carry)
	return result
}

func (r *Registers) setRotateFlags(result uint8, carry bool) {
	r.setSZ(result)
	r.setFlag(flagH, false)
	r.setFlag(flagPV, parity(result))
	r.setFlag(flagN, false)
	r.setFlag(flagC, carry)
	r.setUndoc(result)
}

// rlca/rrca/rla/rra are the unprefixed accumulator-only rotates: they
// update only C/H(=0)/N(=0) plus the undocumented Y/X bits, leaving
// S/Z/P-V exactly as they were.
func (r *Registers) rlca() {
	carry := r.A&0x80 != 0
	r.A = r.A<<1 | b2u8(carry)
	r.setFlag(flagH, false)
	r.setFlag(flagN, false)
	r.setFlag(flagC, carry)
	r.setUndoc(r.A)
}

func (r *Registers) rrca() {
	carry := r.A&0x01 != 0
	r.A = r.A>>1 | (b2u8(carry) << 7)
	r.setFlag(flagH, false)
	r.setFlag(flagN, false)
	r.setFlag(flagC, carry)
	r.setUndoc(r.A)
}

func (r *Registers) rla() {
	carry := r.A&0x80 != 0
	r.A = r.A<<1 | b2u8(r.flag(flagC))
	r.setFlag(flagH, false)
	r.setFlag(flagN, false)
	r.setFlag(flagC, carry)
	r.setUndoc(r.A)
}

func (r *Registers) rra() {
	carry := r.A&0x01 != 0
	r.A = r.A>>1 | (b2u8(r.flag(flagC)) << 7)
	r.setFlag(flagH, false)
	r.setFlag(flagN, false)
	r.setFlag(flagC, carry)
	r.setUndoc(r.A)
}

// rld/rrd rotate a BCD digit between A's low nibble and (HL), used by
// ED-prefixed decimal-string routines.
func (c *CPU) rld() {
	mem := c.bus.ReadByte(c.HL())
	newMem := (mem << 4) | (c.A & 0x0F)
	newA := (c.A & 0xF0) | (mem >> 4)
	c.bus.WriteByte(c.HL(), newMem)
	c.A = newA
	c.setFlag(flagH, false)
	c.setFlag(flagN, false)
	c.setFlag(flagPV, parity(c.A))
	c.setSZ(c.A)
	c.setUndoc(c.A)
}

func (c *CPU) rrd() {
	mem := c.bus.ReadByte(c.HL())
	newMem := (c.A << 4) | (mem >> 4)
	newA := (c.A & 0xF0) | (mem & 0x0F)
	c.bus.WriteByte(c.HL(), newMem)
	c.A = newA
	c.setFlag(flagH, false)
	c.setFlag(flagN, false)
	c.setFlag(flagPV, parity(c.A))
	c.setSZ(c.A)
	c.setUndoc(c.A)
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
