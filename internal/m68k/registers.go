// Package m68k implements a Motorola 68000 instruction interpreter driven
// against a bus interface.
package m68k

// Registers holds the 68000's data and address register files. A7 is not
// stored directly: it is always one of usp or ssp, selected by the status
// register's supervisor bit (invariant: exactly one of usp/ssp is
// addressable as A7 at any instant).
type Registers struct {
	D   [8]uint32
	A   [6]uint32 // A0-A5
	a6  uint32    // A6, kept separate only to keep A[] fixed-size and simple
	usp uint32
	ssp uint32
	PC  uint32
	SR  StatusRegister
}

// AReg returns the current value of address register n (0-7), resolving A7
// to usp or ssp per the supervisor bit.
func (r *Registers) AReg(n uint8) uint32 {
	switch {
	case n < 6:
		return r.A[n]
	case n == 6:
		return r.a6
	default:
		if r.SR.Supervisor() {
			return r.ssp
		}
		return r.usp
	}
}

// SetAReg writes address register n.
func (r *Registers) SetAReg(n uint8, v uint32) {
	switch {
	case n < 6:
		r.A[n] = v
	case n == 6:
		r.a6 = v
	default:
		if r.SR.Supervisor() {
			r.ssp = v
		} else {
			r.usp = v
		}
	}
}

// SP returns the currently active stack pointer (A7).
func (r *Registers) SP() uint32 { return r.AReg(7) }

// SetSP writes the currently active stack pointer.
func (r *Registers) SetSP(v uint32) { r.SetAReg(7, v) }

// USP and SSP give direct access to both stack pointers regardless of the
// current supervisor state, for exception entry/exit and instructions that
// explicitly name USP (MOVE USP).
func (r *Registers) USP() uint32     { return r.usp }
func (r *Registers) SetUSP(v uint32) { r.usp = v }
func (r *Registers) SSP() uint32     { return r.ssp }
func (r *Registers) SetSSP(v uint32) { r.ssp = v }
