// Package ioreg implements the 68000-side I/O register block at
// 0xA10000-0xA1001F: the hardware version register and the three
// controller ports (player 1, player 2, and the expansion port), each
// exposing a Data/Ctrl/Tx/Rx/S-Ctrl register set. Each port is a register
// plus a button-state bitmask with Read/Write/Press/Release, generalized
// to the Genesis's three independent TH-multiplexed ports.
package ioreg

// Button identifies a physical button on a standard Genesis 3-button or
// 6-button controller, one bit per button across two reporting nibbles.
type Button = uint16

const (
	ButtonUp Button = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonB
	ButtonC
	ButtonA
	ButtonStart
	// Extra buttons reported only by the 6-button pad's third TH-low cycle.
	ButtonZ
	ButtonY
	ButtonX
	ButtonMode
)

// Port is one controller port's Data/Ctrl register pair plus the button
// state the host drives. TH (bit 6 of Data) selects which nibble of
// buttons the next Data read exposes; a 6-button pad additionally counts
// consecutive TH transitions to insert its extra ID/button cycle.
type Port struct {
	ctrl uint8 // Ctrl register: 1 = output, 0 = input, per bit
	data uint8 // last value written to Data (drives TH and any output bits)

	state Button // currently pressed buttons

	sixButton     bool
	thTransitions int
}

// New returns a port with no buttons pressed and all lines configured as
// input (the power-on default).
func New(sixButton bool) *Port {
	return &Port{sixButton: sixButton}
}

// Press marks button as held.
func (p *Port) Press(b Button) { p.state |= b }

// Release marks button as released.
func (p *Port) Release(b Button) { p.state &^= b }

// SetState replaces the entire button bitmask for the frame, the shape
// the host facade uses when applying a frame's input snapshot in one call.
func (p *Port) SetState(s Button) { p.state = s; p.thTransitions = 0 }

// WriteCtrl sets which Data bits are host-driven outputs (1) vs
// controller-driven inputs (0).
func (p *Port) WriteCtrl(v uint8) { p.ctrl = v }
func (p *Port) ReadCtrl() uint8   { return p.ctrl }

// WriteData latches the output bits the 68000 drives, most importantly
// TH (bit 6), which steps the 3-button multiplexer and the 6-button
// extended-ID sequence.
func (p *Port) WriteData(v uint8) {
	prevTH := p.data&0x40 != 0
	p.data = (p.data &^ p.ctrl) | (v & p.ctrl)
	th := p.data&0x40 != 0
	if th && !prevTH {
		p.thTransitions++
	}
}

// ReadData returns the current Data-port reading. Button lines are active
// low: a pressed button reads 0. TH high exposes Up/Down/Left/Right/B/C
// in bits 0-5; TH low exposes Up/Down in bits 0-1, zeros in 2-3, and
// A/Start in bits 4-5. A 6-button pad is in its extended cycle while the
// count of TH rising edges is 3 modulo 4: the TH-high read then reports
// Z/Y/X/Mode in bits 0-3 (B/C stay in bits 4-5), and the TH-low read that
// follows pulls bits 0-3 all low.
func (p *Port) ReadData() uint8 {
	th := p.data&0x40 != 0
	out := p.data & 0xC0 // TH/TR echo back as driven
	extended := p.sixButton && p.thTransitions%4 == 3

	if th {
		if extended {
			out |= ^uint8(p.state>>8) & 0x0F // Z,Y,X,Mode
			out |= ^uint8(p.state) & 0x30    // B,C in bits 4-5
			return out
		}
		out |= ^uint8(p.state) & 0x3F // Up,Down,Left,Right,B,C
		return out
	}

	out |= ^uint8(p.state>>2) & 0x30 // A,Start in bits 4-5
	if !extended {
		out |= ^uint8(p.state) & 0x03 // Up,Down in bits 0-1
	}
	return out
}

// VersionRegister is the read-only byte at 0xA10001: hardware/region
// identification plus the PAL/NTSC and overseas/domestic bits the BIOS
// consults at boot.
type VersionRegister struct {
	pal      bool
	overseas bool
}

func NewVersionRegister(pal, overseas bool) VersionRegister {
	return VersionRegister{pal: pal, overseas: overseas}
}

// Read packs the version register's documented bit layout: bit 7 set when
// no TMSS/cart-in detect circuitry objects (always 1 here, no disc
// drive), bit 6 PAL/NTSC, bit 5 overseas/domestic, bits 3:0 a fixed
// hardware revision nibble.
func (v VersionRegister) Read() uint8 {
	b := uint8(0x80 | 0x01)
	if v.pal {
		b |= 0x40
	}
	if v.overseas {
		b |= 0x20
	}
	return b
}
