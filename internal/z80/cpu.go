package z80

import "github.com/mdcore/genesis-core/pkg/log"

// ClockHz is the Z80's nominal clock speed on the Genesis, derived from the
// master clock divided by 15 (the 68000 divides it by 7; see
// internal/scheduler).
const ClockHz = 3579545

// CPU is a Zilog Z80 interpreter. It holds no cycle-accurate per-opcode
// timing table; like the 68000 core it returns an approximate T-state count
// per instruction, sufficient for the scheduler's catch-up accounting
// without modelling every instruction's exact contention behavior.
type CPU struct {
	Registers

	bus Bus
	log log.Logger

	halted bool
}

// NewCPU builds a Z80 bound to bus. A nil logger is replaced with a no-op
// logger, matching the nil-safety contract used across this module's cores.
func NewCPU(bus Bus, logger log.Logger) *CPU {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	c := &CPU{bus: bus, log: logger}
	c.Reset()
	return c
}

// Reset puts the CPU in its power-on state: PC=0, IFF1/IFF2 cleared, IM 0.
// The Genesis boot ROM supplies the real reset vector load; on this
// platform the Z80 starts halted with BUSREQ asserted until the 68000
// releases it, which internal/bus models, not this Reset.
func (c *CPU) Reset() {
	c.Registers = Registers{}
	c.halted = false
}

// Step executes one instruction (or services a pending interrupt) and
// returns the approximate T-state count it consumed.
func (c *CPU) Step() int {
	if nmi := c.bus.NMIPending(); nmi {
		return c.serviceNMI()
	}
	if pending, vector := c.bus.InterruptPending(); pending && c.IFF1 {
		return c.serviceInterrupt(vector)
	}
	if c.halted {
		return 4
	}

	c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F)
	opcode := c.fetchByte()
	return c.execute(opcode)
}

func (c *CPU) serviceNMI() int {
	c.IFF2 = c.IFF1
	c.IFF1 = false
	c.halted = false
	c.push(c.PC)
	c.PC = 0x0066
	return 11
}

// serviceInterrupt handles IM 1 (the only mode the Genesis sound driver
// convention relies on: a fixed jump to 0x0038) as well as IM 0's
// data-bus-supplied RST and IM 2's vector-table indirection, in case a
// sound driver reprograms the mode.
func (c *CPU) serviceInterrupt(data uint8) int {
	c.halted = false
	c.IFF1 = false
	c.IFF2 = false
	c.push(c.PC)

	switch c.IM {
	case 0:
		c.PC = uint16(data & 0x38)
		return 13
	case 2:
		vector := uint16(c.I)<<8 | uint16(data)
		c.PC = c.readWord(vector)
		return 19
	default:
		c.PC = 0x0038
		return 13
	}
}
