package m68k

import "github.com/mdcore/genesis-core/pkg/log"

// Bus is everything the 68000 core needs from its host. Word/long
// alignment, address-error raising, and exception stack-frame construction
// are all handled inside CPU; Bus only needs to move bytes and report
// signals.
type Bus interface {
	ReadByte(addr uint32) uint8
	ReadWord(addr uint32) uint16
	WriteByte(addr uint32, v uint8)
	WriteWord(addr uint32, v uint16)

	InterruptLevel() uint8
	AcknowledgeInterrupt(level uint8)
	Halt() bool
	Reset() bool
}

// CPU interprets 68000 instructions against a Bus, tracking cycles
// consumed per step for the scheduler's master-clock conversion. The bus
// is injected once and held for the CPU's lifetime.
type CPU struct {
	Registers

	bus Bus
	log log.Logger

	currentOpcode uint16
	cycles        int
	stopped       bool
}

// NewCPU constructs a CPU wired to bus. logger may be nil.
func NewCPU(bus Bus, logger log.Logger) *CPU {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	c := &CPU{bus: bus, log: logger}
	c.Reset()
	return c
}

// Reset performs the 68000's power-on/RESET-line sequence: load the
// initial SSP and PC from the vector table's first two long-words,
// supervisor mode, interrupt mask at 7, tracing off.
func (c *CPU) Reset() {
	c.ssp = c.readLongDirect(0)
	c.PC = c.readLongDirect(4)
	c.SR = 0
	c.SR.SetSupervisor(true)
	c.SR.SetIPM(7)
}

// Step executes exactly one instruction (or, while the bus asserts halt, no
// instruction) and returns the number of 68000 clock cycles consumed, for
// the scheduler to convert to master-clock ticks via the fixed divisor of
// seven.
func (c *CPU) Step() int {
	if c.bus.Reset() {
		c.Reset()
		return 4
	}
	if c.bus.Halt() {
		return 4
	}

	if level := c.bus.InterruptLevel(); level > 0 {
		if level == 7 || level > c.SR.IPM() {
			c.stopped = false
			c.serviceInterrupt(level)
		}
	}

	// STOP idles the processor until an interrupt is honored.
	if c.stopped {
		return 4
	}

	c.cycles = 0
	startPC := c.PC

	if startPC&1 != 0 {
		c.raise(addressError(startPC, AccessRead, 0))
		return c.cycles + 34
	}

	opcode := c.fetchWord()
	c.currentOpcode = opcode

	if ex := c.execute(opcode); ex != nil {
		c.raise(*ex)
		c.cycles += 34
	}

	if c.cycles == 0 {
		c.cycles = 4
	}
	return c.cycles
}

func (c *CPU) serviceInterrupt(level uint8) {
	c.bus.AcknowledgeInterrupt(level)

	oldSR := c.SR
	c.SR.SetSupervisor(true)
	c.SR.SetTrace(false)
	c.SR.SetIPM(level)

	sp := c.SSP() - 4
	c.SetSSP(sp)
	c.writeLongDirect(sp, c.PC)
	sp = c.SSP() - 2
	c.SetSSP(sp)
	c.writeWordDirect(sp, uint16(oldSR))

	// Autovectored interrupts occupy vectors 25-31 (spurious at 24).
	vector := 24 + uint32(level)
	c.PC = c.readLongDirect(vector * 4)
	c.cycles += 44
}

// addCycles is called by instruction implementations to account for
// addressing-mode and bus-access overhead beyond the flat base cost
// execute() already assigns per opcode family.
func (c *CPU) addCycles(n int) { c.cycles += n }
