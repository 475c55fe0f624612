package z80

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBus struct {
	mem        [1 << 16]uint8
	ports      [256]uint8
	irqPending bool
	irqVector  uint8
	nmi        bool
}

func (b *fakeBus) ReadByte(addr uint16) uint8      { return b.mem[addr] }
func (b *fakeBus) WriteByte(addr uint16, v uint8)  { b.mem[addr] = v }
func (b *fakeBus) In(port uint8) uint8             { return b.ports[port] }
func (b *fakeBus) Out(port uint8, v uint8)         { b.ports[port] = v }
func (b *fakeBus) InterruptPending() (bool, uint8) { return b.irqPending, b.irqVector }
func (b *fakeBus) NMIPending() bool                { return b.nmi }

func newTestCPU() (*CPU, *fakeBus) {
	bus := &fakeBus{}
	return NewCPU(bus, nil), bus
}

func TestLdRR(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.B = 0x42
	bus.WriteByte(0, 0x78) // LD A,B (dst=7,src=0)
	cpu.Step()
	assert.Equal(t, uint8(0x42), cpu.A)
	assert.Equal(t, uint16(1), cpu.PC)
}

func TestAddAImmediateSetsCarryAndZero(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.A = 0xFF
	bus.WriteByte(0, 0xC6) // ADD A,n
	bus.WriteByte(1, 0x01)
	cpu.Step()

	assert.Equal(t, uint8(0), cpu.A)
	assert.True(t, cpu.flag(flagZ))
	assert.True(t, cpu.flag(flagC))
	assert.True(t, cpu.flag(flagH))
}

func TestIncDecFlags(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.D = 0x7F
	bus.WriteByte(0, 0x14) // INC D
	cpu.Step()

	assert.Equal(t, uint8(0x80), cpu.D)
	assert.True(t, cpu.flag(flagPV), "0x7F+1 overflows into negative")
	assert.True(t, cpu.flag(flagS))
}

func TestJrZTaken(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.setFlag(flagZ, true)
	bus.WriteByte(0, 0x28) // JR Z,d
	bus.WriteByte(1, 0x05)
	cpu.Step()

	assert.Equal(t, uint16(0x0007), cpu.PC)
}

func TestCallAndRet(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.SP = 0xFFF0
	bus.WriteByte(0, 0xCD) // CALL nn
	bus.WriteByte(1, 0x00)
	bus.WriteByte(2, 0x10)
	cpu.Step()
	assert.Equal(t, uint16(0x1000), cpu.PC)
	assert.Equal(t, uint16(3), cpu.readWord(cpu.SP))

	bus.WriteByte(0x1000, 0xC9) // RET
	cpu.Step()
	assert.Equal(t, uint16(3), cpu.PC)
}

func TestCbBitInstruction(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.B = 0x00
	bus.WriteByte(0, 0xCB)
	bus.WriteByte(1, 0x40) // BIT 0,B
	cpu.Step()

	assert.True(t, cpu.flag(flagZ))
	assert.True(t, cpu.flag(flagH))
}

func TestLdirCopiesBlockAndDecrementsCounter(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.WriteByte(0x2000, 0xAA)
	bus.WriteByte(0x2001, 0xBB)
	cpu.SetHL(0x2000)
	cpu.SetDE(0x3000)
	cpu.SetBC(2)
	bus.WriteByte(0, 0xED)
	bus.WriteByte(1, 0xB0) // LDIR

	// each Step performs one LDIR pass and backs PC up while BC != 0
	cpu.Step()
	cpu.Step()

	assert.Equal(t, uint8(0xAA), bus.ReadByte(0x3000))
	assert.Equal(t, uint8(0xBB), bus.ReadByte(0x3001))
	assert.Equal(t, uint16(0), cpu.BC())
}

func TestMaskableInterruptIM1JumpsToFixedVector(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.IFF1 = true
	cpu.IM = 1
	cpu.SP = 0xFFF0
	cpu.PC = 0x1234
	bus.irqPending = true

	cpu.Step()

	assert.Equal(t, uint16(0x0038), cpu.PC)
	assert.False(t, cpu.IFF1)
}
