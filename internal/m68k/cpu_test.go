package m68k

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus is a flat 1 MiB RAM-backed bus, mirrored across the address
// space, for instruction-level testing;
// it never asserts halt/reset/interrupt unless the test sets it so.
type fakeBus struct {
	mem            [1 << 20]uint8
	interruptLevel uint8
	acked          uint8
	haltLine       bool
	resetLine      bool
}

func (b *fakeBus) ReadByte(addr uint32) uint8 { return b.mem[addr&0xFFFFF] }
func (b *fakeBus) ReadWord(addr uint32) uint16 {
	return uint16(b.mem[addr&0xFFFFF])<<8 | uint16(b.mem[(addr+1)&0xFFFFF])
}
func (b *fakeBus) WriteByte(addr uint32, v uint8) { b.mem[addr&0xFFFFF] = v }
func (b *fakeBus) WriteWord(addr uint32, v uint16) {
	b.mem[addr&0xFFFFF] = uint8(v >> 8)
	b.mem[(addr+1)&0xFFFFF] = uint8(v)
}
func (b *fakeBus) InterruptLevel() uint8            { return b.interruptLevel }
func (b *fakeBus) AcknowledgeInterrupt(level uint8) { b.acked = level }
func (b *fakeBus) Halt() bool                       { return b.haltLine }
func (b *fakeBus) Reset() bool                      { return b.resetLine }

func newTestCPU() (*CPU, *fakeBus) {
	bus := &fakeBus{}
	bus.WriteWord(0, 0x0000)
	bus.WriteWord(2, 0x1000) // initial SSP
	bus.WriteWord(4, 0x0000)
	bus.WriteWord(6, 0x0400) // initial PC
	cpu := NewCPU(bus, nil)
	return cpu, bus
}

func TestS5MoveLongAddressError(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.PC = 0x0400
	cpu.D[0] = 0xDEADBEEF
	cpu.SetAReg(0, 0x000001)

	// address-error handler at 0x500, installed through vector 3 (0x00000C)
	bus.WriteWord(0x000C, 0x0000)
	bus.WriteWord(0x000E, 0x0500)
	// MOVE.L D0,(A0): opcode 0010 000 010 000 000 = 0x2080
	bus.WriteWord(0x0400, 0x2080)

	cpu.Step()

	assert.Equal(t, uint32(0x0500), cpu.PC, "PC should jump through the address-error vector at 0x00000C")

	sp := cpu.SSP()
	faultAddr := uint32(bus.ReadWord(sp+4))<<16 | uint32(bus.ReadWord(sp+6))
	assert.Equal(t, uint32(0x00000001), uint32(faultAddr))

	accessInfo := bus.ReadWord(sp + 2)
	assert.Equal(t, uint16(AccessWrite), accessInfo&0x10>>4)
}

func TestInvariant4OddInitialPCRaisesAddressError(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.WriteWord(0x000C, 0x0000)
	bus.WriteWord(0x000E, 0x0500)
	cpu.PC = 0x0401

	cpu.Step()

	assert.Equal(t, uint32(0x0500), cpu.PC)
}

func TestMoveqSetsDataRegisterAndFlags(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.PC = 0x0400
	bus.WriteWord(0x0400, 0x7EFF) // MOVEQ #-1,D7

	cpu.Step()

	assert.Equal(t, uint32(0xFFFFFFFF), cpu.D[7])
	assert.True(t, cpu.SR.N())
	assert.False(t, cpu.SR.Z())
}

func TestAddLongDataRegister(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.PC = 0x0400
	cpu.D[0] = 1
	cpu.D[1] = 0xFFFFFFFF
	// ADD.L D1,D0: opcode 1101 000 010 000 001 = 0xD081
	bus.WriteWord(0x0400, 0xD081)

	cpu.Step()

	assert.Equal(t, uint32(0), cpu.D[0])
	assert.True(t, cpu.SR.Z())
	assert.True(t, cpu.SR.C())
	assert.True(t, cpu.SR.X())
}

func TestBraTakesShortDisplacement(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.PC = 0x0400
	bus.WriteWord(0x0400, 0x6004) // BRA.S +4

	cpu.Step()

	assert.Equal(t, uint32(0x0406), cpu.PC)
}

func TestDbccLoopsUntilCounterExpires(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.PC = 0x0400
	cpu.D[0] = 2
	bus.WriteWord(0x0400, 0x51C8) // DBF D0,*  (displacement -2, i.e. loop on self)
	bus.WriteWord(0x0402, 0xFFFE)

	cpu.Step()
	assert.Equal(t, uint32(0x0400), cpu.PC)
	assert.Equal(t, uint32(1), cpu.D[0])

	cpu.PC = 0x0400
	cpu.Step()
	assert.Equal(t, uint32(0x0400), cpu.PC)
	assert.Equal(t, uint32(0), cpu.D[0])

	cpu.PC = 0x0400
	cpu.Step()
	assert.Equal(t, uint32(0x0404), cpu.PC, "counter underflow from 0 should fall through")
}

func TestInvariant6BCDRoundTripViaAbcd(t *testing.T) {
	for v := uint8(0); v <= 99; v++ {
		result, _ := bcdAdd(binToBCD(v), 0, false)
		require.Equal(t, v, bcdToBin(result))
	}
}

func binToBCD(v uint8) uint8 { return (v/10)<<4 | (v % 10) }
func bcdToBin(v uint8) uint8 { return (v>>4)*10 + (v & 0xF) }
