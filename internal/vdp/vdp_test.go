package vdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDMA struct{ mem [0x1000000]uint8 }

func (f *fakeDMA) ReadByte(addr uint32) uint8 { return f.mem[addr&0xFFFFFF] }

func TestS6VIntAssertsAtStartOfFirstBlankingLine(t *testing.T) {
	v := New(&fakeDMA{}, false, nil)
	v.Write(RegMode2, 0x40|0x20) // display enabled, VINT enabled, V28 mode

	for line := 0; line < 223; line++ {
		v.Tick(masterCyclesPerLine)
		assert.False(t, v.VIntPending(), "VINT must not assert before line 224")
	}

	v.Tick(masterCyclesPerLine)
	assert.Equal(t, uint8(224), v.VCounter())
	assert.True(t, v.VIntPending())

	v.AcknowledgeInterrupt()
	assert.False(t, v.VIntPending())
}

func TestControlPortLatchTwoWordProtocol(t *testing.T) {
	v := New(&fakeDMA{}, false, nil)
	v.ControlWrite(0x4000) // first word: address low bits, code bits low
	v.ControlWrite(0x0000) // second word: VRAM write code, address high bits

	assert.Equal(t, uint16(0x0000), v.addr)
	assert.Equal(t, codeVRAMWrite, v.code)
}

func TestDataWriteResetsLatch(t *testing.T) {
	v := New(&fakeDMA{}, false, nil)
	v.ControlWrite(0x4000)
	assert.True(t, v.latchHaveFirst)
	v.DataWrite(0x1234)
	assert.False(t, v.latchHaveFirst)
}

func TestCRAMWriteMasksTo9Bits(t *testing.T) {
	v := New(&fakeDMA{}, false, nil)
	v.ControlWrite(0xC000) // CRAM write, address 0
	v.ControlWrite(0x0000)
	v.DataWrite(0xFFFF)
	v.DrainFIFO(4)

	c := v.decodeColor(0)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(255), c.G)
	assert.Equal(t, uint8(255), c.B)
}

func TestDMATransferCopiesFromSourceBus(t *testing.T) {
	dma := &fakeDMA{}
	dma.mem[0x1000] = 0xAB
	dma.mem[0x1001] = 0xCD

	v := New(dma, false, nil)
	v.Write(RegDMALengthLow, 1)
	v.Write(RegDMALengthHigh, 0)
	v.Write(RegDMASourceLow, uint8((0x1000>>1)&0xFF))
	v.Write(RegDMASourceMid, uint8(0x1000>>9))
	v.Write(RegDMASourceHigh, 0)
	v.ControlWrite(0x4000)
	v.ControlWrite(0x0000)

	v.TriggerDMA()

	assert.Equal(t, uint8(0xAB), v.VRAM[0])
	assert.Equal(t, uint8(0xCD), v.VRAM[1])
}
