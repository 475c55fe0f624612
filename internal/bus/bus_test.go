package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdcore/genesis-core/internal/audio"
	"github.com/mdcore/genesis-core/internal/cartridge"
	"github.com/mdcore/genesis-core/internal/ioreg"
	"github.com/mdcore/genesis-core/internal/memory"
	"github.com/mdcore/genesis-core/internal/vdp"
)

type fakeDMA struct{}

func (fakeDMA) ReadByte(uint32) uint8 { return 0xFF }

func newTestBus(t *testing.T) *MainBus {
	t.Helper()
	raw := make([]byte, 1024*1024)
	copy(raw[0x100:], "SEGA GENESIS    ")
	copy(raw[0x1F0:], "U")
	cart, err := cartridge.New(raw, nil)
	require.NoError(t, err)

	v := vdp.New(fakeDMA{}, false, nil)
	ports := [3]*ioreg.Port{ioreg.New(false), ioreg.New(false), ioreg.New(false)}
	version := ioreg.NewVersionRegister(false, false)

	return New(cart, memory.NewMainRAM(), memory.NewAudioRAM(), v, audio.NewPSG(), audio.NewYM2612(), ports, version, nil)
}

// TestS7Z80BankRegister: nine consecutive byte writes to 0x6000 settle the
// bank register at 0x100 when the final write carries the 1 bit — each
// write shifts the register down one place and lands its own bit in the
// MSB, so the last bit written ends up highest. A Z80 access to 0x8000
// then maps to 68000 address 0x800000.
func TestS7Z80BankRegister(t *testing.T) {
	b := newTestBus(t)
	z80 := NewZ80Bus(b)

	writes := []uint8{0, 0, 0, 0, 0, 0, 0, 0, 1}
	for _, w := range writes {
		z80.WriteByte(0x6000, w)
	}

	assert.Equal(t, uint16(0x100), b.bank.value)
	assert.Equal(t, uint32(0x800000), b.bank.translate(0x8000))
}

func TestBusAckGatesZ80Window(t *testing.T) {
	b := newTestBus(t)

	// RESET asserted at power-on: BUSACK must be false even if BUSREQ is
	// later asserted, since BUSACK = busreq && !reset.
	b.applyByte(0xA11100, 0x01)
	assert.False(t, b.BusAck())

	b.applyByte(0xA11200, 0x01) // deassert Z80 RESET (bit0=1 clears reset)
	assert.True(t, b.BusAck())

	b.audioRAM.WriteByte(0x10, 0x42)
	assert.Equal(t, uint8(0x42), b.readByte(0xA00010))
}

func TestOpenBusWithoutBusAck(t *testing.T) {
	b := newTestBus(t)
	b.lastWord = 0xBEEF

	assert.False(t, b.BusAck())
	assert.Equal(t, uint8(0xBE), b.readByte(0xA00000))
}

func TestDeferredWritesApplyAtFlush(t *testing.T) {
	b := newTestBus(t)

	b.WriteByte(0xE00000, 0x7A)
	assert.Equal(t, uint8(0), b.readByte(0xE00000), "write must not be visible before FlushWrites")

	b.FlushWrites()
	assert.Equal(t, uint8(0x7A), b.readByte(0xE00000))
}

func TestMainRAMMirroredAcrossUpperSpace(t *testing.T) {
	b := newTestBus(t)
	b.ram.WriteByte(0x1234, 0x99)

	assert.Equal(t, uint8(0x99), b.readByte(0xFF1234))
}

func TestInvariant3UnmappedReadsReturnOpenBus(t *testing.T) {
	b := newTestBus(t)
	assert.Equal(t, uint8(0xFF), b.readByte(0x800000))
}

func TestIORegisterDecodeUsesRealOffsets(t *testing.T) {
	b := newTestBus(t)

	// version register answers at both 0xA10000 and 0xA10001
	assert.Equal(t, b.readByte(0xA10001), b.readByte(0xA10000))
	assert.NotEqual(t, uint8(0xFF), b.readByte(0xA10000))

	// ctrl registers live at 0xA10008/0xA1000A, not adjacent to data
	b.applyByte(0xA10009, 0x40)
	assert.Equal(t, uint8(0x40), b.readByte(0xA10008))
	assert.Equal(t, uint8(0x40), b.readByte(0xA10009))

	b.applyByte(0xA1000B, 0x7F)
	assert.Equal(t, uint8(0x7F), b.ports[1].ReadCtrl())

	// port A data responds at 0xA10002/3 once TH is driven high
	b.applyByte(0xA10003, 0x40)
	assert.NotEqual(t, uint8(0xFF), b.readByte(0xA10002))
}

func TestZ80ResetTransitionResetsYM2612(t *testing.T) {
	b := newTestBus(t)
	b.ym.WriteAddress(0, 0x2B)
	b.ym.WriteData(0, 0x80) // DAC enable

	b.setZ80Reset(true)
	b.setZ80Reset(false) // asserted -> deasserted transition

	l, _ := b.ym.Sample()
	assert.Equal(t, int16(0), l, "YM2612 must reset to its power-on (DAC disabled) state")
}
