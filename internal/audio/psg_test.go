package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPSGPowerOnIsSilent(t *testing.T) {
	p := NewPSG()
	p.Tick(1000)
	assert.Equal(t, int16(0), p.Sample())
}

func TestPSGLatchAndDataBytesAssembleTonePeriod(t *testing.T) {
	p := NewPSG()
	p.Write(0x8F) // latch: channel 0, tone register, low nibble 0xF
	p.Write(0x3F) // data: high 6 bits
	assert.Equal(t, uint16(0x3FF), p.tone[0])
}

func TestPSGVolumeLatchSilencesChannel(t *testing.T) {
	p := NewPSG()
	p.Write(0x81) // channel 0 tone period low = 1
	p.Write(0x00)
	p.Write(0x90) // channel 0 volume = 0 (full)
	p.Tick(4)
	loud := p.Sample()

	p.Write(0x9F) // channel 0 volume = 0xF (silent)
	p.Tick(4)
	assert.Less(t, p.Sample(), loud+1)
}

func TestPSGNoiseModeResetReseedsLFSR(t *testing.T) {
	p := NewPSG()
	p.Write(0xE7) // noise channel latch: white noise, rate 3
	assert.Equal(t, uint16(0x8000), p.noiseShift)
	assert.True(t, p.noiseFB)
}

func TestYM2612BusyFlagClearsAfterTicks(t *testing.T) {
	y := NewYM2612()
	y.WriteAddress(0, 0x22)
	y.WriteData(0, 0x00)
	assert.Equal(t, uint8(0x80), y.ReadStatus())

	y.Tick(64)
	assert.Equal(t, uint8(0), y.ReadStatus())
}

func TestYM2612DACSamplePassesThrough(t *testing.T) {
	y := NewYM2612()
	y.WriteAddress(0, 0x2B)
	y.WriteData(0, 0x80) // DAC enable
	y.WriteAddress(0, 0x2A)
	y.WriteData(0, 0xFF)

	l, r := y.Sample()
	assert.Equal(t, l, r)
	assert.Greater(t, l, int16(0))
}

func TestYM2612KeyOnSelectsChannelAcrossParts(t *testing.T) {
	y := NewYM2612()
	y.WriteAddress(0, 0x28)
	y.WriteData(0, 0xF5) // key on, part 2, channel index 1 -> channel 4
	assert.True(t, y.ch[4].keyOn)

	y.WriteAddress(0, 0x28)
	y.WriteData(0, 0x05) // all operators off
	assert.False(t, y.ch[4].keyOn)
}
