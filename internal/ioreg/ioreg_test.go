package ioreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setTH(p *Port, high bool) {
	p.WriteCtrl(0x40)
	if high {
		p.WriteData(0x40)
	} else {
		p.WriteData(0x00)
	}
}

func TestThreeButtonPadReportsActiveLow(t *testing.T) {
	p := New(false)
	p.Press(ButtonUp)
	p.Press(ButtonB)

	setTH(p, true)
	v := p.ReadData()
	assert.Equal(t, uint8(0), v&0x01, "Up pressed must read 0")
	assert.Equal(t, uint8(0), v&0x10, "B pressed must read 0")
	assert.NotEqual(t, uint8(0), v&0x20, "C released must read 1")
}

func TestTHLowExposesStartAndA(t *testing.T) {
	p := New(false)
	p.Press(ButtonStart)

	setTH(p, false)
	v := p.ReadData()
	assert.Equal(t, uint8(0), v&0x20, "Start pressed must read 0 in bit 5")
	assert.NotEqual(t, uint8(0), v&0x10, "A released must read 1 in bit 4")
}

func TestSixButtonExtendedCycleReportsExtraButtons(t *testing.T) {
	p := New(true)
	p.Press(ButtonZ)
	p.Press(ButtonMode)

	// three TH rising edges put the pad in its extended cycle, so this
	// TH-high read reports the extra buttons
	for i := 0; i < 3; i++ {
		setTH(p, false)
		setTH(p, true)
	}

	v := p.ReadData()
	assert.Equal(t, uint8(0), v&0x01, "Z pressed must read 0 in bit 0")
	assert.Equal(t, uint8(0), v&0x08, "Mode pressed must read 0 in bit 3")
	assert.NotEqual(t, uint8(0), v&0x02, "Y released must read 1")
}

func TestSetStateResetsTHSequence(t *testing.T) {
	p := New(true)
	setTH(p, false)
	setTH(p, true)
	p.SetState(ButtonA)
	assert.Equal(t, 0, p.thTransitions)
}

func TestVersionRegisterBits(t *testing.T) {
	ntsc := NewVersionRegister(false, false)
	assert.Equal(t, uint8(0), ntsc.Read()&0x40)

	pal := NewVersionRegister(true, true)
	assert.NotEqual(t, uint8(0), pal.Read()&0x40)
	assert.NotEqual(t, uint8(0), pal.Read()&0x20)
}
