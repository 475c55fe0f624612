package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMainRAMMirrorsAcrossUpperAddressSpace(t *testing.T) {
	r := NewMainRAM()
	r.WriteByte(0x1234, 0xAB)

	// main RAM is mirrored every 64 KiB from 0xE00000 up to 0xFFFFFF
	assert.Equal(t, uint8(0xAB), r.ReadByte(0xE01234))
	assert.Equal(t, uint8(0xAB), r.ReadByte(0xFF1234))
}

func TestMainRAMWordReadMatchesByteHalves(t *testing.T) {
	r := NewMainRAM()
	r.WriteWord(0x100, 0x1234)

	assert.Equal(t, uint8(0x12), r.ReadByte(0x100))
	assert.Equal(t, uint8(0x34), r.ReadByte(0x101))
}

func TestAudioRAMMirrorsToDoubleWindow(t *testing.T) {
	a := NewAudioRAM()
	a.WriteByte(0x10, 0x5A)

	assert.Equal(t, uint8(0x5A), a.ReadByte(0x10))
	assert.Equal(t, uint8(0x5A), a.ReadByte(0x2010))
}
