package genesis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdcore/genesis-core/internal/ioreg"
	"github.com/mdcore/genesis-core/pkg/config"
)

// minimalROM returns a 1 MiB ROM with a valid header and a reset vector
// pointing at a tight infinite loop (BRA.S *), so RunFrame has no risk of
// running off the end of a zeroed program while still exercising a real
// fetch/execute/VDP-tick cycle.
func minimalROM() []byte {
	raw := make([]byte, 1024*1024)
	copy(raw[0x100:], "SEGA GENESIS    ")
	copy(raw[0x1F0:], "U")

	raw[0] = 0x00 // initial SSP = 0x00000000
	raw[1] = 0x00
	raw[2] = 0x00
	raw[3] = 0x00
	raw[4] = 0x00 // initial PC = 0x00000400
	raw[5] = 0x00
	raw[6] = 0x04
	raw[7] = 0x00

	raw[0x400] = 0x60 // BRA.S -2 (spin in place)
	raw[0x401] = 0xFE

	return raw
}

func TestLoadROMAndRunFrameProducesAFrame(t *testing.T) {
	sys := New(config.Config{}, nil)
	require.NoError(t, sys.LoadROM(minimalROM()))

	result, err := sys.RunFrame(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.Frame)
	bounds := result.Frame.Bounds()
	assert.Equal(t, 320, bounds.Dx())
	assert.Contains(t, []int{224, 240}, bounds.Dy())
}

func TestRunFrameWithoutLoadROMErrors(t *testing.T) {
	sys := New(config.Config{}, nil)
	_, err := sys.RunFrame(context.Background())
	assert.Error(t, err)
}

func TestSetControllerRejectsOutOfRangePort(t *testing.T) {
	sys := New(config.Config{}, nil)
	require.NoError(t, sys.LoadROM(minimalROM()))

	assert.Error(t, sys.SetController(2, ioreg.ButtonA))
	assert.NoError(t, sys.SetController(0, ioreg.ButtonA|ioreg.ButtonStart))
}

func TestHeaderReflectsSystemID(t *testing.T) {
	sys := New(config.Config{}, nil)
	require.NoError(t, sys.LoadROM(minimalROM()))

	header := sys.Header()
	assert.Equal(t, "SEGA GENESIS", header.SystemID)
}
