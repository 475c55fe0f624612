package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("genesis", pflag.ContinueOnError)
	BindFlags(fs)

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, RegionAuto, cfg.Region)
	assert.False(t, cfg.PAL)
	assert.False(t, cfg.DeterministicRTC)
	assert.False(t, cfg.Verbose)
}

func TestLoadReflectsParsedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("genesis", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--region=japan", "--pal", "--six-button-1", "-v"}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, RegionJapan, cfg.Region)
	assert.True(t, cfg.PAL)
	assert.True(t, cfg.SixButtonPad1)
	assert.False(t, cfg.SixButtonPad2)
	assert.True(t, cfg.Verbose)
}
