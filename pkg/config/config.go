// Package config decodes the handful of host-tunable knobs the facade
// needs that are external inputs rather than cartridge-derived state: a
// forced region override, NTSC/PAL selection, and whether to inject a
// deterministic clock for the cartridge RTC.
// Flags are bound with spf13/pflag and resolved through spf13/viper so a
// config file, environment variables, and flags layer the usual Go-CLI
// way, following the same flag-tree/cobra command style as cmd/genesis.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Region mirrors internal/cartridge.Region's string values so this
// package doesn't need to import internal/cartridge just to parse a flag.
type Region string

const (
	RegionAuto     Region = "auto"
	RegionAmericas Region = "americas"
	RegionJapan    Region = "japan"
	RegionEurope   Region = "europe"
)

// Config holds every host-tunable knob the facade reads at construction
// time.
type Config struct {
	Region Region
	PAL    bool

	// DeterministicRTC, when set, seeds the cartridge RTC's calendar to a
	// fixed epoch instead of the host wall clock, so headless runs (and
	// this repo's own tests) are reproducible.
	DeterministicRTC bool

	SixButtonPad1 bool
	SixButtonPad2 bool

	Verbose bool
}

// BindFlags registers this package's flags on fs, a plain
// pflag.FlagSet-per-command convention so a caller can bind the same
// flags to a root or subcommand.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("region", string(RegionAuto), "force cartridge region (auto, americas, japan, europe)")
	fs.Bool("pal", false, "use PAL timing (50 Hz, 313 scanlines) instead of NTSC")
	fs.Bool("deterministic-rtc", false, "seed the cartridge RTC to a fixed epoch instead of the host clock")
	fs.Bool("six-button-1", false, "treat controller port 1 as a 6-button pad")
	fs.Bool("six-button-2", false, "treat controller port 2 as a 6-button pad")
	fs.BoolP("verbose", "v", false, "enable debug-level logging")
}

// Load binds fs's flags into viper (so GENESIS_-prefixed environment
// variables and a config file can also supply them) and decodes the
// result into a Config.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("genesis")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	return Config{
		Region:           Region(v.GetString("region")),
		PAL:              v.GetBool("pal"),
		DeterministicRTC: v.GetBool("deterministic-rtc"),
		SixButtonPad1:    v.GetBool("six-button-1"),
		SixButtonPad2:    v.GetBool("six-button-2"),
		Verbose:          v.GetBool("verbose"),
	}, nil
}
