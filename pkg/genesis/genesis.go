// Package genesis is the core's facade: the single entry point a host
// embeds to load a ROM, advance one frame at a time, and exchange
// controller input, video, and audio with it. It owns one long-lived
// instance of every other package in this module and wires them together
// exactly once, at LoadROM time: a flat struct of permanent component
// pointers plus a single Frame-stepping entry point, rather than a
// reconstructed view per call.
package genesis

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/pkg/errors"

	"github.com/mdcore/genesis-core/internal/audio"
	"github.com/mdcore/genesis-core/internal/bus"
	"github.com/mdcore/genesis-core/internal/cartridge"
	"github.com/mdcore/genesis-core/internal/ioreg"
	"github.com/mdcore/genesis-core/internal/m68k"
	"github.com/mdcore/genesis-core/internal/memory"
	"github.com/mdcore/genesis-core/internal/rtc"
	"github.com/mdcore/genesis-core/internal/scheduler"
	"github.com/mdcore/genesis-core/internal/vdp"
	"github.com/mdcore/genesis-core/internal/z80"
	"github.com/mdcore/genesis-core/pkg/config"
	"github.com/mdcore/genesis-core/pkg/log"
)

// sampleRate is the fixed stereo sample rate RunFrame produces audio at;
// the host resamples from here if it needs a different device rate.
const sampleRate = 48000

// ymClockDivisor approximates the YM2612's internal sample clock as the
// same master-clock divisor the 68000 runs at: on real hardware the chip
// is driven from the same crystal the 68000 divides down from, and this
// core only needs busy-flag and envelope timing to be in the right
// ballpark (see internal/audio.YM2612's doc comment).
const ymClockDivisor = scheduler.M68KDivisor

// psgClockDivisor converts master cycles to the PSG's own tone-generator
// clock: master -> Z80 clock (/15) -> PSG clock (/16), per
// internal/audio.PSGClockDivisor's doc comment.
const psgClockDivisor = scheduler.Z80Divisor * audio.PSGClockDivisor

// dmaSource forward-references the MainBus under construction so
// vdp.New (which needs a DMASource at construction) and bus.New (which
// needs the already-constructed VDP) can be wired despite each needing
// the other: vdp.New is handed this adapter with a nil bus, and LoadROM
// backfills its bus field once bus.New has returned.
type dmaSource struct {
	bus *bus.MainBus
}

func (d *dmaSource) ReadByte(addr uint32) uint8 { return d.bus.ReadByte(addr) }

// FrameResult is everything RunFrame hands back for one emulated frame.
type FrameResult struct {
	// Frame is the rendered picture, owned by the System; the host must
	// copy it before the next RunFrame call if it needs to retain it.
	Frame *image.RGBA
	// Samples is interleaved left/right int16 audio at sampleRate produced
	// while generating Frame.
	Samples []int16
}

// System is the core's facade. The zero value is not usable; construct
// with New.
type System struct {
	log log.Logger
	cfg config.Config

	cart *cartridge.Cartridge
	ram  *memory.MainRAM
	aram *memory.AudioRAM

	vdp *vdp.VDP
	psg *audio.PSG
	ym  *audio.YM2612

	ports   [3]*ioreg.Port
	version ioreg.VersionRegister

	m68    *m68k.CPU
	z80cpu *z80.CPU

	mbus *bus.MainBus
	zbus *bus.Z80Bus

	sched   *scheduler.Scheduler
	rtcChip *rtc.SeikoRTC

	masterClockHz uint64

	z80CycleDebt    int
	psgCycleDebt    int
	ymCycleDebt     int
	sampleCycleDebt int
	masterCycle     uint64

	img *image.RGBA
}

// New returns a System configured per cfg. logger may be nil; a null
// logger is substituted, matching every other component constructor in
// this module.
func New(cfg config.Config, logger log.Logger) *System {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &System{log: logger, cfg: cfg, sched: scheduler.NewScheduler()}
}

// LoadROM parses raw as a cartridge and (re)wires every component around
// it, replacing whatever ROM was previously loaded.
func (s *System) LoadROM(raw []byte) error {
	cart, err := cartridge.New(raw, s.log)
	if err != nil {
		return errors.Wrap(err, "genesis: load ROM")
	}
	s.cart = cart
	header := cart.Header()

	s.rtcChip = nil
	if cartridge.RequiresRTC(header) && header.RAMPresent {
		var clk rtc.Clock = rtc.SystemClock{}
		if s.cfg.DeterministicRTC {
			clk = &deterministicClock{}
		}
		s.rtcChip = cart.AttachRTC(clk, s.log, header.RAMStart, header.RAMEnd)
	}

	s.ram = memory.NewMainRAM()
	s.aram = memory.NewAudioRAM()

	pal := s.regionPAL(header)
	s.masterClockHz = scheduler.MasterClockNTSC
	if pal {
		s.masterClockHz = scheduler.MasterClockPAL
	}
	ds := &dmaSource{}
	s.vdp = vdp.New(ds, pal, s.log)
	s.psg = audio.NewPSG()
	s.ym = audio.NewYM2612()

	s.ports = [3]*ioreg.Port{
		ioreg.New(s.cfg.SixButtonPad1),
		ioreg.New(s.cfg.SixButtonPad2),
		ioreg.New(false),
	}
	s.version = ioreg.NewVersionRegister(pal, header.Region != cartridge.RegionAmericas)

	s.mbus = bus.New(s.cart, s.ram, s.aram, s.vdp, s.psg, s.ym, s.ports, s.version, s.log)
	ds.bus = s.mbus
	s.zbus = bus.NewZ80Bus(s.mbus)

	s.m68 = m68k.NewCPU(s.mbus, s.log)
	s.z80cpu = z80.NewCPU(s.zbus, s.log)
	s.m68.Reset()
	s.z80cpu.Reset()

	s.sched = scheduler.NewScheduler()
	if s.rtcChip != nil {
		s.registerRTCTick()
	}

	s.z80CycleDebt = 0
	s.psgCycleDebt = 0
	s.ymCycleDebt = 0
	s.sampleCycleDebt = 0
	s.masterCycle = 0

	width, height := 320, s.vdp.ActiveLines()
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))

	return nil
}

// regionPAL resolves the effective PAL/NTSC selection: an explicit config
// override wins, otherwise Europe-region cartridges default to PAL like
// real hardware does.
func (s *System) regionPAL(header cartridge.Header) bool {
	switch s.cfg.Region {
	case config.RegionEurope:
		return true
	case config.RegionAmericas, config.RegionJapan:
		return false
	default:
		return header.Region == cartridge.RegionEurope || s.cfg.PAL
	}
}

// registerRTCTick schedules a recurring event that advances the cartridge
// RTC's calendar by one simulated second of master-clock time, once per
// simulated second, which is more than enough resolution for a
// once-a-second calendar register.
func (s *System) registerRTCTick() {
	interval := s.masterClockHz
	s.sched.RegisterEvent(scheduler.RTCTick, func() {
		if s.rtcChip.TickWallClock() {
			s.mbus.RaiseExternalInterrupt()
		}
		s.sched.ScheduleEvent(scheduler.RTCTick, interval)
	})
	s.sched.ScheduleEvent(scheduler.RTCTick, interval)
}

// SetController replaces the entire button state for controller port
// (0 or 1) ahead of the next RunFrame call.
func (s *System) SetController(port int, state ioreg.Button) error {
	if port < 0 || port > 1 {
		return errors.Errorf("genesis: invalid controller port %d", port)
	}
	s.ports[port].SetState(state)
	return nil
}

// RunFrame advances the system until the VDP reports a completed frame:
// execute one 68000 instruction, apply its deferred writes, tick the Z80
// and VDP and audio chips for the same span of master-clock cycles, then
// tick the cartridge RTC's wall-clock scheduler events.
func (s *System) RunFrame(ctx context.Context) (FrameResult, error) {
	if s.cart == nil {
		return FrameResult{}, errors.New("genesis: no ROM loaded")
	}

	var samples []int16

	for {
		if err := ctx.Err(); err != nil {
			return FrameResult{}, err
		}

		m68kCycles := s.m68.Step()
		s.mbus.FlushWrites()

		masterCycles := m68kCycles*scheduler.M68KDivisor + s.mbus.ConsumeStallCycles()
		s.masterCycle += uint64(masterCycles)

		s.stepZ80(masterCycles)
		s.vdp.Tick(masterCycles)
		s.vdp.DrainFIFO(masterCycles)
		s.stepAudio(masterCycles, &samples)
		s.sched.Tick(uint64(masterCycles))

		if s.vdp.FrameReady() {
			s.renderFrame()
			return FrameResult{Frame: s.img, Samples: samples}, nil
		}
	}
}

// stepZ80 runs the Z80 core for as many of its own cycles as
// masterCycles affords, unless the 68000 currently owns the shared bus
// (BUSREQ asserted) or the Z80 is held in reset.
func (s *System) stepZ80(masterCycles int) {
	s.z80CycleDebt += masterCycles
	for s.z80CycleDebt >= scheduler.Z80Divisor {
		if s.mbus.Z80Halted() {
			s.z80CycleDebt = 0
			return
		}
		cycles := s.z80cpu.Step()
		s.z80CycleDebt -= cycles * scheduler.Z80Divisor
	}
}

// stepAudio ticks both sound chips and appends any stereo samples that
// fall within this step's span of master cycles.
func (s *System) stepAudio(masterCycles int, samples *[]int16) {
	s.psgCycleDebt += masterCycles
	psgTicks := s.psgCycleDebt / psgClockDivisor
	if psgTicks > 0 {
		s.psg.Tick(psgTicks)
		s.psgCycleDebt -= psgTicks * psgClockDivisor
	}

	s.ymCycleDebt += masterCycles
	ymTicks := s.ymCycleDebt / ymClockDivisor
	if ymTicks > 0 {
		s.ym.Tick(ymTicks)
		s.ymCycleDebt -= ymTicks * ymClockDivisor
	}

	cyclesPerSample := int(s.masterClockHz) / sampleRate
	s.sampleCycleDebt += masterCycles
	for s.sampleCycleDebt >= cyclesPerSample {
		s.sampleCycleDebt -= cyclesPerSample
		l, r := s.ym.Sample()
		mono := s.psg.Sample()
		*samples = append(*samples, mix(l, mono), mix(r, mono))
	}
}

func mix(a, b int16) int16 {
	sum := int32(a) + int32(b)
	if sum > 32767 {
		return 32767
	}
	if sum < -32768 {
		return -32768
	}
	return int16(sum)
}

// renderFrame converts the VDP's internal pixel buffer into the host-
// facing image.RGBA, cropping to the cartridge's currently selected
// active-line count (224 or 240).
func (s *System) renderFrame() {
	lines := s.vdp.ActiveLines()
	if s.img.Bounds().Dy() != lines {
		s.img = image.NewRGBA(image.Rect(0, 0, 320, lines))
	}
	pixels := s.vdp.Frame()
	for y := 0; y < lines; y++ {
		for x := 0; x < 320; x++ {
			c := pixels[y][x]
			s.img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		}
	}
}

// SRAM returns the cartridge's external-memory bytes for host-side
// persistence.
func (s *System) SRAM() []byte { return s.cart.SRAM() }

// LoadSRAM restores previously-saved external-memory bytes ahead of the
// next RunFrame call.
func (s *System) LoadSRAM(b []byte) { s.cart.LoadSRAM(b) }

// IsRAMPersistent reports whether the cartridge's external memory should
// be saved to disk by the host.
func (s *System) IsRAMPersistent() bool { return s.cart.IsRAMPersistent() }

// GetAndClearRAMDirty reports and clears whether external memory has been
// written since the last call.
func (s *System) GetAndClearRAMDirty() bool { return s.cart.GetAndClearRAMDirty() }

// Header exposes the loaded cartridge's parsed header, e.g. for a host UI
// to display the title and region.
func (s *System) Header() cartridge.Header { return s.cart.Header() }

// deterministicClock is injected in place of rtc.SystemClock when
// config.Config.DeterministicRTC is set, so headless runs and this
// module's own tests never depend on the host's wall clock. Each Now call
// advances it by exactly one second, one simulated second per scheduler
// tick.
type deterministicClock struct{ t time.Time }

func (c *deterministicClock) Now() time.Time {
	if c.t.IsZero() {
		c.t = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	c.t = c.t.Add(time.Second)
	return c.t
}
