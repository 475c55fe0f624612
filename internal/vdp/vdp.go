package vdp

import "github.com/mdcore/genesis-core/pkg/log"

const (
	vramSize  = 0x10000
	cramSize  = 128 // 64 9-bit colors, 2 bytes each
	vsramSize = 80  // 40 words
	fifoDepth = 4

	linesNTSC = 262
	linesPAL  = 313
)

// DMASource is the bus seen by DMA transfers: the 68000's view of main
// RAM and cartridge space, satisfied by internal/bus.MainBus. Kept
// separate from the VDP's own port protocol so this package never
// imports internal/bus (which imports this package).
type DMASource interface {
	ReadByte(addr uint32) uint8
}

// memCode is the 4-bit VRAM/CRAM/VSRAM + read/write selector carried in
// the second control-port word.
type memCode uint8

const (
	codeVRAMRead   memCode = 0x0
	codeVRAMWrite  memCode = 0x1
	codeCRAMWrite  memCode = 0x3
	codeVSRAMRead  memCode = 0x4
	codeVSRAMWrite memCode = 0x5
	codeCRAMRead   memCode = 0x8
)

type fifoEntry struct {
	addr uint16
	code memCode
	data uint16
}

// VDP owns VRAM/CRAM/VSRAM, the 24-register bank, the control-port latch,
// the pending-write FIFO, and the H/V counter state driving HINT/VINT.
type VDP struct {
	Registers

	VRAM  [vramSize]uint8
	CRAM  [cramSize]uint8
	VSRAM [vsramSize]uint8

	log log.Logger

	// control-port latch
	latchFirstWord uint16
	latchHaveFirst bool
	addr           uint16
	code           memCode
	readBuffer     uint16

	fifo []fifoEntry

	status uint16

	hCounter   int
	vCounter   int
	linesTotal int

	hIntCounter   int
	pendingHInt   bool
	pendingVInt   bool
	pendingZ80Int bool

	lastWord uint16 // open-bus retention, read by internal/bus

	frame      [240][320]Color
	frameReady bool

	dma      DMASource
	fillWord uint16

	// sprite-disable quirk accounting (see render.go)
	disabledPixelsThisLine int
	disabledPixelsLastLine int
}

// Color is a 9-bit-resolved RGB pixel (3 bits per channel, expanded to
// 8-bit intensities by palette.go). Stored as a plain numeric type during
// rendering; conversion to a host pixel format happens at the frame-buffer
// boundary.
type Color struct{ R, G, B uint8 }

// New builds a VDP wired to dma for DMA-from-68000 transfers. pal selects
// the 313-line PAL raster over the 262-line NTSC one, which moves the
// V-counter wraparound and VINT timing.
func New(dma DMASource, pal bool, logger log.Logger) *VDP {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	lines := linesNTSC
	if pal {
		lines = linesPAL
	}
	v := &VDP{dma: dma, log: logger, linesTotal: lines}
	v.status = statusFIFOEmpty
	return v
}

// ActiveLines returns the number of visible scanlines (224 or 240),
// selected by Mode2's V30 bit.
func (v *VDP) ActiveLines() int {
	if v.V30Mode() {
		return 240
	}
	return 224
}

// ControlWrite handles a word write to the control port: either the
// first-word/second-word latch pair, or (if a word arriving with no first
// word latched has top three bits 100) a direct register write.
func (v *VDP) ControlWrite(word uint16) {
	if !v.latchHaveFirst && word&0xE000 == 0x8000 {
		reg := uint8((word >> 8) & 0x1F)
		if int(reg) < numRegisters {
			v.Write(reg, uint8(word))
		}
		return
	}

	if !v.latchHaveFirst {
		v.latchFirstWord = word
		v.latchHaveFirst = true
		return
	}

	v.latchHaveFirst = false
	cd1cd0 := uint8((v.latchFirstWord >> 14) & 0x3)
	cd5cd4cd3cd2 := uint8((word >> 3) & 0xF)
	v.code = memCode(cd1cd0 | cd5cd4cd3cd2<<2)
	v.addr = (v.latchFirstWord & 0x3FFF) | uint16(word&0x7)<<14

	if v.code == codeVRAMRead || v.code == codeCRAMRead || v.code == codeVSRAMRead {
		v.readBuffer = v.readMemWord(v.addr, v.code)
	}
}

// DataWrite pushes a word onto the pending-write FIFO and resets the
// control-port latch (any data-port access resets the latch). The FIFO is
// drained opportunistically by DrainFIFO, called by
// the system's frame loop after each 68000 step.
func (v *VDP) DataWrite(word uint16) {
	v.latchHaveFirst = false
	writeCode := v.code
	switch v.code {
	case codeVRAMRead:
		writeCode = codeVRAMWrite
	case codeCRAMRead:
		writeCode = codeCRAMWrite
	case codeVSRAMRead:
		writeCode = codeVSRAMWrite
	}
	v.fifo = append(v.fifo, fifoEntry{addr: v.addr, code: writeCode, data: word})
	v.addr += v.AutoIncrement()
	v.updateFIFOStatus()
	if len(v.fifo) >= fifoDepth {
		v.drainOne()
	}
}

// DataRead returns the buffered read established by the last
// control-port write that selected a read code, then pre-fetches the
// next one at the (already auto-incremented) address.
func (v *VDP) DataRead() uint16 {
	v.latchHaveFirst = false
	result := v.readBuffer
	v.addr += v.AutoIncrement()
	v.readBuffer = v.readMemWord(v.addr, v.code)
	return result
}

// StatusRead returns the status register and clears the sprite
// overflow/collision latches, matching real hardware's read-clears
// behavior for those two bits; VBlank/HBlank/DMA-busy persist until the
// condition itself changes.
func (v *VDP) StatusRead() uint16 {
	s := v.status
	if v.linesTotal == linesPAL {
		s |= statusPAL
	}
	v.status &^= statusCollision | statusSpriteOvf
	return s
}

func (v *VDP) updateFIFOStatus() {
	switch {
	case len(v.fifo) == 0:
		v.status |= statusFIFOEmpty
		v.status &^= statusFIFOFull
	case len(v.fifo) >= fifoDepth:
		v.status &^= statusFIFOEmpty
		v.status |= statusFIFOFull
	default:
		v.status &^= statusFIFOEmpty | statusFIFOFull
	}
}

// DrainFIFO applies up to n pending writes to VRAM/CRAM/VSRAM, the bus
// slots a real VDP would consume during active display.
func (v *VDP) DrainFIFO(n int) {
	for i := 0; i < n && len(v.fifo) > 0; i++ {
		v.drainOne()
	}
}

func (v *VDP) drainOne() {
	e := v.fifo[0]
	v.fifo = v.fifo[1:]
	v.writeMemWord(e.addr, e.code, e.data)
	v.updateFIFOStatus()
}

func (v *VDP) readMemWord(addr uint16, code memCode) uint16 {
	switch code {
	case codeCRAMRead:
		a := addr & (cramSize - 1)
		return uint16(v.CRAM[a])<<8 | uint16(v.CRAM[(a+1)&(cramSize-1)])
	case codeVSRAMRead:
		a := addr % vsramSize
		return uint16(v.VSRAM[a])<<8 | uint16(v.VSRAM[(a+1)%vsramSize])
	default:
		a := addr & (vramSize - 1)
		return uint16(v.VRAM[a])<<8 | uint16(v.VRAM[(a+1)&(vramSize-1)])
	}
}

func (v *VDP) writeMemWord(addr uint16, code memCode, word uint16) {
	switch code {
	case codeCRAMWrite:
		a := addr & (cramSize - 1)
		// CRAM entries are 9 bits; mask to the hardware's 0b0BBB0GGG0RRR0 layout.
		masked := word & 0x0EEE
		v.CRAM[a] = uint8(masked >> 8)
		v.CRAM[(a+1)&(cramSize-1)] = uint8(masked)
	case codeVSRAMWrite:
		a := addr % vsramSize
		v.VSRAM[a] = uint8(word >> 8)
		v.VSRAM[(a+1)%vsramSize] = uint8(word)
	default:
		a := addr & (vramSize - 1)
		v.VRAM[a] = uint8(word >> 8)
		v.VRAM[(a+1)&(vramSize-1)] = uint8(word)
	}
}

// HIntPending and VIntPending report whether HINT or VINT should currently be
// asserted to the 68000 at levels 4 and 6 respectively.
func (v *VDP) HIntPending() bool { return v.pendingHInt && v.HIntEnabled() }
func (v *VDP) VIntPending() bool { return v.pendingVInt && v.VIntEnabled() }

// AcknowledgeInterrupt clears whichever interrupt the VDP is currently
// asserting, not necessarily the one the 68000 believed it answered. Real
// hardware has this bug, and software depends on it, so the 68000 bus
// routes its acknowledge cycle back through here.
func (v *VDP) AcknowledgeInterrupt() {
	if v.pendingVInt {
		v.pendingVInt = false
		v.status &^= statusVIntPend
		return
	}
	v.pendingHInt = false
}

// ConsumeZ80Interrupt reports and clears the Z80's own vertical-interrupt
// latch. The Z80 samples its /INT line independently of the 68000's VINT
// acknowledge path: it is a separate level-triggered pulse per vblank
// edge, kept as its own flag so internal/bus.Z80Bus can consume it
// without disturbing the 68000's AcknowledgeInterrupt bookkeeping above.
func (v *VDP) ConsumeZ80Interrupt() bool {
	r := v.pendingZ80Int
	v.pendingZ80Int = false
	return r
}

func (v *VDP) FrameReady() bool {
	r := v.frameReady
	v.frameReady = false
	return r
}

func (v *VDP) Frame() *[240][320]Color { return &v.frame }

// SetFillWord latches the value a VRAM-fill DMA writes to every
// destination address; the bus calls this instead of DataWrite when it
// observes a data-port write while a fill-mode DMA is pending.
func (v *VDP) SetFillWord(word uint16) { v.fillWord = word }
