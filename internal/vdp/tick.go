package vdp

// masterCyclesPerLine approximates a Genesis scanline's master-clock
// length (one NTSC line is ~3420 master cycles at the ~53.693 MHz master
// clock). This core does not model per-pixel dot timing exactly, only the
// scanline-boundary events (render, HINT, VINT) that the scheduler and
// this package's tests depend on.
const masterCyclesPerLine = 3420

// Tick advances the VDP by masterCycles of the shared master clock,
// crossing scanline boundaries as needed: rendering the line that just
// finished, decrementing the HINT counter, and raising VINT at the start
// of the first blanking line.
func (v *VDP) Tick(masterCycles int) {
	v.hCounter += masterCycles
	for v.hCounter >= masterCyclesPerLine {
		v.hCounter -= masterCyclesPerLine
		v.endOfLine()
	}
}

func (v *VDP) endOfLine() {
	active := v.ActiveLines()

	if v.vCounter < active {
		v.renderScanline(v.vCounter)
		if v.DisplayEnabled() {
			v.disabledPixelsLastLine = v.disabledPixelsThisLine
		} else {
			v.disabledPixelsLastLine += 320
		}
		v.disabledPixelsThisLine = 0

		v.hIntCounter--
		if v.hIntCounter < 0 {
			v.hIntCounter = int(v.HIntReload())
			v.pendingHInt = true
		}
		v.status |= statusHBlank
	} else {
		v.status &^= statusHBlank
	}

	v.vCounter++

	if v.vCounter == active {
		v.status |= statusVBlank | statusVIntPend
		v.pendingVInt = true
		v.pendingZ80Int = true
		v.frameReady = true
		v.status ^= statusOddFrame
	}

	if v.vCounter >= v.linesTotal {
		v.vCounter = 0
		v.status &^= statusVBlank
		v.hIntCounter = int(v.HIntReload())
	}
}

// HCounter and VCounter expose the raw counters for the 0xC00008 HV-
// counter port. The dot divisor follows the horizontal mode: 4 master
// cycles per pixel in H40, 5 in H32.
func (v *VDP) HCounter() uint8 {
	divisor := 5
	if v.H40Mode() {
		divisor = 4
	}
	return uint8(v.hCounter / divisor)
}

func (v *VDP) VCounter() uint8 { return uint8(v.vCounter) }
