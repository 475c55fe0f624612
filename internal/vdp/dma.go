package vdp

// DMAPending reports whether registers 0x13-0x17 describe a transfer that
// hasn't started yet (length != 0). The bus calls TriggerDMA once it has
// observed a control-port write with the DMA-enable bit set. Three modes:
// 68000->VRAM, VRAM-fill, and VRAM->VRAM copy.
func (v *VDP) DMAPending() bool { return v.DMALength() != 0 }

// TriggerDMA executes the pending DMA transfer to completion immediately
// and clears the length register, approximating the real hardware's
// bus-slot-by-bus-slot drain. The 68000 is held stalled for the duration
// anyway, so batching is observationally equivalent from its point of
// view; the scheduler still charges the stall cycles via DMACycles.
func (v *VDP) TriggerDMA() {
	length := int(v.DMALength())
	if length == 0 {
		length = 0x10000
	}
	mode := v.DMAMode()
	v.status |= statusDMABusy
	defer func() { v.status &^= statusDMABusy }()

	switch mode {
	case DMATransfer:
		src := v.DMASource()
		for i := 0; i < length; i++ {
			word := uint16(v.dma.ReadByte(src))<<8 | uint16(v.dma.ReadByte(src+1))
			v.writeMemWord(v.addr, dmaWriteCode(v.code), word)
			v.addr += v.AutoIncrement()
			src += 2
			if src&0xFFFFFF == 0 {
				src = 0
			}
		}
	case DMAFill:
		// Fill mode's first "source" word is the fill value already
		// latched into the data port by the 68000 before the DMA
		// trigger; callers supply it via FillWord.
		for i := 0; i < length; i++ {
			v.writeMemWord(v.addr, codeVRAMWrite, v.fillWord)
			v.addr += v.AutoIncrement()
		}
	case DMACopy:
		src := uint16(v.DMASource())
		for i := 0; i < length; i++ {
			b := v.VRAM[src&(vramSize-1)]
			v.VRAM[v.addr&(vramSize-1)] = b
			v.addr += v.AutoIncrement()
			src++
		}
	}

	v.Write(RegDMALengthLow, 0)
	v.Write(RegDMALengthHigh, 0)
}

func dmaWriteCode(read memCode) memCode {
	switch read {
	case codeCRAMRead, codeCRAMWrite:
		return codeCRAMWrite
	case codeVSRAMRead, codeVSRAMWrite:
		return codeVSRAMWrite
	default:
		return codeVRAMWrite
	}
}

// DMACycles approximates the master-cycle stall a DMA transfer of this
// length imposes on the 68000 (2 master cycles per word moved, the
// commonly cited approximate figure for VRAM-fill/68000 DMA).
func (v *VDP) DMACycles() int {
	length := int(v.DMALength())
	if length == 0 {
		length = 0x10000
	}
	return length * 2
}
