// Package bus implements the Genesis main bus: 68000-side and Z80-side
// address decode, the Z80 BUSREQ/BUSACK/RESET arbitration signals, the
// 9-bit bank register, and open-bus retention. Structured as a single
// long-lived struct holding exclusive pointer fields to every routed
// component rather than a per-tick "view" struct, since a garbage-
// collected language has no need to reconstruct one each step.
package bus

import (
	"github.com/mdcore/genesis-core/internal/audio"
	"github.com/mdcore/genesis-core/internal/cartridge"
	"github.com/mdcore/genesis-core/internal/ioreg"
	"github.com/mdcore/genesis-core/internal/memory"
	"github.com/mdcore/genesis-core/internal/vdp"
	"github.com/mdcore/genesis-core/pkg/log"
)

type pendingByteWrite struct {
	addr uint32
	val  uint8
}

type pendingWordWrite struct {
	addr uint32
	val  uint16
}

// MainBus is the 68000's view of the system (internal/m68k.Bus). It also
// exposes the handful of methods internal/z80.Bus's Z80Bus wrapper and
// the scheduler need: bus arbitration state, VDP/audio ticking access is
// done directly by the facade holding the same component pointers, since
// nothing about ticking is specific to either CPU's address space.
type MainBus struct {
	log log.Logger

	cart     *cartridge.Cartridge
	ram      *memory.MainRAM
	audioRAM *memory.AudioRAM
	vdp      *vdp.VDP
	psg      *audio.PSG
	ym       *audio.YM2612

	ports   [3]*ioreg.Port
	version ioreg.VersionRegister

	bank bankRegister

	z80BusReq    bool
	z80Reset     bool
	prevZ80Reset bool

	externalIntPending bool

	lastWord uint16

	// pendingStall accumulates master cycles the 68000 must be charged for
	// DMA transfers it initiated and for contended Z80-window accesses;
	// drained by the facade once per instruction.
	pendingStall int

	byteWrites []pendingByteWrite
	wordWrites []pendingWordWrite
}

// New constructs a MainBus wired to every routed component. logger may be
// nil.
func New(
	cart *cartridge.Cartridge,
	ram *memory.MainRAM,
	audioRAM *memory.AudioRAM,
	v *vdp.VDP,
	psg *audio.PSG,
	ym *audio.YM2612,
	ports [3]*ioreg.Port,
	version ioreg.VersionRegister,
	logger log.Logger,
) *MainBus {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &MainBus{
		log: logger, cart: cart, ram: ram, audioRAM: audioRAM, vdp: v, psg: psg, ym: ym,
		ports: ports, version: version,
		z80Reset: true, // Z80 starts held in reset until the 68000's boot code releases it
		// Pre-allocate deferred-write queues so a normal instruction's
		// writes never trigger a slice grow.
		byteWrites: make([]pendingByteWrite, 0, 8),
		wordWrites: make([]pendingWordWrite, 0, 8),
	}
}

// BusAck reports the Z80 BUSACK signal: asserted exactly when BUSREQ is
// asserted and RESET is not.
func (b *MainBus) BusAck() bool { return b.z80BusReq && !b.z80Reset }

// Z80Halted reports whether the scheduler should skip stepping the Z80
// core this tick: held in reset, or its bus has been requested away by
// the 68000.
func (b *MainBus) Z80Halted() bool { return b.z80Reset || b.z80BusReq }

// RaiseExternalInterrupt asserts the 68000's level-2 (external) interrupt
// line, driven by the cartridge RTC's interrupt output de-asserting.
func (b *MainBus) RaiseExternalInterrupt() { b.externalIntPending = true }

// ---- m68k.Bus ----

func (b *MainBus) ReadByte(addr uint32) uint8 {
	v := b.readByte(addr)
	return v
}

func (b *MainBus) ReadWord(addr uint32) uint16 {
	v := b.readWord(addr)
	b.lastWord = v
	return v
}

// WriteByte and WriteWord enqueue the write for application at the end of
// the current 68000 instruction; reads remain immediate, so a read
// earlier in the same instruction never observes a write issued later in
// that instruction.
func (b *MainBus) WriteByte(addr uint32, v uint8) {
	b.byteWrites = append(b.byteWrites, pendingByteWrite{addr, v})
}

func (b *MainBus) WriteWord(addr uint32, v uint16) {
	b.wordWrites = append(b.wordWrites, pendingWordWrite{addr, v})
}

// FlushWrites applies every write queued by the instruction just executed,
// in program order, then clears both queues for reuse. Called once per
// 68000 instruction.
func (b *MainBus) FlushWrites() {
	for _, w := range b.byteWrites {
		b.applyByte(w.addr, w.val)
	}
	for _, w := range b.wordWrites {
		b.applyWord(w.addr, w.val)
	}
	b.byteWrites = b.byteWrites[:0]
	b.wordWrites = b.wordWrites[:0]
}

func (b *MainBus) InterruptLevel() uint8 {
	switch {
	case b.vdp.VIntPending():
		return 6
	case b.externalIntPending:
		return 2
	case b.vdp.HIntPending():
		return 4
	default:
		return 0
	}
}

// AcknowledgeInterrupt routes the acknowledge back through the VDP for
// levels 4/6 regardless of which level the 68000 believed it answered,
// reproducing real hardware's documented VDP acknowledge quirk.
func (b *MainBus) AcknowledgeInterrupt(level uint8) {
	switch level {
	case 6, 4:
		b.vdp.AcknowledgeInterrupt()
	case 2:
		b.externalIntPending = false
	}
}

// Halt reports whether the 68000 should be held stalled this cycle. DMA
// transfers in this implementation run to completion synchronously rather
// than stalling cycle-by-cycle, so this is always false; the stall is
// charged in master cycles through ConsumeStallCycles instead.
func (b *MainBus) Halt() bool { return false }

// ConsumeStallCycles returns and clears the master cycles the 68000 was
// stalled beyond its own instruction timing: DMA transfers it initiated
// and bus-contention penalties on Z80-window accesses.
func (b *MainBus) ConsumeStallCycles() int {
	n := b.pendingStall
	b.pendingStall = 0
	return n
}

// z80WindowPenalty is the approximate master-cycle cost of one 68000
// access into the Z80's address space while the Z80 bus is granted.
const z80WindowPenalty = 6

// Reset reports whether the bus wants the 68000 to re-run its power-on
// sequence. Nothing in this core currently drives a mid-session 68000
// reset (the facade calls CPU.Reset() directly at construction), so this
// is always false; the hook exists to satisfy m68k.Bus for a host that
// wires up a physical reset button.
func (b *MainBus) Reset() bool { return false }

// ---- read/write dispatch shared by immediate reads and deferred-write application ----

func (b *MainBus) readByte(addr uint32) uint8 {
	addr &= 0xFFFFFF
	switch {
	case addr <= 0x7FFFFF:
		return b.cart.ReadByte(addr)
	case addr >= 0xA00000 && addr <= 0xA0FFFF:
		if !b.BusAck() {
			return uint8(b.lastWord >> 8)
		}
		b.pendingStall += z80WindowPenalty
		return b.readZ80Space(uint16(addr))
	case addr >= 0xA10000 && addr <= 0xA1001F:
		return b.readIO(addr)
	case addr == 0xA11100 || addr == 0xA11101:
		return b.readBusReqStatus()
	case addr == 0xA11200 || addr == 0xA11201:
		return 0xFF
	case addr >= 0xA12000 && addr <= 0xA153FF:
		return b.cart.ReadByte(addr)
	case addr >= 0xC00000 && addr <= 0xC0001F:
		return b.readVDPByte(addr)
	case addr >= 0xE00000:
		return b.ram.ReadByte(addr)
	default:
		return 0xFF
	}
}

func (b *MainBus) readWord(addr uint32) uint16 {
	addr &= 0xFFFFFE
	switch {
	case addr <= 0x7FFFFF:
		return b.cart.ReadWord(addr)
	case addr >= 0xA00000 && addr <= 0xA0FFFF:
		if !b.BusAck() {
			return b.lastWord
		}
		b.pendingStall += z80WindowPenalty
		hi := b.readZ80Space(uint16(addr))
		lo := b.readZ80Space(uint16(addr + 1))
		return uint16(hi)<<8 | uint16(lo)
	case addr >= 0xA10000 && addr <= 0xA1001F:
		hi := b.readIO(addr)
		lo := b.readIO(addr + 1)
		return uint16(hi)<<8 | uint16(lo)
	case addr == 0xA11100:
		return uint16(b.readBusReqStatus()) << 8
	case addr == 0xA11200:
		return 0xFFFF
	case addr >= 0xA12000 && addr <= 0xA153FF:
		return b.cart.ReadWord(addr)
	case addr >= 0xC00000 && addr <= 0xC0001F:
		return b.readVDPWord(addr)
	case addr >= 0xE00000:
		return b.ram.ReadWord(addr)
	default:
		return 0xFFFF
	}
}

func (b *MainBus) applyByte(addr uint32, v uint8) {
	addr &= 0xFFFFFF
	switch {
	case addr <= 0x7FFFFF:
		b.cart.WriteByte(addr, v)
	case addr >= 0xA00000 && addr <= 0xA0FFFF:
		if b.BusAck() {
			b.pendingStall += z80WindowPenalty
			b.writeZ80Space(uint16(addr), v)
		}
	case addr >= 0xA10000 && addr <= 0xA1001F:
		b.writeIO(addr, v)
	case addr == 0xA11100 || addr == 0xA11101:
		b.z80BusReq = v&1 != 0
	case addr == 0xA11200 || addr == 0xA11201:
		b.setZ80Reset(v&1 == 0)
	case addr >= 0xA12000 && addr <= 0xA153FF:
		b.cart.WriteByte(addr, v)
	case addr >= 0xC00000 && addr <= 0xC0001F:
		b.writeVDPByte(addr, v)
	case addr >= 0xE00000:
		b.ram.WriteByte(addr, v)
	}
}

func (b *MainBus) applyWord(addr uint32, v uint16) {
	addr &= 0xFFFFFE
	switch {
	case addr <= 0x7FFFFF:
		b.cart.WriteWord(addr, v)
	case addr >= 0xA00000 && addr <= 0xA0FFFF:
		if b.BusAck() {
			b.pendingStall += z80WindowPenalty
			b.writeZ80Space(uint16(addr), uint8(v>>8))
			b.writeZ80Space(uint16(addr+1), uint8(v))
		}
	case addr >= 0xA10000 && addr <= 0xA1001F:
		b.writeIO(addr, uint8(v>>8))
		b.writeIO(addr+1, uint8(v))
	case addr == 0xA11100:
		b.z80BusReq = v&0x100 != 0
	case addr == 0xA11200:
		b.setZ80Reset(v&0x100 == 0)
	case addr >= 0xA12000 && addr <= 0xA153FF:
		b.cart.WriteWord(addr, v)
	case addr >= 0xC00000 && addr <= 0xC0001F:
		b.writeVDPWord(addr, v)
	case addr >= 0xE00000:
		b.ram.WriteWord(addr, v)
	}
}

// setZ80Reset updates the Z80 RESET line (asserted = held in reset) and,
// on the documented asserted->deasserted transition, resets the YM2612.
func (b *MainBus) setZ80Reset(asserted bool) {
	b.prevZ80Reset = b.z80Reset
	b.z80Reset = asserted
	if b.prevZ80Reset && !asserted {
		*b.ym = *audio.NewYM2612()
	}
}

// readBusReqStatus returns the 0xA11100 status byte: bit 0 reads 0 when
// the Z80 bus has been granted to the 68000, 1 while the request is still
// pending or not made; the remaining bits float at the open-bus value.
func (b *MainBus) readBusReqStatus() uint8 {
	v := uint8(b.lastWord>>8) &^ 0x01
	if !b.BusAck() {
		v |= 0x01
	}
	return v
}

// readIO and writeIO decode the I/O register block: the version register
// at 0xA10000/1, one word-wide data register per port at 0xA10002-0xA10007,
// and the matching ctrl registers at 0xA10008-0xA1000D. Each register
// responds at both its even and odd address.
func (b *MainBus) readIO(addr uint32) uint8 {
	switch addr & 0x1E {
	case 0x00:
		return b.version.Read()
	case 0x02:
		return b.ports[0].ReadData()
	case 0x04:
		return b.ports[1].ReadData()
	case 0x06:
		return b.ports[2].ReadData()
	case 0x08:
		return b.ports[0].ReadCtrl()
	case 0x0A:
		return b.ports[1].ReadCtrl()
	case 0x0C:
		return b.ports[2].ReadCtrl()
	default:
		return 0xFF
	}
}

func (b *MainBus) writeIO(addr uint32, v uint8) {
	switch addr & 0x1E {
	case 0x02:
		b.ports[0].WriteData(v)
	case 0x04:
		b.ports[1].WriteData(v)
	case 0x06:
		b.ports[2].WriteData(v)
	case 0x08:
		b.ports[0].WriteCtrl(v)
	case 0x0A:
		b.ports[1].WriteCtrl(v)
	case 0x0C:
		b.ports[2].WriteCtrl(v)
	}
}

// vdpControlWrite applies a control-port word write and, for 68000->VRAM
// and VRAM->VRAM-copy DMA modes, triggers the transfer immediately: those
// two modes start as soon as the control-port sequence that enables them
// completes, unlike fill mode which waits for the fill word on the data
// port.
func (b *MainBus) vdpControlWrite(word uint16) {
	b.vdp.ControlWrite(word)
	if b.vdp.DMAEnabled() && b.vdp.DMAPending() && b.vdp.DMAMode() != vdp.DMAFill {
		b.pendingStall += b.vdp.DMACycles()
		b.vdp.TriggerDMA()
	}
}

func (b *MainBus) vdpDataWrite(word uint16) {
	if b.vdp.DMAEnabled() && b.vdp.DMAPending() && b.vdp.DMAMode() == vdp.DMAFill {
		b.vdp.SetFillWord(word)
		b.pendingStall += b.vdp.DMACycles()
		b.vdp.TriggerDMA()
		return
	}
	b.vdp.DataWrite(word)
}

func (b *MainBus) readVDPByte(addr uint32) uint8 {
	switch addr & 0x1E {
	case 0x00, 0x02:
		w := b.vdp.DataRead()
		if addr&1 == 0 {
			return uint8(w >> 8)
		}
		return uint8(w)
	case 0x04, 0x06:
		w := b.vdpStatusWord()
		if addr&1 == 0 {
			return uint8(w >> 8)
		}
		return uint8(w)
	case 0x08, 0x0A, 0x0C, 0x0E:
		if addr&1 == 0 {
			return b.vdp.VCounter()
		}
		return b.vdp.HCounter()
	default:
		return 0xFF
	}
}

// vdpStatusWord merges the VDP's live status bits with the open-bus value
// in the register's six undriven high bits.
func (b *MainBus) vdpStatusWord() uint16 {
	return b.lastWord&0xFC00 | b.vdp.StatusRead()&0x03FF
}

func (b *MainBus) readVDPWord(addr uint32) uint16 {
	switch addr & 0x1E {
	case 0x00, 0x02:
		return b.vdp.DataRead()
	case 0x04, 0x06:
		return b.vdpStatusWord()
	case 0x08, 0x0A, 0x0C, 0x0E:
		return uint16(b.vdp.VCounter())<<8 | uint16(b.vdp.HCounter())
	default:
		return 0xFFFF
	}
}

func (b *MainBus) writeVDPByte(addr uint32, v uint8) {
	switch addr & 0x1E {
	case 0x00, 0x02:
		// Byte writes to the data port are documented as unreliable on
		// real hardware; model them as a word write with both halves
		// equal to v, the commonly emulated behavior.
		b.vdpDataWrite(uint16(v)<<8 | uint16(v))
	case 0x04, 0x06:
		b.vdpControlWrite(uint16(v)<<8 | uint16(v))
	case 0x10, 0x12, 0x14, 0x16:
		if addr&1 != 0 {
			b.psg.Write(v)
		}
	}
}

func (b *MainBus) writeVDPWord(addr uint32, v uint16) {
	switch addr & 0x1E {
	case 0x00, 0x02:
		b.vdpDataWrite(v)
	case 0x04, 0x06:
		b.vdpControlWrite(v)
	case 0x10, 0x12, 0x14, 0x16:
		b.psg.Write(uint8(v))
	}
}
