package cartridge

import "github.com/mdcore/genesis-core/internal/rtc"

// RTCMemory adapts a Seiko RTC chip to the ExternalMemory interface. The
// three serial lines are exposed as bits of a single byte register: bit 0
// is data, bit 1 is clock, bit 2 is chip-select; reads return the RTC's
// single data-out bit in bit 0. The chip's three-pin protocol doesn't
// prescribe a host address layout, so the bit assignment here is fixed by
// this adapter the way a cartridge ASIC would fix it in hardware.
type RTCMemory struct {
	chip       *rtc.SeikoRTC
	start, end uint32
}

// NewRTCMemory wraps chip as external memory visible in [start,end].
func NewRTCMemory(chip *rtc.SeikoRTC, start, end uint32) *RTCMemory {
	return &RTCMemory{chip: chip, start: start, end: end}
}

func (r *RTCMemory) inRange(addr uint32) bool {
	return addr >= r.start && addr <= r.end
}

func (r *RTCMemory) ReadByte(addr uint32) (uint8, bool) {
	if !r.inRange(addr) {
		return 0xFF, false
	}
	if r.chip.Read() {
		return 1, true
	}
	return 0, true
}

func (r *RTCMemory) ReadWord(addr uint32) (uint16, bool) {
	b, ok := r.ReadByte(addr)
	return uint16(b), ok
}

func (r *RTCMemory) WriteByte(addr uint32, value uint8) {
	if !r.inRange(addr) {
		return
	}
	r.chip.Write(rtc.Signals{
		Data:       value&0x1 != 0,
		Clock:      value&0x2 != 0,
		ChipSelect: value&0x4 != 0,
	})
}

func (r *RTCMemory) WriteWord(addr uint32, value uint16) {
	r.WriteByte(addr, uint8(value))
}

func (r *RTCMemory) IsPersistent() bool { return false }
func (r *RTCMemory) Bytes() []byte      { return nil }
func (r *RTCMemory) LoadBytes([]byte)   {}
func (r *RTCMemory) Dirty() bool        { return false }
