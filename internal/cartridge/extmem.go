package cartridge

// ExternalMemory is the cartridge's optional external-memory region: SRAM
// (byte- or word-width), an EEPROM placeholder, or the Seiko RTC. It is
// opaque to the mapper, which only decides whether an address falls in
// its window; the mapper owns no external-memory bytes itself.
type ExternalMemory interface {
	ReadByte(addr uint32) (uint8, bool)
	ReadWord(addr uint32) (uint16, bool)
	WriteByte(addr uint32, value uint8)
	WriteWord(addr uint32, value uint16)

	// IsPersistent reports whether this region should be saved to disk.
	IsPersistent() bool
	// Bytes returns the raw save-file contents.
	Bytes() []byte
	// LoadBytes restores previously-saved contents.
	LoadBytes([]byte)
	// Dirty reports and clears whether a write has occurred since the last call.
	Dirty() bool
}

// NoExternalMemory is used by cartridges with no SRAM/RTC at all.
type NoExternalMemory struct{}

func (NoExternalMemory) ReadByte(uint32) (uint8, bool)  { return 0xFF, false }
func (NoExternalMemory) ReadWord(uint32) (uint16, bool) { return 0xFFFF, false }
func (NoExternalMemory) WriteByte(uint32, uint8)        {}
func (NoExternalMemory) WriteWord(uint32, uint16)       {}
func (NoExternalMemory) IsPersistent() bool             { return false }
func (NoExternalMemory) Bytes() []byte                  { return nil }
func (NoExternalMemory) LoadBytes([]byte)               {}
func (NoExternalMemory) Dirty() bool                    { return false }

// SRAM is byte- or word-width battery-backed static RAM mapped into a
// fixed address window.
type SRAM struct {
	data       []byte
	start, end uint32
	wordWidth  bool
	persistent bool
	dirty      bool
}

// NewSRAM returns an SRAM region covering [start,end] inclusive.
func NewSRAM(size int, start, end uint32, wordWidth, persistent bool) *SRAM {
	return &SRAM{data: make([]byte, size), start: start, end: end, wordWidth: wordWidth, persistent: persistent}
}

func (s *SRAM) inRange(addr uint32) bool {
	return addr >= s.start && addr <= s.end
}

func (s *SRAM) index(addr uint32) int {
	if s.wordWidth {
		return int(addr-s.start) % len(s.data)
	}
	// byte-width SRAM occupies every other address on real hardware
	return int((addr-s.start)/2) % len(s.data)
}

func (s *SRAM) ReadByte(addr uint32) (uint8, bool) {
	if !s.inRange(addr) {
		return 0xFF, false
	}
	return s.data[s.index(addr)], true
}

func (s *SRAM) ReadWord(addr uint32) (uint16, bool) {
	if !s.inRange(addr) {
		return 0xFFFF, false
	}
	if s.wordWidth {
		i := s.index(addr)
		return uint16(s.data[i])<<8 | uint16(s.data[(i+1)%len(s.data)]), true
	}
	b, _ := s.ReadByte(addr)
	return uint16(b)<<8 | uint16(b), true
}

func (s *SRAM) WriteByte(addr uint32, value uint8) {
	if !s.inRange(addr) {
		return
	}
	s.data[s.index(addr)] = value
	s.dirty = true
}

func (s *SRAM) WriteWord(addr uint32, value uint16) {
	if !s.inRange(addr) {
		return
	}
	if s.wordWidth {
		i := s.index(addr)
		s.data[i] = uint8(value >> 8)
		s.data[(i+1)%len(s.data)] = uint8(value)
	} else {
		s.data[s.index(addr)] = uint8(value)
	}
	s.dirty = true
}

func (s *SRAM) IsPersistent() bool { return s.persistent }
func (s *SRAM) Bytes() []byte      { return s.data }
func (s *SRAM) LoadBytes(b []byte) {
	copy(s.data, b)
}
func (s *SRAM) Dirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// EEPROM is a serial EEPROM region. The handful of Genesis cartridges
// carrying one drive it over an I2C-style two-wire protocol; this model
// skips the wire protocol and exposes the same byte-array semantics as
// SRAM, which is sufficient for hosts that only need the contents
// persisted. Attached by the host via Cartridge.AttachEEPROM.
type EEPROM struct {
	SRAM
}

// NewEEPROM returns an EEPROM region covering [start,end] inclusive.
func NewEEPROM(size int, start, end uint32) *EEPROM {
	return &EEPROM{SRAM{data: make([]byte, size), start: start, end: end, persistent: true}}
}
