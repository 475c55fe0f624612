// Package cartridge decodes the 24-bit cartridge address space into ROM,
// SRAM, or RTC accesses through a mapper. Construction is the only place
// this package returns an error; every read/write at the bus interface
// is total, returning open-bus values instead of failing.
package cartridge

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/mdcore/genesis-core/internal/rtc"
	"github.com/mdcore/genesis-core/pkg/log"
)

// Cartridge is a product type: immutable ROM bytes, an optional external
// memory region, a mapper, and header-derived metadata.
type Cartridge struct {
	rom      Rom
	mapper   Mapper
	external ExternalMemory
	header   Header
	md5      string
}

// New parses and normalizes raw ROM bytes into a Cartridge, selecting a
// mapper and external-memory region from the header and known special
// cases. logger may be nil.
func New(raw []byte, logger log.Logger) (*Cartridge, error) {
	if logger == nil {
		logger = log.NewNullLogger()
	}

	normalized, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	header := parseHeader(normalized)

	switch {
	case isTriplePlay(header):
		normalized = applyTriplePlayFixup(normalized)
	case isQuackShotRevA(normalized, header):
		normalized = applyQuackShotRevAFixup(normalized)
	}

	rom := NewRom(normalized)

	c := &Cartridge{rom: rom, header: header}
	c.md5 = md5Hex(normalized)

	c.external = NoExternalMemory{}
	ramMapped := false
	if header.RAMPresent {
		ramMapped = header.RAMStart >= uint32(len(normalized))
		if !RequiresRTC(header) {
			size := int(header.RAMEnd-header.RAMStart) + 1
			if header.RAMWordWidth {
				// word-width SRAM's declared range already counts every
				// addressable byte lane.
			} else {
				size = size/2 + 1
			}
			c.external = NewSRAM(size, header.RAMStart, header.RAMEnd, header.RAMWordWidth, true)
		}
		// When RequiresRTC, the header's declared window still gates
		// ramMapped above; the actual RTC chip is wired in by the host
		// facade via AttachRTC once Header() has been inspected, using
		// the same [RAMStart,RAMEnd] window.
	}

	switch {
	case isRockmanX3(header):
		c.mapper = RockmanX3Mapper{}
		c.external = NoExternalMemory{}
	case ShouldUseSSF(header):
		c.mapper = NewSSFMapper(ramMapped)
	default:
		c.mapper = NewBasicMapper(ramMapped)
	}

	logger.Infof("cartridge: loaded %q region=%s serial=%q mapper=%T", header.DomesticTitle, header.Region, header.Serial, c.mapper)

	return c, nil
}

// AttachSRAM replaces the external-memory region with battery-backed SRAM.
// Save-state serialization is left to the host; this just wires the
// region so the host can call SRAM/LoadSRAM against it.
func (c *Cartridge) AttachSRAM(size int, start, end uint32, wordWidth, persistent bool) {
	c.external = NewSRAM(size, start, end, wordWidth, persistent)
}

// AttachEEPROM replaces the external-memory region with a serial EEPROM.
func (c *Cartridge) AttachEEPROM(size int, start, end uint32) {
	c.external = NewEEPROM(size, start, end)
}

// AttachRTC replaces the external-memory region with a Seiko RTC exposed
// at [start,end].
func (c *Cartridge) AttachRTC(clk rtc.Clock, logger log.Logger, start, end uint32) *rtc.SeikoRTC {
	chip := rtc.NewSeikoRTC(clk, logger)
	c.external = NewRTCMemory(chip, start, end)
	return chip
}

func (c *Cartridge) Header() Header { return c.header }
func (c *Cartridge) Title() string  { return c.header.DomesticTitle }
func (c *Cartridge) MD5() string    { return c.md5 }

// ReadByte returns the byte at addr (unmapped addresses return 0xFF, per
// invariant 3). The mapper-register window reads as 0xFF except on the
// Rockman X3 mapper, which answers its protection register there.
func (c *Cartridge) ReadByte(addr uint32) uint8 {
	addr &= 0xFFFFFF
	if isMapperRegisterWindow(addr) {
		if m, ok := c.mapper.(RockmanX3Mapper); ok {
			return m.ReadByte(addr, c.rom, c.external)
		}
		return 0xFF
	}
	return c.mapper.ReadByte(addr, c.rom, c.external)
}

// ReadWord returns the word at addr.
func (c *Cartridge) ReadWord(addr uint32) uint16 {
	addr &= 0xFFFFFF
	if isMapperRegisterWindow(addr) {
		if m, ok := c.mapper.(RockmanX3Mapper); ok {
			return m.ReadWord(addr, c.rom, c.external)
		}
		return 0xFFFF
	}
	return c.mapper.ReadWord(addr, c.rom, c.external)
}

// WriteByte writes value at addr: mapper-register writes reconfigure the
// mapper, ROM-region writes are discarded unless the mapper treats them
// as register writes, and external-memory writes go to the mapper.
func (c *Cartridge) WriteByte(addr uint32, value uint8) {
	addr &= 0xFFFFFF
	if isMapperRegisterWindow(addr) {
		c.mapper.WriteRegister(addr, value)
		return
	}
	c.mapper.WriteByte(addr, value, c.external)
}

func (c *Cartridge) WriteWord(addr uint32, value uint16) {
	addr &= 0xFFFFFF
	if isMapperRegisterWindow(addr) {
		c.mapper.WriteRegister(addr, uint8(value))
		return
	}
	c.mapper.WriteWord(addr, value, c.external)
}

func isMapperRegisterWindow(addr uint32) bool {
	return addr >= 0xA12000 && addr <= 0xA153FF
}

// IsRAMPersistent reports whether the cartridge's external memory should
// be saved to disk by the host.
func (c *Cartridge) IsRAMPersistent() bool { return c.external.IsPersistent() }

// SRAM returns the external-memory bytes for host-side persistence.
func (c *Cartridge) SRAM() []byte { return c.external.Bytes() }

// LoadSRAM restores previously-saved external-memory bytes.
func (c *Cartridge) LoadSRAM(b []byte) { c.external.LoadBytes(b) }

// GetAndClearRAMDirty reports and clears whether external memory has been
// written since the last call, so a host can decide when to flush a save
// file to disk.
func (c *Cartridge) GetAndClearRAMDirty() bool { return c.external.Dirty() }

func md5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
