package cartridge

// RockmanX3Mapper implements the unlicensed Rockman X3 cartridge's odd
// protection check: reads from 0xA13000 must return a value whose low
// nibble is 0xC or the game immediately crashes with a "decode error".
// Everywhere else it behaves like a Basic mapper with no external memory.
type RockmanX3Mapper struct{}

func (RockmanX3Mapper) ReadByte(addr uint32, rom Rom, _ ExternalMemory) uint8 {
	if addr == 0xA13000 || addr == 0xA13001 {
		return 0xC
	}
	v, _ := rom.ReadByte(addr)
	return v
}

func (RockmanX3Mapper) ReadWord(addr uint32, rom Rom, _ ExternalMemory) uint16 {
	if addr == 0xA13000 {
		return 0xC
	}
	v, _ := rom.ReadWord(addr)
	return v
}

func (RockmanX3Mapper) WriteByte(uint32, uint8, ExternalMemory)  {}
func (RockmanX3Mapper) WriteWord(uint32, uint16, ExternalMemory) {}
func (RockmanX3Mapper) WriteRegister(uint32, uint8)              {}

// isRockmanX3 detects the unlicensed Rockman X3 port by serial number.
func isRockmanX3(header Header) bool {
	return header.Serial == "T-531023"
}

// isTriplePlay detects the Triple Play serial that needs the third-MiB
// duplication fixup below.
func isTriplePlay(header Header) bool {
	return header.Serial == "T-172026"
}

// applyTriplePlayFixup duplicates the third MiB of ROM to occupy
// 0x300000-0x3FFFFF so that the ROM appears contiguous to the game.
func applyTriplePlayFixup(raw []byte) []byte {
	if len(raw) < 0x300000 {
		return raw
	}
	out := make([]byte, 0x400000)
	copy(out, raw)
	third := out[0x200000:0x300000]
	copy(out[0x300000:0x400000], third)
	return out
}

// rtcSerials are the known Seiko S-3511A-bearing cartridges.
var rtcSerials = map[string]bool{
	"T-081326": true, // Sonic the Hedgehog 3
	"MK-1215 ": true, // Xtreme Sports
}

// RequiresRTC reports whether header names a cartridge known to carry a
// Seiko real-time clock, for the facade to decide whether to call
// Cartridge.AttachRTC after construction.
func RequiresRTC(header Header) bool {
	return rtcSerials[header.Serial]
}

// isQuackShotRevA detects the 512 KiB QuackShot Revision A ROM that needs
// the mirroring fixup below.
func isQuackShotRevA(raw []byte, header Header) bool {
	return len(raw) == 512*1024 && header.Serial == "MK-1205 "
}

// applyQuackShotRevAFixup remaps a 512 KiB QuackShot Rev A image into a
// 2 MiB image: the first 256 KiB mirrors 4x in 0x000000-0x0FFFFF, and the
// second 256 KiB mirrors 4x in 0x100000-0x1FFFFF.
func applyQuackShotRevAFixup(raw []byte) []byte {
	if len(raw) < 512*1024 {
		return raw
	}
	out := make([]byte, 2*1024*1024)
	first := raw[:256*1024]
	second := raw[256*1024 : 512*1024]
	for i := 0; i < 4; i++ {
		copy(out[i*256*1024:], first)
		copy(out[0x100000+i*256*1024:], second)
	}
	return out
}
