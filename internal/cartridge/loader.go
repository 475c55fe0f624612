package cartridge

import "github.com/pkg/errors"

// minViableROMSize is the smallest input accepted by Normalize; anything
// shorter is rejected rather than silently padded.
const minViableROMSize = 1024

// Normalize accepts a ROM image in any of the four forms the core supports
// (plain big-endian, byte-swapped, copier-headered, or interleaved .smd)
// and returns a plain big-endian image padded to at least 1 KiB by
// power-of-two mirroring.
func Normalize(raw []byte) ([]byte, error) {
	if len(raw) < minViableROMSize {
		return nil, errors.Errorf("cartridge: ROM image too short (%d bytes, need at least %d)", len(raw), minViableROMSize)
	}

	if hasCopierHeader(raw) {
		raw = raw[512:]
	}

	if isInterleavedSMD(raw) {
		raw = deinterleaveSMD(raw)
	}

	if isByteSwapped(raw) {
		raw = byteSwap(raw)
	}

	return padToPowerOfTwo(raw), nil
}

// hasCopierHeader detects a 512-byte copier header: the image length is a
// multiple of 1024 with a 512-byte remainder, and stripping it exposes a
// valid SEGA or interleaved TMSS signature.
func hasCopierHeader(raw []byte) bool {
	if len(raw) <= 512 || len(raw)%1024 != 512 {
		return false
	}
	stripped := raw[512:]
	return hasSegaSignature(stripped) || isInterleavedSMD(stripped)
}

func hasSegaSignature(raw []byte) bool {
	return len(raw) >= 0x104 && (string(raw[0x100:0x104]) == "SEGA" || string(raw[0x100:0x104]) == "ESAG")
}

// isByteSwapped detects a little-endian ROM: the bytes at 0x100..0x104
// spell "ESAG", a byte-swapped "SEGA".
func isByteSwapped(raw []byte) bool {
	return len(raw) >= 0x104 && string(raw[0x100:0x104]) == "ESAG"
}

func byteSwap(raw []byte) []byte {
	out := make([]byte, len(raw))
	copy(out, raw)
	for i := 0; i+1 < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}

// isInterleavedSMD detects the TMSS signature appearing at the interleaved
// offset a .smd image would put it at, rather than the flat offset.
func isInterleavedSMD(raw []byte) bool {
	if len(raw) < 0x2104 {
		return false
	}
	// In an interleaved image, the even-byte half of each 16KiB block comes
	// first, so "SEGA" at flat offset 0x100 is split across the two halves
	// of the first block: the even bytes 'S','G' sit at 0x80-0x81 and the
	// odd bytes 'E','A' at 0x2080-0x2081.
	return raw[0x80] == 'S' && raw[0x81] == 'G' && raw[0x2080] == 'E' && raw[0x2081] == 'A'
}

// deinterleaveSMD reassembles 16 KiB blocks of 8 KiB-even + 8 KiB-odd bytes
// into flat byte order.
func deinterleaveSMD(raw []byte) []byte {
	const block = 16 * 1024
	const half = block / 2
	out := make([]byte, len(raw))
	for base := 0; base+block <= len(raw); base += block {
		evens := raw[base : base+half]
		odds := raw[base+half : base+block]
		for i := 0; i < half; i++ {
			out[base+i*2] = evens[i]
			out[base+i*2+1] = odds[i]
		}
	}
	return out
}

// padToPowerOfTwo mirrors a short ROM up to the next power of two, with a
// 1 KiB floor.
func padToPowerOfTwo(raw []byte) []byte {
	size := minViableROMSize
	for size < len(raw) {
		size *= 2
	}
	if size == len(raw) {
		return raw
	}
	out := make([]byte, size)
	for i := 0; i < size; i += len(raw) {
		copy(out[i:], raw)
	}
	return out
}
