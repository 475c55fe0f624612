package cartridge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func headerFixture(region byte, ramSig bool) []byte {
	raw := make([]byte, 0x200)
	copy(raw[0x100:], "SEGA GENESIS    ")
	copy(raw[0x120:], "TEST GAME                       ")
	copy(raw[0x183:], "GM 00000")
	raw[0x1F0] = region
	if ramSig {
		raw[0x1B0] = 'R'
		raw[0x1B1] = 'A'
		raw[0x1B2] = 0x40 // word-width
		raw[0x1B4], raw[0x1B5], raw[0x1B6], raw[0x1B7] = 0x00, 0x20, 0x00, 0x00
		raw[0x1B8], raw[0x1B9], raw[0x1BA], raw[0x1BB] = 0x00, 0x20, 0xFF, 0xFF
	}
	return raw
}

func TestParseHeaderFieldsMatchDeclaration(t *testing.T) {
	got := parseHeader(headerFixture('J', true))

	want := Header{
		SystemID:      "SEGA GENESIS",
		DomesticTitle: "TEST GAME",
		Serial:        "GM 00000",
		Checksum:      0,
		Region:        RegionJapan,
		RAMPresent:    true,
		RAMWordWidth:  true,
		RAMStart:      0x00200000,
		RAMEnd:        0x0020FFFF,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseHeader mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHeaderWithoutRASignatureLeavesRAMFieldsZero(t *testing.T) {
	got := parseHeader(headerFixture('U', false))

	want := Header{
		SystemID:      "SEGA GENESIS",
		DomesticTitle: "TEST GAME",
		Serial:        "GM 00000",
		Checksum:      0,
		Region:        RegionAmericas,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseHeader mismatch (-want +got):\n%s", diff)
	}
}
