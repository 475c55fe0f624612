//go:generate go run golang.org/x/tools/cmd/stringer -type=EventType -output=event_string.go
package scheduler

// EventType identifies a recurring or one-shot event the scheduler can
// carry in its event list. Only one event of each type may be pending at a
// time, matching the fixed-size event table in Scheduler.
type EventType uint8

const (
	// VDPHBlankStart fires at the start of each scanline's horizontal blank.
	VDPHBlankStart EventType = iota
	// VDPHInt fires when the reloadable HINT counter underflows.
	VDPHInt
	// VDPVInt fires at the start of the first vertical-blank line.
	VDPVInt
	// VDPLineEnd advances the active-scanline render pipeline.
	VDPLineEnd
	// VDPFrameEnd signals frame completion to the scheduler.
	VDPFrameEnd

	// DMAStartTransfer begins a VDP DMA transfer (68000->VRAM, fill, or copy).
	DMAStartTransfer
	// DMAEndTransfer fires when a DMA transfer has consumed its length.
	DMAEndTransfer

	// Z80BusReleased fires once BUSACK settles after a BUSREQ edge.
	Z80BusReleased

	// RTCTick advances the Seiko RTC calendar by wall-clock elapsed time.
	RTCTick

	// SRAMDirtyPoll is a low-frequency reminder for the host to poll
	// GetAndClearRAMDirty.
	SRAMDirtyPoll

	eventTypeCount
)

// Event is a single node in the scheduler's sorted linked list.
type Event struct {
	cycle     uint64
	eventType EventType
	next      *Event
	handler   func()
}
