// Package scheduler implements the master-clock event queue that drives
// every Genesis component in lockstep. The mechanism is a linked list of
// events sorted by absolute master-clock cycle; components with regularly
// recurring work (the VDP's scanline boundaries, DMA completion, the RTC's
// wall-clock tick) register a handler once and reschedule themselves from
// within that handler.
package scheduler

import (
	"fmt"
	"math"
)

// Clock divisors: one 68000 cycle is 7 master cycles, one Z80 cycle is 15,
// and one VDP pixel dot is 4 master cycles in H40 mode or 5 in H32 mode.
const (
	M68KDivisor     = 7
	Z80Divisor      = 15
	VDPDotH40       = 4
	VDPDotH32       = 5
	MasterClockNTSC = 53693175
	MasterClockPAL  = 53203424
)

// Scheduler advances every component by master-clock cycles and executes
// scheduled events in order. Only one event of each EventType may be
// pending at a time.
type Scheduler struct {
	cycles uint64
	root   *Event

	events      [eventTypeCount]*Event
	nextEventAt uint64
}

// NewScheduler returns a Scheduler with an empty event list; the sentinel
// root event never fires (its cycle is math.MaxUint64) unless something
// has gone wrong, in which case it reports the condition instead of
// panicking mid-frame.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		root: &Event{
			cycle:     math.MaxUint64,
			eventType: eventTypeCount, // never matches a deschedulable type
			handler: func() {
				fmt.Println("scheduler: no event handler found")
			},
		},
	}

	// Pre-allocate one Event per EventType so scheduling never allocates
	// on the hot path.
	for i := range s.events {
		s.events[i] = &Event{}
	}
	s.nextEventAt = s.root.cycle

	return s
}

// Cycle returns the current master-clock cycle count.
func (s *Scheduler) Cycle() uint64 {
	return s.cycles
}

// RegisterEvent binds a handler to an EventType. Call this once per
// component at construction time; ScheduleEvent only ever needs the
// EventType afterward.
func (s *Scheduler) RegisterEvent(eventType EventType, fn func()) {
	s.events[eventType].handler = fn
	s.events[eventType].eventType = eventType
}

// Tick advances the scheduler by c master-clock cycles, executing any
// events whose cycle has been reached.
func (s *Scheduler) Tick(c uint64) {
	s.cycles += c

	if s.nextEventAt > s.cycles {
		return
	}

	s.nextEventAt = s.doEvents(s.nextEventAt)
}

// doEvents executes all events scheduled at or before the current cycle
// and returns the cycle of the next pending event. While a handler runs,
// Cycle reports that event's own cycle, so a handler that reschedules
// itself does so relative to when it was due rather than to the end of
// the tick.
func (s *Scheduler) doEvents(nextEvent uint64) uint64 {
	now := s.cycles
	for nextEvent <= now {
		event := s.root
		s.root = event.next
		s.cycles = event.cycle
		event.handler()
		nextEvent = s.root.cycle
	}
	s.cycles = now

	return nextEvent
}

// ScheduleEvent schedules eventType to fire cycle master-clock cycles from
// now, inserting it into the sorted list at the correct position.
func (s *Scheduler) ScheduleEvent(eventType EventType, cycle uint64) {
	atCycle := s.cycles + cycle

	var prev *Event
	this := s.events[eventType]
	this.cycle = atCycle

	if atCycle < s.nextEventAt {
		this.next = s.root
		s.root = this
		s.nextEventAt = atCycle
		return
	}

	event := s.root
	for {
		if atCycle < event.cycle {
			if prev == nil {
				this.next = event
				s.root = this
				s.nextEventAt = atCycle
				break
			} else if prev.cycle <= atCycle {
				this.next = event
				prev.next = this
				break
			}
		}

		if event.next == nil && event.cycle <= atCycle {
			event.next = this
			break
		}

		prev = event
		event = event.next
	}
}

// DescheduleEvent removes a pending event of the given type, if any.
func (s *Scheduler) DescheduleEvent(eventType EventType) {
	if s.root == nil {
		return
	}

	var prev *Event
	event := s.root

	for event != nil {
		if event.eventType == eventType {
			if prev == nil {
				s.root = event.next
				if s.root != nil {
					s.nextEventAt = s.root.cycle
				}
			} else {
				prev.next = event.next
			}
			return
		}
		prev = event
		event = event.next
	}
}

// DoEvent executes the next pending event unconditionally and returns the
// cycle of the event after it.
func (s *Scheduler) DoEvent() uint64 {
	event := s.root

	s.root = event.next
	event.handler()

	return s.root.cycle
}

// Skip jumps straight to the next pending event. Used while the 68000 is
// halted awaiting an interrupt: there is no instruction to step, so the
// scheduler fast-forwards to whatever component event unblocks it.
func (s *Scheduler) Skip() {
	s.cycles = s.nextEventAt
	s.nextEventAt = s.DoEvent()
}

func (s *Scheduler) String() string {
	result := ""
	event := s.root
	for event != nil {
		result += fmt.Sprintf("%s:%d->", event.eventType, event.cycle)
		event = event.next
	}
	return result
}

// Until returns the number of master cycles until the given event type is
// scheduled to fire, or 0 if it is not pending.
func (s *Scheduler) Until(eventType EventType) uint64 {
	event := s.root
	for event != nil {
		if event.eventType == eventType {
			return event.cycle - s.cycles
		}
		event = event.next
	}
	return 0
}
