package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleEventFiresAtCycle(t *testing.T) {
	s := NewScheduler()

	fired := uint64(0)
	s.RegisterEvent(VDPHInt, func() {
		fired = s.Cycle()
	})

	s.ScheduleEvent(VDPHInt, 100)
	s.Tick(50)
	assert.Equal(t, uint64(0), fired, "event must not fire before its cycle")

	s.Tick(50)
	assert.Equal(t, uint64(100), fired)
}

func TestDescheduleEventPreventsFiring(t *testing.T) {
	s := NewScheduler()

	fired := false
	s.RegisterEvent(DMAEndTransfer, func() { fired = true })
	s.ScheduleEvent(DMAEndTransfer, 10)
	s.DescheduleEvent(DMAEndTransfer)

	s.Tick(20)
	assert.False(t, fired)
}

func TestRescheduleFromWithinHandler(t *testing.T) {
	s := NewScheduler()

	count := 0
	var handler func()
	handler = func() {
		count++
		if count < 3 {
			s.ScheduleEvent(RTCTick, 10)
		}
	}
	s.RegisterEvent(RTCTick, handler)
	s.ScheduleEvent(RTCTick, 10)

	s.Tick(100)
	assert.Equal(t, 3, count)
}

func TestUntilReportsRemainingCycles(t *testing.T) {
	s := NewScheduler()
	s.RegisterEvent(VDPVInt, func() {})
	s.ScheduleEvent(VDPVInt, 200)
	s.Tick(50)

	assert.Equal(t, uint64(150), s.Until(VDPVInt))
}
