// Package rtc implements the Seiko S-3511A real-time clock chip found in
// a handful of Genesis/Mega Drive and Game Boy Advance cartridges: a
// three-wire serial protocol (chip-select, clock, data) driving a small
// command state machine on top of a BCD calendar.
package rtc

import (
	"time"

	"github.com/mdcore/genesis-core/pkg/bits"
	"github.com/mdcore/genesis-core/pkg/log"
)

// state is the RTC's command state machine: driven entirely by falling
// clock edges while chip-select is asserted.
type state uint8

const (
	stateIdle state = iota
	stateReceivingCommand
	stateSendingData
	stateReceivingData
	stateFinished
)

// readTarget / writeTarget name a calendar or control register exchanged
// one byte at a time, auto-advancing through the documented chain.
type target uint8

const (
	targetStatus target = iota
	targetYear
	targetMonth
	targetDay
	targetDayOfWeek
	targetHour
	targetMinute
	targetSecond
	targetInterruptLow
	targetInterruptHigh
)

// next returns the register that follows target in the auto-advance
// chain: year->month->day->day-of-week->hour->minute->second, and
// interrupt-low->interrupt-high.
func (t target) next() (target, bool) {
	switch t {
	case targetYear:
		return targetMonth, true
	case targetMonth:
		return targetDay, true
	case targetDay:
		return targetDayOfWeek, true
	case targetDayOfWeek:
		return targetHour, true
	case targetHour:
		return targetMinute, true
	case targetMinute:
		return targetSecond, true
	case targetInterruptLow:
		return targetInterruptHigh, true
	default:
		return 0, false
	}
}

// control holds the status register fields: POWER, 12/24-hour mode, and
// the alarm / per-minute / frequency interrupt enables.
type control struct {
	powerCycled        bool
	hourMode           HourMode
	alarmInterrupt     bool
	perMinuteInterrupt bool
	freqInterrupt      bool
}

func (c control) read() uint8 {
	var b uint8
	if c.powerCycled {
		b |= 1 << 7
	}
	if c.hourMode == Hour12 {
		b |= 1 << 6
	}
	if c.alarmInterrupt {
		b |= 1 << 5
	}
	if c.perMinuteInterrupt {
		b |= 1 << 3
	}
	if c.freqInterrupt {
		b |= 1 << 1
	}
	return b
}

func (c *control) write(v uint8) {
	if v&(1<<6) != 0 {
		c.hourMode = Hour12
	} else {
		c.hourMode = Hour24
	}
	c.alarmInterrupt = v&(1<<5) != 0
	c.perMinuteInterrupt = v&(1<<3) != 0
	c.freqInterrupt = v&(1<<1) != 0
}

// Signals is one write to the RTC's three serial inputs.
type Signals struct {
	ChipSelect bool
	Clock      bool
	Data       bool
}

// SeikoRTC is the full chip: calendar, control register, interrupt
// register/line, and the serial command state machine.
type SeikoRTC struct {
	log log.Logger

	calendar  Calendar
	ctrl      control
	interrupt uint16 // interrupt register (alarm time + enables)
	intLine   bool   // true = asserted; the bus sees it inverted

	clk     Clock
	lastNow time.Time

	st              state
	cmdBits         uint8
	cmdRemaining    uint8
	sendBits        uint8
	sendRemaining   uint8
	sendNext        target
	sendHasNext     bool
	recvDestination target
	recvBits        uint8
	recvRemaining   uint8
	prevClock       bool
}

// NewSeikoRTC returns a chip reset to 2000-01-01 00:00:00 with the default
// power-on control value (POWER and frequency-interrupt-enable set).
func NewSeikoRTC(clk Clock, logger log.Logger) *SeikoRTC {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	r := &SeikoRTC{
		log:       logger,
		calendar:  NewCalendar(),
		interrupt: 0x8000,
		clk:       clk,
		st:        stateIdle,
	}
	r.ctrl.powerCycled = true
	r.ctrl.freqInterrupt = true
	return r
}

// Calendar returns a snapshot of the current calendar state.
func (r *SeikoRTC) Calendar() Calendar { return r.calendar }

// Read returns the single data bit the chip is currently driving. Outside
// of SendingData, the line idles high.
func (r *SeikoRTC) Read() bool {
	if r.st == stateSendingData {
		return r.sendBits&1 != 0
	}
	return true
}

// Write drives the chip-select/clock/data lines. State advances only on a
// falling clock edge while chip-select is asserted; deasserting
// chip-select at any time returns to Idle.
func (r *SeikoRTC) Write(s Signals) {
	prevClock := r.prevClock
	r.prevClock = s.Clock

	if !s.ChipSelect {
		r.st = stateIdle
		return
	}

	if r.st == stateFinished {
		return
	}

	if r.st == stateIdle {
		r.st = stateReceivingCommand
		r.cmdBits = 0
		r.cmdRemaining = 8
		return
	}

	fallingEdge := prevClock && !s.Clock
	if !fallingEdge {
		return
	}

	r.advance(s.Data)
}

func (r *SeikoRTC) advance(data bool) {
	switch r.st {
	case stateReceivingCommand:
		bit := uint8(0)
		if data {
			bit = 1
		}
		r.cmdBits = (r.cmdBits << 1) | bit
		r.cmdRemaining--
		if r.cmdRemaining > 0 {
			return
		}
		r.dispatchCommand(r.cmdBits)

	case stateSendingData:
		if r.sendRemaining == 1 {
			if r.sendHasNext {
				r.startSending(r.sendNext)
			} else {
				r.st = stateFinished
			}
			return
		}
		r.sendBits >>= 1
		r.sendRemaining--

	case stateReceivingData:
		bit := uint8(0)
		if data {
			bit = 1
		}
		// data bytes are received LSB-first
		r.recvBits = (r.recvBits >> 1) | (bit << 7)
		r.recvRemaining--
		if r.recvRemaining == 0 {
			r.applyWrite(r.recvDestination, r.recvBits)
			if next, ok := r.recvDestination.next(); ok {
				r.recvDestination = next
				r.recvBits = 0
				r.recvRemaining = 8
			} else {
				r.st = stateFinished
			}
		}
	}
}

// command bytes are 0110 CCC D: the high nibble 0110 is fixed, CCC selects
// the register group, and D selects read (1) or write (0).
func (r *SeikoRTC) dispatchCommand(cmd uint8) {
	if cmd>>4 != 0b0110 {
		r.st = stateFinished
		return
	}

	group := (cmd >> 1) & 0x7
	isRead := cmd&1 != 0

	if group == 0b000 {
		r.log.Debugf("rtc: reset command")
		r.reset()
		r.st = stateFinished
		return
	}

	var t target
	switch group {
	case 0b001:
		t = targetStatus
	case 0b010:
		t = targetYear
	case 0b011:
		t = targetHour
	case 0b100:
		t = targetInterruptLow
	case 0b101:
		t = targetInterruptHigh
	default:
		r.log.Debugf("rtc: test-mode command ignored")
		r.st = stateFinished
		return
	}

	if isRead {
		// The first data bit must be on the line as soon as the command
		// byte completes; load the register now rather than on the next
		// edge.
		r.startSending(t)
	} else {
		r.st = stateReceivingData
		r.recvDestination = t
		r.recvBits = 0
		r.recvRemaining = 8
	}
}

// startSending loads t's value into the output shift register and begins
// clocking it out LSB first; called both at read-command dispatch and when
// chaining to the next register of a group.
func (r *SeikoRTC) startSending(t target) {
	r.sendBits = r.readTarget(t)
	r.sendRemaining = 8
	r.sendNext, r.sendHasNext = t.next()
	r.st = stateSendingData
}

func (r *SeikoRTC) readTarget(t target) uint8 {
	switch t {
	case targetStatus:
		return r.ctrl.read()
	case targetYear:
		return bits.BinaryToBCD(r.calendar.Year)
	case targetMonth:
		return bits.BinaryToBCD(r.calendar.Month)
	case targetDay:
		return bits.BinaryToBCD(r.calendar.Day)
	case targetDayOfWeek:
		return r.calendar.DayOfWeek
	case targetHour:
		v := bits.BinaryToBCD(r.calendar.Hour)
		if r.calendar.PM {
			v |= 1 << 7
		}
		return v
	case targetMinute:
		return bits.BinaryToBCD(r.calendar.Minute)
	case targetSecond:
		return bits.BinaryToBCD(r.calendar.Second)
	case targetInterruptLow:
		return uint8(r.interrupt)
	case targetInterruptHigh:
		return uint8(r.interrupt >> 8)
	default:
		return 0
	}
}

func (r *SeikoRTC) applyWrite(t target, value uint8) {
	switch t {
	case targetStatus:
		r.ctrl.write(value)
	case targetYear:
		r.calendar.SetYear(bits.BCDToBinary(value))
	case targetMonth:
		r.calendar.SetMonth(bits.BCDToBinary(value & 0x1F))
	case targetDay:
		r.calendar.SetDay(bits.BCDToBinary(value & 0x3F))
	case targetDayOfWeek:
		r.calendar.SetDayOfWeek(value)
	case targetHour:
		r.calendar.HourMode = r.ctrl.hourMode
		r.calendar.SetHour(bits.BCDToBinary(value&0x3F), value&0x80 != 0)
	case targetMinute:
		r.calendar.SetMinute(bits.BCDToBinary(value & 0x7F))
	case targetSecond:
		r.calendar.SetSecond(bits.BCDToBinary(value & 0x7F))
	case targetInterruptLow:
		r.interrupt = (r.interrupt &^ 0xFF) | uint16(value)
	case targetInterruptHigh:
		r.interrupt = (r.interrupt & 0xFF) | uint16(value)<<8
	}
}

// reset returns control and interrupt registers to zero and the calendar
// to 2000-01-01 00:00:00.
func (r *SeikoRTC) reset() {
	r.ctrl = control{}
	r.interrupt = 0
	r.calendar = NewCalendar()
	r.intLine = false
}

// TickWallClock advances the calendar by the time the injected Clock has
// observed passing since the previous call. The first call only latches
// the current time.
func (r *SeikoRTC) TickWallClock() (interruptEdge bool) {
	now := r.clk.Now()
	if r.lastNow.IsZero() {
		r.lastNow = now
		return false
	}
	elapsed := now.Sub(r.lastNow)
	r.lastNow = now
	if elapsed <= 0 {
		return false
	}
	return r.Tick(uint64(elapsed))
}

// Tick advances the calendar by elapsedNanos of wall-clock time and
// updates the interrupt line. The RTC interrupt line is inverted on the
// bus: a transition from asserted to deasserted raises the cartridge
// interrupt (level 2, external) on the 68000.
func (r *SeikoRTC) Tick(elapsedNanos uint64) (interruptEdge bool) {
	r.calendar.AddNanos(elapsedNanos)

	prev := r.intLine
	r.updateInterruptLine()
	return prev && !r.intLine
}

func (r *SeikoRTC) updateInterruptLine() {
	switch {
	case r.ctrl.perMinuteInterrupt:
		r.intLine = r.calendar.Second == 0
	case r.ctrl.alarmInterrupt:
		// The alarm register holds BCD hour (with AM/PM in bit 7) and
		// BCD minute.
		alarmHour := bits.BCDToBinary(uint8(r.interrupt) & 0x3F)
		alarmPM := r.interrupt&0x80 != 0
		alarmMinute := bits.BCDToBinary(uint8(r.interrupt>>8) & 0x7F)
		match := r.calendar.Hour == alarmHour && r.calendar.Minute == alarmMinute
		if r.calendar.HourMode == Hour12 {
			match = match && r.calendar.PM == alarmPM
		}
		r.intLine = match
	default:
		r.intLine = false
	}
}
