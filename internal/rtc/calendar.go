package rtc

// HourMode selects 12- or 24-hour representation for the Hour register.
type HourMode uint8

const (
	Hour24 HourMode = iota
	Hour12
)

// Calendar is the Seiko S-3511A's date/time state: a two-digit year
// (2000-2099), 1-indexed month and day, 0-indexed day-of-week, and a
// 12/24-hour clock with an AM/PM flag in 12-hour mode. Nanoseconds
// accumulate between ticks so sub-second wall-clock elapsed time is never
// dropped.
type Calendar struct {
	Year      uint8 // 0-99, representing 2000-2099
	Month     uint8 // 1-12
	Day       uint8 // 1-days_in_month(Month, Year)
	DayOfWeek uint8 // 0-6
	HourMode  HourMode
	PM        bool
	Hour      uint8 // 0-23 (24h) or 0-11 (12h)
	Minute    uint8 // 0-59
	Second    uint8 // 0-59
	nanos     uint64
}

// NewCalendar returns the calendar reset to 2000-01-01 00:00:00, matching
// the Reset command's effect.
func NewCalendar() Calendar {
	return Calendar{Month: 1, Day: 1}
}

// isLeapYear applies the chip's simplified leap-year rule: valid only for
// 2000-2099, where every 4th year is a leap year (2000, 2004, ... 2096).
func isLeapYear(year uint8) bool {
	return year%4 == 0
}

var daysInMonthTable = [13]uint8{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in month for the given two-digit
// year, accounting for the leap-year rule.
func DaysInMonth(month, year uint8) uint8 {
	if month < 1 || month > 12 {
		return 31
	}
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return daysInMonthTable[month]
}

// AddNanos accumulates elapsed wall-clock nanoseconds, advancing the
// calendar one second at a time once the accumulator reaches 1e9.
func (c *Calendar) AddNanos(elapsed uint64) {
	c.nanos += elapsed
	for c.nanos >= 1_000_000_000 {
		c.nanos -= 1_000_000_000
		c.tickSecond()
	}
}

func (c *Calendar) tickSecond() {
	c.Second++
	if c.Second >= 60 {
		c.Second = 0
		c.tickMinute()
	}
}

func (c *Calendar) tickMinute() {
	c.Minute++
	if c.Minute >= 60 {
		c.Minute = 0
		c.tickHour()
	}
}

func (c *Calendar) tickHour() {
	switch c.HourMode {
	case Hour12:
		c.Hour++
		if c.Hour >= 12 {
			c.Hour = 0
			wasPM := c.PM
			c.PM = !c.PM
			// the day advances only at midnight (PM->AM), not at noon
			if wasPM && !c.PM {
				c.tickDay()
			}
		}
	default: // Hour24
		c.Hour++
		if c.Hour >= 24 {
			c.Hour = 0
			c.tickDay()
		}
	}
}

func (c *Calendar) tickDay() {
	c.DayOfWeek = (c.DayOfWeek + 1) % 7
	c.Day++
	if c.Day > DaysInMonth(c.Month, c.Year) {
		c.Day = 1
		c.tickMonth()
	}
}

func (c *Calendar) tickMonth() {
	c.Month++
	if c.Month > 12 {
		c.Month = 1
		c.tickYear()
	}
}

func (c *Calendar) tickYear() {
	c.Year = (c.Year + 1) % 100
}

// SetYear clamps a written BCD-decoded year into [0,99]; all two-digit
// values are already in range, so this never clamps in practice.
func (c *Calendar) SetYear(v uint8) {
	if v < 100 {
		c.Year = v
	} else {
		c.Year = 0
	}
}

// SetMonth clamps a written month to [1,12], defaulting illegal values to 1.
func (c *Calendar) SetMonth(v uint8) {
	if v >= 1 && v <= 12 {
		c.Month = v
	} else {
		c.Month = 1
	}
}

// SetDay clamps a written day to [1, days_in_month]; an out-of-range day
// rolls the month forward instead of merely clamping, matching the
// original hardware's observed behavior.
func (c *Calendar) SetDay(v uint8) {
	max := DaysInMonth(c.Month, c.Year)
	switch {
	case v == 0:
		c.Day = 1
	case v > max:
		c.tickMonth()
		c.Day = 1
	default:
		c.Day = v
	}
}

func (c *Calendar) SetDayOfWeek(v uint8) {
	c.DayOfWeek = v & 0x7
}

// SetHour clamps to [0,11] in 12-hour mode or [0,23] in 24-hour mode.
func (c *Calendar) SetHour(v uint8, pm bool) {
	switch c.HourMode {
	case Hour12:
		if v < 12 {
			c.Hour = v
		} else {
			c.Hour = 0
		}
		c.PM = pm
	default:
		if v < 24 {
			c.Hour = v
		} else {
			c.Hour = 0
		}
		c.PM = false
	}
}

func (c *Calendar) SetMinute(v uint8) {
	if v < 60 {
		c.Minute = v
	} else {
		c.Minute = 0
	}
}

// SetSecond stores the raw written value; an overflowed value (>=60) is
// corrected at the next second tick rather than clamped immediately.
func (c *Calendar) SetSecond(v uint8) {
	c.Second = v
}
