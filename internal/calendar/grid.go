package calendar

import (
	"fmt"
	"time"
)

// DayCell is one slot of a month grid. Padding cells have Day 0 and an
// empty Date and never carry the Today, Past or Selected flags.
type DayCell struct {
	Day      int    `json:"day"`
	ID       string `json:"id"`
	Date     Date   `json:"date"`
	Today    bool   `json:"isToday"`
	Past     bool   `json:"isPast"`
	Selected bool   `json:"isSelected"`
}

// IsPadding reports whether c sits before day 1 of the month.
func (c DayCell) IsPadding() bool { return c.Day == 0 }

// Build returns the grid for ym: one padding cell per weekday before day 1
// (weeks start on Monday) followed by every day of the month in order.
// A day is marked selected when its Date equals selected exactly.
func Build(ym YearMonth, selected Date) []DayCell {
	pad := ym.FirstWeekday()
	days := ym.DaysInMonth()

	cells := make([]DayCell, 0, pad+days)
	for i := 0; i < pad; i++ {
		cells = append(cells, DayCell{ID: fmt.Sprintf("empty-%d", i)})
	}
	for day := 1; day <= days; day++ {
		date := ym.Date(day)
		cells = append(cells, DayCell{
			Day:      day,
			ID:       fmt.Sprintf("day-%d", day),
			Date:     date,
			Selected: !selected.IsZero() && date == selected,
		})
	}
	return cells
}

// Classify returns a copy of cells with the Today and Past flags derived
// from today.
func Classify(cells []DayCell, today Date) []DayCell {
	out := make([]DayCell, len(cells))
	for i, c := range cells {
		if !c.IsPadding() {
			c.Today = c.Date == today
			c.Past = c.Date < today
		}
		out[i] = c
	}
	return out
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock reading the system time in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return ClockFunc(func() time.Time { return time.Now().In(loc) })
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Today reads c and normalizes the result to a Date.
func Today(c Clock) Date {
	return NewDate(c.Now())
}
