// Package calendar builds single-month day grids and classifies their cells
// against the current date.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"cloudeng.io/datetime"

	"github.com/starford/calpick/internal/apperr"
)

// DateLayout is the canonical layout of a Date.
const DateLayout = "2006-01-02"

// Date is a zero-padded YYYY-MM-DD string. The empty Date marks a padding
// cell. Dates compare chronologically with plain string comparison.
type Date string

// NewDate formats t, in its own location, as a Date.
func NewDate(t time.Time) Date {
	return Date(fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()))
}

// ParseDate validates an externally supplied date string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", apperr.ErrInvalidDate, s)
	}
	return NewDate(t), nil
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// YearMonth returns the month d falls in.
func (d Date) YearMonth() YearMonth {
	return YearMonthOf(d.Time())
}

// IsZero reports whether d is the empty (padding) date.
func (d Date) IsZero() bool { return d == "" }

// YearMonth identifies one displayed Gregorian month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: month %q", apperr.ErrInvalidDate, s)
	}
	return YearMonthOf(t), nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// AddMonths offsets ym by n months, rolling the year as needed.
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.Year*12 + int(ym.Month) - 1 + n
	year, month := idx/12, idx%12
	if month < 0 {
		year--
		month += 12
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}

// DaysInMonth returns the length of ym, leap years included.
func (ym YearMonth) DaysInMonth() int {
	return datetime.DaysInMonth(ym.Year, datetime.Month(ym.Month))
}

// FirstWeekday returns the weekday of day 1 with Monday=0 through Sunday=6.
func (ym YearMonth) FirstWeekday() int {
	first := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// Date returns the Date for day of ym.
func (ym YearMonth) Date(day int) Date {
	return Date(fmt.Sprintf("%04d-%02d-%02d", ym.Year, int(ym.Month), day))
}

// Contains reports whether d is a day of ym.
func (ym YearMonth) Contains(d Date) bool {
	return !d.IsZero() && strings.HasPrefix(string(d), ym.String()+"-")
}
