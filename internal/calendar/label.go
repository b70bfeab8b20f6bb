package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "it-IT"

// firstMonday anchors weekday name lookups.
var firstMonday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	localeTags, localeNames = supportedLocales()
	localeMatcher           = language.NewMatcher(localeTags)
)

// supportedLocales lists the locales monday ships symbols for as language
// tags, with the monday locale at the same index.
func supportedLocales() ([]language.Tag, []monday.Locale) {
	var (
		tags  []language.Tag
		names []monday.Locale
	)
	for _, loc := range monday.ListLocales() {
		tag, err := language.Parse(strings.ReplaceAll(string(loc), "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, loc)
	}
	return tags, names
}

// Labeler produces "full month name + numeric year" labels in one locale.
type Labeler struct {
	tag    language.Tag
	locale monday.Locale
	days   [7]string // Monday first
}

// NewLabeler returns a Labeler for the BCP-47 locale, matched against the
// locales with known month names. A locale with no match is an error.
func NewLabeler(locale string) (*Labeler, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("calendar: parse locale %q: %w", locale, err)
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("calendar: unsupported locale %q", locale)
	}
	l := &Labeler{tag: localeTags[idx], locale: localeNames[idx]}
	for i := range l.days {
		l.days[i] = monday.Format(firstMonday.AddDate(0, 0, i), "Mon", l.locale)
	}
	return l, nil
}

// Locale returns the locale labels are produced in.
func (l *Labeler) Locale() language.Tag { return l.tag }

// MonthName returns the full name of m.
func (l *Labeler) MonthName(m int) string {
	return monday.Format(time.Date(2024, time.Month(m), 1, 0, 0, 0, 0, time.UTC), "January", l.locale)
}

// Weekdays returns abbreviated weekday names starting on Monday.
func (l *Labeler) Weekdays() []string {
	days := l.days
	return days[:]
}

// WeekdayName returns the full weekday name of d.
func (l *Labeler) WeekdayName(d Date) string {
	return monday.Format(d.Time(), "Monday", l.locale)
}

// Label returns the month and year of ym, e.g. "luglio 2024".
func (l *Labeler) Label(ym YearMonth) string {
	return monday.Format(time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC), "January 2006", l.locale)
}
