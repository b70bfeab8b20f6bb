package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/calpick/internal/apperr"
)

func countDays(cells []DayCell) (pad, days int) {
	for _, c := range cells {
		if c.IsPadding() {
			pad++
		} else {
			days++
		}
	}
	return pad, days
}

func TestBuild_Lengths(t *testing.T) {
	tests := []struct {
		ym   YearMonth
		pad  int
		days int
	}{
		{YearMonth{2024, time.February}, 3, 29},
		{YearMonth{2023, time.February}, 2, 28},
		{YearMonth{2024, time.March}, 4, 31},
		{YearMonth{2024, time.September}, 6, 30},
		{YearMonth{2024, time.July}, 0, 31},
		{YearMonth{1900, time.February}, 3, 28},
		{YearMonth{2000, time.February}, 1, 29},
	}
	for _, tt := range tests {
		cells := Build(tt.ym, "")
		pad, days := countDays(cells)
		if pad != tt.pad || days != tt.days {
			t.Errorf("%v: pad=%d days=%d, want pad=%d days=%d", tt.ym, pad, days, tt.pad, tt.days)
		}
		if len(cells) != tt.pad+tt.days {
			t.Errorf("%v: len=%d", tt.ym, len(cells))
		}
	}
}

func TestBuild_AllMonthsInvariants(t *testing.T) {
	ym := YearMonth{1999, time.January}
	for i := 0; i < 12*30; i++ {
		cells := Build(ym, "")
		pad := ym.FirstWeekday()
		if pad < 0 || pad > 6 {
			t.Fatalf("%v: padding %d out of range", ym, pad)
		}
		if len(cells) != pad+ym.DaysInMonth() {
			t.Fatalf("%v: len=%d, want %d", ym, len(cells), pad+ym.DaysInMonth())
		}
		for _, c := range cells {
			if (c.Day == 0) != (c.Date == "") {
				t.Fatalf("%v: cell %+v breaks day/date invariant", ym, c)
			}
		}
		last := cells[len(cells)-1]
		want := time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC)
		if last.Date != NewDate(want) {
			t.Fatalf("%v: last day %s, want %s", ym, last.Date, NewDate(want))
		}
		ym = ym.AddMonths(1)
	}
}

func TestBuild_IDsAndDates(t *testing.T) {
	cells := Build(YearMonth{2024, time.March}, "")
	if cells[0].ID != "empty-0" || cells[3].ID != "empty-3" {
		t.Errorf("padding ids = %q, %q", cells[0].ID, cells[3].ID)
	}
	first := cells[4]
	if first.Day != 1 || first.ID != "day-1" || first.Date != "2024-03-01" {
		t.Errorf("first day = %+v", first)
	}
	if cells[len(cells)-1].Date != "2024-03-31" {
		t.Errorf("last day = %+v", cells[len(cells)-1])
	}
}

func TestBuild_Selected(t *testing.T) {
	cells := Build(YearMonth{2024, time.July}, "2024-07-10")
	n := 0
	for _, c := range cells {
		if c.Selected {
			n++
			if c.Date != "2024-07-10" {
				t.Errorf("wrong cell selected: %+v", c)
			}
		}
	}
	if n != 1 {
		t.Errorf("selected cells = %d, want 1", n)
	}

	// Equality is on the canonical string only.
	cells = Build(YearMonth{2024, time.July}, "2024-7-10")
	for _, c := range cells {
		if c.Selected {
			t.Errorf("non-canonical date selected %+v", c)
		}
	}
}

func TestClassify(t *testing.T) {
	cells := Classify(Build(YearMonth{2024, time.July}, ""), "2024-07-15")
	for _, c := range cells {
		if c.Today && c.Past {
			t.Fatalf("cell %s is both today and past", c.Date)
		}
		switch c.Date {
		case "2024-07-14":
			if !c.Past || c.Today {
				t.Errorf("2024-07-14 = %+v, want past", c)
			}
		case "2024-07-15":
			if !c.Today || c.Past {
				t.Errorf("2024-07-15 = %+v, want today", c)
			}
		case "2024-07-16":
			if c.Today || c.Past {
				t.Errorf("2024-07-16 = %+v, want future", c)
			}
		}
	}
}

func TestClassify_PaddingNeverFlagged(t *testing.T) {
	cells := Classify(Build(YearMonth{2024, time.March}, ""), "2024-03-20")
	for _, c := range cells[:4] {
		if c.Today || c.Past || c.Selected {
			t.Errorf("padding cell flagged: %+v", c)
		}
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	in := Build(YearMonth{2024, time.July}, "")
	_ = Classify(in, "2024-07-15")
	for _, c := range in {
		if c.Today || c.Past {
			t.Fatalf("input mutated: %+v", c)
		}
	}
}

func TestYearMonth_AddMonths(t *testing.T) {
	tests := []struct {
		in   YearMonth
		n    int
		want YearMonth
	}{
		{YearMonth{2024, time.December}, 1, YearMonth{2025, time.January}},
		{YearMonth{2024, time.January}, -1, YearMonth{2023, time.December}},
		{YearMonth{2024, time.July}, 0, YearMonth{2024, time.July}},
		{YearMonth{2024, time.March}, -27, YearMonth{2021, time.December}},
		{YearMonth{2024, time.March}, 22, YearMonth{2026, time.January}},
	}
	for _, tt := range tests {
		if got := tt.in.AddMonths(tt.n); got != tt.want {
			t.Errorf("%v.AddMonths(%d) = %v, want %v", tt.in, tt.n, got, tt.want)
		}
	}
	ym := YearMonth{2024, time.December}
	if got := ym.AddMonths(1).AddMonths(-1); got != ym {
		t.Errorf("round trip = %v", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	if err != nil || d != "2024-02-29" {
		t.Fatalf("ParseDate = %q, %v", d, err)
	}
	for _, bad := range []string{"", "2023-02-29", "2024-7-1", "tomorrow", "2024-13-01"} {
		if _, err := ParseDate(bad); !errors.Is(err, apperr.ErrInvalidDate) {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestYearMonth_Contains(t *testing.T) {
	ym := YearMonth{2024, time.July}
	if !ym.Contains("2024-07-31") {
		t.Error("expected 2024-07-31 in July")
	}
	if ym.Contains("2024-08-01") || ym.Contains("") {
		t.Error("unexpected containment")
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	clock := FixedClock(time.Date(2024, time.July, 14, 23, 30, 0, 0, time.UTC).In(loc))
	if got := Today(clock); got != "2024-07-15" {
		t.Errorf("Today = %q, want 2024-07-15", got)
	}
}

func TestLabeler(t *testing.T) {
	tests := []struct {
		locale string
		ym     YearMonth
		want   string
	}{
		{"", YearMonth{2024, time.July}, "luglio 2024"},
		{"it-IT", YearMonth{2024, time.January}, "gennaio 2024"},
		{"en-US", YearMonth{2024, time.July}, "July 2024"},
		{"de", YearMonth{2025, time.March}, "März 2025"},
		{"fr-FR", YearMonth{2024, time.August}, "août 2024"},
	}
	for _, tt := range tests {
		l, err := NewLabeler(tt.locale)
		if err != nil {
			t.Fatalf("NewLabeler(%q): %v", tt.locale, err)
		}
		if got := l.Label(tt.ym); got != tt.want {
			t.Errorf("%q: Label = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestLabeler_Names(t *testing.T) {
	l, err := NewLabeler("it-IT")
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Locale().String(); got != "it-IT" {
		t.Errorf("Locale = %q, want it-IT", got)
	}
	if got := l.MonthName(12); got != "dicembre" {
		t.Errorf("MonthName(12) = %q, want dicembre", got)
	}
	days := l.Weekdays()
	if len(days) != 7 || days[0] != "lun" || days[6] != "dom" {
		t.Errorf("Weekdays = %v", days)
	}
	days[0] = "x"
	if l.Weekdays()[0] != "lun" {
		t.Error("Weekdays must return a copy")
	}
	if got := l.WeekdayName("2024-07-10"); got != "mercoledì" {
		t.Errorf("WeekdayName = %q, want mercoledì", got)
	}
}

func TestLabeler_RegionalFallback(t *testing.T) {
	// Regions without their own symbols use the language's.
	for _, locale := range []string{"es-MX", "it-CH", "nl-NL", "ja-JP"} {
		l, err := NewLabeler(locale)
		if err != nil {
			t.Errorf("NewLabeler(%q): %v", locale, err)
			continue
		}
		if got := l.Label(YearMonth{2024, time.July}); got == "July 2024" {
			t.Errorf("%q: Label = %q, want a non-English label", locale, got)
		}
	}
}

func TestLabeler_InvalidLocale(t *testing.T) {
	for _, locale := range []string{"not a locale!", "haw"} {
		if _, err := NewLabeler(locale); err == nil {
			t.Errorf("NewLabeler(%q): expected error", locale)
		}
	}
}
