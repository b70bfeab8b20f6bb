package picker

import (
	"github.com/starford/calpick/internal/calendar"
)

// CellView is a DayCell plus its presentation class.
type CellView struct {
	calendar.DayCell
	Class string `json:"cssClass"`
}

// View is the read-only projection a template renders.
type View struct {
	Label    string             `json:"monthYear"`
	Month    calendar.YearMonth `json:"month"`
	Previous string             `json:"previous"`
	Next     string             `json:"next"`
	Selected calendar.Date      `json:"selectedDate"`
	Today    calendar.Date      `json:"today"`
	Weekdays []string           `json:"weekdays"`
	Cells    []CellView         `json:"days"`
}

// Weeks splits the cells into rows of seven.
func (v View) Weeks() [][]CellView {
	var weeks [][]CellView
	for i := 0; i < len(v.Cells); i += 7 {
		end := min(i+7, len(v.Cells))
		weeks = append(weeks, v.Cells[i:end])
	}
	return weeks
}

func newView(s State, today calendar.Date, labeler *calendar.Labeler, cells []calendar.DayCell) View {
	v := View{
		Month:    s.Displayed,
		Previous: s.Displayed.AddMonths(-1).String(),
		Next:     s.Displayed.AddMonths(1).String(),
		Selected: s.Selected,
		Today:    today,
		Cells:    make([]CellView, len(cells)),
	}
	if labeler != nil {
		v.Label = labeler.Label(s.Displayed)
		v.Weekdays = labeler.Weekdays()
	} else {
		v.Label = s.Displayed.String()
	}
	for i, c := range cells {
		v.Cells[i] = CellView{DayCell: c, Class: CellClass(c)}
	}
	return v
}

// CellClass returns the CSS classes for c.
func CellClass(c calendar.DayCell) string {
	if c.IsPadding() {
		return "day-empty"
	}
	class := "day"
	if c.Today {
		class += " today"
	} else if c.Past {
		class += " past"
	}
	if c.Selected {
		class += " selected"
	}
	return class
}
