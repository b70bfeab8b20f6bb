// Package picker holds the state of a single-month date picker and derives
// its render surface.
//
// A Picker processes one event at a time: navigation, a day click, or a
// render. A day click also hands the date to a Dispatcher, which calls the
// manageData procedure without blocking the picker.
package picker

import (
	"context"
	"fmt"
	"sync"

	"github.com/starford/calpick/internal/apperr"
	"github.com/starford/calpick/internal/calendar"
)

// State is the mutable part of a Picker.
type State struct {
	Displayed calendar.YearMonth `json:"displayed"`
	Selected  calendar.Date      `json:"selected"`
}

// Picker owns one State.
type Picker struct {
	mu       sync.Mutex
	state    State
	session  string
	clock    calendar.Clock
	labeler  *calendar.Labeler
	dispatch *Dispatcher
}

// Option configures a Picker.
type Option func(*Picker)

// WithSession tags dispatched calls with a session identifier.
func WithSession(id string) Option {
	return func(p *Picker) {
		p.session = id
	}
}

// WithDisplayed starts the picker on ym instead of the current month.
func WithDisplayed(ym calendar.YearMonth) Option {
	return func(p *Picker) {
		p.state.Displayed = ym
	}
}

// New returns a Picker showing the month the clock is in, with nothing
// selected. dispatch may be nil, in which case clicks are not forwarded.
func New(clock calendar.Clock, labeler *calendar.Labeler, dispatch *Dispatcher, opts ...Option) *Picker {
	p := &Picker{
		state:    State{Displayed: calendar.YearMonthOf(clock.Now())},
		clock:    clock,
		labeler:  labeler,
		dispatch: dispatch,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session returns the session the picker belongs to.
func (p *Picker) Session() string { return p.session }

// State returns a copy of the current state.
func (p *Picker) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// PreviousMonth shows the previous month. The selection is kept.
func (p *Picker) PreviousMonth() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Displayed = p.state.Displayed.AddMonths(-1)
	return p.viewLocked()
}

// NextMonth shows the next month and clears the selection.
func (p *Picker) NextMonth() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Displayed = p.state.Displayed.AddMonths(1)
	p.state.Selected = ""
	return p.viewLocked()
}

// SelectDay selects date, replacing any previous selection, and forwards it
// to manageData in the background. Only days of the displayed month can be
// selected.
func (p *Picker) SelectDay(ctx context.Context, date calendar.Date) (View, error) {
	p.mu.Lock()
	if !p.state.Displayed.Contains(date) {
		displayed := p.state.Displayed
		p.mu.Unlock()
		return View{}, fmt.Errorf("%w: %q is not a day of %s", apperr.ErrNotSelectable, date, displayed)
	}
	p.state.Selected = date
	v := p.viewLocked()
	p.mu.Unlock()

	p.dispatch.Dispatch(ctx, p.session, date)
	return v, nil
}

// View derives the render surface from the current state and clock.
func (p *Picker) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *Picker) viewLocked() View {
	today := calendar.Today(p.clock)
	cells := calendar.Classify(calendar.Build(p.state.Displayed, p.state.Selected), today)
	return newView(p.state, today, p.labeler, cells)
}
