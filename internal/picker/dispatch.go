package picker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/calpick/internal/calendar"
)

// Result is what the manageData procedure reports for a selected date.
// Weekday is always the English name so API clients can switch on it;
// WeekdayName is the same day in the configured locale.
type Result struct {
	Date          calendar.Date `json:"date"`
	Weekday       string        `json:"weekday"`
	WeekdayName   string        `json:"weekdayName,omitempty"`
	DaysFromToday int           `json:"daysFromToday"`
	Count         int           `json:"count"`
}

// Notifier forwards a selected date to the manageData procedure.
type Notifier interface {
	ManageData(ctx context.Context, date calendar.Date) (Result, error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, date calendar.Date) (Result, error)

// ManageData implements Notifier.
func (f NotifierFunc) ManageData(ctx context.Context, date calendar.Date) (Result, error) {
	return f(ctx, date)
}

// Outcome describes one completed manageData call.
type Outcome struct {
	Session string        `json:"session,omitempty"`
	Date    calendar.Date `json:"date"`
	Result  Result        `json:"result"`
	Err     error         `json:"-"`
	Elapsed time.Duration `json:"elapsed"`
}

// Dispatcher runs manageData calls in the background. Every call is
// independent: nothing is de-duplicated, cancelled, retried or timed out,
// and outcomes never feed back into picker state.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
	observe  func(Outcome)
	wg       sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithObserver registers fn to receive every Outcome. fn runs on the
// goroutine that made the call.
func WithObserver(fn func(Outcome)) DispatcherOption {
	return func(d *Dispatcher) {
		d.observe = fn
	}
}

// WithLogger sets the logger used to report outcomes.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher returns a Dispatcher that calls n.
func NewDispatcher(n Notifier, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{notifier: n, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts a manageData call for date and returns immediately.
// The call keeps ctx's values but not its cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, session string, date calendar.Date) {
	if d == nil || d.notifier == nil {
		return
	}
	callCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		start := time.Now()
		res, err := d.notifier.ManageData(callCtx, date)
		out := Outcome{
			Session: session,
			Date:    date,
			Result:  res,
			Err:     err,
			Elapsed: time.Since(start),
		}
		if err != nil {
			d.logger.Error("manageData failed",
				slog.String("date", string(date)),
				slog.String("error", err.Error()))
		} else {
			d.logger.Info("manageData completed",
				slog.String("date", string(date)),
				slog.Int("count", res.Count),
				slog.Duration("elapsed", out.Elapsed))
		}
		if d.observe != nil {
			d.observe(out)
		}
	}()
}

// Wait blocks until every dispatched call has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
