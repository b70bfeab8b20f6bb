// Package manage implements the manageData procedure that receives the dates
// users pick.
package manage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/calpick/internal/apperr"
	"github.com/starford/calpick/internal/calendar"
	"github.com/starford/calpick/internal/picker"
	"github.com/starford/calpick/internal/selections"
)

type sessionKey struct{}

// WithSession attaches the caller's session id to ctx.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFrom returns the session id attached to ctx, if any.
func SessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// Publisher announces recorded selections.
type Publisher interface {
	PublishSelection(date string, count int)
}

// Service records selections and reports on them.
type Service struct {
	store   selections.Recorder
	pub     Publisher
	clock   calendar.Clock
	logger  *slog.Logger
	labeler *calendar.Labeler
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLabeler fills Result.WeekdayName in the labeler's locale.
func WithLabeler(l *calendar.Labeler) ServiceOption {
	return func(s *Service) { s.labeler = l }
}

// Verify *Service can back a picker directly.
var _ picker.Notifier = (*Service)(nil)

// NewService creates a manage service. pub may be nil.
func NewService(store selections.Recorder, pub Publisher, clock calendar.Clock, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{store: store, pub: pub, clock: clock, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateDate checks that raw is a real YYYY-MM-DD date. Surrounding
// whitespace is ignored, as in calendar.ParseDate.
func ValidateDate(raw string) (calendar.Date, error) {
	raw = strings.TrimSpace(raw)
	if err := validation.Validate(raw,
		validation.Required,
		validation.Date(calendar.DateLayout),
	); err != nil {
		return "", fmt.Errorf("%w: %q: %v", apperr.ErrInvalidDate, raw, err)
	}
	return calendar.Date(raw), nil
}

// ManageData records date and returns what is known about it.
func (s *Service) ManageData(ctx context.Context, date calendar.Date) (picker.Result, error) {
	date, err := ValidateDate(string(date))
	if err != nil {
		return picker.Result{}, err
	}
	session := SessionFrom(ctx)
	if _, err := s.store.Record(ctx, session, date); err != nil {
		return picker.Result{}, fmt.Errorf("manage: %w", err)
	}
	count, err := s.store.CountByDate(ctx, date)
	if err != nil {
		return picker.Result{}, fmt.Errorf("manage: %w", err)
	}

	today := calendar.Today(s.clock)
	res := picker.Result{
		Date:          date,
		Weekday:       date.Time().Weekday().String(),
		DaysFromToday: daysBetween(today, date),
		Count:         count,
	}
	if s.labeler != nil {
		res.WeekdayName = s.labeler.WeekdayName(date)
	}
	s.logger.Debug("selection recorded",
		slog.String("date", string(date)),
		slog.String("session", session),
		slog.Int("count", count))

	if s.pub != nil {
		s.pub.PublishSelection(string(date), count)
	}
	return res, nil
}

// daysBetween counts whole days from a to b. time.Duration cannot span the
// full 0001-9999 range, so this works on Unix seconds.
func daysBetween(a, b calendar.Date) int {
	return int((b.Time().Unix() - a.Time().Unix()) / 86400)
}

// Recent returns the latest recorded selections.
func (s *Service) Recent(ctx context.Context, limit int) ([]selections.Selection, error) {
	return s.store.List(ctx, limit)
}
