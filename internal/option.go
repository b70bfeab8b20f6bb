package internal

import (
	"io"

	"github.com/starford/calpick/internal/calendar"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	clock     calendar.Clock
	logOutput io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClock replaces the system clock used to decide which day is today.
func WithClock(c calendar.Clock) Option {
	return func(a *application) {
		a.clock = c
	}
}

// WithLogOutput sends logs to w instead of stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}
