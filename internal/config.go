package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/calpick/internal/calendar"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Notifier modes.
const (
	NotifierModeLocal = "local"
	NotifierModeHTTP  = "http"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Calendar CalendarConfig    `yaml:"calendar"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
	Notifier NotifierConfig    `yaml:"notifier"`
	UI       UIConfig          `yaml:"ui"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Notifier.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CalendarConfig controls how months are labelled and which day is today.
type CalendarConfig struct {
	Locale   string `yaml:"locale"`
	TimeZone string `yaml:"timezone"`
}

// Validate validates the calendar configuration.
func (c *CalendarConfig) Validate() error {
	if c.Locale == "" {
		c.Locale = calendar.DefaultLocale
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Locale, validation.By(func(any) error {
			_, err := calendar.NewLabeler(c.Locale)
			return err
		})),
		validation.Field(&c.TimeZone, validation.By(func(any) error {
			_, err := c.Location()
			return err
		})),
	)
}

// Location resolves TimeZone. An empty zone means the host's local time.
func (c *CalendarConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NotifierConfig selects where picked dates are forwarded.
//
// Mode "local" (default) records them in this process. Mode "http" posts
// them to URL, which must accept the POST /api/manage-data contract.
// Timeout bounds each post; zero waits for as long as the endpoint takes.
type NotifierConfig struct {
	Mode    string        `yaml:"mode"`
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the notifier configuration.
func (c *NotifierConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = NotifierModeLocal
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(NotifierModeLocal, NotifierModeHTTP)),
		validation.Field(&c.URL,
			validation.When(c.Mode == NotifierModeHTTP, validation.Required),
			is.URL,
		),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// UIConfig holds options for the rendered page.
type UIConfig struct {
	// TemplateDir, when set, holds *.gohtml files that override the
	// built-in templates. Changes are picked up without a restart.
	TemplateDir string        `yaml:"template_dir"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Calendar: CalendarConfig{
			Locale: calendar.DefaultLocale,
		},
		SQLite: SQLiteConfig{
			Path: "./calpick.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Notifier: NotifierConfig{
			Mode: NotifierModeLocal,
		},
		UI: UIConfig{
			SessionTTL: 30 * time.Minute,
		},
	}
}
