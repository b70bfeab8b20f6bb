package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/calpick/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Calendar.Locale != "it-IT" || cfg.Notifier.Mode != NotifierModeLocal {
		t.Errorf("defaults = %+v %+v", cfg.Calendar, cfg.Notifier)
	}
}

func TestCalendarConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CalendarConfig
		wantErr bool
	}{
		{"empty uses defaults", CalendarConfig{}, false},
		{"english in Rome", CalendarConfig{Locale: "en-GB", TimeZone: "Europe/Rome"}, false},
		{"bad locale", CalendarConfig{Locale: "???"}, true},
		{"no month names", CalendarConfig{Locale: "haw"}, true},
		{"bad zone", CalendarConfig{Locale: "it", TimeZone: "Mars/Olympus"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := CalendarConfig{}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("empty zone = %v, %v; want Local", loc, err)
	}
}

func TestNotifierConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     NotifierConfig
		wantErr bool
	}{
		{"empty is local", NotifierConfig{}, false},
		{"http with url", NotifierConfig{Mode: "http", URL: "http://localhost:9090/api/manage-data"}, false},
		{"http without url", NotifierConfig{Mode: "http"}, true},
		{"http with junk url", NotifierConfig{Mode: "http", URL: "not a url"}, true},
		{"unknown mode", NotifierConfig{Mode: "carrier-pigeon"}, true},
		{"negative timeout", NotifierConfig{Mode: "http", URL: "http://localhost:9090/api/manage-data", Timeout: -time.Second}, true},
		{"http with timeout", NotifierConfig{Mode: "http", URL: "http://localhost:9090/api/manage-data", Timeout: 5 * time.Second}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("CALPICK_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  log_level: debug
  http:
    port: 9000
calendar:
  locale: fr-FR
  timezone: Europe/Paris
sqlite:
  path: /tmp/calpick.db
auth:
  mode: token
  token: ${CALPICK_TEST_TOKEN}
notifier:
  mode: local
ui:
  session_ttl: 5m
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := config.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Address() != ":9000" || cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Auth.Token != "s3cret" || !cfg.Auth.AuthEnabled() {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Calendar.Locale != "fr-FR" || cfg.UI.SessionTTL != 5*time.Minute {
		t.Errorf("calendar = %+v, ui = %+v", cfg.Calendar, cfg.UI)
	}
}
