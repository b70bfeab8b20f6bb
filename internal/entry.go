// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/calpick/internal/api"
	"github.com/starford/calpick/internal/calendar"
	"github.com/starford/calpick/internal/manage"
	"github.com/starford/calpick/internal/mcpserver"
	"github.com/starford/calpick/internal/notifier"
	"github.com/starford/calpick/internal/picker"
	"github.com/starford/calpick/internal/selections"
	"github.com/starford/calpick/internal/sse"
	"github.com/starford/calpick/internal/web"
)

// components are the pieces shared by the HTTP server and the MCP server.
type components struct {
	logger  *slog.Logger
	store   *selections.Store
	clock   calendar.Clock
	labeler *calendar.Labeler
}

func (a *application) init() (*components, error) {
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := a.config

	out := a.logOutput
	if out == nil {
		out = os.Stdout
	}
	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("locale", cfg.Calendar.Locale),
		slog.String("timezone", cfg.Calendar.TimeZone),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("notifier_mode", cfg.Notifier.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	labeler, err := calendar.NewLabeler(cfg.Calendar.Locale)
	if err != nil {
		return nil, fmt.Errorf("init labeler: %w", err)
	}
	clock := a.clock
	if clock == nil {
		loc, err := cfg.Calendar.Location()
		if err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}
		clock = calendar.SystemClock(loc)
	}

	store, err := selections.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init selections: %w", err)
	}
	return &components{logger: logger, store: store, clock: clock, labeler: labeler}, nil
}

// newNotifier returns what day clicks are forwarded to.
func newNotifier(cfg NotifierConfig, local *manage.Service) picker.Notifier {
	if cfg.Mode == NotifierModeHTTP {
		var opts []notifier.Option
		if cfg.Token != "" {
			opts = append(opts, notifier.WithToken(cfg.Token))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, notifier.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		return notifier.New(cfg.URL, opts...)
	}
	return local
}

// outcomeEvent reports a finished manageData call to the session that
// picked the date.
func outcomeEvent(o picker.Outcome) sse.Event {
	data := map[string]any{
		"date":      o.Date,
		"elapsedMs": o.Elapsed.Milliseconds(),
		"ok":        o.Err == nil,
	}
	if o.Err != nil {
		data["error"] = o.Err.Error()
	} else {
		data["result"] = o.Result
	}
	return sse.Event{Type: sse.EventManageOutcome, Session: o.Session, Data: data}
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	c, err := app.init()
	if err != nil {
		return err
	}
	defer c.store.Close()
	cfg := app.config
	logger := c.logger

	// SSE broker. Dispatch outcomes only reach the session that picked.
	broker := sse.NewBroker(2*time.Second, sse.WithSessionFunc(api.SessionID))
	defer broker.Close()

	svc := manage.NewService(c.store, broker, c.clock, logger, manage.WithLabeler(c.labeler))

	dispatcher := picker.NewDispatcher(newNotifier(cfg.Notifier, svc),
		picker.WithLogger(logger),
		picker.WithObserver(func(o picker.Outcome) {
			broker.Publish(outcomeEvent(o))
		}),
	)

	sessions := picker.NewSessions(func(id string) *picker.Picker {
		return picker.New(c.clock, c.labeler, dispatcher, picker.WithSession(id))
	}, cfg.UI.SessionTTL)

	renderer, err := web.NewRenderer(cfg.UI.TemplateDir)
	if err != nil {
		return fmt.Errorf("init templates: %w", err)
	}

	h := api.NewHandler(sessions, renderer, svc, c.labeler.Locale().String())
	appRouter := api.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := c.store.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/", appRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("template_dir", renderer.OverrideDir()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload template overrides on change.
	g.Go(func() error {
		return renderer.Watch(gCtx, logger, nil)
	})

	// Drop idle sessions.
	g.Go(func() error {
		sessions.Run(gCtx, time.Minute)
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Let in-flight manageData calls finish before the store closes.
		dispatcher.Wait()
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the errgroup context once the server has stopped, so
// the background loops exit too.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdio. Logs go to stderr since stdout
// carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(app)
	}

	c, err := app.init()
	if err != nil {
		return err
	}
	defer c.store.Close()

	svc := manage.NewService(c.store, nil, c.clock, c.logger, manage.WithLabeler(c.labeler))
	srv := mcpserver.New(svc, c.clock, c.labeler)

	c.logger.Info("Serving MCP on stdio")
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
