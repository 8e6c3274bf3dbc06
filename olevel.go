package olevel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/olevel/dashboard"
	"github.com/jpalmerr/olevel/internal/feed"
	"github.com/jpalmerr/olevel/internal/metrics"
	"github.com/jpalmerr/olevel/internal/records"
	"github.com/jpalmerr/olevel/internal/server"
	"github.com/jpalmerr/olevel/internal/slot"
)

const (
	defaultPort          = 8080
	defaultRedirectDelay = 1500 * time.Millisecond
	defaultTitle         = "O-Level Student Records"
)

// Change describes one committed mutation of the student collection.
//
// Op is one of "load", "register", "scores", "promote", "delete" or "clear".
// StudentID is empty for collection-wide operations.
type Change struct {
	Op        string
	StudentID string
	Count     int
	At        time.Time
}

// App wires a storage slot, the records store and the dashboard server.
//
// The typical lifecycle is:
//
//	app, err := olevel.New(olevel.WithSlotConfig(olevel.SlotConfig{Driver: "file", Path: "students.json"}))
//	if err != nil {
//	    slog.Error("failed to create app", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	app.Start(ctx) // blocks until context cancelled
type App struct {
	title         string
	port          int
	redirectDelay time.Duration
	logger        *slog.Logger
	now           func() time.Time

	slot      slot.Slot
	slotCfg   slot.Config
	ownsSlot  bool
	callbacks []func(Change)
}

// New creates an [App] with the given options.
//
// Defaults:
//   - Port: 8080
//   - Storage: the file driver writing olevel.json
//   - Redirect delay after registration: 1.5 seconds
func New(opts ...Option) (*App, error) {
	cfg := &appConfig{
		port:          defaultPort,
		redirectDelay: defaultRedirectDelay,
		slotCfg:       slot.Config{Driver: slot.DriverFile},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	title := cfg.title
	if title == "" {
		title = defaultTitle
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}

	return &App{
		title:         title,
		port:          cfg.port,
		redirectDelay: cfg.redirectDelay,
		logger:        logger,
		now:           now,
		slot:          cfg.slot,
		slotCfg:       cfg.slotCfg,
		callbacks:     cfg.callbacks,
	}, nil
}

// Start loads the collection and serves the dashboard until ctx is cancelled.
//
// Returns nil on graceful shutdown. Returns an error if the storage slot
// cannot be opened or the HTTP server fails to start.
func (a *App) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	st, err := a.openSlot(ctx)
	if err != nil {
		return err
	}
	defer a.closeSlot(st)

	changes := feed.New()
	m := metrics.New()

	store := records.NewStore(st,
		records.WithLogger(a.logger),
		records.WithClock(a.now),
		records.WithChangeHook(changes.Publish),
		records.WithChangeHook(m.ObserveChange),
		records.WithChangeHook(a.dispatch),
	)
	n := store.Load(ctx)
	a.logger.Info("student records loaded", "count", n, "driver", a.driverName())

	httpServer := server.NewServer(store, changes, server.Options{
		Port:          a.port,
		Assets:        dashboard.Assets,
		Title:         a.title,
		RedirectDelay: a.redirectDelay,
		Metrics:       m,
		Logger:        a.logger,
	})
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	a.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", a.port))

	<-ctx.Done()
	a.logger.Info("olevel stopped")
	return nil
}

// Port returns the configured HTTP port.
func (a *App) Port() int {
	return a.port
}

// Title returns the dashboard title.
func (a *App) Title() string {
	return a.title
}

// RedirectDelay returns how long the registration success message is shown.
func (a *App) RedirectDelay() time.Duration {
	return a.redirectDelay
}

func (a *App) openSlot(ctx context.Context) (slot.Slot, error) {
	if a.slot != nil {
		return a.slot, nil
	}
	st, err := slot.Open(ctx, a.slotCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.ownsSlot = true
	return st, nil
}

// closeSlot releases slots the app opened itself. Injected slots belong to
// the caller.
func (a *App) closeSlot(st slot.Slot) {
	if !a.ownsSlot {
		return
	}
	if err := slot.Close(st); err != nil {
		a.logger.Warn("failed to close storage", "error", err)
	}
}

func (a *App) driverName() string {
	if a.slot != nil {
		return "custom"
	}
	if a.slotCfg.Driver == "" {
		return string(slot.DriverFile)
	}
	return string(a.slotCfg.Driver)
}

// dispatch forwards a store change to the registered callbacks.
func (a *App) dispatch(ch records.Change) {
	if len(a.callbacks) == 0 {
		return
	}
	public := Change{Op: ch.Op, StudentID: ch.StudentID, Count: ch.Count, At: ch.At}
	for _, cb := range a.callbacks {
		invokeCallbackSafe(cb, public, a.logger)
	}
}

// invokeCallbackSafe calls a change callback with panic recovery.
// Panics are logged but do not propagate into the store.
func invokeCallbackSafe(cb func(Change), ch Change, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("change callback panicked",
				"panic", r,
				"op", ch.Op,
				"student_id", ch.StudentID,
			)
		}
	}()
	cb(ch)
}
