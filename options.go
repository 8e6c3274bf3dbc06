package olevel

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jpalmerr/olevel/internal/slot"
)

// Slot is a single named storage location holding the whole collection.
// Implement it to plug in a backend the built-in drivers do not cover.
type Slot = slot.Slot

// SlotConfig selects and parameterizes a built-in storage driver.
type SlotConfig = slot.Config

// Driver names a built-in storage backend.
type Driver = slot.Driver

// RedisConfig holds connection settings for the redis driver.
type RedisConfig = slot.RedisConfig

// S3Config holds bucket settings for the s3 driver.
type S3Config = slot.S3Config

// Built-in storage drivers.
const (
	DriverMemory   = slot.DriverMemory
	DriverFile     = slot.DriverFile
	DriverSQLite   = slot.DriverSQLite
	DriverPostgres = slot.DriverPostgres
	DriverRedis    = slot.DriverRedis
	DriverS3       = slot.DriverS3
)

// appConfig holds mutable state during App construction.
type appConfig struct {
	title         string
	port          int
	redirectDelay time.Duration
	logger        *slog.Logger
	now           func() time.Time
	slot          slot.Slot
	slotCfg       slot.Config
	callbacks     []func(Change)
}

// Option configures an [App] during construction.
// Options return an error if validation fails.
type Option func(*appConfig) error

// WithPort sets the HTTP port for the dashboard server.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *appConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title shown in the browser tab and header.
// An empty title keeps the default.
func WithTitle(title string) Option {
	return func(cfg *appConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets the logger. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithSlot injects a storage slot. The caller keeps ownership and closes
// it after Start returns. Overrides [WithSlotConfig].
func WithSlot(s Slot) Option {
	return func(cfg *appConfig) error {
		if s == nil {
			return errors.New("slot cannot be nil")
		}
		cfg.slot = s
		return nil
	}
}

// WithSlotConfig selects a built-in storage driver. The app opens the slot
// in Start and closes it on shutdown.
//
//	app, err := olevel.New(olevel.WithSlotConfig(olevel.SlotConfig{
//	    Driver: olevel.DriverSQLite,
//	    Path:   "school.db",
//	}))
func WithSlotConfig(sc SlotConfig) Option {
	return func(cfg *appConfig) error {
		if sc.Driver != "" && !slices.Contains(slot.Drivers, sc.Driver) {
			return fmt.Errorf("unknown storage driver %q", sc.Driver)
		}
		cfg.slotCfg = sc
		return nil
	}
}

// WithRedirectDelay sets how long the dashboard shows the registration
// success message before returning to the student list. Defaults to 1.5s.
//
// Returns an error if the delay is negative.
func WithRedirectDelay(d time.Duration) Option {
	return func(cfg *appConfig) error {
		if d < 0 {
			return errors.New("redirect delay cannot be negative")
		}
		cfg.redirectDelay = d
		return nil
	}
}

// WithClock overrides the clock used to stamp score records.
func WithClock(now func() time.Time) Option {
	return func(cfg *appConfig) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.now = now
		return nil
	}
}

// WithChangeCallback registers a function called after every committed
// change to the collection, including the initial load.
//
// Callbacks run synchronously after the change is persisted and must not
// block. Panics are recovered and logged. Nil callbacks are ignored.
//
//	app, err := olevel.New(
//	    olevel.WithChangeCallback(func(ch olevel.Change) {
//	        if ch.Op == "clear" {
//	            log.Print("all students removed")
//	        }
//	    }),
//	)
func WithChangeCallback(cb func(Change)) Option {
	return func(cfg *appConfig) error {
		if cb == nil {
			return nil
		}
		cfg.callbacks = append(cfg.callbacks, cb)
		return nil
	}
}
