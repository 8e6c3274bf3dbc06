package slot

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmpty is returned by Read when the slot holds nothing.
var ErrEmpty = errors.New("slot: empty")

// DefaultKey is the slot name used when none is configured.
const DefaultKey = "olevel_students"

// Slot is one named storage location.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Closer is implemented by slots that hold connections.
type Closer interface {
	Close() error
}

// Driver names a backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
	DriverS3       Driver = "s3"
)

// Drivers lists every supported backend.
var Drivers = []Driver{DriverMemory, DriverFile, DriverSQLite, DriverPostgres, DriverRedis, DriverS3}

// Config selects and parameterizes a backend.
type Config struct {
	Driver Driver
	Key    string

	// Path is the file path for the file and sqlite drivers.
	Path string

	// DSN is the Postgres connection string.
	DSN string

	Redis RedisConfig
	S3    S3Config
}

// Open constructs the slot described by cfg.
func Open(ctx context.Context, cfg Config) (Slot, error) {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}

	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		return NewFile(cfg.Path)
	case DriverSQLite:
		return NewSQLite(ctx, cfg.Path, key)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.DSN, key)
	case DriverRedis:
		return NewRedis(ctx, cfg.Redis, key)
	case DriverS3:
		return NewS3(ctx, cfg.S3, key)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Close releases the slot's resources if it holds any.
func Close(s Slot) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
