// Package config provides YAML configuration parsing for olevel.
//
// This package enables running olevel as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Mwenge Secondary
//	port: 8080
//	redirect_delay: 1500ms
//
//	storage:
//	  driver: sqlite
//	  path: ./school.db
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/olevel/internal/slot"
)

const (
	defaultPort          = 8080
	defaultRedirectDelay = 1500 * time.Millisecond
	defaultPath          = "olevel.json"
	defaultRedisAddr     = "localhost:6379"
	defaultS3Region      = "us-east-1"

	// maxRedirectDelay keeps a mistyped value from stranding users on the
	// success message.
	maxRedirectDelay = time.Minute
)

// Config is the root configuration structure for olevel.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "O-Level Student Records".
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// RedirectDelay is how long the registration success message stays up
	// before the dashboard returns to the student list. Defaults to 1500ms.
	RedirectDelay Duration `yaml:"redirect_delay"`

	// Storage selects where the student collection is kept.
	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig selects and parameterizes the storage slot.
type StorageConfig struct {
	// Driver is one of memory, file, sqlite, postgres, redis, s3.
	// Defaults to file.
	Driver string `yaml:"driver"`

	// Key names the slot. Defaults to "olevel_students".
	Key string `yaml:"key"`

	// Path is the file for the file and sqlite drivers.
	// Defaults to "olevel.json" for the file driver.
	Path string `yaml:"path"`

	// DSN is the Postgres connection string.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	DSN string `yaml:"dsn"`

	Redis RedisConfig `yaml:"redis"`
	S3    S3Config    `yaml:"s3"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// S3Config holds bucket settings. Credentials fall back to the default AWS
// chain when access_key_id is empty.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in storage paths, DSNs, addresses and
// credentials. Defaults are applied for port, redirect delay, driver, key
// and path.
func Parse(data []byte) (*Config, error) {
	// seeded so an explicit "redirect_delay: 0s" survives decoding
	cfg := Config{RedirectDelay: Duration(defaultRedirectDelay)}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables, applies storage defaults
// and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if d := c.RedirectDelay.Duration(); d < 0 || d > maxRedirectDelay {
		return fmt.Errorf("redirect_delay must be between 0 and %s, got %s", maxRedirectDelay, d)
	}

	s := &c.Storage
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if s.Driver == "" {
		s.Driver = string(slot.DriverFile)
	}
	if !slices.Contains(slot.Drivers, slot.Driver(s.Driver)) {
		return fmt.Errorf("storage.driver: unknown driver %q (expected memory, file, sqlite, postgres, redis or s3)", s.Driver)
	}
	if s.Key == "" {
		s.Key = slot.DefaultKey
	}

	expand := []struct {
		field string
		value *string
	}{
		{"storage.path", &s.Path},
		{"storage.dsn", &s.DSN},
		{"storage.redis.addr", &s.Redis.Addr},
		{"storage.redis.password", &s.Redis.Password},
		{"storage.s3.bucket", &s.S3.Bucket},
		{"storage.s3.endpoint", &s.S3.Endpoint},
		{"storage.s3.access_key_id", &s.S3.AccessKeyID},
		{"storage.s3.secret_access_key", &s.S3.SecretAccessKey},
	}
	for _, e := range expand {
		expanded, err := expandEnvVars(*e.value)
		if err != nil {
			return fmt.Errorf("%s: %w", e.field, err)
		}
		*e.value = expanded
	}

	switch slot.Driver(s.Driver) {
	case slot.DriverFile:
		if s.Path == "" {
			s.Path = defaultPath
		}
	case slot.DriverSQLite:
		if s.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	case slot.DriverPostgres:
		if s.DSN == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	case slot.DriverRedis:
		if s.Redis.Addr == "" {
			s.Redis.Addr = defaultRedisAddr
		}
		if s.Redis.DB < 0 {
			return fmt.Errorf("storage.redis.db cannot be negative, got %d", s.Redis.DB)
		}
	case slot.DriverS3:
		if s.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 driver")
		}
		if s.S3.Region == "" {
			s.S3.Region = defaultS3Region
		}
		if (s.S3.AccessKeyID == "") != (s.S3.SecretAccessKey == "") {
			return errors.New("storage.s3: access_key_id and secret_access_key must be set together")
		}
	}

	return nil
}
