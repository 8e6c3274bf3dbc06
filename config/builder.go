package config

import (
	"github.com/jpalmerr/olevel"
)

// BuildSlotConfig converts the storage section into an SDK slot config.
func BuildSlotConfig(cfg *Config) olevel.SlotConfig {
	s := cfg.Storage
	return olevel.SlotConfig{
		Driver: olevel.Driver(s.Driver),
		Key:    s.Key,
		Path:   s.Path,
		DSN:    s.DSN,
		Redis: olevel.RedisConfig{
			Addr:     s.Redis.Addr,
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
		},
		S3: olevel.S3Config{
			Bucket:          s.S3.Bucket,
			Region:          s.S3.Region,
			Endpoint:        s.S3.Endpoint,
			Prefix:          s.S3.Prefix,
			AccessKeyID:     s.S3.AccessKeyID,
			SecretAccessKey: s.S3.SecretAccessKey,
			PathStyle:       s.S3.PathStyle,
		},
	}
}

// BuildOptions converts parsed configuration into SDK options.
//
// The title option is only added when set so the SDK default applies.
func BuildOptions(cfg *Config) []olevel.Option {
	opts := []olevel.Option{
		olevel.WithPort(cfg.Port),
		olevel.WithRedirectDelay(cfg.RedirectDelay.Duration()),
		olevel.WithSlotConfig(BuildSlotConfig(cfg)),
	}
	if cfg.Title != "" {
		opts = append(opts, olevel.WithTitle(cfg.Title))
	}
	return opts
}
