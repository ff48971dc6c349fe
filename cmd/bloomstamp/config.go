package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds CLI configuration. It is read from a JSON file and then
// overridden by flags.
type Config struct {
	// RedisURL enables stamp storage and replay protection.
	RedisURL string `json:"redis_url"`

	// KeyPrefix prefixes every redis key.
	KeyPrefix string `json:"key_prefix"`

	// SpentTTL is how long a redeemed stamp is remembered ("0": forever).
	SpentTTL string `json:"spent_ttl"`

	LogLevel string `json:"log_level"`

	// MaxSteps bounds saturation steps of one mint (0: unbounded).
	MaxSteps int `json:"max_steps"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		KeyPrefix: "bloomstamp:",
		SpentTTL:  "24h",
		LogLevel:  "info",
	}
}

// LoadConfig reads a JSON config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := c.spentTTL(); err != nil {
		return err
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative: %d", c.MaxSteps)
	}
	return nil
}

func (c Config) spentTTL() (time.Duration, error) {
	if c.SpentTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.SpentTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid spent_ttl: %w", err)
	}
	return d, nil
}

func (c Config) level() (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("invalid log_level: %w", err)
	}
	return l, nil
}

// logger builds a production logger writing to stderr.
func (c Config) logger() (*zap.Logger, error) {
	l, err := c.level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(l)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}
