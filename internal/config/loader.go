package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SCRUM_CONFIG is set
//  3. env (prefix SCRUM_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	// A local .env feeds the env layer; a missing file is not an error.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SCRUM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SCRUM_DB_PATH, SCRUM_HALF_DURATION_MINUTES, ...
	// Map env keys like SCRUM_SIN_BIN_SECONDS -> sin_bin_seconds (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SCRUM_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "scrum_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HalfDurationMinutes <= 0 {
		return fmt.Errorf("%w: half_duration_minutes must be positive", ErrInvalidConfig)
	}
	if c.SinBinSeconds <= 0 {
		return fmt.Errorf("%w: sin_bin_seconds must be positive", ErrInvalidConfig)
	}
	if c.InjuryIncrementSeconds <= 0 {
		return fmt.Errorf("%w: injury_increment_seconds must be positive", ErrInvalidConfig)
	}
	if c.SaveQueueSize <= 0 {
		return fmt.Errorf("%w: save_queue_size must be positive", ErrInvalidConfig)
	}
	if c.SaveRetries < 0 {
		return fmt.Errorf("%w: save_retries must not be negative", ErrInvalidConfig)
	}
	return nil
}
