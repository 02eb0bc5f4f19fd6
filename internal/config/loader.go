package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GRADEBENCH_CONFIG is set
//  3. env (prefix GRADEBENCH_)
//
// The assignment table is practical only through the YAML layer; env keys
// cover the scalar fields (GRADEBENCH_API_TOKEN, GRADEBENCH_COURSE_ID, ...).
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GRADEBENCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Map env keys like GRADEBENCH_POLL_INTERVAL_SECONDS -> poll_interval_seconds.
	envProvider := env.Provider("GRADEBENCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gradebench_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the sweep cannot start with. Everything
// past startup is recoverable; these are not.
func (c *Config) validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("%w: api_token must not be empty", ErrInvalidConfig)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	}
	if c.CourseID <= 0 {
		return fmt.Errorf("%w: course_id must be positive", ErrInvalidConfig)
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("%w: poll_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	for i, a := range c.Assignments {
		if a.ID <= 0 {
			return fmt.Errorf("%w: assignments[%d].id must be positive", ErrInvalidConfig, i)
		}
		if a.Evaluator == "" {
			return fmt.Errorf("%w: assignments[%d].evaluator must not be empty", ErrInvalidConfig, i)
		}
	}
	return nil
}
