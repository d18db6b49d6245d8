package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"lessonscheduling/internal/schedule"
)

type Config struct {
	Engine  EngineConfig     `koanf:"engine"`
	Weights schedule.Weights `koanf:"weights"`
	Logging LoggingConfig    `koanf:"logging"`
}

// EngineConfig selects and bounds the optimization engine.
type EngineConfig struct {
	// Solver selects the backend: "builtin" or "cbc".
	Solver string `koanf:"solver"`
	// TimeBudgetSeconds bounds the total solve time across all strategies.
	TimeBudgetSeconds int `koanf:"time_budget_seconds"`
	// Mode selects "baseline" (single attempt) or "multi" (strategy portfolio).
	Mode string `koanf:"mode"`
}

type LoggingConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `koanf:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// Load reads a json or yaml configuration file, applies LESSONS_-prefixed
// environment overrides, then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("LESSONS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "lessons_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Engine.Solver == "" {
		c.Engine.Solver = "builtin"
	}
	if c.Engine.TimeBudgetSeconds == 0 {
		c.Engine.TimeBudgetSeconds = 30
	}
	if c.Engine.Mode == "" {
		c.Engine.Mode = string(schedule.ModeMulti)
	}
	if c.Weights == (schedule.Weights{}) {
		c.Weights = schedule.DefaultWeights()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Engine.Solver != "builtin" && c.Engine.Solver != "cbc" {
		return fmt.Errorf("unknown solver %s", c.Engine.Solver)
	}
	if c.Engine.Mode != string(schedule.ModeBaseline) && c.Engine.Mode != string(schedule.ModeMulti) {
		return fmt.Errorf("unknown mode %s", c.Engine.Mode)
	}
	if c.Engine.TimeBudgetSeconds < 0 {
		return fmt.Errorf("time budget must be positive")
	}
	if c.Weights.LessonCount <= 0 {
		return fmt.Errorf("lesson_count weight must be positive")
	}
	if c.Weights.GapStepMinutes <= 0 {
		return fmt.Errorf("gap_step_minutes must be positive")
	}
	return nil
}

// TimeBudget converts the configured budget to a duration.
func (c Config) TimeBudget() time.Duration {
	return time.Duration(c.Engine.TimeBudgetSeconds) * time.Second
}
