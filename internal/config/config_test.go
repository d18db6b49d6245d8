package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"lessonscheduling/internal/schedule"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.Nil(t, os.WriteFile(path, []byte(content), 0666))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "builtin", cfg.Engine.Solver)
	assert.Equal(t, string(schedule.ModeMulti), cfg.Engine.Mode)
	assert.Equal(t, 30, cfg.Engine.TimeBudgetSeconds)
	assert.Equal(t, schedule.DefaultWeights(), cfg.Weights)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Nil(t, cfg.Validate())
}

func TestLoadYaml(t *testing.T) {
	//** Arrange
	path := writeConfig(t, "config.yaml", `
engine:
  solver: cbc
  time_budget_seconds: 10
logging:
  level: debug
`)

	//** Act
	cfg, err := Load(path)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, "cbc", cfg.Engine.Solver)
	assert.Equal(t, 10, cfg.Engine.TimeBudgetSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections still get defaults.
	assert.Equal(t, string(schedule.ModeMulti), cfg.Engine.Mode)
	assert.Equal(t, schedule.DefaultWeights(), cfg.Weights)
}

func TestLoadJsonWithWeights(t *testing.T) {
	//** Arrange
	path := writeConfig(t, "config.json", `{
		"engine": {"mode": "baseline"},
		"weights": {
			"lesson_count": 5000,
			"priority_rank1": 100,
			"gap_step_minutes": 15,
			"gap_cap_points": 10
		}
	}`)

	//** Act
	cfg, err := Load(path)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, string(schedule.ModeBaseline), cfg.Engine.Mode)
	assert.Equal(t, int64(5000), cfg.Weights.LessonCount)
	assert.Equal(t, int64(15), cfg.Weights.GapStepMinutes)
}

func TestLoadEnvOverride(t *testing.T) {
	//** Arrange
	path := writeConfig(t, "config.yaml", `
engine:
  solver: builtin
`)
	t.Setenv("LESSONS_ENGINE__SOLVER", "cbc")

	//** Act
	cfg, err := Load(path)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, "cbc", cfg.Engine.Solver)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "engine = 1")

	_, err := Load(path)

	assert.NotNil(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("Unknown solver", func(t *testing.T) {
		cfg := Default()
		cfg.Engine.Solver = "gurobi"
		assert.NotNil(t, cfg.Validate())
	})

	t.Run("Unknown mode", func(t *testing.T) {
		cfg := Default()
		cfg.Engine.Mode = "exhaustive"
		assert.NotNil(t, cfg.Validate())
	})

	t.Run("Bad weights", func(t *testing.T) {
		cfg := Default()
		cfg.Weights.LessonCount = 0
		assert.NotNil(t, cfg.Validate())
	})
}

func TestTimeBudget(t *testing.T) {
	cfg := Default()
	cfg.Engine.TimeBudgetSeconds = 5

	assert.Equal(t, "5s", cfg.TimeBudget().String())
}
