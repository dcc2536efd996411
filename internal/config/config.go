// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/raytris/internal/core"
)

// Smallest playfield that still fits every shape, border included.
// A horizontal I needs four interior columns.
const (
	MinWidth  = 6
	MinHeight = 6
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// GameConfig contains all configuration for one game session.
type GameConfig struct {
	Playfield  PlayfieldConfig  `yaml:"playfield"`
	Debug      bool             `yaml:"debug"`
	Timing     TimingConfig     `yaml:"timing"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Palette    []string         `yaml:"palette"`
}

// PlayfieldConfig defines the field size, border included.
type PlayfieldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TimingConfig defines the gravity cadence and motion slicing.
type TimingConfig struct {
	TickInterval      time.Duration `yaml:"tick_interval"`       // gravity step at base speed
	MinTickInterval   time.Duration `yaml:"min_tick_interval"`   // floor for sped-up gravity
	MoveSteps         int           `yaml:"move_steps"`          // sub-steps per move or quarter turn
	MoveStepPause     time.Duration `yaml:"move_step_pause"`
	RotateStepPause   time.Duration `yaml:"rotate_step_pause"`
	DropStepPause     time.Duration `yaml:"drop_step_pause"`
	CollapseSteps     int           `yaml:"collapse_steps"`
	CollapseStepPause time.Duration `yaml:"collapse_step_pause"`
}

// ScoringConfig defines points per clear and level pacing.
type ScoringConfig struct {
	LinePoints    []int `yaml:"line_points"`     // points for 1, 2, 3, 4 lines
	LinesPerLevel int   `yaml:"lines_per_level"` // cleared lines per level
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "lines", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Lines/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to gravity speed at max difficulty
}

// Colors returns the palette as core colors. Unknown names are skipped.
func (c GameConfig) Colors() []core.Color {
	out := make([]core.Color, 0, len(c.Palette))
	for _, name := range c.Palette {
		if col, ok := core.ParseColor(name); ok {
			out = append(out, col)
		}
	}
	return out
}

// Validate checks that the configuration describes a playable game.
func (c GameConfig) Validate() error {
	if c.Playfield.Width < MinWidth || c.Playfield.Height < MinHeight {
		return fmt.Errorf("config: %w: playfield %dx%d is smaller than %dx%d",
			ErrInvalidConfig, c.Playfield.Width, c.Playfield.Height, MinWidth, MinHeight)
	}
	if c.Timing.TickInterval <= 0 {
		return fmt.Errorf("config: %w: tick_interval must be positive", ErrInvalidConfig)
	}
	if c.Timing.MoveSteps <= 0 || c.Timing.CollapseSteps <= 0 {
		return fmt.Errorf("config: %w: step counts must be positive", ErrInvalidConfig)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("config: %w: palette is empty", ErrInvalidConfig)
	}
	for _, name := range c.Palette {
		if _, ok := core.ParseColor(name); !ok {
			return fmt.Errorf("config: %w: unknown color %q", ErrInvalidConfig, name)
		}
	}
	if c.Scoring.LinesPerLevel <= 0 {
		return fmt.Errorf("config: %w: lines_per_level must be positive", ErrInvalidConfig)
	}
	switch c.Difficulty.Progression.Type {
	case ProgressByLines, ProgressByTime, ProgressNone, "":
	default:
		return fmt.Errorf("config: %w: unknown progression %q", ErrInvalidConfig, c.Difficulty.Progression.Type)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a flag value to a preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, fixed)", name)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
