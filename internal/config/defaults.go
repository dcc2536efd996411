package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/raytris.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Playfield: PlayfieldConfig{
			Width:  10,
			Height: 20,
		},
		Timing: TimingConfig{
			TickInterval:      time.Second,
			MinTickInterval:   150 * time.Millisecond,
			MoveSteps:         10,
			MoveStepPause:     5 * time.Millisecond,
			RotateStepPause:   10 * time.Millisecond,
			DropStepPause:     time.Millisecond,
			CollapseSteps:     10,
			CollapseStepPause: 5 * time.Millisecond,
		},
		Scoring: ScoringConfig{
			LinePoints:    []int{100, 300, 500, 800},
			LinesPerLevel: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  ProgressByLines,
				MaxAt: 100,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 4.0,
			},
		},
		Palette: []string{"red", "green", "blue", "yellow"},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
