package config

import (
	"math"
	"time"
)

// Progression types.
const (
	ProgressByLines = "lines"
	ProgressByTime  = "time"
	ProgressNone    = "none"
)

// DifficultyManager turns game progress into a gravity interval.
//
// The difficulty level runs from the initial level to 1 as cleared lines
// (or elapsed ticks) approach Progression.MaxAt. At level L gravity is
// 1 + L*SpeedMultiplier times faster than the base tick.
type DifficultyManager struct {
	cfg   DifficultyConfig
	start float64
}

// NewDifficultyManager creates a manager for cfg.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg, start: unit(cfg.InitialLevel)}
}

// Level returns the difficulty level for the given progress.
func (d *DifficultyManager) Level(lines, ticks int) float64 {
	if !d.cfg.Enabled {
		return d.start
	}

	var done int
	switch d.cfg.Progression.Type {
	case ProgressByLines:
		done = lines
	case ProgressByTime:
		done = ticks
	default:
		return d.start
	}

	span := float64(max(d.cfg.Progression.MaxAt, 1))
	return d.start + unit(float64(done)/span)*(1-d.start)
}

// TickInterval returns base shortened by the current level, never below floor.
func (d *DifficultyManager) TickInterval(base, floor time.Duration, lines, ticks int) time.Duration {
	speed := 1 + d.Level(lines, ticks)*d.cfg.Scaling.SpeedMultiplier
	if speed <= 0 {
		return base
	}
	return max(time.Duration(float64(base)/speed), floor)
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
