// Package game runs one raytris session: gravity ticks, landing, line
// clears, spawning and the input commands of the player.
package game

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/raytris/internal/config"
	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/geom"
	"github.com/vovakirdan/raytris/internal/piece"
	"github.com/vovakirdan/raytris/internal/playfield"
	"github.com/vovakirdan/raytris/internal/scene"
	"github.com/vovakirdan/raytris/internal/shape"
)

// holdPoll is how often the loop retries to take an in-flight piece.
const holdPoll = time.Millisecond

// Options configures a new engine.
type Options struct {
	Config   config.GameConfig
	Seed     int64
	Clock    core.Clock
	Observer Observer
}

// Engine owns the scene of one game and drives it.
type Engine struct {
	cfg        config.GameConfig
	scene      *scene.Scene
	field      *playfield.Playfield
	spawner    *Spawner
	clock      core.Clock
	observer   Observer
	difficulty *config.DifficultyManager

	input  atomic.Bool // commands accepted
	paused atomic.Bool

	mu    sync.Mutex // guards piece, state and ticks
	piece *piece.Piece
	state core.GameState
	ticks int
}

// New validates the configuration, builds the playfield and spawns the
// first piece.
func New(opts Options) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = core.RealClock{}
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}

	cfg := opts.Config
	sc := scene.New()
	field, err := playfield.New(sc, cfg.Playfield.Width, cfg.Playfield.Height, playfield.Options{
		Clock: opts.Clock,
		Timing: playfield.Timing{
			Steps: cfg.Timing.CollapseSteps,
			Pause: cfg.Timing.CollapseStepPause,
		},
		Debug: cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	e := &Engine{
		cfg:        cfg,
		scene:      sc,
		field:      field,
		spawner:    NewSpawner(opts.Seed, cfg.Colors()),
		clock:      opts.Clock,
		observer:   opts.Observer,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		state:      core.GameState{Level: 1},
	}
	if err := e.spawn(); err != nil {
		return nil, err
	}
	e.input.Store(true)
	return e, nil
}

// Run ticks the game at the gravity cadence until game over or ctx is
// cancelled. The wait for each tick is shortened by the time the
// previous tick spent working. Game over returns nil.
func (e *Engine) Run(ctx context.Context) error {
	next := e.clock.Now()
	for {
		if e.State().GameOver {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		next = next.Add(e.TickInterval())
		wait := next.Sub(e.clock.Now())
		if wait < 0 {
			next = e.clock.Now()
			wait = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.clock.After(wait):
		}

		if e.Tick() {
			return nil
		}
	}
}

// Tick advances the game by one gravity step. It returns true once the
// game is over. A paused game does not advance.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	over := e.state.GameOver
	p := e.piece
	e.mu.Unlock()
	if over {
		return true
	}
	if e.paused.Load() {
		return false
	}

	// Wait out any command in flight and keep the piece until the tick is done.
	for !p.Acquire() {
		e.clock.Sleep(holdPoll)
	}

	if !p.HasSupportBelow() {
		p.Slide(geom.Down)
		p.Release()
		e.countTick()
		return false
	}

	e.input.Store(false)
	// The landed piece stays acquired so stale commands are dropped.
	p.Flatten()
	e.score(e.clearLines())
	e.countTick()

	if err := e.spawn(); err != nil {
		// Shapes are registered at init; a failure here is a programming error.
		panic(err)
	}
	if e.State().GameOver {
		return true
	}
	e.input.Store(true)
	return false
}

// clearLines removes every completed row and collapses the blocks above
// it, lowest row first. Each earlier clear has already lowered the rows
// above it by one.
func (e *Engine) clearLines() int {
	var rows []int
	e.scene.View(func() {
		rows = e.field.FindCompletedRows(e.scene.Cells())
	})

	for i, row := range rows {
		r := row - i
		e.scene.Update(func() {
			e.field.ClearRow(r, e.scene.Cells())
		})
		e.field.CollapseAbove(r)
	}
	return len(rows)
}

func (e *Engine) score(lines int) {
	if lines == 0 {
		return
	}
	points := e.cfg.Scoring.LinePoints
	idx := lines - 1
	if idx >= len(points) {
		idx = len(points) - 1
	}

	e.mu.Lock()
	if idx >= 0 {
		e.state.Score += points[idx] * e.state.Level
	}
	e.state.Lines += lines
	e.state.Level = e.state.Lines/e.cfg.Scoring.LinesPerLevel + 1
	st := e.state
	e.mu.Unlock()

	e.observer.LinesCleared(lines, st)
}

func (e *Engine) countTick() {
	e.mu.Lock()
	e.ticks++
	e.mu.Unlock()
}

// spawn creates a random piece at the top center. If it already rests on
// something the game is over.
func (e *Engine) spawn() error {
	kind, color := e.spawner.Next()
	p, err := piece.New(e.scene, kind, color, piece.Options{
		Clock: e.clock,
		Timing: piece.Timing{
			Steps:       e.cfg.Timing.MoveSteps,
			MovePause:   e.cfg.Timing.MoveStepPause,
			RotatePause: e.cfg.Timing.RotateStepPause,
			DropPause:   e.cfg.Timing.DropStepPause,
		},
		Debug: e.cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	def, err := shape.Lookup(kind)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	e.install(p, def.Spawn(e.field.Width(), e.field.Height()))
	e.observer.PieceSpawned(kind)

	if p.HasSupportBelow() {
		e.mu.Lock()
		e.state.GameOver = true
		st := e.state
		e.mu.Unlock()
		e.observer.GameOver(st)
	}
	return nil
}

// install places p at pos and makes it the active piece.
func (e *Engine) install(p *piece.Piece, pos geom.Vec3) {
	p.Place(pos)
	e.scene.Update(func() { e.scene.SetActive(p.Group()) })

	e.mu.Lock()
	e.piece = p
	e.state.Pieces++
	e.mu.Unlock()
}

// active returns the piece commands should act on, or nil when input is
// detached.
func (e *Engine) active() *piece.Piece {
	if !e.input.Load() || e.paused.Load() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.GameOver {
		return nil
	}
	return e.piece
}

// Rotate turns the piece a quarter clockwise.
func (e *Engine) Rotate() bool {
	p := e.active()
	if p == nil {
		return false
	}
	return p.Rotate()
}

// Left moves the piece one column left unless something is in the way.
func (e *Engine) Left() bool {
	p := e.active()
	if p == nil || p.BlockedLeft() {
		return false
	}
	return p.Move(geom.Left)
}

// Right moves the piece one column right unless something is in the way.
func (e *Engine) Right() bool {
	p := e.active()
	if p == nil || p.BlockedRight() {
		return false
	}
	return p.Move(geom.Right)
}

// SoftDrop moves the piece one row down unless it is already supported.
func (e *Engine) SoftDrop() bool {
	p := e.active()
	if p == nil || p.HasSupportBelow() {
		return false
	}
	return p.Move(geom.Down)
}

// HardDrop drops the piece until it lands. Landing itself happens on the
// next tick.
func (e *Engine) HardDrop() bool {
	p := e.active()
	if p == nil {
		return false
	}
	return p.Descend()
}

// TogglePause pauses or resumes the game and returns the new state.
func (e *Engine) TogglePause() bool {
	paused := !e.paused.Load()
	e.paused.Store(paused)
	e.mu.Lock()
	e.state.Paused = paused
	e.mu.Unlock()
	return paused
}

// Do dispatches a motion or pause action. It reports whether the action
// had an effect.
func (e *Engine) Do(action core.Action) bool {
	switch action {
	case core.ActionRotate:
		return e.Rotate()
	case core.ActionLeft:
		return e.Left()
	case core.ActionRight:
		return e.Right()
	case core.ActionSoftDrop:
		return e.SoftDrop()
	case core.ActionHardDrop:
		return e.HardDrop()
	case core.ActionPause:
		e.TogglePause()
		return true
	default:
		return false
	}
}

// State returns a copy of the score board.
func (e *Engine) State() core.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Ticks returns the number of gravity ticks processed.
func (e *Engine) Ticks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// TickInterval returns the current gravity interval.
func (e *Engine) TickInterval() time.Duration {
	e.mu.Lock()
	lines, ticks := e.state.Lines, e.ticks
	e.mu.Unlock()
	return e.difficulty.TickInterval(e.cfg.Timing.TickInterval, e.cfg.Timing.MinTickInterval, lines, ticks)
}

// Width returns the playfield width, border included.
func (e *Engine) Width() int { return e.field.Width() }

// Height returns the playfield height, border included.
func (e *Engine) Height() int { return e.field.Height() }

// Debug reports whether probe helpers are drawn.
func (e *Engine) Debug() bool { return e.cfg.Debug }

// Snapshot copies the scene for rendering, with the probe helper
// segments of the field and the active piece when debugging.
func (e *Engine) Snapshot() scene.Snapshot {
	e.mu.Lock()
	p := e.piece
	e.mu.Unlock()

	var snap scene.Snapshot
	e.scene.View(func() {
		snap = e.scene.Snapshot()
		if !e.cfg.Debug {
			return
		}
		snap.Probes = append(snap.Probes, e.field.Segments()...)
		if p != nil && e.scene.Active() == p.Group() {
			snap.Probes = append(snap.Probes, p.Segments()...)
		}
	})
	return snap
}
