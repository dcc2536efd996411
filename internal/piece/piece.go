// Package piece implements the falling piece: a rigid group of four
// cubes with its probe set, driven by incremental motion commands.
package piece

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/geom"
	"github.com/vovakirdan/raytris/internal/probe"
	"github.com/vovakirdan/raytris/internal/scene"
	"github.com/vovakirdan/raytris/internal/shape"
)

// State is the motion state of a piece.
type State int32

const (
	Idle State = iota
	Moving
)

// String returns the state name.
func (s State) String() string {
	if s == Moving {
		return "moving"
	}
	return "idle"
}

// Timing controls how motion is sliced.
type Timing struct {
	Steps       int           // sub-steps per move or quarter turn
	MovePause   time.Duration // pause after each move sub-step
	RotatePause time.Duration // pause after each rotation sub-step
	DropPause   time.Duration // pause between hard drop rows
}

// DefaultTiming returns the stock motion timing.
func DefaultTiming() Timing {
	return Timing{
		Steps:       10,
		MovePause:   5 * time.Millisecond,
		RotatePause: 10 * time.Millisecond,
		DropPause:   time.Millisecond,
	}
}

// Options configures a new piece.
type Options struct {
	Clock  core.Clock
	Timing Timing
	Debug  bool // attach probe helpers
}

// Piece is one falling shape instance.
type Piece struct {
	kind   shape.Kind
	color  core.Color
	group  *scene.Group
	probes *probe.Set
	state  atomic.Int32

	scene  *scene.Scene
	clock  core.Clock
	timing Timing
}

// New builds a piece of the given kind at the scene origin. The piece is
// not visible until the caller installs Group as the active group.
func New(sc *scene.Scene, kind shape.Kind, color core.Color, opts Options) (*Piece, error) {
	def, err := shape.Lookup(kind)
	if err != nil {
		return nil, fmt.Errorf("piece: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = core.RealClock{}
	}
	if opts.Timing.Steps <= 0 {
		opts.Timing = DefaultTiming()
	}

	p := &Piece{
		kind:   kind,
		color:  color,
		group:  scene.NewGroup(string(kind)),
		probes: probe.NewSet(opts.Debug),
		scene:  sc,
		clock:  opts.Clock,
		timing: opts.Timing,
	}
	for _, c := range def.Cells {
		p.group.Add(scene.NewBlock(c.Offset, color, scene.KindCell))
		for _, dir := range c.Probes {
			p.probes.Add(dir, c.Offset, probe.PieceRange)
		}
	}
	return p, nil
}

// Kind returns the shape tag.
func (p *Piece) Kind() shape.Kind { return p.kind }

// Color returns the piece color.
func (p *Piece) Color() core.Color { return p.color }

// Group returns the rigid group of cubes.
func (p *Piece) Group() *scene.Group { return p.group }

// Probes returns the attached probe set.
func (p *Piece) Probes() *probe.Set { return p.probes }

// State returns the current motion state.
func (p *Piece) State() State {
	return State(p.state.Load())
}

// Acquire claims the piece for one motion sequence. It returns false if
// another sequence is in flight.
func (p *Piece) Acquire() bool {
	return p.state.CompareAndSwap(int32(Idle), int32(Moving))
}

// Release ends the motion sequence started by Acquire.
func (p *Piece) Release() {
	p.state.Store(int32(Idle))
}

// Place moves the piece by d in one step. Used for spawn placement.
func (p *Piece) Place(d geom.Vec3) {
	p.scene.Update(func() { p.translate(d) })
}

// Move slides the piece by d in equal sub-steps. A command issued while
// the piece is moving is dropped and Move returns false. Bounds are not
// checked; callers test BlockedLeft, BlockedRight or HasSupportBelow first.
func (p *Piece) Move(d geom.Vec3) bool {
	if !p.Acquire() {
		return false
	}
	defer p.Release()
	p.Slide(d)
	return true
}

// Slide performs the sub-stepped translation of Move. The caller must
// hold the piece through Acquire.
func (p *Piece) Slide(d geom.Vec3) {
	step := d.Mul(1 / float64(p.timing.Steps))
	for i := 0; i < p.timing.Steps; i++ {
		p.scene.Update(func() { p.translate(step) })
		p.clock.Sleep(p.timing.MovePause)
	}
}

// Rotate turns the piece a quarter clockwise (-90 degrees about z) in
// sub-steps around its position. Rotation does not check for walls or
// settled blocks and may overlap them.
func (p *Piece) Rotate() bool {
	if !p.Acquire() {
		return false
	}
	defer p.Release()

	quarter := -math.Pi / 2
	step := quarter / float64(p.timing.Steps)
	var prev float64
	p.scene.View(func() { prev = p.group.Rotation })

	for i := 0; i < p.timing.Steps; i++ {
		p.scene.Update(func() {
			p.group.RotateZ(step)
			p.probes.RotateAroundPivot(p.group.Position, step)
		})
		p.clock.Sleep(p.timing.RotatePause)
	}

	p.scene.Update(func() {
		p.group.Rotation = geom.SnapRotation(prev + quarter)
		p.probes.SnapToAxis()
		p.probes.RelabelAfterRotation()
	})
	return true
}

// Descend hard-drops the piece one row at a time until a down probe
// reports support. A piece already rotated into the floor casts its down
// probes from below the floor and never lands, so callers must not
// descend such a piece.
func (p *Piece) Descend() bool {
	if !p.Acquire() {
		return false
	}
	defer p.Release()

	for {
		landed := false
		p.scene.Update(func() {
			landed = p.probes.Intersects(probe.Down, p.scene.Objects())
			if !landed {
				p.translate(geom.Down)
			}
		})
		if landed {
			return true
		}
		p.clock.Sleep(p.timing.DropPause)
	}
}

// HasSupportBelow reports whether a solid sits directly under the piece.
func (p *Piece) HasSupportBelow() bool {
	return p.query(probe.Down)
}

// BlockedLeft reports whether a solid sits directly left of the piece.
func (p *Piece) BlockedLeft() bool {
	return p.query(probe.Left)
}

// BlockedRight reports whether a solid sits directly right of the piece.
func (p *Piece) BlockedRight() bool {
	return p.query(probe.Right)
}

func (p *Piece) query(dir probe.Direction) bool {
	var hit bool
	p.scene.View(func() {
		hit = p.probes.Intersects(dir, p.scene.Objects())
	})
	return hit
}

// Orientation returns the number of completed quarter turns, 0 to 3.
func (p *Piece) Orientation() int {
	var q int
	p.scene.View(func() { q = geom.QuarterTurns(p.group.Rotation) })
	return q
}

// Positions returns the world position of every cube.
func (p *Piece) Positions() []geom.Vec3 {
	var out []geom.Vec3
	p.scene.View(func() {
		for _, b := range p.group.Blocks() {
			out = append(out, b.Position())
		}
	})
	return out
}

// Flatten hands the cubes over to the scene's loose pool, snapped to the
// grid, and clears the active group. The piece must not move afterwards.
func (p *Piece) Flatten() []*scene.Block {
	var blocks []*scene.Block
	p.scene.Update(func() {
		blocks = append(blocks, p.group.Blocks()...)
		for _, b := range blocks {
			p.scene.Attach(b)
			b.Snap(1)
		}
		if p.scene.Active() == p.group {
			p.scene.SetActive(nil)
		}
	})
	return blocks
}

// Segments returns the debug helper segments of the probes. The caller
// holds the scene lock.
func (p *Piece) Segments() []scene.Segment {
	helpers := p.probes.Helpers()
	out := make([]scene.Segment, 0, len(helpers))
	for _, h := range helpers {
		out = append(out, scene.Segment{From: h.From, To: h.To})
	}
	return out
}

// translate moves cubes and probes together. The caller holds the lock.
func (p *Piece) translate(d geom.Vec3) {
	p.group.Translate(d)
	p.probes.Translate(d)
}
