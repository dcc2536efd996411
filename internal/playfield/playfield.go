// Package playfield models the fixed boundary of a game and the row
// probes that detect and clear completed lines.
package playfield

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/geom"
	"github.com/vovakirdan/raytris/internal/probe"
	"github.com/vovakirdan/raytris/internal/scene"
)

// Minimum playfield size including the border. The interior is then four
// columns wide, the length of an I.
const (
	MinWidth  = 6
	MinHeight = 6
)

// ErrInvalidSize is returned for a playfield too small to hold a piece.
var ErrInvalidSize = errors.New("invalid playfield size")

// BorderColor is the color of walls, floor and ceiling.
const BorderColor = core.ColorGray

// Timing controls the collapse animation.
type Timing struct {
	Steps int           // sub-steps per one-row collapse
	Pause time.Duration // pause after each sub-step
}

// DefaultTiming returns the stock collapse timing.
func DefaultTiming() Timing {
	return Timing{Steps: 10, Pause: 5 * time.Millisecond}
}

// Options configures a playfield.
type Options struct {
	Clock  core.Clock
	Timing Timing
	Debug  bool // row probe helpers and a grid of markers
}

// Playfield is the border plus one horizontal probe per interior row.
type Playfield struct {
	width, height int
	rows          *probe.Set // every probe in the Right slot, row 1 first
	scene         *scene.Scene
	clock         core.Clock
	timing        Timing
}

// New builds the border blocks and row probes of a width×height field
// into sc.
func New(sc *scene.Scene, width, height int, opts Options) (*Playfield, error) {
	if width < MinWidth || height < MinHeight {
		return nil, fmt.Errorf("playfield: %w: %dx%d", ErrInvalidSize, width, height)
	}
	if opts.Clock == nil {
		opts.Clock = core.RealClock{}
	}
	if opts.Timing.Steps <= 0 {
		opts.Timing = DefaultTiming()
	}

	p := &Playfield{
		width:  width,
		height: height,
		rows:   probe.NewSet(opts.Debug),
		scene:  sc,
		clock:  opts.Clock,
		timing: opts.Timing,
	}

	sc.Update(func() {
		frame := sc.Frame()
		for y := 0; y < height-1; y++ {
			frame.Add(scene.NewBlock(geom.V(0, float64(y)), BorderColor, scene.KindBorder))
			frame.Add(scene.NewBlock(geom.V(float64(width-1), float64(y)), BorderColor, scene.KindBorder))
		}
		for x := 1; x < width-1; x++ {
			frame.Add(scene.NewBlock(geom.V(float64(x), 0), BorderColor, scene.KindBorder))
		}
		for x := 0; x < width; x++ {
			frame.Add(scene.NewBlock(geom.V(float64(x), float64(height-1)), BorderColor, scene.KindBorder))
		}

		for row := 1; row <= height-2; row++ {
			p.rows.Add(probe.Right, geom.V(0, float64(row)), float64(width-1))
		}

		if opts.Debug {
			for y := 1; y <= height-2; y++ {
				for x := 1; x <= width-2; x++ {
					sc.AddMarker(scene.NewBlock(geom.V(float64(x), float64(y)), core.ColorGray, scene.KindMarker))
				}
			}
		}
	})
	return p, nil
}

// Width returns the width including the border.
func (p *Playfield) Width() int { return p.width }

// Height returns the height including the border.
func (p *Playfield) Height() int { return p.height }

// Rows returns the number of interior rows.
func (p *Playfield) Rows() int { return p.height - 2 }

// RowProbe returns the probe of interior row (1-based), or nil.
func (p *Playfield) RowProbe(row int) *probe.Probe {
	all := p.rows.All()
	if row < 1 || row > len(all) {
		return nil
	}
	return all[row-1]
}

// rowHits returns the distinct cell blocks the probe of row hits.
func (p *Playfield) rowHits(row int, blocks []*scene.Block) []*scene.Block {
	pr := p.RowProbe(row)
	if pr == nil {
		return nil
	}
	seen := make(map[*scene.Block]struct{})
	var out []*scene.Block
	for _, b := range probe.Hits(pr.Ray, blocks) {
		if b.Kind() != scene.KindCell {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// FindCompletedRows returns, ascending, the rows whose probe hits at
// least width-2 distinct blocks. The caller holds the scene lock.
func (p *Playfield) FindCompletedRows(blocks []*scene.Block) []int {
	var rows []int
	for row := 1; row <= p.Rows(); row++ {
		if len(p.rowHits(row, blocks)) >= p.width-2 {
			rows = append(rows, row)
		}
	}
	return rows
}

// CompletedRows is FindCompletedRows over every cell in the scene.
func (p *Playfield) CompletedRows() []int {
	var rows []int
	p.scene.View(func() {
		rows = p.FindCompletedRows(p.scene.Cells())
	})
	return rows
}

// ClearRow removes every block the probe of row hits from the scene and
// returns how many were removed. The caller holds the write lock.
func (p *Playfield) ClearRow(row int, blocks []*scene.Block) int {
	hits := p.rowHits(row, blocks)
	for _, b := range hits {
		p.scene.Remove(b)
	}
	return len(hits)
}

// CollapseAbove lowers every settled block above row by one cell in
// Timing.Steps sub-steps, then snaps them to the grid. Blocks are
// collected once, at call time, and moved to the loose pool first.
// It returns the number of blocks moved.
func (p *Playfield) CollapseAbove(row int) int {
	var moving []*scene.Block
	p.scene.Update(func() {
		loose := p.scene.Loose()
		seen := make(map[*scene.Block]struct{})
		for r := row + 1; r <= p.Rows(); r++ {
			for _, b := range p.rowHits(r, loose) {
				if _, ok := seen[b]; ok {
					continue
				}
				seen[b] = struct{}{}
				moving = append(moving, b)
			}
		}
		for _, b := range moving {
			p.scene.Attach(b)
		}
	})
	if len(moving) == 0 {
		return 0
	}

	step := geom.Down.Mul(1 / float64(p.timing.Steps))
	for i := 0; i < p.timing.Steps; i++ {
		p.scene.Update(func() {
			for _, b := range moving {
				b.Translate(step)
			}
		})
		p.clock.Sleep(p.timing.Pause)
	}

	p.scene.Update(func() {
		for _, b := range moving {
			b.Snap(1)
		}
	})
	return len(moving)
}

// Segments returns the debug helper segments of the row probes. The
// caller holds the scene lock.
func (p *Playfield) Segments() []scene.Segment {
	helpers := p.rows.Helpers()
	out := make([]scene.Segment, 0, len(helpers))
	for _, h := range helpers {
		out = append(out, scene.Segment{From: h.From, To: h.To})
	}
	return out
}
