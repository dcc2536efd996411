package piece

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/geom"
	"github.com/vovakirdan/raytris/internal/probe"
	"github.com/vovakirdan/raytris/internal/scene"
	"github.com/vovakirdan/raytris/internal/shape"
)

// instantClock never waits.
type instantClock struct{}

func (instantClock) Now() time.Time        { return time.Time{} }
func (instantClock) Sleep(d time.Duration) {}
func (instantClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// gateClock parks every Sleep until the gate opens, signalling the first
// time a sleeper arrives.
type gateClock struct {
	arrived chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newGateClock() *gateClock {
	return &gateClock{arrived: make(chan struct{}), gate: make(chan struct{})}
}

func (c *gateClock) Now() time.Time { return time.Time{} }

func (c *gateClock) Sleep(d time.Duration) {
	c.once.Do(func() { close(c.arrived) })
	<-c.gate
}

func (c *gateClock) After(d time.Duration) <-chan time.Time {
	c.Sleep(d)
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func (c *gateClock) open() { close(c.gate) }

// field builds a bordered width×height scene like the playfield does.
func field(w, h int) *scene.Scene {
	sc := scene.New()
	sc.Update(func() {
		for x := 0; x < w; x++ {
			sc.Frame().Add(scene.NewBlock(geom.V(float64(x), 0), core.ColorWhite, scene.KindBorder))
			sc.Frame().Add(scene.NewBlock(geom.V(float64(x), float64(h-1)), core.ColorWhite, scene.KindBorder))
		}
		for y := 0; y < h-1; y++ {
			sc.Frame().Add(scene.NewBlock(geom.V(0, float64(y)), core.ColorWhite, scene.KindBorder))
			sc.Frame().Add(scene.NewBlock(geom.V(float64(w-1), float64(y)), core.ColorWhite, scene.KindBorder))
		}
	})
	return sc
}

func spawn(t *testing.T, sc *scene.Scene, kind shape.Kind, at geom.Vec3, clock core.Clock) *Piece {
	t.Helper()
	p, err := New(sc, kind, core.ColorRed, Options{Clock: clock, Timing: DefaultTiming()})
	if err != nil {
		t.Fatalf("New(%s) failed: %v", kind, err)
	}
	p.Place(at)
	sc.Update(func() { sc.SetActive(p.Group()) })
	return p
}

func origins(p *Piece) []geom.Vec3 {
	var out []geom.Vec3
	for _, pr := range p.Probes().All() {
		out = append(out, pr.Ray.Origin)
	}
	return out
}

func samePoints(t *testing.T, label string, got, want []geom.Vec3) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: %d points, expected %d", label, len(got), len(want))
	}
	for i := range want {
		if !geom.ApproxEqual(got[i], want[i]) {
			t.Errorf("%s[%d] = %v, expected %v", label, i, got[i], want[i])
		}
	}
}

func TestNewInvalidShape(t *testing.T) {
	_, err := New(scene.New(), shape.Kind("S"), core.ColorRed, Options{})
	if !errors.Is(err, shape.ErrInvalidShape) {
		t.Errorf("New(S) error = %v, expected ErrInvalidShape", err)
	}
}

func TestMoveAndInverseRestore(t *testing.T) {
	for _, kind := range shape.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			sc := field(10, 20)
			def, _ := shape.Lookup(kind)
			p := spawn(t, sc, kind, def.Spawn(10, 20), instantClock{})

			blocks := p.Positions()
			probes := origins(p)

			if !p.Move(geom.V(1, -1)) {
				t.Fatal("Move should run on an idle piece")
			}
			if !p.Move(geom.V(-1, 1)) {
				t.Fatal("inverse Move should run on an idle piece")
			}

			samePoints(t, "blocks", p.Positions(), blocks)
			samePoints(t, "probes", origins(p), probes)
			if p.State() != Idle {
				t.Errorf("State() = %s after Move, expected idle", p.State())
			}
		})
	}
}

func TestMoveKeepsProbesOnCubes(t *testing.T) {
	sc := field(10, 20)
	p := spawn(t, sc, shape.O, geom.V(4.5, 10.5), instantClock{})
	p.Move(geom.V(0, -1))

	positions := p.Positions()
	for _, pr := range p.Probes().All() {
		found := false
		for _, pos := range positions {
			if geom.ApproxEqual(pr.Ray.Origin, pos) {
				found = true
			}
		}
		if !found {
			t.Errorf("probe at %v is not attached to any cube %v", pr.Ray.Origin, positions)
		}
	}
}

func TestFourRotationsRestoreOrientation(t *testing.T) {
	for _, kind := range shape.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			sc := field(12, 24)
			def, _ := shape.Lookup(kind)
			p := spawn(t, sc, kind, def.Spawn(12, 24).Sub(geom.V(0, 8)), instantClock{})

			blocks := p.Positions()
			probes := origins(p)
			roles := make(map[probe.Direction][]*probe.Probe)
			for _, d := range probe.Directions {
				roles[d] = append([]*probe.Probe(nil), p.Probes().Subset(d)...)
			}

			for turn := 1; turn <= 4; turn++ {
				if !p.Rotate() {
					t.Fatalf("Rotate %d was dropped", turn)
				}
				if got := p.Orientation(); got != turn%4 {
					t.Errorf("Orientation() after %d turns = %d", turn, got)
				}
				if !p.Probes().Aligned() {
					t.Errorf("probe roles disagree with directions after %d turns", turn)
				}
			}

			samePoints(t, "blocks", p.Positions(), blocks)
			samePoints(t, "probes", origins(p), probes)
			for _, d := range probe.Directions {
				got := p.Probes().Subset(d)
				if len(got) != len(roles[d]) {
					t.Fatalf("role %s has %d probes, expected %d", d, len(got), len(roles[d]))
				}
				for i := range got {
					if got[i] != roles[d][i] {
						t.Errorf("role %s probe %d changed after a full turn", d, i)
					}
				}
			}
		})
	}
}

func TestRotateQuarterMovesCubes(t *testing.T) {
	sc := field(12, 24)
	p := spawn(t, sc, shape.I, geom.V(5.5, 10.5), instantClock{})
	p.Rotate()

	want := []geom.Vec3{geom.V(5, 12), geom.V(5, 11), geom.V(5, 10), geom.V(5, 9)}
	samePoints(t, "blocks", p.Positions(), want)
	if n := len(p.Probes().Subset(probe.Left)); n != 4 {
		t.Errorf("vertical I has %d left probes, expected 4", n)
	}
	if n := len(p.Probes().Subset(probe.Down)); n != 1 {
		t.Errorf("vertical I has %d down probes, expected 1", n)
	}
}

func TestConcurrentMotionIsDropped(t *testing.T) {
	sc := field(10, 20)
	clock := newGateClock()
	p := spawn(t, sc, shape.T, geom.V(4, 10), clock)

	done := make(chan bool)
	go func() { done <- p.Move(geom.V(1, 0)) }()
	<-clock.arrived

	if p.State() != Moving {
		t.Fatalf("State() = %s during Move, expected moving", p.State())
	}
	if p.Rotate() {
		t.Error("Rotate should be dropped while moving")
	}
	if p.Move(geom.V(-1, 0)) {
		t.Error("Move should be dropped while moving")
	}
	if p.Descend() {
		t.Error("Descend should be dropped while moving")
	}
	// Queries stay usable mid-motion.
	_ = p.HasSupportBelow()

	clock.open()
	if !<-done {
		t.Error("first Move should report it ran")
	}
	if p.State() != Idle {
		t.Errorf("State() = %s after Move, expected idle", p.State())
	}
	if p.Orientation() != 0 {
		t.Error("dropped Rotate must not turn the piece")
	}
}

func TestBlockedLeftRight(t *testing.T) {
	sc := field(10, 20)
	p := spawn(t, sc, shape.O, geom.V(4.5, 10.5), instantClock{})

	if p.BlockedLeft() || p.BlockedRight() || p.HasSupportBelow() {
		t.Fatal("piece in open space should not be blocked")
	}

	sc.Update(func() { sc.Attach(scene.NewBlock(geom.V(3, 10), core.ColorBlue, scene.KindCell)) })
	if !p.BlockedLeft() {
		t.Error("BlockedLeft should see the block in the adjacent cell")
	}
	if p.BlockedRight() {
		t.Error("BlockedRight should stay false")
	}

	sc.Update(func() { sc.Attach(scene.NewBlock(geom.V(6, 11), core.ColorBlue, scene.KindCell)) })
	if !p.BlockedRight() {
		t.Error("BlockedRight should see the block in the adjacent cell")
	}
}

func TestBlockedByWalls(t *testing.T) {
	sc := field(10, 20)
	p := spawn(t, sc, shape.I, geom.V(2.5, 10.5), instantClock{})
	if !p.BlockedLeft() {
		t.Error("I at the left wall should be blocked left")
	}
	p.Move(geom.V(4, 0))
	if !p.BlockedRight() {
		t.Error("I at the right wall should be blocked right")
	}
}

func TestMarkersDoNotBlock(t *testing.T) {
	sc := field(10, 20)
	p := spawn(t, sc, shape.O, geom.V(4.5, 10.5), instantClock{})
	sc.Update(func() { sc.AddMarker(scene.NewBlock(geom.V(4, 9), core.ColorGray, scene.KindMarker)) })
	if p.HasSupportBelow() {
		t.Error("markers are not collidable")
	}
}

func TestDescendLandsOnFloor(t *testing.T) {
	sc := field(10, 20)
	p := spawn(t, sc, shape.O, geom.V(4.5, 17.5), instantClock{})

	if !p.Descend() {
		t.Fatal("Descend should run on an idle piece")
	}
	if !p.HasSupportBelow() {
		t.Error("piece should rest on the floor")
	}
	for _, pos := range p.Positions() {
		if pos.Y() < 0.9 || pos.Y() > 2.1 {
			t.Errorf("cube at %v, expected rows 1..2", pos)
		}
	}
}

func TestDescendStopsOnStack(t *testing.T) {
	sc := field(10, 20)
	sc.Update(func() {
		for y := 1; y <= 5; y++ {
			sc.Attach(scene.NewBlock(geom.V(4, float64(y)), core.ColorBlue, scene.KindCell))
		}
	})
	p := spawn(t, sc, shape.O, geom.V(4.5, 17.5), instantClock{})
	p.Descend()

	for _, pos := range p.Positions() {
		if pos.X() == 4 && pos.Y() < 6 {
			t.Errorf("cube at %v fell into the stack", pos)
		}
	}
	if got := p.Positions()[2].Y(); got != 6 {
		t.Errorf("bottom-left cube at y=%v, expected 6", got)
	}
}

func overlapsFrame(sc *scene.Scene, p *Piece) bool {
	overlap := false
	positions := p.Positions()
	sc.View(func() {
		for _, pos := range positions {
			for _, b := range sc.Frame().Blocks() {
				if b.Bounds().Overlaps(geom.UnitBox(pos)) {
					overlap = true
				}
			}
		}
	})
	return overlap
}

// Rotation does not look for room. A T hugging the left wall swings its
// stem into the wall column.
func TestRotateDoesNotCheckCollisions(t *testing.T) {
	sc := field(10, 20)
	p := spawn(t, sc, shape.T, geom.V(2, 10), instantClock{})
	p.Rotate()
	p.Move(geom.V(-1, 0))
	if overlapsFrame(sc, p) {
		t.Fatal("setup: piece should be clear of the wall")
	}

	p.Rotate()
	if !overlapsFrame(sc, p) {
		t.Error("expected the unchecked rotation to overlap the wall")
	}
}

// A horizontal I lying on the floor swings one cube into the floor when
// rotated. Its down probes then start below the floor, so nothing reports
// support any more. Descend would never return here.
func TestRotateIntoFloorLosesSupport(t *testing.T) {
	sc := field(10, 20)
	p := spawn(t, sc, shape.I, geom.V(4.5, 1.5), instantClock{})
	if !p.HasSupportBelow() {
		t.Fatal("setup: a flat I on the floor should be supported")
	}

	p.Rotate()
	if !overlapsFrame(sc, p) {
		t.Fatal("expected the rotation to push a cube into the floor")
	}
	lowest := p.Positions()[0].Y()
	for _, pos := range p.Positions() {
		lowest = min(lowest, pos.Y())
	}
	if lowest > 0.1 {
		t.Errorf("lowest cube at y=%v, expected the floor row 0", lowest)
	}
	if p.HasSupportBelow() {
		t.Error("a piece inside the floor should see no support below")
	}
}

func TestFlattenHandsBlocksToScene(t *testing.T) {
	sc := field(10, 20)
	p := spawn(t, sc, shape.L, geom.V(4, 10), instantClock{})
	p.Rotate()

	blocks := p.Flatten()
	if len(blocks) != 4 {
		t.Fatalf("Flatten returned %d blocks, expected 4", len(blocks))
	}
	sc.View(func() {
		if sc.Active() != nil {
			t.Error("active group should be cleared")
		}
		if len(sc.Loose()) != 4 {
			t.Errorf("loose pool has %d blocks, expected 4", len(sc.Loose()))
		}
		for _, b := range blocks {
			if b.Parent() != nil {
				t.Error("flattened block still has a parent group")
			}
			pos := b.Position()
			if pos != geom.SnapGrid(pos, 1) {
				t.Errorf("flattened block off grid at %v", pos)
			}
		}
	})
}
