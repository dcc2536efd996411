package playfield

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/geom"
	"github.com/vovakirdan/raytris/internal/scene"
)

type instantClock struct{ sleeps int }

func (c *instantClock) Now() time.Time        { return time.Time{} }
func (c *instantClock) Sleep(d time.Duration) { c.sleeps++ }
func (c *instantClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func newField(t *testing.T, w, h int) (*scene.Scene, *Playfield, *instantClock) {
	t.Helper()
	sc := scene.New()
	clock := &instantClock{}
	pf, err := New(sc, w, h, Options{Clock: clock})
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", w, h, err)
	}
	return sc, pf, clock
}

// fillRow places settled blocks in row y at columns 1..n.
func fillRow(sc *scene.Scene, y, n int) []*scene.Block {
	var blocks []*scene.Block
	sc.Update(func() {
		for x := 1; x <= n; x++ {
			b := scene.NewBlock(geom.V(float64(x), float64(y)), core.ColorBlue, scene.KindCell)
			sc.Attach(b)
			blocks = append(blocks, b)
		}
	})
	return blocks
}

func TestNewRejectsSmallField(t *testing.T) {
	tests := []struct {
		w, h int
		ok   bool
	}{
		{10, 20, true},
		{6, 6, true},
		{5, 20, false},
		{10, 5, false},
	}

	for _, tt := range tests {
		_, err := New(scene.New(), tt.w, tt.h, Options{})
		if tt.ok && err != nil {
			t.Errorf("New(%d, %d) error = %v", tt.w, tt.h, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d, %d) error = %v, expected ErrInvalidSize", tt.w, tt.h, err)
		}
	}
}

func TestBorderLayout(t *testing.T) {
	sc, pf, _ := newField(t, 10, 20)

	var border []*scene.Block
	sc.View(func() { border = sc.Frame().Blocks() })

	expected := 2*(20-1) + (10 - 2) + 10
	if len(border) != expected {
		t.Fatalf("border has %d blocks, expected %d", len(border), expected)
	}

	seen := make(map[[2]int]bool)
	for _, b := range border {
		pos := b.Position()
		x, y := int(pos.X()), int(pos.Y())
		if seen[[2]int{x, y}] {
			t.Errorf("duplicate border block at (%d, %d)", x, y)
		}
		seen[[2]int{x, y}] = true
		if x >= 1 && x <= pf.Width()-2 && y >= 1 && y <= pf.Height()-2 {
			t.Errorf("border block at (%d, %d) is inside the field", x, y)
		}
		if !b.Collidable() || b.Kind() != scene.KindBorder {
			t.Errorf("border block at (%d, %d) should be a collidable border", x, y)
		}
	}
}

func TestRowProbes(t *testing.T) {
	_, pf, _ := newField(t, 10, 20)

	if pf.Rows() != 18 {
		t.Fatalf("Rows() = %d, expected 18", pf.Rows())
	}
	for row := 1; row <= pf.Rows(); row++ {
		r := pf.RowProbe(row).Ray
		if !geom.ApproxEqual(r.Origin, geom.V(0, float64(row))) {
			t.Errorf("row %d origin = %v", row, r.Origin)
		}
		if !geom.ApproxEqual(r.Direction, geom.Right) || r.Far != 9 {
			t.Errorf("row %d ray = %+v, expected +x with range 9", row, r)
		}
	}
	if pf.RowProbe(0) != nil || pf.RowProbe(19) != nil {
		t.Error("RowProbe outside the interior should be nil")
	}
}

func TestEmptyFieldHasNoCompletedRows(t *testing.T) {
	_, pf, _ := newField(t, 10, 20)
	if rows := pf.CompletedRows(); len(rows) != 0 {
		t.Errorf("CompletedRows() = %v on an empty field", rows)
	}
}

func TestFindCompletedRowsThreshold(t *testing.T) {
	sc, pf, _ := newField(t, 10, 20)
	fillRow(sc, 3, 8)
	fillRow(sc, 4, 7)

	rows := pf.CompletedRows()
	if len(rows) != 1 || rows[0] != 3 {
		t.Errorf("CompletedRows() = %v, expected [3]", rows)
	}
}

func TestFindCompletedRowsAscending(t *testing.T) {
	sc, pf, _ := newField(t, 8, 12)
	fillRow(sc, 6, 6)
	fillRow(sc, 2, 6)
	fillRow(sc, 4, 6)

	rows := pf.CompletedRows()
	expected := []int{2, 4, 6}
	if len(rows) != len(expected) {
		t.Fatalf("CompletedRows() = %v, expected %v", rows, expected)
	}
	for i := range expected {
		if rows[i] != expected[i] {
			t.Errorf("CompletedRows()[%d] = %d, expected %d", i, rows[i], expected[i])
		}
	}
}

func TestDebugMarkersDoNotCount(t *testing.T) {
	sc := scene.New()
	pf, err := New(sc, 6, 8, Options{Clock: &instantClock{}, Debug: true})
	if err != nil {
		t.Fatal(err)
	}
	if rows := pf.CompletedRows(); len(rows) != 0 {
		t.Errorf("CompletedRows() = %v with only markers", rows)
	}
	sc.View(func() {
		if n := len(pf.Segments()); n != pf.Rows() {
			t.Errorf("Segments() = %d, expected %d", n, pf.Rows())
		}
	})
}

func TestClearRow(t *testing.T) {
	sc, pf, _ := newField(t, 10, 20)
	fillRow(sc, 5, 8)
	keep := fillRow(sc, 6, 3)

	var removed int
	sc.Update(func() { removed = pf.ClearRow(5, sc.Cells()) })

	if removed != 8 {
		t.Errorf("ClearRow removed %d blocks, expected 8", removed)
	}
	sc.View(func() {
		if len(sc.Loose()) != len(keep) {
			t.Errorf("%d blocks left, expected %d", len(sc.Loose()), len(keep))
		}
	})
}

func TestCollapseAbove(t *testing.T) {
	sc, pf, clock := newField(t, 10, 20)
	below := fillRow(sc, 2, 4)
	above := append(fillRow(sc, 6, 5), fillRow(sc, 9, 2)...)

	moved := pf.CollapseAbove(4)
	if moved != len(above) {
		t.Errorf("CollapseAbove moved %d blocks, expected %d", moved, len(above))
	}
	if clock.sleeps != DefaultTiming().Steps {
		t.Errorf("collapse paused %d times, expected %d", clock.sleeps, DefaultTiming().Steps)
	}

	sc.View(func() {
		for _, b := range below {
			if b.Position().Y() != 2 {
				t.Errorf("block below moved to %v", b.Position())
			}
		}
		for _, b := range above {
			pos := b.Position()
			if pos.Y() != 5 && pos.Y() != 8 {
				t.Errorf("block above at %v, expected one row lower on the grid", pos)
			}
		}
	})
}

func TestCollapseAboveNothing(t *testing.T) {
	sc, pf, clock := newField(t, 10, 20)
	fillRow(sc, 1, 3)
	if moved := pf.CollapseAbove(1); moved != 0 {
		t.Errorf("CollapseAbove moved %d blocks, expected 0", moved)
	}
	if clock.sleeps != 0 {
		t.Errorf("empty collapse paused %d times", clock.sleeps)
	}
}
