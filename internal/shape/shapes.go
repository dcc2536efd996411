package shape

import (
	"github.com/vovakirdan/raytris/internal/geom"
	"github.com/vovakirdan/raytris/internal/probe"
)

const (
	up    = probe.Up
	down  = probe.Down
	left  = probe.Left
	right = probe.Right
)

func cell(x, y float64, faces ...probe.Direction) Cell {
	return Cell{Offset: geom.V(x, y), Probes: faces}
}

// centerX is the column the shape origin is centered on, shifted by dx.
func centerX(width int, dx float64) float64 {
	return float64(width/2) + dx
}

func init() {
	Register(Definition{
		Kind: I,
		Cells: [4]Cell{
			cell(-1.5, -0.5, up, down, left),
			cell(-0.5, -0.5, up, down),
			cell(0.5, -0.5, up, down),
			cell(1.5, -0.5, up, down, right),
		},
		Spawn: func(w, h int) geom.Vec3 {
			return geom.V(centerX(w, -0.5), float64(h)-1.5)
		},
	})

	Register(Definition{
		Kind: J,
		Cells: [4]Cell{
			cell(-1, 1, up, left, right),
			cell(-1, 0, down, left),
			cell(0, 0, up, down),
			cell(1, 0, up, down, right),
		},
		Spawn: func(w, h int) geom.Vec3 {
			return geom.V(centerX(w, -1), float64(h)-3)
		},
	})

	Register(Definition{
		Kind: L,
		Cells: [4]Cell{
			cell(1, 1, up, left, right),
			cell(-1, 0, up, left, down),
			cell(0, 0, up, down),
			cell(1, 0, down, right),
		},
		Spawn: func(w, h int) geom.Vec3 {
			return geom.V(centerX(w, -1), float64(h)-3)
		},
	})

	Register(Definition{
		Kind: O,
		Cells: [4]Cell{
			cell(-0.5, 0.5, up, left),
			cell(0.5, 0.5, up, right),
			cell(-0.5, -0.5, down, left),
			cell(0.5, -0.5, down, right),
		},
		Spawn: func(w, h int) geom.Vec3 {
			return geom.V(centerX(w, -0.5), float64(h)-2.5)
		},
	})

	Register(Definition{
		Kind: T,
		Cells: [4]Cell{
			cell(0, 1, up, left, right),
			cell(-1, 0, up, down, left),
			cell(0, 0, down),
			cell(1, 0, up, down, right),
		},
		Spawn: func(w, h int) geom.Vec3 {
			return geom.V(centerX(w, -1), float64(h)-3)
		},
	})
}
