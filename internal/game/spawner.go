package game

import (
	"math/rand"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/shape"
)

// Spawner picks the next shape and color uniformly at random.
type Spawner struct {
	rng     *rand.Rand
	kinds   []shape.Kind
	palette []core.Color
}

// NewSpawner creates a spawner over every registered shape. An empty
// palette falls back to red.
func NewSpawner(seed int64, palette []core.Color) *Spawner {
	if len(palette) == 0 {
		palette = []core.Color{core.ColorRed}
	}
	return &Spawner{
		rng:     rand.New(rand.NewSource(seed)),
		kinds:   shape.Kinds(),
		palette: palette,
	}
}

// Next returns the shape and color of the next piece.
func (s *Spawner) Next() (shape.Kind, core.Color) {
	kind := s.kinds[s.rng.Intn(len(s.kinds))]
	color := s.palette[s.rng.Intn(len(s.palette))]
	return kind, color
}
