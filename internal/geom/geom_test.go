package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayIntersectBox(t *testing.T) {
	tests := []struct {
		name     string
		ray      Ray
		box      Box
		wantHit  bool
		wantDist float64
	}{
		{
			name:     "adjacent cell below",
			ray:      Ray{Origin: V(3, 5), Direction: Down, Far: 1},
			box:      UnitBox(V(3, 4)),
			wantHit:  true,
			wantDist: 0.5,
		},
		{
			name:    "two cells below is out of range",
			ray:     Ray{Origin: V(3, 5), Direction: Down, Far: 1},
			box:     UnitBox(V(3, 3)),
			wantHit: false,
		},
		{
			name:    "diagonal neighbour",
			ray:     Ray{Origin: V(3, 5), Direction: Down, Far: 1},
			box:     UnitBox(V(4, 4)),
			wantHit: false,
		},
		{
			name:    "origin inside box",
			ray:     Ray{Origin: V(3, 5), Direction: Down, Far: 1},
			box:     UnitBox(V(3, 5)),
			wantHit: false,
		},
		{
			name:    "box behind ray",
			ray:     Ray{Origin: V(3, 5), Direction: Down, Far: 1},
			box:     UnitBox(V(3, 6)),
			wantHit: false,
		},
		{
			name:     "row probe reaches last interior column",
			ray:      Ray{Origin: V(0, 5), Direction: Right, Far: 9},
			box:      UnitBox(V(8, 5)),
			wantHit:  true,
			wantDist: 7.5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist, hit := tc.ray.IntersectBox(tc.box)
			assert.Equal(t, tc.wantHit, hit)
			if tc.wantHit {
				assert.InDelta(t, tc.wantDist, dist, Epsilon)
			}
		})
	}
}

func TestRotateAbout(t *testing.T) {
	p := RotateAbout(V(-1.5, -0.5), V(0, 0), -math.Pi/2)
	assert.True(t, ApproxEqual(V(-0.5, 1.5), p), "got %v", p)

	// Ten -9 degree steps compose into one quarter turn.
	q := V(2, 1)
	pivot := V(1, 1)
	for range 10 {
		q = RotateAbout(q, pivot, -math.Pi/20)
	}
	assert.True(t, ApproxEqual(V(1, 0), q), "got %v", q)
}

func TestApproxEqualNearZero(t *testing.T) {
	assert.True(t, ApproxEqual(V(1, 0), V(1, 1e-16)))
	assert.True(t, ApproxEqual(V(0, 0), V(-Epsilon/2, Epsilon/2)))
	assert.False(t, ApproxEqual(V(0, 0), V(0, 2*Epsilon)))
	assert.False(t, ApproxEqual(V(1000, 0), V(1000+1e-6, 0)))
}

func TestSnapAxis(t *testing.T) {
	assert.Equal(t, Down, SnapAxis(Vec3{1e-16, -0.9999999, 0}))
	assert.Equal(t, Right, SnapAxis(Vec3{0.7072, 0.7070, 0}))
	assert.Equal(t, Vec3{}, SnapAxis(Vec3{}))
}

func TestSnapRotation(t *testing.T) {
	require.Equal(t, 1, QuarterTurns(-math.Pi/2+1e-12))
	assert.Equal(t, 0, QuarterTurns(-2*math.Pi))
	assert.Equal(t, 3, QuarterTurns(math.Pi/2))
	assert.InDelta(t, -math.Pi, SnapRotation(-math.Pi-1e-10), 0)
	assert.InDelta(t, 0.0, SnapRotation(-2*math.Pi+1e-10), 0)
}

func TestBox(t *testing.T) {
	b := UnitBox(V(2, 3))
	assert.True(t, b.Contains(V(2.5, 3.5)))
	assert.False(t, b.Contains(V(2.6, 3)))
	assert.True(t, ApproxEqual(V(2, 3), b.Center()))
	assert.True(t, b.Overlaps(UnitBox(V(2.5, 3))))
	assert.False(t, b.Overlaps(UnitBox(V(3, 3))))
}
