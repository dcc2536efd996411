// Package geom provides the small amount of 3D geometry the game needs:
// vectors, axis-aligned unit boxes and rays with a bounded range.
// Vector math is delegated to mathgl so every package shares one Vec3.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a point or direction in world space.
type Vec3 = mgl64.Vec3

// Epsilon is the tolerance used when comparing coordinates.
const Epsilon = 1e-9

// Axis-aligned unit directions. The playfield lives in the z=0 plane.
var (
	Up    = Vec3{0, 1, 0}
	Down  = Vec3{0, -1, 0}
	Left  = Vec3{-1, 0, 0}
	Right = Vec3{1, 0, 0}
	AxisZ = Vec3{0, 0, 1}
)

// V is shorthand for building a vector in the z=0 plane.
func V(x, y float64) Vec3 {
	return Vec3{x, y, 0}
}

// RotateZ rotates v by angle radians about the z axis through the origin.
func RotateZ(v Vec3, angle float64) Vec3 {
	return mgl64.Rotate3DZ(angle).Mul3x1(v)
}

// RotateAbout rotates p by angle radians about the z axis through pivot.
// The point is expressed relative to the pivot, rotated, then re-offset.
func RotateAbout(p, pivot Vec3, angle float64) Vec3 {
	return RotateZ(p.Sub(pivot), angle).Add(pivot)
}

// SnapAxis returns the axis-aligned unit vector closest to v.
// The zero vector snaps to itself.
func SnapAxis(v Vec3) Vec3 {
	best := -1
	bestAbs := 0.0
	for i := 0; i < 3; i++ {
		if a := math.Abs(v[i]); a > bestAbs {
			best, bestAbs = i, a
		}
	}
	if best < 0 {
		return Vec3{}
	}
	var out Vec3
	if v[best] < 0 {
		out[best] = -1
	} else {
		out[best] = 1
	}
	return out
}

// SnapGrid rounds every component of v to the nearest multiple of step.
func SnapGrid(v Vec3, step float64) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = math.Round(v[i]/step) * step
	}
	return out
}

// ApproxEqual reports whether a and b are within Epsilon on every axis.
// The tolerance is absolute so values near zero compare like any other.
func ApproxEqual(a, b Vec3) bool {
	for i := range 3 {
		if math.Abs(a[i]-b[i]) > Epsilon {
			return false
		}
	}
	return true
}

// QuarterTurns returns angle expressed as a count of -90 degree turns in
// [0, 4), rounding to the nearest quarter.
func QuarterTurns(angle float64) int {
	q := int(math.Round(-angle / (math.Pi / 2)))
	return ((q % 4) + 4) % 4
}

// SnapRotation maps a rotation about z to the nearest multiple of -90
// degrees in (-2π, 0].
func SnapRotation(angle float64) float64 {
	return -float64(QuarterTurns(angle)) * (math.Pi / 2)
}
