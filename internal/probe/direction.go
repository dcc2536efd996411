// Package probe implements collision probes: short rays attached to the
// faces of a piece, or long rays spanning a playfield row, cast against
// the solid objects of the scene.
package probe

import "github.com/vovakirdan/raytris/internal/geom"

// Direction names one of the four in-plane probe roles.
// The order is clockwise so a quarter turn is a shift by one slot.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists every role in slot order.
var Directions = [4]Direction{Up, Right, Down, Left}

// Vector returns the unit vector of the direction.
func (d Direction) Vector() geom.Vec3 {
	switch d {
	case Up:
		return geom.Up
	case Right:
		return geom.Right
	case Down:
		return geom.Down
	case Left:
		return geom.Left
	default:
		return geom.Vec3{}
	}
}

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}
