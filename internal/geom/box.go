package geom

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// UnitBox returns the bounds of a unit cube centered at c.
func UnitBox(c Vec3) Box {
	h := Vec3{0.5, 0.5, 0.5}
	return Box{Min: c.Sub(h), Max: c.Add(h)}
}

// Center returns the midpoint of the box.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether p lies inside or on the surface of the box.
func (b Box) Contains(p Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether two boxes share interior volume.
func (b Box) Overlaps(o Box) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] <= o.Min[i]+Epsilon || o.Max[i] <= b.Min[i]+Epsilon {
			return false
		}
	}
	return true
}

// Solid is anything a probe can be cast against.
type Solid interface {
	Bounds() Box
	Collidable() bool
}
