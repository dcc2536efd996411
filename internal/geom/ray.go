package geom

import "math"

// Ray is a half-line with a bounded range, used as a collision probe.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // unit length
	Far       float64
}

// End returns the point at the far end of the ray.
func (r Ray) End() Vec3 {
	return r.Origin.Add(r.Direction.Mul(r.Far))
}

// IntersectBox returns the distance along the ray at which it enters b.
//
// Only entering hits count: a ray whose origin lies inside the box sees
// the box from behind and reports no hit, so a probe never collides with
// the cube it is attached to. Hits beyond Far are ignored.
func (r Ray) IntersectBox(b Box) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Direction[i]
		if math.Abs(d) < Epsilon {
			if o < b.Min[i] || o > b.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (b.Min[i] - o) / d
		t2 := (b.Max[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmin < 0 || tmin > r.Far {
		return 0, false
	}
	return tmin, true
}
