package probe

import "github.com/vovakirdan/raytris/internal/geom"

// Set is the bundle of probes rigidly attached to one body.
//
// Probes are kept in four role slots indexed by Direction. A probe's
// slot, not its direction vector, decides which query it answers, so
// after a quarter turn the slots must be relabeled.
type Set struct {
	slots [4][]*Probe
	all   []*Probe
	debug bool
}

// NewSet creates an empty set. With debug on every probe gets a helper.
func NewSet(debug bool) *Set {
	return &Set{debug: debug}
}

// Add creates a probe in role dir, pointing along dir.
func (s *Set) Add(dir Direction, origin geom.Vec3, far float64) *Probe {
	p := New(origin, dir.Vector(), far)
	if s.debug {
		p.Attach()
	}
	s.slots[dir] = append(s.slots[dir], p)
	s.all = append(s.all, p)
	return p
}

// Subset returns the probes currently playing role dir.
func (s *Set) Subset(dir Direction) []*Probe {
	return s.slots[dir]
}

// All returns every probe in the set.
func (s *Set) All() []*Probe {
	return s.all
}

// Count returns the number of probes.
func (s *Set) Count() int {
	return len(s.all)
}

// Translate shifts every probe origin by d.
func (s *Set) Translate(d geom.Vec3) {
	for _, p := range s.all {
		p.Ray.Origin = p.Ray.Origin.Add(d)
	}
	s.refresh()
}

// RotateAroundPivot turns every direction by angle about z and swings
// every origin around pivot by the same angle.
func (s *Set) RotateAroundPivot(pivot geom.Vec3, angle float64) {
	for _, p := range s.all {
		p.Ray.Direction = geom.RotateZ(p.Ray.Direction, angle)
		p.Ray.Origin = geom.RotateAbout(p.Ray.Origin, pivot, angle)
	}
	s.refresh()
}

// SnapToAxis removes the drift left by incremental rotation from every
// direction vector.
func (s *Set) SnapToAxis() {
	for _, p := range s.all {
		p.Ray.Direction = geom.SnapAxis(p.Ray.Direction)
	}
	s.refresh()
}

// RelabelAfterRotation reassigns roles after a -90 degree turn: the old
// up probes become right, right become down, down become left and left
// become up.
func (s *Set) RelabelAfterRotation() {
	var next [4][]*Probe
	for i := range s.slots {
		next[(i+1)%4] = s.slots[i]
	}
	s.slots = next
}

// Aligned reports whether every probe points along its role.
func (s *Set) Aligned() bool {
	for _, dir := range Directions {
		for _, p := range s.slots[dir] {
			if !geom.ApproxEqual(p.Ray.Direction, dir.Vector()) {
				return false
			}
		}
	}
	return true
}

// Intersects reports whether any probe in role dir enters a collidable
// solid within its range.
func (s *Set) Intersects(dir Direction, solids []geom.Solid) bool {
	for _, p := range s.slots[dir] {
		if Touches(p.Ray, solids) {
			return true
		}
	}
	return false
}

// Helpers returns the debug helpers of all probes. Empty unless debug.
func (s *Set) Helpers() []*Helper {
	if !s.debug {
		return nil
	}
	out := make([]*Helper, 0, len(s.all))
	for _, p := range s.all {
		out = append(out, p.helper)
	}
	return out
}

func (s *Set) refresh() {
	if !s.debug {
		return
	}
	for _, p := range s.all {
		p.helper.Refresh()
	}
}
