package probe

import "github.com/vovakirdan/raytris/internal/geom"

// PieceRange is how far a piece probe looks: exactly one neighbouring cell.
const PieceRange = 1.0

// Probe is a single collision ray with an optional debug helper.
type Probe struct {
	Ray    geom.Ray
	helper *Helper
}

// New creates a probe. The origin is copied.
func New(origin, direction geom.Vec3, far float64) *Probe {
	return &Probe{Ray: geom.Ray{Origin: origin, Direction: direction, Far: far}}
}

// Helper returns the debug helper, or nil when debugging is off.
func (p *Probe) Helper() *Helper {
	return p.helper
}

// Attach gives the probe a debug helper and refreshes it.
func (p *Probe) Attach() *Helper {
	p.helper = &Helper{probe: p}
	p.helper.Refresh()
	return p.helper
}

// Hits returns the collidable solids the ray enters within its range.
func Hits[T geom.Solid](r geom.Ray, solids []T) []T {
	var out []T
	for _, s := range solids {
		if !s.Collidable() {
			continue
		}
		if _, ok := r.IntersectBox(s.Bounds()); ok {
			out = append(out, s)
		}
	}
	return out
}

// Touches reports whether the ray enters any collidable solid.
func Touches[T geom.Solid](r geom.Ray, solids []T) bool {
	for _, s := range solids {
		if !s.Collidable() {
			continue
		}
		if _, ok := r.IntersectBox(s.Bounds()); ok {
			return true
		}
	}
	return false
}

// Helper is the visual stand-in of a probe. It holds a copy of the ray
// segment and goes stale until Refresh is called after a transform.
type Helper struct {
	probe    *Probe
	From, To geom.Vec3
}

// Refresh copies the current ray geometry into the helper.
func (h *Helper) Refresh() {
	h.From = h.probe.Ray.Origin
	h.To = h.probe.Ray.End()
}
