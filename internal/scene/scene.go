package scene

import (
	"sync"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/geom"
)

// Scene is the root of the object graph.
//
// All reads and writes go through View and Update; the other methods
// assume the caller already holds the lock through one of them.
type Scene struct {
	mu sync.RWMutex

	frame   *Group
	active  *Group
	loose   []*Block
	markers []*Block
}

// New creates an empty scene with an empty frame group.
func New() *Scene {
	s := &Scene{}
	s.frame = NewGroup("frame")
	s.frame.scene = s
	return s
}

// Update runs fn with exclusive access to the scene.
func (s *Scene) Update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// View runs fn with shared read access to the scene.
func (s *Scene) View(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// Frame returns the group holding the playfield border.
func (s *Scene) Frame() *Group {
	return s.frame
}

// Active returns the group of the falling piece, or nil.
func (s *Scene) Active() *Group {
	return s.active
}

// SetActive installs g as the falling piece group. Passing nil clears it.
func (s *Scene) SetActive(g *Group) {
	if s.active != nil {
		s.active.scene = nil
	}
	s.active = g
	if g == nil {
		return
	}
	g.scene = s
	for _, b := range g.blocks {
		b.scene = s
	}
}

// AddMarker adds a non-collidable decoration.
func (s *Scene) AddMarker(b *Block) {
	b.collidable = false
	b.kind = KindMarker
	b.scene = s
	s.markers = append(s.markers, b)
}

// Attach moves b into the loose pool, keeping its world position.
func (s *Scene) Attach(b *Block) {
	if b.parent == nil && b.scene == s && s.hasLoose(b) {
		return
	}
	world := b.Position()
	b.detach()
	b.local = world
	b.scene = s
	s.loose = append(s.loose, b)
}

// Remove takes b out of the scene entirely.
func (s *Scene) Remove(b *Block) {
	b.detach()
	b.scene = nil
}

// Loose returns the settled blocks that no longer belong to a group.
func (s *Scene) Loose() []*Block {
	return s.loose
}

// Cells returns every piece or settled block: the loose pool followed by
// the falling piece, if any. Border and markers are excluded.
func (s *Scene) Cells() []*Block {
	out := make([]*Block, 0, len(s.loose)+4)
	out = append(out, s.loose...)
	if s.active != nil {
		out = append(out, s.active.blocks...)
	}
	return out
}

// Objects returns every block in the scene, collidable or not.
// Callers filter on Collidable.
func (s *Scene) Objects() []geom.Solid {
	out := make([]geom.Solid, 0, len(s.frame.blocks)+len(s.loose)+len(s.markers)+4)
	for _, b := range s.frame.blocks {
		out = append(out, b)
	}
	for _, b := range s.loose {
		out = append(out, b)
	}
	if s.active != nil {
		for _, b := range s.active.blocks {
			out = append(out, b)
		}
	}
	for _, b := range s.markers {
		out = append(out, b)
	}
	return out
}

func (s *Scene) hasLoose(b *Block) bool {
	for _, c := range s.loose {
		if c == b {
			return true
		}
	}
	return false
}

func (s *Scene) removeLoose(b *Block) {
	for i, c := range s.loose {
		if c == b {
			s.loose = append(s.loose[:i], s.loose[i+1:]...)
			return
		}
	}
}

// BlockView is a render-ready copy of one block.
type BlockView struct {
	Position geom.Vec3
	Color    core.Color
	Kind     Kind
}

// Segment is a line drawn by the debug probe helpers.
type Segment struct {
	From, To geom.Vec3
}

// Snapshot is an immutable copy of the scene for the renderer.
type Snapshot struct {
	Border  []BlockView
	Settled []BlockView
	Active  []BlockView
	Markers []BlockView
	Probes  []Segment
}

// Snapshot copies the current state. The caller holds at least a read lock.
func (s *Scene) Snapshot() Snapshot {
	var snap Snapshot
	snap.Border = views(s.frame.blocks)
	snap.Settled = views(s.loose)
	if s.active != nil {
		snap.Active = views(s.active.blocks)
	}
	snap.Markers = views(s.markers)
	return snap
}

func views(blocks []*Block) []BlockView {
	out := make([]BlockView, len(blocks))
	for i, b := range blocks {
		out[i] = BlockView{Position: b.Position(), Color: b.color, Kind: b.kind}
	}
	return out
}
