// Package scene holds the live objects of a game: the playfield border,
// settled blocks, the falling piece and decorative helpers.
//
// There is no occupancy grid. A cell is occupied when a collidable block
// sits there, and collision is answered by casting rays at the objects.
package scene

import (
	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/geom"
)

// Kind tells the renderer and the row probes what a block is for.
type Kind int

const (
	KindCell   Kind = iota // part of a piece or a settled block
	KindBorder             // playfield wall, floor or ceiling
	KindMarker             // debug furniture, never collidable
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCell:
		return "cell"
	case KindBorder:
		return "border"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Block is a unit cube. While it belongs to a Group its position is
// relative to the group; once loose it is a world position.
type Block struct {
	local      geom.Vec3
	color      core.Color
	kind       Kind
	collidable bool
	parent     *Group
	scene      *Scene
}

// NewBlock creates a detached collidable block.
func NewBlock(pos geom.Vec3, color core.Color, kind Kind) *Block {
	return &Block{
		local:      pos,
		color:      color,
		kind:       kind,
		collidable: kind != KindMarker,
	}
}

// Position returns the block center in world space.
func (b *Block) Position() geom.Vec3 {
	if b.parent == nil {
		return b.local
	}
	return b.parent.toWorld(b.local)
}

// LocalPosition returns the position relative to the owning group.
func (b *Block) LocalPosition() geom.Vec3 {
	return b.local
}

// Bounds returns the world-space box of the cube.
func (b *Block) Bounds() geom.Box {
	return geom.UnitBox(b.Position())
}

// Collidable reports whether probes may hit this block.
func (b *Block) Collidable() bool {
	return b.collidable
}

// Color returns the block color.
func (b *Block) Color() core.Color {
	return b.color
}

// Kind returns the block kind.
func (b *Block) Kind() Kind {
	return b.kind
}

// Parent returns the owning group, or nil for a loose block.
func (b *Block) Parent() *Group {
	return b.parent
}

// Translate moves the block by d in its own frame of reference.
func (b *Block) Translate(d geom.Vec3) {
	b.local = b.local.Add(d)
}

// Snap rounds the block position to the nearest multiple of step.
func (b *Block) Snap(step float64) {
	b.local = geom.SnapGrid(b.local, step)
}

// Group is a rigid set of blocks sharing one transform: a translation
// and a rotation about the z axis.
type Group struct {
	Name     string
	Position geom.Vec3
	Rotation float64 // radians about z

	blocks []*Block
	scene  *Scene
}

// NewGroup creates an empty group at the origin.
func NewGroup(name string) *Group {
	return &Group{Name: name}
}

// Add makes b a child of g. Its current position becomes a local one.
func (g *Group) Add(b *Block) {
	b.detach()
	b.parent = g
	b.scene = g.scene
	g.blocks = append(g.blocks, b)
}

// Blocks returns the children of g.
func (g *Group) Blocks() []*Block {
	return g.blocks
}

// Translate moves the whole group by d.
func (g *Group) Translate(d geom.Vec3) {
	g.Position = g.Position.Add(d)
}

// RotateZ turns the group by angle radians about its own position.
func (g *Group) RotateZ(angle float64) {
	g.Rotation += angle
}

func (g *Group) toWorld(local geom.Vec3) geom.Vec3 {
	return geom.RotateZ(local, g.Rotation).Add(g.Position)
}

func (g *Group) remove(b *Block) {
	for i, c := range g.blocks {
		if c == b {
			g.blocks = append(g.blocks[:i], g.blocks[i+1:]...)
			return
		}
	}
}

// detach unlinks the block from its group or the loose pool.
func (b *Block) detach() {
	if b.parent != nil {
		b.parent.remove(b)
		b.parent = nil
		return
	}
	if b.scene != nil {
		b.scene.removeLoose(b)
	}
}
