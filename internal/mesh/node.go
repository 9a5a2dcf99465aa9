package mesh

import (
	"strings"

	"cogentcore.org/core/math32"
)

// Geometry is an indexed triangle list. Positions are in the owning node's local space.
// Geometry is shared between clones and must be treated as read-only once decoded.
type Geometry struct {
	Positions []math32.Vector3
	Indices   []uint32
}

// Bounds returns the axis-aligned box of all positions. Empty geometry returns an empty box.
func (g *Geometry) Bounds() math32.Box3 {
	b := math32.B3Empty()
	if g == nil {
		return b
	}
	for _, p := range g.Positions {
		b.ExpandByPoint(p)
	}
	return b
}

// TriangleCount is the number of triangles described by Indices, or by Positions when unindexed.
func (g *Geometry) TriangleCount() int {
	if g == nil {
		return 0
	}
	if len(g.Indices) > 0 {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Triangle returns the corners of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c math32.Vector3) {
	if len(g.Indices) > 0 {
		return g.Positions[g.Indices[3*i]], g.Positions[g.Indices[3*i+1]], g.Positions[g.Indices[3*i+2]]
	}
	return g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]
}

// Handle is what the stacking code needs from a loaded model.
type Handle interface {
	Bounds() math32.Box3
	Clone() *Node
	Traverse(fn func(n *Node) bool)
	HideByName(substrings ...string) int
}

// Node is one element of a model's scene graph: an optional geometry plus children,
// placed in its parent by Position and a per-axis Scale. RotationY is a display-only
// spin around the vertical axis and does not take part in bounds.
type Node struct {
	Name      string
	Visible   bool
	Position  math32.Vector3
	Scale     math32.Vector3
	RotationY float32
	Geometry  *Geometry
	Children  []*Node
}

var _ Handle = (*Node)(nil)

// New returns a visible node with identity transform and the given geometry (may be nil).
func New(name string, geom *Geometry) *Node {
	return &Node{
		Name:     name,
		Visible:  true,
		Scale:    math32.Vec3(1, 1, 1),
		Geometry: geom,
	}
}

// NewGroup returns an empty visible node meant to hold children.
func NewGroup(name string) *Node {
	return New(name, nil)
}

// Add appends children in order.
func (n *Node) Add(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Traverse visits n and its descendants depth-first, parents before children.
// Returning false from fn skips that node's subtree.
func (n *Node) Traverse(fn func(n *Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Clone copies the node tree. Geometry is shared, not copied.
func (n *Node) Clone() *Node {
	c := *n
	c.Children = make([]*Node, len(n.Children))
	for i, ch := range n.Children {
		c.Children[i] = ch.Clone()
	}
	return &c
}

// HideByName marks every node whose name contains one of substrings (case-insensitive)
// as not visible. Returns how many nodes were hidden. Empty substrings are ignored.
func (n *Node) HideByName(substrings ...string) int {
	var needles []string
	for _, s := range substrings {
		if s != "" {
			needles = append(needles, strings.ToLower(s))
		}
	}
	if len(needles) == 0 {
		return 0
	}
	hidden := 0
	n.Traverse(func(c *Node) bool {
		name := strings.ToLower(c.Name)
		for _, s := range needles {
			if strings.Contains(name, s) {
				if c.Visible {
					hidden++
				}
				c.Visible = false
				break
			}
		}
		return true
	})
	return hidden
}

// LocalBounds is the box of the visible geometry of n and its descendants in n's own space.
// Hidden nodes and their subtrees are excluded.
func (n *Node) LocalBounds() math32.Box3 {
	b := math32.B3Empty()
	if !n.Visible {
		return b
	}
	if gb := n.Geometry.Bounds(); !gb.IsEmpty() {
		b.ExpandByBox(gb)
	}
	for _, c := range n.Children {
		if cb := c.Bounds(); !cb.IsEmpty() {
			b.ExpandByBox(cb)
		}
	}
	return b
}

// Bounds is LocalBounds placed in the parent's space (scaled, then translated).
func (n *Node) Bounds() math32.Box3 {
	lb := n.LocalBounds()
	if lb.IsEmpty() {
		return lb
	}
	return transformBox(lb, n.Position, n.Scale)
}

// Dispose drops geometry references across the tree so the decoded buffers can be collected.
// Calling it twice is harmless.
func (n *Node) Dispose() {
	n.Traverse(func(c *Node) bool {
		c.Geometry = nil
		return true
	})
	n.Children = nil
}

// transformBox scales b per axis then translates it. Negative scales swap min and max.
func transformBox(b math32.Box3, pos, scale math32.Vector3) math32.Box3 {
	out := math32.B3Empty()
	out.ExpandByPoint(math32.Vec3(b.Min.X*scale.X+pos.X, b.Min.Y*scale.Y+pos.Y, b.Min.Z*scale.Z+pos.Z))
	out.ExpandByPoint(math32.Vec3(b.Max.X*scale.X+pos.X, b.Max.Y*scale.Y+pos.Y, b.Max.Z*scale.Z+pos.Z))
	return out
}
