// Package stack lays out ingredient models into one vertical pile and frames a camera on it.
// All functions here are synchronous geometry on the caller's goroutine.
package stack

import (
	"cogentcore.org/core/math32"

	"burgerstack/internal/mesh"
)

// NormalizeOptions controls Normalize.
type NormalizeOptions struct {
	// HideSubstrings hides sub-parts whose name contains any of these (case-insensitive).
	HideSubstrings []string
}

// Normalized is a model ready to stack: resting on y=0 and centered on x=0, z=0.
type Normalized struct {
	Type   string
	Node   *mesh.Node
	Height float32
}

// Normalize hides decorative parts, then moves node so its bounds sit on y=0 with the
// horizontal center at the origin. node must be a private clone; it is modified in place.
// A node without visible geometry stays where it is with Height 0.
func Normalize(typ string, node *mesh.Node, opts NormalizeOptions) Normalized {
	if len(opts.HideSubstrings) > 0 {
		node.HideByName(opts.HideSubstrings...)
	}
	b := node.Bounds()
	if b.IsEmpty() {
		node.Position = math32.Vector3{}
		return Normalized{Type: typ, Node: node}
	}
	center := b.Center()
	node.Position.X -= center.X
	node.Position.Z -= center.Z
	node.Position.Y -= b.Min.Y
	return Normalized{Type: typ, Node: node, Height: b.Size().Y}
}
