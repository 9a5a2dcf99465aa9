package mesh

import "cogentcore.org/core/math32"

// Transform maps a node's local space to the root's space: p' = p*Scale + Offset.
type Transform struct {
	Offset math32.Vector3
	Scale  math32.Vector3
}

// Apply maps a local point.
func (t Transform) Apply(p math32.Vector3) math32.Vector3 {
	return math32.Vec3(p.X*t.Scale.X+t.Offset.X, p.Y*t.Scale.Y+t.Offset.Y, p.Z*t.Scale.Z+t.Offset.Z)
}

// then composes t with a child placed at pos/scale inside t's space.
func (t Transform) then(pos, scale math32.Vector3) Transform {
	return Transform{
		Offset: t.Apply(pos),
		Scale:  math32.Vec3(t.Scale.X*scale.X, t.Scale.Y*scale.Y, t.Scale.Z*scale.Z),
	}
}

// Meshes calls fn for every visible geometry under n (n's own transform included),
// with the transform into the space n lives in. Used by renderers to flatten a group.
func (n *Node) Meshes(fn func(geom *Geometry, world Transform)) {
	identity := Transform{Scale: math32.Vec3(1, 1, 1)}
	n.meshes(identity, fn)
}

func (n *Node) meshes(parent Transform, fn func(geom *Geometry, world Transform)) {
	if !n.Visible {
		return
	}
	world := parent.then(n.Position, n.Scale)
	if n.Geometry != nil && len(n.Geometry.Positions) > 0 {
		fn(n.Geometry, world)
	}
	for _, c := range n.Children {
		c.meshes(world, fn)
	}
}

// EachLayer is Meshes grouped by n's direct children: fn also receives the child the geometry
// belongs to, so renderers can style each layer.
func (n *Node) EachLayer(fn func(layer *Node, geom *Geometry, world Transform)) {
	if !n.Visible {
		return
	}
	root := Transform{Scale: math32.Vec3(1, 1, 1)}.then(n.Position, n.Scale)
	for _, c := range n.Children {
		c.meshes(root, func(g *Geometry, w Transform) { fn(c, g, w) })
	}
}
