package mesh

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) *Geometry {
	return &Geometry{Positions: []math32.Vector3{
		math32.Vec3(minX, minY, minZ),
		math32.Vec3(maxX, maxY, maxZ),
		math32.Vec3(minX, maxY, maxZ),
	}}
}

func TestBoundsAppliesTransform(t *testing.T) {
	n := New("bun", box(-1, 0, -1, 1, 2, 1))
	n.Position = math32.Vec3(0, 3, 0)
	n.Scale = math32.Vec3(2, 0.5, 2)

	b := n.Bounds()
	assert.InDelta(t, -2, b.Min.X, 1e-6)
	assert.InDelta(t, 3, b.Min.Y, 1e-6)
	assert.InDelta(t, 4, b.Max.Y, 1e-6)
	assert.InDelta(t, 2, b.Max.Z, 1e-6)
}

func TestBoundsIncludesChildrenAndSkipsHidden(t *testing.T) {
	root := NewGroup("root")
	a := New("patty", box(0, 0, 0, 1, 1, 1))
	b := New("Sesame_Seeds", box(0, 5, 0, 1, 6, 1))
	root.Add(a, b)

	assert.InDelta(t, 6, root.Bounds().Max.Y, 1e-6)

	hidden := root.HideByName("seed")
	assert.Equal(t, 1, hidden)
	assert.InDelta(t, 1, root.Bounds().Max.Y, 1e-6)
}

func TestHideByNameCaseInsensitiveAndIgnoresEmpty(t *testing.T) {
	root := NewGroup("root")
	root.Add(New("SEMILLA_top", nil), New("bread", nil))
	assert.Equal(t, 0, root.HideByName(""))
	assert.Equal(t, 1, root.HideByName("seed", "semilla"))
	assert.False(t, root.Children[0].Visible)
	assert.True(t, root.Children[1].Visible)
}

func TestEmptyNodeHasEmptyBounds(t *testing.T) {
	assert.True(t, NewGroup("empty").Bounds().IsEmpty())
	assert.True(t, New("flat", &Geometry{}).Bounds().IsEmpty())
}

func TestCloneIsIndependentButSharesGeometry(t *testing.T) {
	geom := box(0, 0, 0, 1, 1, 1)
	src := NewGroup("src")
	src.Add(New("child", geom))

	c := src.Clone()
	c.Position = math32.Vec3(5, 5, 5)
	c.Children[0].Visible = false

	assert.Equal(t, math32.Vector3{}, src.Position)
	assert.True(t, src.Children[0].Visible)
	assert.Same(t, geom, c.Children[0].Geometry)
}

func TestTraverseSkipsSubtree(t *testing.T) {
	root := NewGroup("root")
	skip := NewGroup("skip")
	skip.Add(New("inner", nil))
	root.Add(skip, New("leaf", nil))

	var seen []string
	root.Traverse(func(n *Node) bool {
		seen = append(seen, n.Name)
		return n.Name != "skip"
	})
	assert.Equal(t, []string{"root", "skip", "leaf"}, seen)
}

func TestMeshesComposesTransforms(t *testing.T) {
	root := NewGroup("root")
	root.Scale = math32.Vec3(2, 2, 2)
	child := New("c", box(0, 0, 0, 1, 1, 1))
	child.Position = math32.Vec3(0, 1, 0)
	root.Add(child, New("hidden", box(0, 0, 0, 1, 1, 1)))
	root.Children[1].Visible = false

	var worlds []Transform
	root.Meshes(func(g *Geometry, w Transform) { worlds = append(worlds, w) })
	require.Len(t, worlds, 1)
	top := worlds[0].Apply(math32.Vec3(1, 1, 1))
	assert.InDelta(t, 4, top.Y, 1e-6)
	assert.InDelta(t, 2, top.X, 1e-6)
}

func TestEachLayerReportsOwningChild(t *testing.T) {
	root := NewGroup("stack")
	root.Position = math32.Vec3(0, -1, 0)
	bun := NewGroup("bun")
	bun.Add(New("top", box(0, 0, 0, 1, 1, 1)), New("seeds", box(0, 1, 0, 1, 2, 1)))
	patty := New("patty", box(0, 0, 0, 1, 1, 1))
	patty.Position = math32.Vec3(0, 2, 0)
	root.Add(bun, patty)

	var names []string
	var lows []float32
	root.EachLayer(func(layer *Node, g *Geometry, w Transform) {
		names = append(names, layer.Name)
		lows = append(lows, w.Apply(g.Positions[0]).Y)
	})
	assert.Equal(t, []string{"bun", "bun", "patty"}, names)
	assert.InDeltaSlice(t, []float32{-1, 0, 1}, lows, 1e-6)
}

func TestDisposeIsIdempotent(t *testing.T) {
	n := NewGroup("g")
	n.Add(New("c", box(0, 0, 0, 1, 1, 1)))
	n.Dispose()
	n.Dispose()
	assert.Nil(t, n.Children)
	assert.True(t, n.Bounds().IsEmpty())
}

func TestGeometryTriangles(t *testing.T) {
	g := &Geometry{
		Positions: []math32.Vector3{math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0)},
		Indices:   []uint32{0, 1, 2},
	}
	require.Equal(t, 1, g.TriangleCount())
	_, b, _ := g.Triangle(0)
	assert.Equal(t, math32.Vec3(1, 0, 0), b)
}
