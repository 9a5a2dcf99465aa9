package mesh

import (
	"errors"
	"fmt"
	"io"

	"cogentcore.org/core/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrEmptyModel is returned by Decode when a document has no scene to instantiate.
var ErrEmptyModel = errors.New("mesh: model has no scene nodes")

// Decode reads a binary (.glb) or JSON glTF document and returns its default scene as a node tree.
// Node names and hierarchy are kept; every node transform is baked into that node's vertex
// positions, so returned nodes all have identity transforms. Only triangle primitives are read.
func Decode(r io.Reader) (*Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("mesh: decode: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument converts an already parsed glTF document. Dangling references and
// out-of-range vertex indices are reported as errors.
func FromDocument(doc *gltf.Document) (root *Node, err error) {
	// modeler slices buffers without checking every offset.
	defer func() {
		if p := recover(); p != nil {
			root, err = nil, fmt.Errorf("mesh: malformed document: %v", p)
		}
	}()
	if len(doc.Scenes) == 0 {
		return nil, ErrEmptyModel
	}
	var sceneIdx uint32
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		sceneIdx = *doc.Scene
	}
	sc := doc.Scenes[sceneIdx]
	if len(sc.Nodes) == 0 {
		return nil, ErrEmptyModel
	}
	root = NewGroup(sc.Name)
	d := decoder{doc: doc, meshes: make(map[uint32]*Geometry)}
	for _, idx := range sc.Nodes {
		n, err := d.node(idx, identity4(), 0)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

// maxDepth guards against cyclic node references in malformed files.
const maxDepth = 64

type decoder struct {
	doc    *gltf.Document
	meshes map[uint32]*Geometry // local-space geometry per glTF mesh index
}

func (d *decoder) node(idx uint32, parent mat4, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("mesh: node hierarchy deeper than %d", maxDepth)
	}
	if int(idx) >= len(d.doc.Nodes) {
		return nil, fmt.Errorf("mesh: node index %d out of range", idx)
	}
	gn := d.doc.Nodes[idx]
	world := parent.mul(localMatrix(gn))
	n := NewGroup(gn.Name)
	if gn.Mesh != nil {
		geom, err := d.mesh(*gn.Mesh)
		if err != nil {
			return nil, err
		}
		n.Geometry = world.transform(geom)
	}
	for _, c := range gn.Children {
		child, err := d.node(c, world, depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// mesh merges all triangle primitives of a glTF mesh into one geometry.
func (d *decoder) mesh(idx uint32) (*Geometry, error) {
	if g, ok := d.meshes[idx]; ok {
		return g, nil
	}
	if int(idx) >= len(d.doc.Meshes) {
		return nil, fmt.Errorf("mesh: mesh index %d out of range", idx)
	}
	geom := &Geometry{}
	for _, prim := range d.doc.Meshes[idx].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if int(posIdx) >= len(d.doc.Accessors) {
			return nil, fmt.Errorf("mesh: mesh %d: position accessor %d out of range", idx, posIdx)
		}
		pos, err := modeler.ReadPosition(d.doc, d.doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh: read positions of mesh %d: %w", idx, err)
		}
		base := uint32(len(geom.Positions))
		for _, p := range pos {
			geom.Positions = append(geom.Positions, math32.Vec3(p[0], p[1], p[2]))
		}
		if prim.Indices != nil {
			if int(*prim.Indices) >= len(d.doc.Accessors) {
				return nil, fmt.Errorf("mesh: mesh %d: index accessor %d out of range", idx, *prim.Indices)
			}
			ind, err := modeler.ReadIndices(d.doc, d.doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh: read indices of mesh %d: %w", idx, err)
			}
			if len(ind)%3 != 0 {
				return nil, fmt.Errorf("mesh: mesh %d: %d indices is not a triangle list", idx, len(ind))
			}
			for _, i := range ind {
				if int(i) >= len(pos) {
					return nil, fmt.Errorf("mesh: mesh %d: vertex index %d out of range (%d vertices)", idx, i, len(pos))
				}
				geom.Indices = append(geom.Indices, base+i)
			}
		} else {
			for i := range pos {
				geom.Indices = append(geom.Indices, base+uint32(i))
			}
		}
	}
	d.meshes[idx] = geom
	return geom, nil
}

// mat4 is a column-major 4x4 matrix, the layout glTF uses.
type mat4 [16]float64

func identity4() mat4 {
	return mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func (a mat4) mul(b mat4) mat4 {
	var m mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[k*4+row] * b[col*4+k]
			}
			m[col*4+row] = s
		}
	}
	return m
}

func (a mat4) point(p math32.Vector3) math32.Vector3 {
	x, y, z := float64(p.X), float64(p.Y), float64(p.Z)
	return math32.Vec3(
		float32(a[0]*x+a[4]*y+a[8]*z+a[12]),
		float32(a[1]*x+a[5]*y+a[9]*z+a[13]),
		float32(a[2]*x+a[6]*y+a[10]*z+a[14]),
	)
}

func (a mat4) transform(g *Geometry) *Geometry {
	if a == identity4() {
		return g
	}
	out := &Geometry{Positions: make([]math32.Vector3, len(g.Positions)), Indices: g.Indices}
	for i, p := range g.Positions {
		out.Positions[i] = a.point(p)
	}
	return out
}

// localMatrix is the node's explicit matrix when set, otherwise T*R*S.
func localMatrix(n *gltf.Node) mat4 {
	if n.Matrix != ([16]float32{}) {
		var m mat4
		for i, v := range n.Matrix {
			m[i] = float64(v)
		}
		if m != identity4() {
			return m
		}
	}
	t := n.TranslationOrDefault()
	q := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	x, y, z, w := float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])
	sx, sy, sz := float64(s[0]), float64(s[1]), float64(s[2])
	return mat4{
		(1 - 2*(y*y+z*z)) * sx, (2 * (x*y + z*w)) * sx, (2 * (x*z - y*w)) * sx, 0,
		(2 * (x*y - z*w)) * sy, (1 - 2*(x*x+z*z)) * sy, (2 * (y*z + x*w)) * sy, 0,
		(2 * (x*z + y*w)) * sz, (2 * (y*z - x*w)) * sz, (1 - 2*(x*x+y*y)) * sz, 0,
		float64(t[0]), float64(t[1]), float64(t[2]), 1,
	}
}
