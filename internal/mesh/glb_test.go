package mesh

import (
	"bytes"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitSlab builds a document with a 2x1x2 slab mesh used twice: once as "Bun" and once,
// shifted up by 3, as a child named "Sesame_Seeds".
func unitSlab(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{-1, 0, -1}, {1, 0, -1}, {1, 1, 1}, {-1, 1, 1},
	})
	ind := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "slab",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(ind),
			Attributes: gltf.Attribute{gltf.POSITION: pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "Bun", Mesh: gltf.Index(0), Children: []uint32{1}},
		{Name: "Sesame_Seeds", Mesh: gltf.Index(0), Translation: [3]float32{0, 3, 0}},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	return doc
}

func TestFromDocumentBakesTransforms(t *testing.T) {
	root, err := FromDocument(unitSlab(t))
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	bun := root.Children[0]
	assert.Equal(t, "Bun", bun.Name)
	require.Len(t, bun.Children, 1)
	assert.Equal(t, 2, bun.Geometry.TriangleCount())

	b := root.Bounds()
	assert.InDelta(t, 0, b.Min.Y, 1e-6)
	assert.InDelta(t, 4, b.Max.Y, 1e-6)

	root.HideByName("seed")
	assert.InDelta(t, 1, root.Bounds().Max.Y, 1e-6)
}

func TestDecodeBinaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(unitSlab(t)))

	root, err := Decode(&buf)
	require.NoError(t, err)
	assert.InDelta(t, 2, root.Bounds().Size().X, 1e-6)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a model")))
	assert.Error(t, err)
}

func TestFromDocumentWithoutScene(t *testing.T) {
	_, err := FromDocument(&gltf.Document{})
	assert.ErrorIs(t, err, ErrEmptyModel)
}

func TestFromDocumentRejectsMalformedReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *gltf.Document)
	}{
		{"position accessor out of range", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION] = 7
		}},
		{"index accessor out of range", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = gltf.Index(9)
		}},
		{"vertex index out of range", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 9}))
		}},
		{"partial triangle", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1}))
		}},
		{"node index out of range", func(doc *gltf.Document) {
			doc.Nodes[0].Children = []uint32{5}
		}},
		{"mesh index out of range", func(doc *gltf.Document) {
			doc.Nodes[0].Mesh = gltf.Index(3)
		}},
		{"truncated buffer", func(doc *gltf.Document) {
			doc.Buffers[0].Data = doc.Buffers[0].Data[:4]
		}},
		{"accessor offset past buffer view", func(doc *gltf.Document) {
			doc.Accessors[0].ByteOffset = 1 << 20
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := unitSlab(t)
			tt.mutate(doc)
			root, err := FromDocument(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "mesh: ")
			assert.Nil(t, root)
		})
	}
}
