package stack

import (
	"cogentcore.org/core/math32"

	"burgerstack/internal/mesh"
)

// AdvanceTable says how far the pile grows per ingredient, as a fraction of the
// ingredient's own height. Thin layers use a small factor so the next layer overlaps them.
type AdvanceTable struct {
	Factors map[string]float32
	// Default applies to types missing from Factors.
	Default float32
	// MinAdvance is the smallest step, so zero-height layers still keep their order.
	MinAdvance float32
}

// DefaultAdvanceTable is the tuned table for the burger models.
func DefaultAdvanceTable() AdvanceTable {
	return AdvanceTable{
		Factors: map[string]float32{
			"panabajo":  0.75,
			"panarriba": 0.75,
			"carne":     0.55,
			"queso":     0.35,
			"lechuga":   0.28,
			"tomates":   0.3,
		},
		Default:    0.4,
		MinAdvance: 0.001,
	}
}

// Factor returns the advance factor for typ.
func (t AdvanceTable) Factor(typ string) float32 {
	if f, ok := t.Factors[typ]; ok {
		return f
	}
	return t.Default
}

// Advance is the vertical step after placing a layer of the given type and height.
func (t AdvanceTable) Advance(typ string, height, gap float32) float32 {
	return math32.Max(height*t.Factor(typ), t.MinAdvance) + gap
}

// Assemble places items bottom to top in order inside a new group. Item i sits at the running
// offset, which then grows by table.Advance. The group's children keep the input order.
func Assemble(items []Normalized, table AdvanceTable, gap float32) *mesh.Node {
	group := mesh.NewGroup("stack")
	var y float32
	for _, it := range items {
		it.Node.Position.Y += y
		group.Add(it.Node)
		y += table.Advance(it.Type, it.Height, gap)
	}
	return group
}

// Offsets returns where each child of group starts vertically, in group space and child order.
func Offsets(group *mesh.Node) []float32 {
	out := make([]float32, len(group.Children))
	for i, c := range group.Children {
		if b := c.Bounds(); !b.IsEmpty() {
			out[i] = b.Min.Y
		} else {
			out[i] = c.Position.Y
		}
	}
	return out
}
