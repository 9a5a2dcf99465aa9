package burger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(items []Ingredient) []IngredientType {
	out := make([]IngredientType, len(items))
	for i, it := range items {
		out[i] = it.Type
	}
	return out
}

func TestNewIngredientsStartsWithBase(t *testing.T) {
	b := NewIngredients()
	assert.Equal(t, []Ingredient{{ID: BaseID, Type: BottomBun}}, b.List())
}

func TestAddKeepsTopBunLast(t *testing.T) {
	b := NewIngredients()
	_, ok := b.Add(Patty)
	require.True(t, ok)
	_, ok = b.Add(TopBun)
	require.True(t, ok)
	cheese, ok := b.Add(Cheese)
	require.True(t, ok)
	_, ok = b.Add(TopBun)
	assert.False(t, ok)

	assert.Equal(t, []IngredientType{BottomBun, Patty, Cheese, TopBun}, types(b.List()))
	assert.Contains(t, cheese.ID, "queso-")
}

func TestRemove(t *testing.T) {
	b := NewIngredients()
	patty, _ := b.Add(Patty)
	assert.False(t, b.Remove(BaseID))
	assert.False(t, b.Remove("missing"))
	assert.True(t, b.Remove(patty.ID))
	assert.Equal(t, []IngredientType{BottomBun}, types(b.List()))
}

func TestResetAndOnChange(t *testing.T) {
	b := NewIngredients()
	var calls [][]Ingredient
	b.OnChange = func(items []Ingredient) { calls = append(calls, items) }
	b.Add(Lettuce)
	b.Add(Tomatoes)
	b.Reset()

	require.Len(t, calls, 3)
	assert.Len(t, calls[1], 3)
	assert.Equal(t, []IngredientType{BottomBun}, types(calls[2]))
}

func TestListIsACopy(t *testing.T) {
	b := NewIngredients()
	l := b.List()
	l[0].ID = "changed"
	assert.Equal(t, BaseID, b.List()[0].ID)
}

func TestIDsUnique(t *testing.T) {
	b := NewIngredients()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ing, _ := b.Add(Cheese)
		require.False(t, seen[ing.ID])
		seen[ing.ID] = true
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType(" Queso ")
	require.NoError(t, err)
	assert.Equal(t, Cheese, got)
	_, err = ParseType("pepinillo")
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "a|b", Key([]Ingredient{{ID: "a"}, {ID: "b"}}))
	assert.Equal(t, "", Key(nil))
}
