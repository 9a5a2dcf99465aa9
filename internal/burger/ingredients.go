package burger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IngredientType is one of the fixed model categories.
type IngredientType string

const (
	BottomBun IngredientType = "panabajo"
	Patty     IngredientType = "carne"
	Cheese    IngredientType = "queso"
	Lettuce   IngredientType = "lechuga"
	Tomatoes  IngredientType = "tomates"
	TopBun    IngredientType = "panarriba"
)

// Types lists every ingredient type, bottom to top as they are usually stacked.
var Types = []IngredientType{BottomBun, Patty, Cheese, Lettuce, Tomatoes, TopBun}

// Valid reports whether t is one of Types.
func (t IngredientType) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// ParseType accepts a type name in any case.
func ParseType(s string) (IngredientType, error) {
	t := IngredientType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown ingredient %q", s)
	}
	return t, nil
}

// Ingredient is one layer. ID is unique within a burger.
type Ingredient struct {
	ID   string
	Type IngredientType
}

// BaseID is the bottom bun every burger starts with. It cannot be removed.
const BaseID = "base-panabajo"

func base() Ingredient {
	return Ingredient{ID: BaseID, Type: BottomBun}
}

// Ingredients is the ordered layer list, bottom first. The top bun, once added, stays last
// and appears at most once. Safe for concurrent use; OnChange runs after every change
// with a snapshot, outside the lock.
type Ingredients struct {
	mu       sync.Mutex
	items    []Ingredient
	OnChange func([]Ingredient)
	newID    func(IngredientType) string
}

// NewIngredients returns a burger holding only the base bun.
func NewIngredients() *Ingredients {
	return &Ingredients{
		items: []Ingredient{base()},
		newID: func(t IngredientType) string { return string(t) + "-" + uuid.NewString() },
	}
}

// Add inserts a layer of type t and returns it. Layers go just under the top bun when there is
// one. Adding a second top bun is a no-op that returns ok false.
func (b *Ingredients) Add(t IngredientType) (ing Ingredient, ok bool) {
	b.mu.Lock()
	top := b.indexOf(TopBun)
	if t == TopBun && top >= 0 {
		b.mu.Unlock()
		return Ingredient{}, false
	}
	ing = Ingredient{ID: b.newID(t), Type: t}
	if top >= 0 {
		b.items = append(b.items[:top], append([]Ingredient{ing}, b.items[top:]...)...)
	} else {
		b.items = append(b.items, ing)
	}
	snap := b.snapshot()
	b.mu.Unlock()
	b.changed(snap)
	return ing, true
}

// Remove deletes the layer with id. The base bun and unknown ids are left alone (false).
func (b *Ingredients) Remove(id string) bool {
	if id == BaseID {
		return false
	}
	b.mu.Lock()
	idx := -1
	for i, it := range b.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return false
	}
	b.items = append(b.items[:idx], b.items[idx+1:]...)
	snap := b.snapshot()
	b.mu.Unlock()
	b.changed(snap)
	return true
}

// Reset goes back to the base bun only.
func (b *Ingredients) Reset() {
	b.mu.Lock()
	b.items = []Ingredient{base()}
	snap := b.snapshot()
	b.mu.Unlock()
	b.changed(snap)
}

// List returns a copy of the layers, bottom first.
func (b *Ingredients) List() []Ingredient {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Ingredients) snapshot() []Ingredient {
	out := make([]Ingredient, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Ingredients) indexOf(t IngredientType) int {
	for i, it := range b.items {
		if it.Type == t {
			return i
		}
	}
	return -1
}

func (b *Ingredients) changed(snap []Ingredient) {
	if b.OnChange != nil {
		b.OnChange(snap)
	}
}

// Key identifies a layer sequence; two lists with the same key build the same burger.
func Key(items []Ingredient) string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return strings.Join(ids, "|")
}
