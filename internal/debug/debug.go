package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"burgerstack/internal/burger"
	"burgerstack/internal/mesh"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// refreshEvery limits how often the text is rebuilt, in frames.
	refreshEvery = 30
)

// Overlay draws runtime figures at the top right. Everything is hidden by default.
type Overlay struct {
	ShowFPS   bool
	ShowMem   bool
	ShowStats bool

	frame uint32
	lines []string
	mem   runtime.MemStats
}

// New returns an overlay with nothing shown.
func New() *Overlay {
	return &Overlay{}
}

// Toggle flips one overlay by name ("fps", "mem" or "stats") and reports whether the name was known.
func (o *Overlay) Toggle(name string) bool {
	switch name {
	case "fps":
		o.ShowFPS = !o.ShowFPS
	case "mem":
		o.ShowMem = !o.ShowMem
	case "stats":
		o.ShowStats = !o.ShowStats
	default:
		return false
	}
	o.lines = nil
	return true
}

// Draw renders the enabled figures. b is the build on screen and may be nil.
func (o *Overlay) Draw(b *burger.Build) {
	o.frame++
	if o.lines == nil || o.frame%refreshEvery == 0 {
		o.lines = o.text(b)
	}
	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	for _, line := range o.lines {
		w := rl.MeasureText(line, fontSize)
		rl.DrawText(line, screenW-w-padding, y, fontSize, rl.Green)
		y += lineHeight
	}
}

func (o *Overlay) text(b *burger.Build) []string {
	lines := []string{}
	if o.ShowFPS {
		lines = append(lines, fmt.Sprintf("FPS: %d", rl.GetFPS()))
	}
	if o.ShowMem {
		runtime.ReadMemStats(&o.mem)
		lines = append(lines, fmt.Sprintf("Mem: %.2f MiB", float64(o.mem.Alloc)/(1024*1024)))
	}
	if o.ShowStats && b != nil && b.Group != nil {
		tris := 0
		b.Group.Meshes(func(g *mesh.Geometry, _ mesh.Transform) { tris += g.TriangleCount() })
		lines = append(lines, fmt.Sprintf("Layers: %d  Tris: %d", len(b.Group.Children), tris))
	}
	return lines
}
