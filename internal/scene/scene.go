package scene

import (
	"strconv"
	"strings"
	"sync"

	"cogentcore.org/core/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"burgerstack/internal/burger"
	"burgerstack/internal/config"
	"burgerstack/internal/mesh"
	"burgerstack/internal/stack"
)

const (
	gridExtent     = 10
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 40
	gridMajorAlpha = 90
	overlayFont    = 20
	overlayPadding = 12
)

// layerColors tints each layer by the ingredient type its name starts with.
var layerColors = map[burger.IngredientType]rl.Color{
	burger.BottomBun: rl.NewColor(214, 150, 72, 255),
	burger.TopBun:    rl.NewColor(224, 160, 80, 255),
	burger.Patty:     rl.NewColor(110, 62, 40, 255),
	burger.Cheese:    rl.NewColor(250, 200, 50, 255),
	burger.Lettuce:   rl.NewColor(90, 180, 70, 255),
	burger.Tomatoes:  rl.NewColor(220, 60, 50, 255),
}

var (
	defaultLayerColor = rl.NewColor(200, 200, 200, 255)
	errorColor        = rl.NewColor(239, 68, 68, 255)
	statusColor       = rl.NewColor(203, 213, 225, 255)
	lightDir          = math32.Vec3(0.4, 1, 0.6).Normal()
)

// Scene draws the current burger with the camera its build was fitted with.
// Builds arrive from any goroutine through Install and are swapped in on the render thread,
// which also disposes the build it replaces.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool
	AutoRotate  bool
	RotateSpeed float32
	Background  rl.Color

	mu         sync.Mutex
	pending    *burger.Build
	hasPending bool
	status     string

	current *burger.Build
	angle   float32
}

// New returns an empty scene configured from prefs.
func New(p config.Prefs) *Scene {
	s := &Scene{
		GridVisible: p.GridVisible,
		AutoRotate:  p.AutoRotate,
		RotateSpeed: p.RotateSpeed,
		Background:  ParseColor(p.Background, rl.Black),
	}
	s.setCamera(stack.NewCamera(45))
	return s
}

// Install queues b to be shown from the next Update. Safe from any goroutine.
func (s *Scene) Install(b *burger.Build) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasPending && s.pending != nil && s.pending != b && s.pending.Group != nil {
		s.pending.Group.Dispose()
	}
	s.pending = b
	s.hasPending = true
}

// SetStatus sets the line drawn at the top left (dice result, signed-in user, ...).
func (s *Scene) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
}

// Update swaps in a pending build and advances auto-rotation. Render thread only.
func (s *Scene) Update() {
	s.mu.Lock()
	next, ok := s.pending, s.hasPending
	s.pending, s.hasPending = nil, false
	s.mu.Unlock()

	if ok {
		if s.current != nil && s.current.Group != nil && (next == nil || s.current.Group != next.Group) {
			s.current.Group.Dispose()
		}
		s.current = next
		if next != nil && next.Err == nil {
			s.setCamera(next.Camera)
		}
	}
	if s.AutoRotate {
		s.angle += s.RotateSpeed
	}
}

func (s *Scene) setCamera(c stack.Camera) {
	s.Camera = rl.Camera3D{
		Position:   rl.NewVector3(c.Position.X, c.Position.Y, c.Position.Z),
		Target:     rl.NewVector3(c.Target.X, c.Target.Y, c.Target.Z),
		Up:         rl.NewVector3(c.Up.X, c.Up.Y, c.Up.Z),
		Fovy:       c.FOV,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the burger (or the build error) and the status line.
// Call between BeginDrawing and EndDrawing.
func (s *Scene) Draw() {
	rl.ClearBackground(s.Background)
	rl.BeginMode3D(s.Camera)
	floor := float32(0)
	if s.current != nil && s.current.Group != nil {
		if b := s.current.Group.Bounds(); !b.IsEmpty() {
			floor = b.Min.Y
		}
	}
	if s.GridVisible {
		drawGrid(floor)
	}
	if s.current != nil && s.current.Group != nil {
		rl.PushMatrix()
		rl.Rotatef(s.angle*rl.Rad2deg, 0, 1, 0)
		drawGroup(s.current.Group)
		rl.PopMatrix()
	}
	rl.EndMode3D()

	if s.current != nil && s.current.Err != nil {
		drawCentered(s.current.Err.Error(), errorColor)
	}
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	if status != "" {
		rl.DrawText(status, overlayPadding, overlayPadding, overlayFont, statusColor)
	}
}

// Current returns the build on screen. Render thread only.
func (s *Scene) Current() *burger.Build {
	return s.current
}

// Close disposes whatever the scene still holds.
func (s *Scene) Close() {
	s.mu.Lock()
	if s.pending != nil && s.pending.Group != nil {
		s.pending.Group.Dispose()
	}
	s.pending, s.hasPending = nil, false
	s.mu.Unlock()
	if s.current != nil && s.current.Group != nil {
		s.current.Group.Dispose()
	}
	s.current = nil
}

func drawGroup(group *mesh.Node) {
	group.EachLayer(func(layer *mesh.Node, g *mesh.Geometry, w mesh.Transform) {
		base := colorFor(layer.Name)
		for i := 0; i < g.TriangleCount(); i++ {
			a, b, c := g.Triangle(i)
			a, b, c = w.Apply(a), w.Apply(b), w.Apply(c)
			rl.DrawTriangle3D(vec(a), vec(b), vec(c), shade(base, a, b, c))
		}
	})
}

func shade(base rl.Color, a, b, c math32.Vector3) rl.Color {
	n := b.Sub(a).Cross(c.Sub(a)).Normal()
	lambert := math32.Abs(n.Dot(lightDir))
	return rl.ColorBrightness(base, -0.45*(1-lambert))
}

func colorFor(name string) rl.Color {
	if name == burger.BaseID {
		return layerColors[burger.BottomBun]
	}
	typ, _, _ := strings.Cut(name, "-")
	if c, ok := layerColors[burger.IngredientType(typ)]; ok {
		return c
	}
	return defaultLayerColor
}

func vec(v math32.Vector3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

func drawCentered(text string, col rl.Color) {
	w := rl.MeasureText(text, overlayFont)
	x := (int32(rl.GetScreenWidth()) - w) / 2
	y := (int32(rl.GetScreenHeight()) - overlayFont) / 2
	rl.DrawText(text, x, y, overlayFont, col)
}

// drawGrid draws the XZ grid at height y, under the burger.
func drawGrid(y float32) {
	minor := rl.NewColor(148, 163, 184, gridMinorAlpha)
	major := rl.NewColor(148, 163, 184, gridMajorAlpha)
	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), y, -gridExtent
		end.X, end.Y, end.Z = float32(i), y, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, y, float32(i)
		end.X, end.Y, end.Z = gridExtent, y, float32(i)
		rl.DrawLine3D(start, end, c)
	}
}

// ParseColor reads "#RRGGBB" or "#RRGGBBAA". Anything else gives fallback.
func ParseColor(hex string, fallback rl.Color) rl.Color {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 && len(h) != 8 {
		return fallback
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return fallback
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return rl.GetColor(uint(v))
}
