package graphics

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrRenderContext means the window or its GL context could not be created.
var ErrRenderContext = errors.New("graphics: could not create render context")

const (
	defaultWidth  = 1280
	defaultHeight = 800
)

// Run opens a resizable window titled title and runs the main loop until it is closed.
// Each frame it calls update, then draw between BeginDrawing and EndDrawing.
func Run(title string, update, draw func()) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(defaultWidth, defaultHeight, title)
	if !rl.IsWindowReady() {
		return ErrRenderContext
	}
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull) // closed via the window button
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		draw()
		rl.EndDrawing()
	}
	return nil
}
