package main

import (
	"errors"
	"flag"

	"burgerstack/internal/app"
	"burgerstack/internal/config"
	"burgerstack/internal/debug"
	"burgerstack/internal/scene"
)

// registerViewerCommands adds the commands that change viewer preferences. They run on the
// render thread from the terminal, so they may touch the scene directly.
func registerViewerCommands(a *app.App, scn *scene.Scene, overlay *debug.Overlay, prefsPath string, prefs config.Prefs) {
	save := func() {
		if err := config.SavePrefs(prefsPath, prefs); err != nil {
			a.Log().Logf("prefs: %v", err)
		}
	}

	grid := flag.NewFlagSet("grid", flag.ContinueOnError)
	gridOn := grid.Bool("on", true, "show the grid")
	a.Commands().Register("grid", "grid [-on=false]", grid, func([]string) error {
		prefs.GridVisible = *gridOn
		scn.GridVisible = *gridOn
		save()
		return nil
	})

	rotate := flag.NewFlagSet("rotate", flag.ContinueOnError)
	rotateOn := rotate.Bool("on", true, "spin the burger")
	speed := rotate.Float64("speed", float64(prefs.RotateSpeed), "radians per frame")
	a.Commands().Register("rotate", "rotate [-on=false] [-speed r]", rotate, func([]string) error {
		prefs.AutoRotate = *rotateOn
		prefs.RotateSpeed = float32(*speed)
		scn.AutoRotate = prefs.AutoRotate
		scn.RotateSpeed = prefs.RotateSpeed
		save()
		return nil
	})

	bg := flag.NewFlagSet("background", flag.ContinueOnError)
	color := bg.String("color", prefs.Background, "#RRGGBB")
	a.Commands().Register("background", "background -color #RRGGBB", bg, func([]string) error {
		prefs.Background = *color
		scn.Background = scene.ParseColor(*color, scn.Background)
		save()
		return nil
	})

	a.Commands().Register("debug", "debug <fps|mem|stats>", nil, func(args []string) error {
		if len(args) != 1 || !overlay.Toggle(args[0]) {
			return errors.New("usage: debug <fps|mem|stats>")
		}
		return nil
	})
}
