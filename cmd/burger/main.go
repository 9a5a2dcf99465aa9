package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"burgerstack/internal/app"
	"burgerstack/internal/assets"
	"burgerstack/internal/burger"
	"burgerstack/internal/config"
	"burgerstack/internal/debug"
	"burgerstack/internal/env"
	"burgerstack/internal/graphics"
	"burgerstack/internal/kvstore"
	"burgerstack/internal/logger"
	"burgerstack/internal/scene"
	"burgerstack/internal/terminal"
)

// sessionPath holds the signed-in session between runs.
const sessionPath = "config/session.json"

func main() {
	headless := flag.Bool("headless", false, "print the layer offsets and camera instead of opening a window")
	layers := flag.String("layers", "", "comma-separated ingredient types stacked on the bottom bun")
	stackPath := flag.String("config", config.StackPath, "stacking configuration (YAML)")
	prefsPath := flag.String("prefs", config.PrefsPath, "viewer preferences (JSON)")
	flag.Parse()

	var err error
	if *headless {
		err = runHeadless(*stackPath, *prefsPath, *layers)
	} else {
		err = runViewer(*stackPath, *prefsPath, *layers)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type setup struct {
	prefs   config.Prefs
	stack   config.Stack
	backend env.Backend
	log     *logger.Logger
}

func load(stackPath, prefsPath string) (setup, error) {
	if err := env.Load(".env"); err != nil {
		return setup{}, fmt.Errorf("env: %w", err)
	}
	prefs, _ := config.LoadPrefs(prefsPath)
	stack, err := config.LoadStack(stackPath)
	if err != nil {
		return setup{}, err
	}
	return setup{prefs: prefs, stack: stack, backend: env.ReadBackend(), log: logger.New(prefs.LogPath)}, nil
}

func addLayers(b *burger.Ingredients, list string) error {
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		t, err := burger.ParseType(name)
		if err != nil {
			return err
		}
		if _, ok := b.Add(t); !ok {
			return errors.New("only one top bun per burger")
		}
	}
	return nil
}

func runHeadless(stackPath, prefsPath, layers string) error {
	s, err := load(stackPath, prefsPath)
	if err != nil {
		return err
	}
	a, err := app.New(app.Options{Stack: s.stack, Prefs: s.prefs, Backend: s.backend, Log: s.log, Cache: assets.Shared()})
	if err != nil {
		return err
	}
	defer a.Close()

	ingredients := burger.NewIngredients()
	if err := addLayers(ingredients, layers); err != nil {
		return err
	}
	items := ingredients.List()
	b, err := a.Pipeline().Build(context.Background(), items)
	if err != nil {
		return err
	}
	for _, line := range app.Describe(items, b) {
		fmt.Println(line)
	}
	return nil
}

func runViewer(stackPath, prefsPath, layers string) error {
	s, err := load(stackPath, prefsPath)
	if err != nil {
		return err
	}
	scn := scene.New(s.prefs)
	defer scn.Close()

	a, err := app.New(app.Options{
		Stack:    s.stack,
		Prefs:    s.prefs,
		Backend:  s.backend,
		Log:      s.log,
		Cache:    assets.Shared(),
		Store:    kvstore.NewFile(sessionPath),
		OnBuild:  scn.Install,
		OnStatus: scn.SetStatus,
	})
	if err != nil {
		return err
	}
	defer a.Close()
	overlay := debug.New()
	registerViewerCommands(a, scn, overlay, prefsPath, s.prefs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = config.WatchStack(ctx, stackPath, a.Reload, func(err error) {
		a.Log().Logf("config: %v", err)
	})
	if err != nil {
		a.Log().Logf("config watch disabled: %v", err)
	}

	if err := addLayers(a.Burger, layers); err != nil {
		return err
	}
	a.Start()
	a.Log().Log("TAB opens the terminal; type help")

	term := terminal.New(a.Log(), a.Commands())
	update := func() {
		term.Update()
		scn.Update()
	}
	draw := func() {
		scn.Draw()
		overlay.Draw(scn.Current())
		term.Draw()
	}
	return graphics.Run("Burger Stack", update, draw)
}
