// Package app wires the burger builder, dice game, sensors, notifications and account
// handling into one object the viewer and the headless runner drive.
package app

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"
	"sync"

	"burgerstack/internal/assets"
	"burgerstack/internal/auth"
	"burgerstack/internal/burger"
	"burgerstack/internal/commands"
	"burgerstack/internal/config"
	"burgerstack/internal/dice"
	"burgerstack/internal/download"
	"burgerstack/internal/env"
	"burgerstack/internal/kvstore"
	"burgerstack/internal/logger"
	"burgerstack/internal/motion"
	"burgerstack/internal/notify"
)

// Options configures New. Nil fields get working defaults.
type Options struct {
	Stack   config.Stack
	Prefs   config.Prefs
	Backend env.Backend
	Log     *logger.Logger

	// Loader replaces the loader built from Stack (filesystem or HTTP).
	Loader assets.Loader
	// Cache is used for the first resolver. Reloads that change the asset source start a new one.
	Cache assets.Cache
	Store kvstore.Store
	Sink  notify.Sink
	Perms notify.Permissions
	Dice  []dice.Option

	// OnBuild receives every installed build and owns its group from then on.
	OnBuild func(*burger.Build)
	// OnStatus receives the one-line status shown over the viewer.
	OnStatus func(string)
}

// App is the running application state.
type App struct {
	Burger  *burger.Ingredients
	Dice    *dice.Game
	Sensor  *motion.Simulated
	Auth    *auth.Client
	Notify  *notify.Scheduler
	Devices *notify.Registrar

	log       *logger.Logger
	reg       *commands.Registry
	rebuilder *burger.Rebuilder
	loader    assets.Loader
	onStatus  func(string)

	mu       sync.Mutex
	cfg      config.Stack
	resolver *assets.Resolver
	pipeline *burger.Pipeline

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup // pollers
	jobs   sync.WaitGroup // finite background work
}

// New builds an App. Nothing runs until Start.
func New(opts Options) (*App, error) {
	if err := opts.Stack.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	log := opts.Log
	if log == nil {
		log = logger.New(opts.Prefs.LogPath)
	}
	store := opts.Store
	if store == nil {
		store = kvstore.NewMemory()
	}
	a := &App{
		Burger:   burger.NewIngredients(),
		Sensor:   &motion.Simulated{},
		log:      log,
		loader:   opts.Loader,
		onStatus: opts.OnStatus,
		cfg:      opts.Stack,
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	cache := opts.Cache
	if cache == nil {
		cache = assets.NewMemoryCache()
	}
	a.resolver = a.newResolver(opts.Stack, cache)
	a.pipeline = burger.NewPipeline(a.resolver, opts.Stack)

	a.rebuilder = burger.NewRebuilder(a.pipeline, func(b *burger.Build) {
		a.reportBuild(b)
		if opts.OnBuild != nil {
			opts.OnBuild(b)
		}
	})
	a.Burger.OnChange = a.rebuilder.Request

	a.Dice = dice.NewGame(opts.Dice...)
	a.Dice.OnRoll = func(s dice.State) {
		a.log.Logf("dice: %d (rolls: %d)", s.Value, s.Count)
		a.status(fmt.Sprintf("dice %d  rolls %d", s.Value, s.Count))
	}

	a.Auth = auth.NewClient(opts.Backend.URL, opts.Backend.AnonKey, store)

	sink := opts.Sink
	if sink == nil {
		sink = notify.SinkFunc(func(n notify.Notification) {
			a.log.Logf("notification: %s: %s", n.Title, n.Body)
		})
	}
	platform := opts.Prefs.Platform
	a.Notify = notify.NewScheduler(platform, sink, opts.Perms)
	a.Devices = &notify.Registrar{
		Tokens:   notify.StaticToken(opts.Backend.PushToken),
		Platform: platform,
		Store: &notify.RESTDeviceStore{
			BaseURL: opts.Backend.URL,
			APIKey:  opts.Backend.AnonKey,
			AccessToken: func() string {
				if s := a.Auth.Current(); s != nil {
					return s.AccessToken
				}
				return ""
			},
		},
	}
	if !opts.Backend.Configured() {
		a.Devices.Tokens = nil
	}

	a.reg = commands.NewRegistry()
	a.registerCommands()
	return a, nil
}

func (a *App) newResolver(cfg config.Stack, cache assets.Cache) *assets.Resolver {
	loader := a.loader
	if loader == nil {
		loader = newLoader(cfg)
	}
	return assets.NewResolver(assets.NewRegistry(cfg.Assets), loader,
		assets.WithCache(cache),
		assets.WithLoadHook(func(typ, source string, err error) {
			if err != nil {
				a.log.Logf("asset %s (%s): %v", typ, source, err)
				return
			}
			a.log.Logf("asset %s loaded from %s", typ, source)
		}),
	)
}

func newLoader(cfg config.Stack) assets.Loader {
	if cfg.AssetBaseURL != "" {
		return assets.HTTPLoader{BaseURL: cfg.AssetBaseURL, Client: download.DefaultClient, CacheDir: cfg.AssetCache}
	}
	return assets.FSLoader{FS: os.DirFS(cfg.AssetDir)}
}

// Commands returns the terminal command registry.
func (a *App) Commands() *commands.Registry {
	return a.reg
}

// Log returns the application log.
func (a *App) Log() *logger.Logger {
	return a.log
}

// Config returns the stacking configuration in use.
func (a *App) Config() config.Stack {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Pipeline returns the builder for the current configuration.
func (a *App) Pipeline() *burger.Pipeline {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pipeline
}

// Current returns the last installed build, or nil.
func (a *App) Current() *burger.Build {
	return a.rebuilder.Current()
}

// Start restores the session, preloads models, starts shake polling and requests the first build.
func (a *App) Start() {
	a.Notify.Setup()
	s, err := a.Auth.Restore()
	switch {
	case err != nil:
		a.log.Logf("session: %v", err)
	case s != nil:
		a.log.Logf("signed in as %s", sessionName(s))
		a.registerDevice(s.UserID)
	}

	resolver := a.currentResolver()
	a.async(func(ctx context.Context) {
		if err := resolver.Preload(ctx); err != nil {
			a.log.Logf("preload: %v", err)
		}
	})
	a.goBackground(func(ctx context.Context) {
		err := motion.Poll(ctx, a.Sensor, motion.DefaultInterval, func(r motion.Reading) {
			if a.Dice.OnShake(r) {
				a.log.Logf("shake %.2fg: rolling", r.Magnitude())
			}
		})
		if err != nil && ctx.Err() == nil {
			a.log.Logf("motion: %v", err)
		}
	})
	a.rebuilder.Request(a.Burger.List())
}

// Reload switches to cfg and rebuilds. Models are reloaded only when the asset source changed.
func (a *App) Reload(cfg config.Stack) {
	if err := cfg.Validate(); err != nil {
		a.log.Logf("config: %v", err)
		return
	}
	a.mu.Lock()
	if !sameSource(a.cfg, cfg) {
		a.resolver = a.newResolver(cfg, assets.NewMemoryCache())
	}
	a.cfg = cfg
	a.pipeline = burger.NewPipeline(a.resolver, cfg)
	p := a.pipeline
	a.mu.Unlock()

	a.rebuilder.SetBuilder(p)
	a.log.Log("config reloaded")
	a.rebuilder.Request(a.Burger.List())
}

func sameSource(a, b config.Stack) bool {
	return a.AssetDir == b.AssetDir && a.AssetBaseURL == b.AssetBaseURL &&
		a.AssetCache == b.AssetCache && maps.Equal(a.Assets, b.Assets)
}

func (a *App) currentResolver() *assets.Resolver {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolver
}

// Wait blocks until pending rebuilds and command work have finished. Pollers started by Start
// keep running until Close.
func (a *App) Wait() {
	a.jobs.Wait()
	a.rebuilder.Wait()
}

// Close stops background work and waits for it.
func (a *App) Close() {
	a.cancel()
	a.wg.Wait()
	a.jobs.Wait()
	a.rebuilder.Close()
}

func (a *App) async(fn func(ctx context.Context)) {
	a.jobs.Add(1)
	go func() {
		defer a.jobs.Done()
		fn(a.ctx)
	}()
}

func (a *App) goBackground(fn func(ctx context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(a.ctx)
	}()
}

func (a *App) reportBuild(b *burger.Build) {
	if b.Err != nil {
		a.log.Logf("rebuild failed: %v", b.Err)
		return
	}
	a.log.Logf("built %d layers", len(b.Offsets))
}

func (a *App) registerDevice(userID string) {
	a.async(func(ctx context.Context) {
		if err := a.Devices.Register(ctx, userID); err != nil {
			a.log.Logf("push: %v", err)
		}
	})
}

func (a *App) status(s string) {
	if a.onStatus != nil {
		a.onStatus(s)
	}
}

func sessionName(s *auth.Session) string {
	if s.Email != "" {
		return s.Email
	}
	return s.UserID
}

// Describe lists the layers of b with their offsets, then the camera.
func Describe(items []burger.Ingredient, b *burger.Build) []string {
	if b == nil {
		return nil
	}
	if b.Err != nil {
		return []string{"error: " + b.Err.Error()}
	}
	var out []string
	for i, it := range items {
		if i >= len(b.Offsets) {
			break
		}
		out = append(out, fmt.Sprintf("%2d %-10s y=%.3f  %s", i, it.Type, b.Offsets[i], it.ID))
	}
	c := b.Camera
	out = append(out, fmt.Sprintf("camera pos=(%.3f, %.3f, %.3f) fov=%.0f near=%.4f far=%.1f",
		c.Position.X, c.Position.Y, c.Position.Z, c.FOV, c.Near, c.Far))
	return out
}

func joinTypes() string {
	names := make([]string, len(burger.Types))
	for i, t := range burger.Types {
		names[i] = string(t)
	}
	return strings.Join(names, "|")
}
