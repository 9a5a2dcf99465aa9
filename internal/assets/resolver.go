package assets

import (
	"context"
	"errors"
	"fmt"

	"burgerstack/internal/mesh"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrResourceNotFound means the ingredient type has no model registered.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrLoadFailure means fetching or decoding a registered model failed.
	ErrLoadFailure = errors.New("load failure")
)

// Result is what ResolveAsync delivers: exactly one of Mesh or Err is set.
type Result struct {
	Type string
	Mesh *mesh.Node
	Err  error
}

// Resolver turns ingredient types into loaded models. Each type is loaded at most once;
// concurrent first requests for a type share one load. Failed loads are not cached, so
// a later request tries again.
type Resolver struct {
	registry *Registry
	loader   Loader
	cache    Cache
	group    singleflight.Group
	onLoad   func(typ, source string, err error)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache replaces the default private MemoryCache.
func WithCache(c Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithLoadHook is called after every underlying load attempt (not for cache hits).
func WithLoadHook(fn func(typ, source string, err error)) Option {
	return func(r *Resolver) { r.onLoad = fn }
}

// NewResolver returns a resolver over registry and loader.
func NewResolver(registry *Registry, loader Loader, opts ...Option) *Resolver {
	r := &Resolver{registry: registry, loader: loader, cache: NewMemoryCache()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the cached source model for typ, loading it first if needed.
// The returned node is shared; clone it before changing anything.
func (r *Resolver) Resolve(ctx context.Context, typ string) (*mesh.Node, error) {
	source, ok := r.registry.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("assets: %q: %w", typ, ErrResourceNotFound)
	}
	if n, ok := r.cache.Get(typ); ok {
		return n, nil
	}
	// The shared load outlives any one caller; each caller stops waiting on its own ctx.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(typ, func() (any, error) {
		if n, ok := r.cache.Get(typ); ok {
			return n, nil
		}
		n, err := r.loader.Load(loadCtx, source)
		if err == nil && n == nil {
			err = errors.New("loader returned no model")
		}
		if r.onLoad != nil {
			r.onLoad(typ, source, err)
		}
		if err != nil {
			return nil, fmt.Errorf("assets: %q from %s: %w: %w", typ, source, ErrLoadFailure, err)
		}
		r.cache.Put(typ, n)
		return n, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mesh.Node), nil
	}
}

// ResolveAsync runs Resolve in its own goroutine. The channel receives one Result and is closed.
func (r *Resolver) ResolveAsync(ctx context.Context, typ string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		n, err := r.Resolve(ctx, typ)
		ch <- Result{Type: typ, Mesh: n, Err: err}
	}()
	return ch
}

// Preload resolves the given types concurrently (all registered types when none are given)
// and returns the first error.
func (r *Resolver) Preload(ctx context.Context, types ...string) error {
	if len(types) == 0 {
		types = r.registry.Types()
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, typ := range types {
		g.Go(func() error {
			_, err := r.Resolve(ctx, typ)
			return err
		})
	}
	return g.Wait()
}

// Cached reports whether typ is already loaded.
func (r *Resolver) Cached(typ string) bool {
	_, ok := r.cache.Get(typ)
	return ok
}
