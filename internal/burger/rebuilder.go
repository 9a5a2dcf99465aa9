package burger

import (
	"context"
	"sync"
)

// Builder is what the Rebuilder drives; *Pipeline implements it.
type Builder interface {
	Build(ctx context.Context, items []Ingredient) (*Build, error)
}

// Rebuilder runs builds in the background whenever the layer list changes. A new request
// cancels the one in flight; only the newest request's result is reported. Results that lose
// the race are disposed here. Reported groups belong to the receiver, which disposes a group
// once it stops drawing it.
type Rebuilder struct {
	builder  Builder
	onResult func(*Build)

	deliver sync.Mutex // orders onResult calls
	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current *Build
	closed  bool
	wg      sync.WaitGroup
}

// NewRebuilder calls onResult (from a background goroutine) with each installed build,
// including failed ones, which carry Err and no group.
func NewRebuilder(b Builder, onResult func(*Build)) *Rebuilder {
	return &Rebuilder{builder: b, onResult: onResult}
}

// SetBuilder swaps the builder, e.g. after a configuration reload. It does not rebuild.
func (r *Rebuilder) SetBuilder(b Builder) {
	r.mu.Lock()
	r.builder = b
	r.mu.Unlock()
}

// Request starts a rebuild for items and supersedes any rebuild still running.
func (r *Rebuilder) Request(items []Ingredient) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.gen++
	gen := r.gen
	r.cancel = cancel
	builder := r.builder
	r.wg.Add(1)
	r.mu.Unlock()

	snapshot := append([]Ingredient(nil), items...)
	go func() {
		defer r.wg.Done()
		defer cancel()
		b, err := builder.Build(ctx, snapshot)
		if err != nil {
			b = &Build{Key: Key(snapshot), Err: err}
		}
		r.install(gen, b)
	}()
}

func (r *Rebuilder) install(gen uint64, b *Build) {
	r.deliver.Lock()
	defer r.deliver.Unlock()
	r.mu.Lock()
	if r.closed || gen != r.gen {
		r.mu.Unlock()
		if b.Group != nil {
			b.Group.Dispose()
		}
		return
	}
	r.current = b
	r.cancel = nil
	r.mu.Unlock()

	if r.onResult != nil {
		r.onResult(b)
	}
}

// Current returns the last installed build, or nil.
func (r *Rebuilder) Current() *Build {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Wait blocks until every started rebuild has finished.
func (r *Rebuilder) Wait() {
	r.wg.Wait()
}

// Close cancels the running rebuild and waits for it. Later requests are ignored.
func (r *Rebuilder) Close() {
	r.mu.Lock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	r.wg.Wait()
}
