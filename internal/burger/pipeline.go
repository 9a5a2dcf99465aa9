package burger

import (
	"context"
	"fmt"

	"burgerstack/internal/assets"
	"burgerstack/internal/config"
	"burgerstack/internal/mesh"
	"burgerstack/internal/stack"
)

// Resolver supplies shared source models by ingredient type.
type Resolver interface {
	ResolveAsync(ctx context.Context, typ string) <-chan assets.Result
}

// Build is the output of one rebuild. On failure Group is nil and Err holds the message
// the viewer shows in place of the burger.
type Build struct {
	Key     string
	Group   *mesh.Node
	Camera  stack.Camera
	Offsets []float32
	Err     error
}

// Pipeline turns a layer list into a positioned, scaled group and a camera framing it.
type Pipeline struct {
	resolver Resolver
	cfg      config.Stack
}

// NewPipeline returns a pipeline using cfg for layout.
func NewPipeline(r Resolver, cfg config.Stack) *Pipeline {
	return &Pipeline{resolver: r, cfg: cfg}
}

// Config returns the layout configuration in use.
func (p *Pipeline) Config() config.Stack {
	return p.cfg
}

// Build resolves every layer's model, clones and normalizes it, stacks the clones in order,
// scales the stack to the configured height and fits a camera to it. Models are requested
// together and consumed in layer order. Any resolve error aborts the build.
func (p *Pipeline) Build(ctx context.Context, items []Ingredient) (*Build, error) {
	pending := make([]<-chan assets.Result, len(items))
	for i, it := range items {
		pending[i] = p.resolver.ResolveAsync(ctx, string(it.Type))
	}
	opts := p.cfg.NormalizeOptions()
	layers := make([]stack.Normalized, 0, len(items))
	for i, ch := range pending {
		var res assets.Result
		select {
		case res = <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if res.Err != nil {
			return nil, fmt.Errorf("burger: layer %d (%s): %w", i, items[i].ID, res.Err)
		}
		clone := res.Mesh.Clone()
		clone.Name = items[i].ID
		layers = append(layers, stack.Normalize(string(items[i].Type), clone, opts))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	group := stack.Assemble(layers, p.cfg.AdvanceTable(), p.cfg.Gap())
	offsets := stack.Offsets(group)
	stack.NormalizeScale(group, p.cfg.TargetHeight)
	cam := stack.NewCamera(p.cfg.FOV)
	stack.Fit(&cam, group, p.cfg.Zoom, p.cfg.CameraOffsetY)
	return &Build{Key: Key(items), Group: group, Camera: cam, Offsets: offsets}, nil
}
