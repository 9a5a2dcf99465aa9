package assets

import "sort"

// Registry maps an ingredient type to the source of its model (a path or URL suffix
// understood by the Loader). It is configuration, read-only after construction.
type Registry struct {
	sources map[string]string
}

// NewRegistry copies sources so later edits to the map do not leak in.
func NewRegistry(sources map[string]string) *Registry {
	r := &Registry{sources: make(map[string]string, len(sources))}
	for typ, src := range sources {
		if typ != "" && src != "" {
			r.sources[typ] = src
		}
	}
	return r
}

// Lookup returns the source for typ.
func (r *Registry) Lookup(typ string) (string, bool) {
	src, ok := r.sources[typ]
	return src, ok
}

// Types returns the registered types, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.sources))
	for typ := range r.sources {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}
