package resolver

import (
	"errors"
	"fmt"

	"github.com/shubhrat1234/pdftoimage/core"
)

// Source loads the object an indirect reference points at, without
// following any further references.
type Source interface {
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// DefaultMaxDepth bounds reference chains and object nesting.
const DefaultMaxDepth = 64

var (
	// ErrCycle reports a reference that leads back to itself.
	ErrCycle = errors.New("circular reference")
	// ErrTooDeep reports nesting beyond the configured depth.
	ErrTooDeep = errors.New("maximum depth exceeded")
)

// Resolver follows indirect references through a Source. It keeps no state
// between calls and is safe to reuse.
type Resolver struct {
	src      Source
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth sets the limit for reference chains and nesting.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// New returns a resolver reading from src.
func New(src Source, opts ...Option) *Resolver {
	r := &Resolver{src: src, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve follows obj through any chain of indirect references and returns
// the first direct object. Objects inside the result are left as they are.
func (r *Resolver) Resolve(obj core.Object) (core.Object, error) {
	seen := make(map[core.IndirectRef]bool)
	for {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		if seen[ref] {
			return nil, fmt.Errorf("%w at %s", ErrCycle, ref)
		}
		if len(seen) >= r.maxDepth {
			return nil, fmt.Errorf("%w: reference chain at %s", ErrTooDeep, ref)
		}
		seen[ref] = true

		var err error
		obj, err = r.src.ResolveReference(ref)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", ref, err)
		}
	}
}

// ResolveDeep returns a copy of obj with every reference inside it, its
// arrays, dictionaries and stream dictionaries replaced by the object it
// points at. An object reachable twice is expanded twice; an object that
// contains a reference to itself is an error.
func (r *Resolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.deep(obj, make(map[core.IndirectRef]bool), 0)
}

func (r *Resolver) deep(obj core.Object, active map[core.IndirectRef]bool, depth int) (core.Object, error) {
	if depth >= r.maxDepth {
		return nil, ErrTooDeep
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if active[v] {
			return nil, fmt.Errorf("%w at %s", ErrCycle, v)
		}
		target, err := r.src.ResolveReference(v)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", v, err)
		}
		active[v] = true
		defer delete(active, v)
		return r.deep(target, active, depth+1)

	case core.Dict:
		out := make(core.Dict, len(v))
		for key, value := range v {
			resolved, err := r.deep(value, active, depth+1)
			if err != nil {
				return nil, fmt.Errorf("/%s: %w", key, err)
			}
			out[key] = resolved
		}
		return out, nil

	case core.Array:
		out := make(core.Array, len(v))
		for i, elem := range v {
			resolved, err := r.deep(elem, active, depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil

	case *core.Stream:
		dict, err := r.deep(v.Dict, active, depth+1)
		if err != nil {
			return nil, err
		}
		return &core.Stream{Dict: dict.(core.Dict), Data: v.Data}, nil
	}
	return obj, nil
}
