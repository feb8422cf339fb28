package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Parallel runs its branches concurrently. Every branch receives the
// identical input value and the identical *Context object. Results are
// collected as a []any preserving declaration order regardless of
// completion order. If any branch fails, the whole composition fails with
// that branch's error; no partial results are returned.
type Parallel struct {
	name     string
	branches []Primitive
}

var _ Primitive = (*Parallel)(nil)

// NewParallel builds a parallel composition. Nested Parallels are flattened
// into a single flat branch list, symmetric with NewSequential. An empty
// branch list (or a nil branch) yields a ConfigurationError.
func NewParallel(name string, branches ...Primitive) (*Parallel, error) {
	if len(branches) == 0 {
		return nil, newConfigurationError("parallel requires at least one branch")
	}

	flat := make([]Primitive, 0, len(branches))
	for _, b := range branches {
		if b == nil {
			return nil, newConfigurationError("parallel branch must not be nil")
		}
		if par, ok := b.(*Parallel); ok {
			flat = append(flat, par.branches...)
			continue
		}
		flat = append(flat, b)
	}

	if name == "" {
		name = deriveName("par", flat)
	}
	return &Parallel{name: name, branches: flat}, nil
}

// All combines a and b into a Parallel, flattening nested Parallels on
// either side. It panics on nil arguments.
func All(a, b Primitive) Primitive {
	if a == nil || b == nil {
		panic("weft: All requires non-nil primitives")
	}
	par, err := NewParallel("", a, b)
	if err != nil {
		panic(err) // unreachable: two non-nil branches
	}
	return par
}

func (p *Parallel) Name() string { return p.name }

// Branches returns a copy of the flattened branch list.
func (p *Parallel) Branches() []Primitive {
	out := make([]Primitive, len(p.branches))
	copy(out, p.branches)
	return out
}

func (p *Parallel) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	results := make([]any, len(p.branches))

	g, gctx := errgroup.WithContext(ctx)
	for i, branch := range p.branches {
		i, branch := i, branch
		g.Go(func() error {
			out, err := branch.Execute(gctx, fc, in)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	// Fan-in: the first branch error cancels gctx for the remaining
	// branches and becomes the composition's error.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
