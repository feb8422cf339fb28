package api

import (
	"context"
	"strings"
)

// Sequential runs its stages strictly in order, feeding each stage's output
// into the next stage's input. The same *Context is used throughout. The
// first stage to fail aborts the chain; later stages never run.
type Sequential struct {
	name   string
	stages []Primitive
}

var _ Primitive = (*Sequential)(nil)

// NewSequential builds a sequential composition. Nested Sequentials are
// flattened into a single flat stage list. An empty stage list (or a nil
// stage) yields a ConfigurationError.
//
// If name is empty, a name is derived from the stage names.
func NewSequential(name string, stages ...Primitive) (*Sequential, error) {
	if len(stages) == 0 {
		return nil, newConfigurationError("sequential requires at least one stage")
	}

	flat := make([]Primitive, 0, len(stages))
	for _, st := range stages {
		if st == nil {
			return nil, newConfigurationError("sequential stage must not be nil")
		}
		if seq, ok := st.(*Sequential); ok {
			flat = append(flat, seq.stages...)
			continue
		}
		flat = append(flat, st)
	}

	if name == "" {
		name = deriveName("seq", flat)
	}
	return &Sequential{name: name, stages: flat}, nil
}

// Then combines a and b into a Sequential, flattening nested Sequentials on
// either side. It panics on nil arguments; like the builder APIs, combining
// nothing is a programming error.
func Then(a, b Primitive) Primitive {
	if a == nil || b == nil {
		panic("weft: Then requires non-nil primitives")
	}
	seq, err := NewSequential("", a, b)
	if err != nil {
		panic(err) // unreachable: two non-nil stages
	}
	return seq
}

func (s *Sequential) Name() string { return s.name }

// Stages returns a copy of the flattened stage list.
func (s *Sequential) Stages() []Primitive {
	out := make([]Primitive, len(s.stages))
	copy(out, s.stages)
	return out
}

func (s *Sequential) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	current := in
	for _, stage := range s.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := stage.Execute(ctx, fc, current)
		if err != nil {
			return nil, err
		}
		current = out
	}
	return current, nil
}

// deriveName builds "<kind>(a,b,c)" from the part names.
func deriveName(kind string, parts []Primitive) string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name()
	}
	return kind + "(" + strings.Join(names, ",") + ")"
}
