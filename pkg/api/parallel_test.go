package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParallel_ResultsPreserveDeclarationOrder(t *testing.T) {
	// Branch delays are reversed relative to declaration order, so the
	// last-declared branch finishes first.
	mk := func(name string, delay time.Duration, out string) Primitive {
		return NewLambda(name, func(ctx context.Context, fc *Context, in any) (any, error) {
			time.Sleep(delay)
			return out, nil
		})
	}

	par, err := NewParallel("ordered",
		mk("slow", 30*time.Millisecond, "first"),
		mk("medium", 15*time.Millisecond, "second"),
		mk("fast", 0, "third"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := par.Execute(context.Background(), NewContext("wf"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, ok := out.([]any)
	if !ok {
		t.Fatalf("expected []any output, got %T", out)
	}
	want := []string{"first", "second", "third"}
	if len(values) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(values))
	}
	for i, w := range want {
		if values[i].(string) != w {
			t.Fatalf("index %d: expected %q, got %q", i, w, values[i])
		}
	}
}

func TestParallel_BranchesShareInputAndContext(t *testing.T) {
	fc := NewContext("wf")
	input := map[string]int{"n": 7}

	branch := func(name string) Primitive {
		return NewLambda(name, func(ctx context.Context, bfc *Context, in any) (any, error) {
			if bfc != fc {
				t.Errorf("branch %s: expected the identical Context object", name)
			}
			m, ok := in.(map[string]int)
			if !ok || m["n"] != 7 {
				t.Errorf("branch %s: expected identical input, got %#v", name, in)
			}
			bfc.Append("visited", name)
			return nil, nil
		})
	}

	par, err := NewParallel("shared", branch("a"), branch("b"), branch("c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := par.Execute(context.Background(), fc, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, _ := fc.Get("visited")
	if got := len(v.([]any)); got != 3 {
		t.Fatalf("expected 3 visited entries, got %d", got)
	}
}

func TestParallel_AnyBranchFailureFailsAll(t *testing.T) {
	sentinel := errors.New("branch down")

	ok := newCounting("ok", nil)
	bad := NewLambda("bad", func(ctx context.Context, fc *Context, in any) (any, error) {
		return nil, sentinel
	})

	par, err := NewParallel("failing", ok, bad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := par.Execute(context.Background(), NewContext("wf"), 1)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no partial results, got %v", out)
	}
}

func TestParallel_EmptyIsConfigurationError(t *testing.T) {
	_, err := NewParallel("empty")
	if !IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestAll_FlattensNested(t *testing.T) {
	mk := func(name string) Primitive {
		return NewLambda(name, func(ctx context.Context, fc *Context, in any) (any, error) {
			return name, nil
		})
	}

	combined := All(All(mk("a"), mk("b")), mk("c"))

	par, ok := combined.(*Parallel)
	if !ok {
		t.Fatalf("expected *Parallel, got %T", combined)
	}
	if got := len(par.Branches()); got != 3 {
		t.Fatalf("expected 3 flat branches, got %d", got)
	}

	out, err := combined.Execute(context.Background(), NewContext("wf"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := out.([]any)
	if values[0] != "a" || values[1] != "b" || values[2] != "c" {
		t.Fatalf("unexpected results: %v", values)
	}
}
