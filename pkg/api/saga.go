package api

import (
	"context"
	"log/slog"
)

// Saga pairs a forward primitive with a compensation primitive. The forward
// action runs first; on failure the compensation runs with the identical
// input and Context as a best-effort local undo. The original forward error
// always propagates to the caller: a compensation failure is logged and
// reported to observers but never substituted for it.
//
// This is deliberately a narrow, single-process contract, not a distributed
// transaction protocol.
type Saga struct {
	name         string
	forward      Primitive
	compensation Primitive
	logger       *slog.Logger
}

var _ Primitive = (*Saga)(nil)

// NewSaga builds a Saga decorator.
func NewSaga(forward, compensation Primitive) (*Saga, error) {
	if forward == nil {
		return nil, newConfigurationError("saga requires a forward primitive")
	}
	if compensation == nil {
		return nil, newConfigurationError("saga requires a compensation primitive")
	}
	return &Saga{
		name:         "saga(" + forward.Name() + ")",
		forward:      forward,
		compensation: compensation,
		logger:       slog.Default(),
	}, nil
}

// WithLogger replaces the logger used for compensation failures.
// Intended for construction-time chaining only.
func (s *Saga) WithLogger(logger *slog.Logger) *Saga {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Saga) Name() string { return s.name }

func (s *Saga) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	out, err := s.forward.Execute(ctx, fc, in)
	if err == nil {
		return out, nil
	}

	obs := ObserverFrom(ctx)
	obs.OnRecovery(ctx, fc, s.name, StateFailedRecoverable, err)

	if _, cerr := s.compensation.Execute(ctx, fc, in); cerr != nil {
		// Side-channel diagnostic only; the forward error still wins.
		s.logger.WarnContext(ctx, "saga compensation failed",
			slog.String("primitive", s.name),
			slog.Any("error", cerr),
			slog.Any("cause", err),
		)
	}

	obs.OnRecovery(ctx, fc, s.name, StateFailedTerminal, err)
	return nil, err
}
