// Package otelobs instruments weft primitives with OpenTelemetry traces and
// metrics. It depends only on the otel API; exporter and SDK wiring belongs
// to the application.
package otelobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/weftlabs/weft/pkg/api"
)

const scopeName = "github.com/weftlabs/weft/pkg/otelobs"

// Option configures Wrap.
type Option func(*config)

type config struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider overrides the global trace provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracerProvider = tp
		}
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}

type wrapped struct {
	inner    api.Primitive
	tracer   trace.Tracer
	execs    metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

var _ api.Primitive = (*wrapped)(nil)

// Wrap returns a primitive with identical input/output behavior to p that
// additionally emits one span per execution, named after the primitive and
// carrying the execution context's flattened trace attributes, plus
// execution counters and a duration histogram.
func Wrap(p api.Primitive, opts ...Option) api.Primitive {
	if p == nil {
		panic("otelobs: Wrap requires a non-nil primitive")
	}

	cfg := config{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	meter := cfg.meterProvider.Meter(scopeName)

	execs, err := meter.Int64Counter("weft.primitive.executions",
		metric.WithDescription("Completed primitive executions."))
	if err != nil {
		otel.Handle(err)
	}
	failures, err := meter.Int64Counter("weft.primitive.failures",
		metric.WithDescription("Primitive executions that returned an error."))
	if err != nil {
		otel.Handle(err)
	}
	duration, err := meter.Float64Histogram("weft.primitive.duration",
		metric.WithDescription("Primitive execution duration."),
		metric.WithUnit("s"))
	if err != nil {
		otel.Handle(err)
	}

	return &wrapped{
		inner:    p,
		tracer:   cfg.tracerProvider.Tracer(scopeName),
		execs:    execs,
		failures: failures,
		duration: duration,
	}
}

func (w *wrapped) Name() string { return w.inner.Name() }

func (w *wrapped) Execute(ctx context.Context, fc *api.Context, in any) (any, error) {
	name := w.inner.Name()

	ctx, span := w.tracer.Start(ctx, name,
		trace.WithAttributes(contextAttributes(fc)...))
	defer span.End()

	start := time.Now()
	out, err := w.inner.Execute(ctx, fc, in)
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(attribute.String("primitive", name))
	w.execs.Add(ctx, 1, attrs)
	w.duration.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		w.failures.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return out, nil
}

func contextAttributes(fc *api.Context) []attribute.KeyValue {
	flat := fc.TraceAttributes()
	attrs := make([]attribute.KeyValue, 0, len(flat))
	for k, v := range flat {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}
