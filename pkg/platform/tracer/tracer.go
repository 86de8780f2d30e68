// Package tracer is a small span abstraction over OpenTelemetry.
//
// Scoring code depends on the Tracer interface only. Production wiring uses
// the OTel adapter backed by the global provider; tests use the noop tracer
// or a recording fake.
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span; pass the returned context to child operations.
	//
	//   ctx, span := t.Start(ctx, tracer.SpanBatchScore, tracer.Int("batch.rows", n))
	//   defer func() { span.End(err) }()
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanBatchScore = "batch.score"
	SpanPredict    = "predictor.predict"
	SpanScoreTable = "scoring.score_table"
)

// Attribute keys.
const (
	AttrBatchRows      = "batch.rows"
	AttrBatchWorkers   = "batch.workers"
	AttrBatchFailedRow = "batch.failed_row"
	AttrBatchHighRisk  = "batch.high_risk"
	AttrPredictor      = "predictor.name"
	AttrBreakerState   = "breaker.state"
	AttrProbability    = "risk.probability"
)
