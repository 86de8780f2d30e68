package predictor

import (
	"context"
	"fmt"
	"log/slog"

	"creditrisk/internal/batch"
	"creditrisk/internal/decision"
	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/circuit"
	"creditrisk/pkg/platform/sentinel"
	"creditrisk/pkg/platform/tracer"
)

// Guarded wraps a Predictor with a circuit breaker and a span per call.
// Input errors (CodeValidation) pass through without counting against the
// breaker; any other failure, including an out-of-range probability, does.
type Guarded struct {
	next    Predictor
	breaker *circuit.Breaker
	tracer  tracer.Tracer
	logger  *slog.Logger
}

type GuardOption func(*Guarded)

func WithBreaker(b *circuit.Breaker) GuardOption {
	return func(g *Guarded) {
		g.breaker = b
	}
}

func WithTracer(t tracer.Tracer) GuardOption {
	return func(g *Guarded) {
		g.tracer = t
	}
}

func WithLogger(l *slog.Logger) GuardOption {
	return func(g *Guarded) {
		g.logger = l
	}
}

// NewGuarded wraps next. Without WithBreaker it gets a breaker with the
// package defaults named after the predictor.
func NewGuarded(next Predictor, opts ...GuardOption) *Guarded {
	if next == nil {
		panic("predictor required")
	}
	g := &Guarded{
		next:   next,
		tracer: tracer.NewOTel("creditrisk/predictor"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.breaker == nil {
		g.breaker = circuit.New(next.Name())
	}
	return g
}

func (g *Guarded) Name() string { return g.next.Name() }

// Importance forwards to the wrapped predictor. It is nil when that
// predictor is not an Explainer.
func (g *Guarded) Importance() map[string]float64 { return ImportanceOf(g.next) }

// State reports the breaker state.
func (g *Guarded) State() circuit.State { return g.breaker.State() }

// Predict calls the wrapped predictor unless the breaker is open.
//
// Errors: sentinel.ErrUnavailable while open; otherwise the wrapped error.
func (g *Guarded) Predict(ctx context.Context, r batch.Record) (p float64, err error) {
	ctx, span := g.tracer.Start(ctx, tracer.SpanPredict,
		tracer.String(tracer.AttrPredictor, g.next.Name()),
	)
	defer func() { span.End(err) }()

	if err := g.breaker.Allow(); err != nil {
		span.SetAttributes(tracer.String(tracer.AttrBreakerState, g.breaker.State().String()))
		return 0, fmt.Errorf("predictor %s: %w: %w", g.next.Name(), sentinel.ErrUnavailable, err)
	}

	p, err = g.next.Predict(ctx, r)
	if err == nil {
		err = decision.CheckProbability(p)
	}
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return 0, err
		}
		if change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "predictor circuit opened",
				"predictor", g.next.Name(),
				"error", err,
			)
		}
		return 0, err
	}

	if change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "predictor circuit closed", "predictor", g.next.Name())
	}
	span.SetAttributes(tracer.Float64(tracer.AttrProbability, p))
	return p, nil
}

var (
	_ Predictor = (*Guarded)(nil)
	_ Predictor = (*Heuristic)(nil)
	_ Predictor = (*Logistic)(nil)
	_ Predictor = Func{}

	_ Explainer = (*Guarded)(nil)
	_ Explainer = (*Logistic)(nil)
)
