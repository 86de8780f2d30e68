package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"creditrisk/internal/batch/metrics"
	"creditrisk/internal/decision"
	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/tracer"
)

// DefaultWorkers bounds concurrent rows when no option overrides it.
const DefaultWorkers = 8

var (
	// ErrInvalidProbability marks a model output that is NaN or outside [0,1].
	ErrInvalidProbability = errors.New("invalid model output")
	// ErrPanic marks a probability function that panicked.
	ErrPanic = errors.New("probability function panicked")
)

// Scorer appends a default probability and risk label to every row of a
// table. It is safe for concurrent use.
type Scorer struct {
	workers int
	policy  decision.Policy
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

// Option configures the Scorer.
type Option func(*Scorer)

// WithWorkers bounds how many rows are scored at once. Values below one
// are ignored.
func WithWorkers(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPolicy overrides the risk threshold policy.
func WithPolicy(p decision.Policy) Option {
	return func(s *Scorer) {
		s.policy = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scorer) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Scorer) {
		s.tracer = t
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scorer) {
		s.logger = l
	}
}

// NewScorer creates a scorer with the default policy and worker bound.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		workers: DefaultWorkers,
		policy:  decision.Default(),
		tracer:  tracer.NewOTel("creditrisk/batch"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScorer = NewScorer()

// ScoreBatch scores t with the default scorer and returns the augmented
// table. On any row failure it returns a *RowError and no table.
func ScoreBatch(ctx context.Context, t Table, fn ProbabilityFunc) (Table, error) {
	res, err := defaultScorer.Score(ctx, t, fn)
	if err != nil {
		return Table{}, err
	}
	return res.Table, nil
}

// Workers returns the concurrency bound.
func (s *Scorer) Workers() int { return s.workers }

// Score runs fn over every row of t. The input is never mutated. Output row
// i corresponds to input row i and carries the original cells followed by
// defaultProbability and riskLabel; when those columns already exist they
// are overwritten in place.
//
// Errors:
//   - CodeValidation if t is malformed
//   - *RowError for the lowest-index row that failed among those that ran
//   - ctx.Err() if ctx is done before every row is scored
func (s *Scorer) Score(ctx context.Context, t Table, fn ProbabilityFunc) (_ *Result, err error) {
	if fn == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "probability function is required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanBatchScore,
		tracer.Int(tracer.AttrBatchRows, t.Len()),
		tracer.Int(tracer.AttrBatchWorkers, s.workers),
	)
	defer func() { span.End(err) }()

	start := time.Now()
	probs, err := s.scoreRows(ctx, t, fn)
	if err != nil {
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			span.SetAttributes(tracer.Int(tracer.AttrBatchFailedRow, rowErr.Index))
		}
		s.observeFailure(ctx, t.Len(), err)
		return nil, err
	}

	res := s.assemble(t, probs)
	span.SetAttributes(tracer.Int(tracer.AttrBatchHighRisk, res.HighRisk))
	if s.metrics != nil {
		s.metrics.IncrementBatches(metrics.OutcomeSuccess)
		s.metrics.AddRowsScored(t.Len())
		s.metrics.AddHighRisk(res.HighRisk)
		s.metrics.ObserveBatch(t.Len(), time.Since(start).Seconds())
	}
	s.logger.InfoContext(ctx, "batch scored",
		"rows", t.Len(),
		"high_risk", res.HighRisk,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (s *Scorer) scoreRows(ctx context.Context, t Table, fn ProbabilityFunc) ([]float64, error) {
	columns := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		columns[c] = i
	}
	probs := make([]float64, t.Len())
	errs := make([]error, t.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, row := range t.Rows {
		if gctx.Err() != nil {
			break
		}
		rec := Record{index: i, columns: columns, values: row}
		// Once launched a row always runs, so the lowest failing index among
		// launched rows does not depend on scheduling.
		g.Go(func() error {
			p, err := scoreRow(gctx, rec, fn)
			if err != nil {
				errs[i] = err
				return err
			}
			probs[i] = p
			return nil
		})
	}
	waitErr := g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if waitErr == nil {
		return probs, nil
	}
	if rowErr := lowestRowError(errs); rowErr != nil {
		return nil, rowErr
	}
	return nil, waitErr
}

func scoreRow(ctx context.Context, rec Record, fn ProbabilityFunc) (p float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RowError{Index: rec.index, Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()
	p, err = fn(ctx, rec)
	if err != nil {
		return 0, &RowError{Index: rec.index, Err: err}
	}
	if err := decision.CheckProbability(p); err != nil {
		return 0, &RowError{Index: rec.index, Err: fmt.Errorf("%w: %w", ErrInvalidProbability, err)}
	}
	return p, nil
}

// lowestRowError prefers a genuine failure over rows that only saw the
// group's cancellation.
func lowestRowError(errs []error) error {
	var canceled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if canceled == nil {
				canceled = err
			}
			continue
		}
		return err
	}
	return canceled
}

func (s *Scorer) assemble(t Table, probs []float64) *Result {
	columns, probCol, labelCol := outputColumns(t.Columns)
	res := &Result{
		Table:  Table{Columns: columns, Rows: make([][]string, len(probs))},
		Scores: make([]Score, len(probs)),
	}
	for i, row := range t.Rows {
		label := s.policy.Label(probs[i])
		out := make([]string, len(columns))
		copy(out, row)
		out[probCol] = FormatProbability(probs[i])
		out[labelCol] = string(label)
		res.Table.Rows[i] = out
		res.Scores[i] = Score{Probability: probs[i], Label: label}
		if label == decision.HighRisk {
			res.HighRisk++
		}
	}
	return res
}

func outputColumns(in []string) (columns []string, probCol, labelCol int) {
	columns = slices.Clone(in)
	probCol = slices.Index(columns, ColumnProbability)
	if probCol < 0 {
		columns = append(columns, ColumnProbability)
		probCol = len(columns) - 1
	}
	labelCol = slices.Index(columns, ColumnRiskLabel)
	if labelCol < 0 {
		columns = append(columns, ColumnRiskLabel)
		labelCol = len(columns) - 1
	}
	return columns, probCol, labelCol
}

func (s *Scorer) observeFailure(ctx context.Context, rows int, err error) {
	outcome := outcomeOf(err)
	if s.metrics != nil {
		s.metrics.IncrementBatches(outcome)
	}
	attrs := []any{"rows", rows, "outcome", outcome, "error", err}
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		attrs = append(attrs, "row", rowErr.Index)
	}
	s.logger.WarnContext(ctx, "batch scoring failed", attrs...)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrPanic):
		return metrics.OutcomePanic
	case errors.Is(err, ErrInvalidProbability):
		return metrics.OutcomeInvalidProbability
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomePredictorError
	}
}
