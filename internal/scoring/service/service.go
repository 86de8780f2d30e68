package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"creditrisk/internal/batch"
	"creditrisk/internal/batch/csvtable"
	"creditrisk/internal/decision"
	"creditrisk/internal/predictor"
	"creditrisk/internal/scoring"
	"creditrisk/internal/scoring/metrics"
	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/sentinel"
	"creditrisk/pkg/platform/tracer"
	"creditrisk/pkg/platform/validation"
)

// Store persists encoded batch results.
// Error Contract:
// - Load returns sentinel.ErrNotFound for unknown or expired IDs
// - Other failures wrap sentinel.ErrUnavailable or are returned as-is
type Store interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
}

// Prediction is the single-applicant risk decision.
type Prediction struct {
	Probability float64            `json:"default_probability"`
	Label       decision.RiskLabel `json:"risk_label"`
	Predictor   string             `json:"predictor"`
	// Importance is each model feature's share of the prediction. Nil when
	// the predictor cannot explain itself.
	Importance map[string]float64 `json:"feature_importance,omitempty"`
}

// BatchResult describes a scored and stored table.
type BatchResult struct {
	ID       string
	Rows     int
	HighRisk int
	Table    batch.Table
	Scores   []batch.Score
}

type Option func(*Service)

// Service composes the estimator, decision policy, predictor, batch scorer
// and result store behind the operations the transports expose.
type Service struct {
	estimator *scoring.Estimator
	policy    decision.Policy
	predictor predictor.Predictor
	scorer    *batch.Scorer
	store     Store
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	logger    *slog.Logger
	newID     func() string
	maxFields int
}

// New creates the service. The predictor and store are required.
func New(p predictor.Predictor, store Store, opts ...Option) *Service {
	if p == nil {
		panic("predictor required")
	}
	if store == nil {
		panic("result store required")
	}
	svc := &Service{
		estimator: scoring.New(),
		policy:    decision.Default(),
		predictor: p,
		store:     store,
		tracer:    tracer.NewOTel("creditrisk/scoring"),
		logger:    slog.Default(),
		newID:     uuid.NewString,
		maxFields: validation.MaxPredictFields,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.scorer == nil {
		svc.scorer = batch.NewScorer(batch.WithPolicy(svc.policy), batch.WithLogger(svc.logger))
	}
	return svc
}

func WithEstimator(e *scoring.Estimator) Option {
	return func(s *Service) {
		s.estimator = e
	}
}

// WithPolicy sets the risk threshold used by PredictRisk and by the default
// batch scorer.
func WithPolicy(p decision.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithScorer replaces the batch scorer. The scorer's own policy applies to
// batches.
func WithScorer(b *batch.Scorer) Option {
	return func(s *Service) {
		s.scorer = b
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIDGenerator replaces uuid.NewString for batch result IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// EstimateScore validates the profile and returns its assessment.
//
// Errors: CodeValidation when a signal is outside its range.
func (s *Service) EstimateScore(ctx context.Context, profile scoring.ApplicantProfile) (*scoring.Assessment, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	a := s.estimator.Assess(profile)
	if s.metrics != nil {
		s.metrics.ObserveEstimate(a.Band.String(), int(a.Score))
	}
	s.logger.DebugContext(ctx, "score estimated", "score", int(a.Score), "band", a.Band.String())
	return &a, nil
}

// PredictRisk runs the predictor on one applicant's fields.
//
// Errors:
//   - CodeValidation for missing or malformed fields
//   - CodeTooLarge for too many fields
//   - CodeUnavailable while the predictor circuit is open
//   - CodeDependencyFailure when the predictor fails or returns a non-probability
func (s *Service) PredictRisk(ctx context.Context, fields map[string]string) (*Prediction, error) {
	if len(fields) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "fields are required")
	}
	if err := validation.CheckCount("fields", len(fields), s.maxFields); err != nil {
		return nil, err
	}
	start := time.Now()
	p, err := s.predictor.Predict(ctx, batch.NewRecord(fields))
	if err == nil {
		err = decision.CheckProbability(p)
	}
	if err != nil {
		return nil, translatePredictError(err)
	}
	label := s.policy.Label(p)
	if s.metrics != nil {
		s.metrics.ObservePrediction(string(label), time.Since(start).Seconds())
	}
	return &Prediction{
		Probability: p,
		Label:       label,
		Predictor:   s.predictor.Name(),
		Importance:  predictor.ImportanceOf(s.predictor),
	}, nil
}

// ScoreTable scores every row, stores the encoded result under a new ID and
// returns it with the scored table. Nothing is stored when any row fails.
//
// Errors:
//   - CodeValidation for a malformed table or a row with bad input (carries *batch.RowError)
//   - CodeDependencyFailure when the predictor fails on a row (carries *batch.RowError)
//   - CodeUnavailable when the predictor circuit is open or the store fails
//   - CodeCanceled / CodeTimeout when ctx ends first
func (s *Service) ScoreTable(ctx context.Context, t batch.Table) (_ *BatchResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanScoreTable, tracer.Int(tracer.AttrBatchRows, t.Len()))
	defer func() { span.End(err) }()

	res, err := s.scorer.Score(ctx, t, predictor.AsProbabilityFunc(s.predictor))
	if err != nil {
		return nil, translateBatchError(err)
	}
	data, err := csvtable.Marshal(res.Table)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode batch result")
	}
	id := s.newID()
	if err := s.store.Save(ctx, id, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to store batch result", "id", id, "error", err)
		return nil, withCode(err, dErrors.CodeUnavailable, "failed to store batch result")
	}
	return &BatchResult{
		ID:       id,
		Rows:     res.Table.Len(),
		HighRisk: res.HighRisk,
		Table:    res.Table,
		Scores:   res.Scores,
	}, nil
}

// Download returns the encoded result stored under id.
//
// Errors: CodeNotFound for a malformed, unknown or expired id;
// CodeUnavailable when the store fails.
func (s *Service) Download(ctx context.Context, id string) ([]byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		s.observeDownload("not_found")
		return nil, dErrors.New(dErrors.CodeNotFound, "batch result not found")
	}
	data, err := s.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.observeDownload("not_found")
			return nil, dErrors.New(dErrors.CodeNotFound, "batch result not found")
		}
		s.observeDownload("error")
		return nil, withCode(err, dErrors.CodeUnavailable, "failed to load batch result")
	}
	s.observeDownload("success")
	return data, nil
}

func (s *Service) observeDownload(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementDownloads(outcome)
	}
}

func translatePredictError(err error) error {
	switch {
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return err
	case errors.Is(err, sentinel.ErrUnavailable):
		return withCode(err, dErrors.CodeUnavailable, "risk model temporarily unavailable")
	case errors.Is(err, context.Canceled):
		return withCode(err, dErrors.CodeCanceled, "prediction canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return withCode(err, dErrors.CodeTimeout, "prediction timed out")
	default:
		return withCode(err, dErrors.CodeDependencyFailure, "risk model failed")
	}
}

func translateBatchError(err error) error {
	var rowErr *batch.RowError
	switch {
	case errors.As(err, &rowErr):
		switch {
		case dErrors.HasCode(rowErr.Err, dErrors.CodeValidation):
			return withCode(err, dErrors.CodeValidation, rowErr.Error())
		case errors.Is(rowErr.Err, sentinel.ErrUnavailable):
			return withCode(err, dErrors.CodeUnavailable, "risk model temporarily unavailable")
		default:
			return withCode(err, dErrors.CodeDependencyFailure,
				fmt.Sprintf("risk model failed on row %d", rowErr.Index))
		}
	case errors.Is(err, context.Canceled):
		return withCode(err, dErrors.CodeCanceled, "batch scoring canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return withCode(err, dErrors.CodeTimeout, "batch scoring timed out")
	default:
		return err
	}
}

// withCode wraps err under code even when the chain already carries a
// domain error with a different code.
func withCode(err error, code dErrors.Code, msg string) error {
	return &dErrors.Error{Code: code, Message: msg, Err: err}
}
