package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store
//go:generate mockgen -source=../../predictor/predictor.go -destination=mocks/predictor_mock.go -package=mocks Predictor Explainer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"creditrisk/internal/batch"
	"creditrisk/internal/decision"
	"creditrisk/internal/scoring"
	"creditrisk/internal/scoring/metrics"
	"creditrisk/internal/scoring/service/mocks"
	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/sentinel"
	"creditrisk/pkg/platform/tracer"
)

const batchID = "0b7e2a4c-7f0e-4d6f-9a43-2f6c1f6a9b10"

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	predictor *mocks.MockPredictor
	store     *mocks.MockStore
	metrics   *metrics.Metrics
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.predictor = mocks.NewMockPredictor(s.ctrl)
	s.predictor.EXPECT().Name().Return("mock").AnyTimes()
	s.store = mocks.NewMockStore(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.predictor, s.store,
		WithMetrics(s.metrics),
		WithTracer(tracer.NewNoop()),
		WithScorer(batch.NewScorer(batch.WithTracer(tracer.NewNoop()), batch.WithWorkers(2))),
		WithIDGenerator(func() string { return batchID }),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestEstimateScore() {
	s.Run("valid profile", func() {
		a, err := s.service.EstimateScore(context.Background(),
			scoring.ApplicantProfile{PaymentHistory: scoring.PaymentRarely, CreditUtilization: 45, CreditHistoryYears: 4, ActiveLoans: 1, RecentInquiries: 1})
		s.Require().NoError(err)
		s.Equal(scoring.CreditScore(650), a.Score)
		s.Equal(decision.BandGood, a.Band)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.EstimatesTotal.WithLabelValues("Good")))
	})

	s.Run("out of range is rejected, not clamped", func() {
		_, err := s.service.EstimateScore(context.Background(),
			scoring.ApplicantProfile{PaymentHistory: scoring.PaymentNever, CreditUtilization: -5})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestPredictRisk() {
	fields := map[string]string{"income": "30000"}

	s.Run("labels the probability", func() {
		s.predictor.EXPECT().Predict(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r batch.Record) (float64, error) {
				v, _ := r.Get("income")
				s.Equal("30000", v)
				return 0.5, nil
			})
		p, err := s.service.PredictRisk(context.Background(), fields)
		s.Require().NoError(err)
		s.Equal(&Prediction{Probability: 0.5, Label: decision.LowRisk, Predictor: "mock"}, p)
	})

	cases := []struct {
		name string
		prob float64
		err  error
		code dErrors.Code
	}{
		{"validation passes through", 0, dErrors.New(dErrors.CodeValidation, "missing column"), dErrors.CodeValidation},
		{"open circuit", 0, fmt.Errorf("predictor mock: %w", sentinel.ErrUnavailable), dErrors.CodeUnavailable},
		{"model failure", 0, errors.New("segfault"), dErrors.CodeDependencyFailure},
		{"out of range output", 1.2, nil, dErrors.CodeDependencyFailure},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.predictor.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(tc.prob, tc.err)
			_, err := s.service.PredictRisk(context.Background(), fields)
			s.Equal(tc.code, dErrors.CodeOf(err))
		})
	}

	s.Run("reports feature importance", func() {
		explained := struct {
			*mocks.MockPredictor
			*mocks.MockExplainer
		}{s.predictor, mocks.NewMockExplainer(s.ctrl)}
		explained.MockExplainer.EXPECT().Importance().Return(map[string]float64{"income": 1})
		explained.MockPredictor.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(0.8, nil)

		svc := New(explained, s.store, WithTracer(tracer.NewNoop()))
		p, err := svc.PredictRisk(context.Background(), fields)
		s.Require().NoError(err)
		s.Equal(decision.HighRisk, p.Label)
		s.Equal(map[string]float64{"income": 1}, p.Importance)
	})

	s.Run("empty fields", func() {
		_, err := s.service.PredictRisk(context.Background(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("too many fields", func() {
		many := map[string]string{}
		for i := range 500 {
			many[fmt.Sprintf("f%d", i)] = "1"
		}
		_, err := s.service.PredictRisk(context.Background(), many)
		s.True(dErrors.HasCode(err, dErrors.CodeTooLarge))
	})
}

func threeRows() batch.Table {
	return batch.Table{Columns: []string{"id"}, Rows: [][]string{{"a"}, {"b"}, {"c"}}}
}

func (s *ServiceSuite) TestScoreTable() {
	s.Run("stores the encoded result", func() {
		s.predictor.EXPECT().Predict(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r batch.Record) (float64, error) {
				return []float64{0.1, 0.9, 0.5}[r.Index()], nil
			}).Times(3)
		want := "id,defaultProbability,riskLabel\n" +
			"a,0.1000,Low Risk\n" +
			"b,0.9000,High Risk\n" +
			"c,0.5000,Low Risk\n"
		s.store.EXPECT().Save(gomock.Any(), batchID, []byte(want)).Return(nil)

		res, err := s.service.ScoreTable(context.Background(), threeRows())
		s.Require().NoError(err)
		s.Equal(batchID, res.ID)
		s.Equal(3, res.Rows)
		s.Equal(1, res.HighRisk)
		s.Len(res.Scores, 3)
	})

	s.Run("row failure stores nothing and names the row", func() {
		s.predictor.EXPECT().Predict(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r batch.Record) (float64, error) {
				if r.Index() == 1 {
					return 0, errors.New("model exploded")
				}
				return 0.2, nil
			}).AnyTimes()

		_, err := s.service.ScoreTable(context.Background(), threeRows())
		s.Equal(dErrors.CodeDependencyFailure, dErrors.CodeOf(err))
		var rowErr *batch.RowError
		s.Require().ErrorAs(err, &rowErr)
		s.Equal(1, rowErr.Index)
	})
}

func (s *ServiceSuite) TestScoreTableErrorCodes() {
	s.Run("bad row input is a validation error", func() {
		s.predictor.EXPECT().Predict(gomock.Any(), gomock.Any()).
			Return(0.0, dErrors.New(dErrors.CodeValidation, "missing column \"payment_history\"")).AnyTimes()
		_, err := s.service.ScoreTable(context.Background(), threeRows())
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
		s.Contains(err.Error(), "row 0")
	})

	s.Run("malformed table", func() {
		_, err := s.service.ScoreTable(context.Background(), batch.Table{Columns: []string{"a", "a"}})
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	s.Run("canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.service.ScoreTable(ctx, threeRows())
		s.Equal(dErrors.CodeCanceled, dErrors.CodeOf(err))
	})
}

func (s *ServiceSuite) TestScoreTableStoreFailure() {
	s.predictor.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(0.3, nil).Times(3)
	s.store.EXPECT().Save(gomock.Any(), batchID, gomock.Any()).Return(sentinel.ErrUnavailable)
	_, err := s.service.ScoreTable(context.Background(), threeRows())
	s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestDownload() {
	s.Run("found", func() {
		s.store.EXPECT().Load(gomock.Any(), batchID).Return([]byte("csv"), nil)
		data, err := s.service.Download(context.Background(), batchID)
		s.Require().NoError(err)
		s.Equal([]byte("csv"), data)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.DownloadsTotal.WithLabelValues("success")))
	})

	s.Run("unknown id", func() {
		s.store.EXPECT().Load(gomock.Any(), batchID).Return(nil, sentinel.ErrNotFound)
		_, err := s.service.Download(context.Background(), batchID)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("malformed id never reaches the store", func() {
		_, err := s.service.Download(context.Background(), "../../etc/passwd")
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("store failure", func() {
		s.store.EXPECT().Load(gomock.Any(), batchID).Return(nil, fmt.Errorf("load: %w", sentinel.ErrUnavailable))
		_, err := s.service.Download(context.Background(), batchID)
		s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))
	})
}

func (s *ServiceSuite) TestRequiredDependencies() {
	s.Panics(func() { New(nil, s.store) })
	s.Panics(func() { New(s.predictor, nil) })
}
