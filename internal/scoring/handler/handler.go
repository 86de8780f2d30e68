package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"creditrisk/internal/batch"
	"creditrisk/internal/batch/csvtable"
	"creditrisk/internal/scoring"
	"creditrisk/internal/scoring/service"
	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/httputil"
	request "creditrisk/pkg/platform/middleware/request"
	"creditrisk/pkg/platform/validation"
	"creditrisk/pkg/requestcontext"
)

// DownloadFilename is the attachment name of a scored batch.
const DownloadFilename = "credit_risk_predictions.csv"

// uploadField is the multipart form field holding the CSV file.
const uploadField = "file"

// Service defines the scoring operations exposed over HTTP.
type Service interface {
	EstimateScore(ctx context.Context, profile scoring.ApplicantProfile) (*scoring.Assessment, error)
	PredictRisk(ctx context.Context, fields map[string]string) (*service.Prediction, error)
	ScoreTable(ctx context.Context, t batch.Table) (*service.BatchResult, error)
	Download(ctx context.Context, id string) ([]byte, error)
}

// Handler serves the score estimator, single prediction and batch endpoints.
type Handler struct {
	svc            Service
	logger         *slog.Logger
	maxRows        int
	maxUploadBytes int64
}

type Option func(*Handler)

// WithMaxRows caps the data rows accepted in one upload.
func WithMaxRows(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxRows = n
		}
	}
}

// WithMaxUploadBytes caps the size of a batch upload body.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// New creates a scoring Handler.
func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	if svc == nil {
		panic("scoring service required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		svc:            svc,
		logger:         logger,
		maxRows:        validation.DefaultMaxBatchRows,
		maxUploadBytes: validation.DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the scoring routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(request.BodyLimit(validation.MaxBodySize))
		r.Use(request.ContentTypeJSON)
		r.Post("/score/estimate", h.HandleEstimate)
		r.Post("/score/predict", h.HandlePredict)
	})
	r.Group(func(r chi.Router) {
		r.Use(request.BodyLimit(h.maxUploadBytes))
		r.Use(request.RequireContentType(csvtable.ContentType, "application/csv", "text/plain", "multipart/form-data"))
		r.Post("/batch", h.HandleBatch)
	})
	r.Get("/batch/{id}/download", h.HandleDownload)
}

// HandleEstimate implements POST /score/estimate.
//
// Input: { "payment_history": "rarely", "credit_utilization": 45, "credit_history_years": 4, "active_loans": 1, "recent_inquiries": 1 }
// Output: { "score": 650, "max_score": 900, "band": "Good", "summary": "...", "breakdown": {...}, "tips": [...] }
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EstimateRequest](w, r, h.logger)
	if !ok {
		return
	}

	a, err := h.svc.EstimateScore(ctx, req.Profile())
	if err != nil {
		h.logger.WarnContext(ctx, "score estimate failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		h.writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toEstimateResponse(a))
}

// HandlePredict implements POST /score/predict.
//
// Input: { "fields": { "age": 35, "income": 52000, "credit_history": "Good" } }
// Output: { "default_probability": 0.12, "risk_percent": "12.0%", "risk_label": "Low Risk", "predictor": "logistic", "feature_importance": {"income": 0.4, ...} }
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[PredictRequest](w, r, h.logger)
	if !ok {
		return
	}

	p, err := h.svc.PredictRisk(ctx, req.Values())
	if err != nil {
		h.logger.WarnContext(ctx, "prediction failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		h.writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPredictResponse(p))
}

// HandleBatch implements POST /batch. The body is either a raw CSV document
// or a multipart form with the CSV under the "file" field.
//
// Output: { "id": "...", "rows": 3, "high_risk": 1, "columns": [...], "preview": [[...]], "download_url": "/batch/{id}/download" }
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, closeBody, err := h.uploadBody(r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read batch upload",
			"error", err,
			"request_id", requestID,
		)
		h.writeError(w, err)
		return
	}
	defer closeBody()

	t, err := csvtable.Decode(body, h.maxRows)
	if err != nil {
		err = uploadError(err)
		h.logger.WarnContext(ctx, "invalid batch upload",
			"error", err,
			"request_id", requestID,
		)
		h.writeError(w, err)
		return
	}

	res, err := h.svc.ScoreTable(ctx, t)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch scoring failed",
			"error", err,
			"request_id", requestID,
			"rows", t.Len(),
		)
		h.writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "batch scored",
		"request_id", requestID,
		"batch_id", res.ID,
		"rows", res.Rows,
		"high_risk", res.HighRisk,
	)
	httputil.WriteJSON(w, http.StatusOK, toBatchResponse(res))
}

// HandleDownload implements GET /batch/{id}/download.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	data, err := h.svc.Download(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "batch download failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
			"batch_id", id,
		)
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", csvtable.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": DownloadFilename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) uploadBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, nil, uploadError(err)
	}
	file, _, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, dErrors.New(dErrors.CodeValidation, `multipart field "file" is required`)
		}
		return nil, nil, uploadError(err)
	}
	return file, func() { _ = file.Close() }, nil
}

// uploadError maps body size overruns to CodeTooLarge and keeps domain codes.
func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return dErrors.New(dErrors.CodeTooLarge, "upload too large")
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid upload")
}

// writeError adds the failing row to the envelope when there is one.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	body := httputil.Envelope(err)
	var rowErr *batch.RowError
	if errors.As(err, &rowErr) {
		row := rowErr.Index
		body.Row = &row
	}
	httputil.WriteJSON(w, httputil.StatusFor(err), body)
}
