package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/httputil"
	request "creditrisk/pkg/platform/middleware/request"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig carries the cross-cutting pieces of the HTTP stack.
type RouterConfig struct {
	Logger  *slog.Logger
	Timeout time.Duration
	Latency *request.Metrics
	// Gatherer backs /metrics; nil uses the default gatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter wires every registrar behind the shared middleware stack and
// exposes /metrics. Handlers stay thin and delegate to domain services.
func NewRouter(cfg RouterConfig, registrars ...Registrar) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(request.Logger(logger))
	r.Use(request.LatencyMiddleware(cfg.Latency))
	if cfg.Timeout > 0 {
		r.Use(request.Timeout(cfg.Timeout))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{
			Error:       "method_not_allowed",
			Description: "method not allowed",
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	for _, reg := range registrars {
		reg.Register(r)
	}
	return r
}
