package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/tpa-methane-risk/internal/domain"
	"github.com/couchcryptid/tpa-methane-risk/internal/estimator"
	"github.com/couchcryptid/tpa-methane-risk/internal/observability"
)

// Assessor evaluates risk queries against the incident baseline.
type Assessor interface {
	Assess(ctx context.Context, q domain.Query) (domain.Assessment, error)
	Baseline() domain.Baseline
}

// AssessmentStore keeps a history of completed assessments.
type AssessmentStore interface {
	Save(ctx context.Context, a domain.Assessment) error
	Get(ctx context.Context, id string) (domain.Assessment, error)
	Recent(ctx context.Context, limit int) ([]domain.Assessment, error)
}

// WasteForecaster predicts a year's total waste from the regression model.
type WasteForecaster interface {
	Forecast(year int, avgDailyWaste float64) (estimator.WasteForecast, error)
	AvgDailyWaste() float64
}

// TemperatureForecaster predicts a day's temperature from the regression model.
type TemperatureForecaster interface {
	Forecast(date time.Time) (estimator.TemperatureForecast, error)
}

// Deps are the collaborators behind the API routes. Store may be nil, which
// disables the history routes; nil forecasters disable the prediction routes.
type Deps struct {
	Assessor         Assessor
	Waste            *domain.WasteSeries
	Production       []domain.ProductionPoint
	Store            AssessmentStore
	WasteModel       WasteForecaster
	TemperatureModel TemperatureForecaster
	Metrics          *observability.Metrics
	DefaultHorizon   int
}

// Server exposes the risk API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api/v1 routes, /healthz, /readyz,
// and /metrics.
func NewServer(addr string, deps Deps, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	s := &Server{
		deps:   deps,
		logger: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/assessments", s.handleAssess).Methods(http.MethodPost)
	api.HandleFunc("/assessments", s.handleListAssessments).Methods(http.MethodGet)
	api.HandleFunc("/assessments/{id}", s.handleGetAssessment).Methods(http.MethodGet)
	api.HandleFunc("/projection", s.handleProjection).Methods(http.MethodGet)
	api.HandleFunc("/methane-production", s.handleProduction).Methods(http.MethodGet)
	api.HandleFunc("/baseline", s.handleBaseline).Methods(http.MethodGet)
	api.HandleFunc("/predictions/waste", s.handleWasteForecast).Methods(http.MethodGet)
	api.HandleFunc("/predictions/temperature", s.handleTemperatureForecast).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.CustomLoggingHandler(io.Discard, h, requestLogger(logger))
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(true),
	)(h)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// requestLogger routes gorilla's access log through slog.
func requestLogger(logger *slog.Logger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		logger.Debug("http request",
			"method", p.Request.Method,
			"path", p.URL.Path,
			"status", p.StatusCode,
			"bytes", p.Size,
			"duration", time.Since(p.TimeStamp),
		)
	}
}
