package handler

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"grantnet/internal/network/models"
	dErrors "grantnet/pkg/domain-errors"
	"grantnet/pkg/platform/httputil"
	"grantnet/pkg/requestcontext"
)

const healthTimeout = 2 * time.Second

// Service defines the analysis operations exposed over HTTP.
type Service interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
	BuildNetwork(ctx context.Context, req models.NetworkRequest) (*models.NetworkReport, error)
	FindPathway(ctx context.Context, req models.PathwayRequest) (*models.Pathway, error)
	Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendationReport, error)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handler wires the analysis endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
	checks  map[string]HealthCheck
}

type Option func(*Handler)

// WithHealthCheck adds a named dependency probe to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) {
		if check != nil {
			h.checks[name] = check
		}
	}
}

// New constructs a handler with its dependencies.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
		checks:  make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/analyses", h.HandleAnalyze)
		v1.Post("/network", h.HandleNetwork)
		v1.Post("/network/pathways", h.HandlePathway)
		v1.Post("/recommendations", h.HandleRecommend)
	})
}

// HandleAnalyze handles POST /v1/analyses.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.fail(w, r, "analysis", err)
		return
	}
	h.logger.InfoContext(r.Context(), "analysis served",
		"request_id", requestcontext.RequestID(r.Context()),
		"run_id", result.Metadata.RunID,
		"from_cache", result.Metadata.FromCache,
		"bundled", result.BundledCount,
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleNetwork handles POST /v1/network.
func (h *Handler) HandleNetwork(w http.ResponseWriter, r *http.Request) {
	var req models.NetworkRequest
	if !h.decode(w, r, &req) {
		return
	}
	report, err := h.service.BuildNetwork(r.Context(), req)
	if err != nil {
		h.fail(w, r, "network build", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandlePathway handles POST /v1/network/pathways.
func (h *Handler) HandlePathway(w http.ResponseWriter, r *http.Request) {
	var req models.PathwayRequest
	if !h.decode(w, r, &req) {
		return
	}
	pathway, err := h.service.FindPathway(r.Context(), req)
	if err != nil {
		h.fail(w, r, "pathway", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pathway)
}

// HandleRecommend handles POST /v1/recommendations.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if !h.decode(w, r, &req) {
		return
	}
	report, err := h.service.Recommend(r.Context(), req)
	if err != nil {
		h.fail(w, r, "recommendation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleHealth handles GET /healthz. Any failing probe makes the response 503.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok"}
	status := http.StatusOK
	for _, name := range sortedNames(h.checks) {
		if err := h.checks[name](ctx); err != nil {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string)
			}
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	httputil.WriteJSON(w, status, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httputil.DecodeJSON(w, r, v); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		httputil.WriteError(w, err)
		return false
	}
	return true
}

// fail logs client errors at warn and everything else at error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"error", err,
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeNotFound:
		h.logger.WarnContext(ctx, "request rejected", attrs...)
	default:
		h.logger.ErrorContext(ctx, "request failed", attrs...)
	}
	httputil.WriteError(w, err)
}

func sortedNames(checks map[string]HealthCheck) []string {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
