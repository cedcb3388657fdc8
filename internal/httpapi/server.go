package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"motiond/internal/manager"
	"motiond/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	GenerateMotion(ctx context.Context, req types.MotionRequest) (*types.MotionResponse, error)
	Status() types.StatusResponse
	Ready() bool
}

// NewMux builds the router: /health, /healthz, /readyz, /status, /metrics
// and POST /v1/motion.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression matters here: motion payloads are large nested arrays.
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", handleHealth)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Post("/v1/motion", func(w http.ResponseWriter, r *http.Request) {
		handleMotion(svc, w, r)
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleHealth reports liveness. It deliberately never touches the runtime:
// a process that is up is healthy even before the model is loaded.
//
// @Summary  Liveness probe
// @Produce  json
// @Success  200 {object} types.HealthResponse
// @Router   /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.HealthResponse{Status: "ok"})
}

// handleMotion validates and runs one generation request.
//
// @Summary  Generate a motion sequence from text
// @Accept   json
// @Produce  json
// @Param    request body types.MotionRequest true "generation request"
// @Success  200 {object} types.MotionResponse
// @Failure  422 {object} types.ErrorResponse
// @Failure  503 {object} types.ErrorResponse
// @Router   /v1/motion [post]
func handleMotion(svc Service, w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.MotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.ApplyDefaults()
	if fields := req.Validate(); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	start := time.Now()
	lvl := requestLogLevel(r)
	logStart(r, lvl, req)

	// Join server base context with request context so shutdown cancels work too.
	joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	resp, err := svc.GenerateMotion(joinedCtx, req)
	if err != nil {
		// If context was canceled (client disconnect), just return.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status, msg := mapServiceError(err)
		writeJSONError(w, status, msg)
		logEnd(r, lvl, status, time.Since(start), err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logEnd(r, lvl, http.StatusInternalServerError, time.Since(start), err)
		return
	}
	logEnd(r, lvl, http.StatusOK, time.Since(start), nil)
}

// mapServiceError projects the manager error taxonomy onto HTTP. All three
// unavailable variants share 503; the detail text keeps them apart.
func mapServiceError(err error) (int, string) {
	switch {
	case manager.IsConfigMissing(err):
		return http.StatusServiceUnavailable, "Model not available: " + err.Error()
	case manager.IsConstructionFailure(err):
		return http.StatusServiceUnavailable, "Service unavailable: " + err.Error()
	case manager.IsGenerationFailure(err):
		// The error text already reads "generation failed: ...".
		return http.StatusServiceUnavailable, err.Error()
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode(), he.Error()
	}
	return http.StatusInternalServerError, err.Error()
}
