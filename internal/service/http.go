package service

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"flownet/internal/history"
	"flownet/pkg/apperror"
	"flownet/pkg/logger"
	"flownet/pkg/metrics"
	"flownet/pkg/model"
	"flownet/pkg/ratelimit"
)

const maxRequestBody = 8 << 20 // 8 MiB

// Handler exposes the solver service over HTTP.
type Handler struct {
	svc     *SolverService
	limiter ratelimit.Limiter
	metrics *metrics.Metrics
}

// NewHandler creates the HTTP handler. The limiter is optional.
func NewHandler(svc *SolverService, limiter ratelimit.Limiter) *Handler {
	return &Handler{
		svc:     svc,
		limiter: limiter,
		metrics: metrics.Get(),
	}
}

// Routes builds the route table with the standard middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/solve", h.handleSolve)
	mux.HandleFunc("GET /api/v1/runs", h.handleListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.handleGetRun)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	return h.withRequestID(h.withMetrics(h.withRateLimit(mux)))
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req model.SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, r, apperror.Wrap(err, apperror.CodeInvalidArgument,
			"request body is not valid JSON"))
		return
	}

	resp, err := h.svc.Solve(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	opts := &history.ListOptions{
		Algorithm: r.URL.Query().Get("algorithm"),
		GraphHash: r.URL.Query().Get("graph_hash"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}

	runs, total, err := h.svc.ListRuns(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"total": total,
	})
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ===== middleware =====

func (h *Handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if h.metrics != nil {
			h.metrics.HTTPRequestsInFlight.Inc()
			defer h.metrics.HTTPRequestsInFlight.Dec()
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		if h.metrics != nil {
			h.metrics.RecordHTTPRequest(r.Method, r.URL.Path,
				strconv.Itoa(sw.status), elapsed)
		}

		logger.Log.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", float64(elapsed.Microseconds())/1000.0,
			"request_id", w.Header().Get("X-Request-ID"),
		)
	})
}

func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := h.limiter.Allow(r.Context(), clientKey(r))
		if err != nil {
			logger.Log.Warn("Rate limiter failed, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			h.writeJSON(w, http.StatusTooManyRequests, model.ErrorResponse{
				Code:    "RATE_LIMIT_EXCEEDED",
				Message: "too many requests",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller for rate limiting.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ===== responses =====

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs *apperror.ValidationErrors
	if errors.As(err, &verrs) {
		h.writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Code:    string(verrs.First().Code),
			Message: "graph validation failed",
			Details: verrs.ErrorMessages(),
		})
		return
	}

	status := apperror.HTTPStatus(err)
	resp := model.ErrorResponse{
		Code:    string(apperror.Code(err)),
		Message: err.Error(),
	}

	if status >= http.StatusInternalServerError {
		logger.Log.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		resp.Message = "internal error"
	}

	h.writeJSON(w, status, resp)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
