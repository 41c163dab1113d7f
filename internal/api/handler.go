// Package api exposes pull request evaluation over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/RevCBH/revwatch/internal/evaluate"
	"github.com/RevCBH/revwatch/internal/github"
	"github.com/RevCBH/revwatch/internal/store"
)

// Evaluator runs the pipeline. *evaluate.Evaluator implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, number int) (*evaluate.Report, error)
	DryRun(ctx context.Context, number int) (*evaluate.Report, error)
	Sweep(ctx context.Context) ([]*evaluate.Report, error)
}

// History lists past evaluations. *store.DB implements it.
type History interface {
	ListEvaluations(ctx context.Context, repo string, pr int, limit int) ([]store.Evaluation, error)
}

// Handler serves the HTTP routes
type Handler struct {
	eval    Evaluator
	history History
	repo    string
	log     *zap.Logger
}

// NewHandler creates a handler. history may be nil, in which case the
// history route reports 404. repo is "owner/name" and scopes history.
func NewHandler(eval Evaluator, history History, repo string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{eval: eval, history: history, repo: repo, log: log}
}

// Router builds the chi router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", h.Health)

	r.Route("/pulls/{number}", func(r chi.Router) {
		r.Get("/", h.Preview)
		r.Post("/evaluate", h.Evaluate)
		r.Get("/history", h.History)
	})
	r.Post("/sweep", h.Sweep)

	return r
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Preview returns a dry-run report for one pull request
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	number, ok := prNumber(w, r)
	if !ok {
		return
	}
	rep, err := h.eval.DryRun(r.Context(), number)
	if err != nil {
		h.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// Evaluate runs the pipeline for one pull request with side effects
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	number, ok := prNumber(w, r)
	if !ok {
		return
	}
	rep, err := h.eval.Evaluate(r.Context(), number)
	if err != nil {
		h.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// Sweep evaluates every open pull request
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	reports, err := h.eval.Sweep(r.Context())
	if reports == nil {
		reports = []*evaluate.Report{}
	}
	resp := sweepResponse{Reports: reports}
	if err != nil {
		if len(reports) == 0 {
			h.handleError(w, err)
			return
		}
		resp.Error = err.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

// History lists recorded evaluations for one pull request, newest first
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusNotFound, "NO_HISTORY", "evaluation history is not enabled")
		return
	}
	number, ok := prNumber(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "limit must be a positive integer")
			return
		}
		limit = n
	}
	evals, err := h.history.ListEvaluations(r.Context(), h.repo, number, limit)
	if err != nil {
		h.handleError(w, err)
		return
	}
	out := make([]evaluationPayload, 0, len(evals))
	for _, e := range evals {
		out = append(out, mapEvaluation(e))
	}
	respondJSON(w, http.StatusOK, map[string]any{"evaluations": out})
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, github.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "pull request not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "TIMEOUT", err.Error())
	default:
		h.log.Error("request failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "UPSTREAM", err.Error())
	}
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func prNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || n < 1 {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "pull request number must be a positive integer")
		return 0, false
	}
	return n, true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	})
}
