// Package transport exposes the query boundary over HTTP: filter
// queries against precomputed annotated series, raw series reads per
// granularity, health, and Prometheus metrics. The engine itself
// knows nothing of HTTP; this package binds requests, validates
// filter configurations, and renders responses.
package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seasoncli/internal/filter"
	"seasoncli/internal/infrastructure"
	"seasoncli/internal/seasonality"
)

// Server serves filter queries over a set of precomputed results.
type Server struct {
	mu      sync.RWMutex
	results map[string]seasonality.Result

	logger   *slog.Logger
	metrics  *infrastructure.Metrics
	validate *validator.Validate
}

// NewServer creates a server over the given per-symbol results.
func NewServer(results map[string]seasonality.Result, logger *slog.Logger, metrics *infrastructure.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.NewMetrics()
	}
	if results == nil {
		results = make(map[string]seasonality.Result)
	}
	return &Server{
		results:  results,
		logger:   logger,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// SetResult installs or replaces one symbol's computed series.
func (s *Server) SetResult(symbol string, res seasonality.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[strings.ToUpper(symbol)] = res
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(StructuredLogger(s.logger))
	r.Use(Recoverer(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/symbols", s.handleSymbols)
		r.Get("/series/{symbol}/{granularity}", s.handleSeries)
		r.Post("/series/{symbol}/query", s.handleQuery)
	})

	return r
}

type errResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: msg, RequestID: GetReqID(r.Context())})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.results)
	s.mu.RUnlock()
	render.JSON(w, r, map[string]any{"status": "ok", "symbols": n})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	symbols := make([]string, 0, len(s.results))
	for sym := range s.results {
		symbols = append(symbols, sym)
	}
	s.mu.RUnlock()
	sort.Strings(symbols)
	render.JSON(w, r, map[string]any{"symbols": symbols})
}

func (s *Server) lookup(symbol string) (seasonality.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[strings.ToUpper(symbol)]
	return res, ok
}

// handleSeries returns one raw annotated series.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	res, ok := s.lookup(symbol)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, fmt.Sprintf("unknown symbol %q", symbol))
		return
	}

	switch granularity := chi.URLParam(r, "granularity"); granularity {
	case "daily":
		render.JSON(w, r, res.Daily)
	case "weekly-monday":
		render.JSON(w, r, res.MondayWeekly)
	case "weekly-expiry":
		render.JSON(w, r, res.ExpiryWeekly)
	case "monthly":
		render.JSON(w, r, res.Monthly)
	case "yearly":
		render.JSON(w, r, res.Yearly)
	default:
		s.renderError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown granularity %q", granularity))
	}
}

// queryResponse is the filter query result: the narrowed rows plus
// their summary statistics.
type queryResponse struct {
	Symbol  string               `json:"symbol"`
	Summary filter.Summary       `json:"summary"`
	Days    []seasonality.DayBar `json:"days"`
}

// handleQuery binds a filter configuration, validates it, and applies
// it to the symbol's daily series.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	res, ok := s.lookup(symbol)
	if !ok {
		s.metrics.QueryRequests.WithLabelValues("not_found").Inc()
		s.renderError(w, r, http.StatusNotFound, fmt.Sprintf("unknown symbol %q", symbol))
		return
	}

	var cfg filter.Config
	if err := render.DecodeJSON(r.Body, &cfg); err != nil {
		s.metrics.QueryRequests.WithLabelValues("bad_request").Inc()
		s.renderError(w, r, http.StatusBadRequest, fmt.Sprintf("decode filter config: %v", err))
		return
	}

	if err := s.validate.Struct(cfg); err != nil {
		s.metrics.QueryRequests.WithLabelValues("bad_request").Inc()
		s.renderError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("invalid filter config: %v", err))
		return
	}

	days := filter.NewEngine(res.Daily).ApplyFilters(cfg).Current()

	s.metrics.QueryRequests.WithLabelValues("ok").Inc()
	s.metrics.QueryRows.Observe(float64(len(days)))

	render.JSON(w, r, queryResponse{
		Symbol:  strings.ToUpper(symbol),
		Summary: filter.Summarize(days),
		Days:    days,
	})
}
