package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"AffairsCatalog/internal/catalog"
	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/infrastructure/metrics"
	"AffairsCatalog/internal/render"
)

// Recognized boolean query parameters forwarded as options.
var optionParams = []string{
	domain.OptionAnalysis,
	domain.OptionHindi,
	domain.OptionPDF,
	domain.OptionEditorials,
}

const partialFailuresHeader = "X-Partial-Failures"

// Server exposes the catalog over HTTP for the presentation layer.
type Server struct {
	catalog *catalog.Service
	metrics *metrics.Collector
	logger  *slog.Logger
}

// New wires the HTTP adapter. metrics may be nil.
func New(svc *catalog.Service, m *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{catalog: svc, metrics: m, logger: logger}
}

// Routes returns a chi.Router with every catalog endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/sources", s.getSources)
		r.Get("/providers", s.getProviders)
		r.Get("/providers/{key}", s.getProvider)
		r.Get("/statistics", s.getStatistics)
		r.Get("/catalog/{date}.html", s.getCatalogPage)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getSources(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.catalog.Today().String()
	}

	res, err := s.catalog.Resolve(r.Context(), date, parseOptions(r))
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}

	if len(res.Failures) > 0 {
		keys := make([]string, 0, len(res.Failures))
		for _, f := range res.Failures {
			keys = append(keys, string(f.Key))
		}
		w.Header().Set(partialFailuresHeader, strings.Join(keys, ","))
	}
	writeJSON(w, http.StatusOK, res.Sources)
}

func (s *Server) getProviders(w http.ResponseWriter, r *http.Request) {
	if t := r.URL.Query().Get("type"); t != "" {
		writeJSON(w, http.StatusOK, s.catalog.SourcesByType(domain.ProviderType(t)))
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.AllSourceMetadata())
}

func (s *Server) getProvider(w http.ResponseWriter, r *http.Request) {
	key := domain.ProviderKey(chi.URLParam(r, "key"))
	info, err := s.catalog.Provider(key)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "unknown provider")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load provider")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) getStatistics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Statistics())
}

func (s *Server) getCatalogPage(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	res, err := s.catalog.Resolve(r.Context(), date, parseOptions(r))
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTML(w, res.Date, res.Sources); err != nil {
		s.logger.Error("render catalog page", "date", date, "error", err)
	}
}

// writeResolveError maps error kinds to statuses; the kind itself is only logged.
func (s *Server) writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "Failed to load sources. Please check the date.")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("resolve interrupted", "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "Failed to load sources. Please try again.")
	default:
		s.logger.Error("resolve sources", "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to load sources. Please try again.")
	}
}

func parseOptions(r *http.Request) domain.Options {
	q := r.URL.Query()
	opts := domain.Options{}
	for _, name := range optionParams {
		if raw := q.Get(name); raw != "" {
			if on, err := strconv.ParseBool(raw); err == nil {
				opts[name] = on
			}
		}
	}
	return opts
}
