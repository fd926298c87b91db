package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/ports"
	"AffairsCatalog/internal/strategy"
)

// FailurePolicy decides what a single failing provider does to a resolution.
type FailurePolicy int

const (
	// FailFast aborts the whole resolution on the first provider failure.
	FailFast FailurePolicy = iota
	// Isolate skips the failing provider and reports it in Resolution.Failures.
	Isolate
)

// ProviderError wraps a provider's generation failure with its key.
type ProviderError struct {
	Key domain.ProviderKey
	Err error
}

// Error reports the provider key with its cause.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Key, e.Err)
}

// Unwrap exposes both the cause and domain.ErrProviderFailure to errors.Is.
func (e *ProviderError) Unwrap() []error {
	return []error{domain.ErrProviderFailure, e.Err}
}

// Resolution is the outcome of resolving one date.
type Resolution struct {
	Date     domain.Date
	Sources  []domain.Source
	Failures []*ProviderError
}

// Service resolves dates into display-ready sources using a strategy registry.
type Service struct {
	registry *strategy.Registry
	now      func() time.Time
	location *time.Location
	policy   FailurePolicy
	recorder ports.Recorder
	logger   *slog.Logger
}

var _ ports.SourceCatalog = (*Service)(nil)

// Option customizes a Service.
type Option func(*Service)

// WithClock injects the wall clock used to derive "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the timezone in which "today" is computed.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithFailurePolicy selects how provider failures propagate.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithRecorder attaches a telemetry sink.
func WithRecorder(r ports.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger attaches a logger; the service is silent without one.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService wires the registry with optional collaborators.
func NewService(reg *strategy.Registry, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		now:      time.Now,
		location: time.UTC,
		policy:   FailFast,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = strategy.NewRegistry()
	}
	return s
}

// Today returns the current calendar day in the service timezone.
func (s *Service) Today() domain.Date {
	return s.DayOf(s.now())
}

// DayOf converts an instant to its calendar day in the service timezone.
func (s *Service) DayOf(t time.Time) domain.Date {
	return domain.DateOf(t.In(s.location))
}

// SourcesForDate returns every source available for date, grouped by provider.
func (s *Service) SourcesForDate(ctx context.Context, date string, opts domain.Options) ([]domain.Source, error) {
	res, err := s.Resolve(ctx, date, opts)
	if err != nil {
		return nil, err
	}
	return res.Sources, nil
}

// Resolve runs the full per-date resolution and reports per-provider failures
// when the Isolate policy is active.
func (s *Service) Resolve(ctx context.Context, date string, opts domain.Options) (Resolution, error) {
	start := time.Now()

	res, err := s.resolve(ctx, date, opts)
	outcome := outcomeOf(res, err)
	if s.recorder != nil {
		s.recorder.ObserveResolution(outcome, time.Since(start))
	}
	if err != nil {
		s.logError("resolve sources failed", "date", date, "outcome", outcome, "error", err)
		return Resolution{}, err
	}

	s.debug("resolve sources done", "date", res.Date.String(), "sources", len(res.Sources), "failures", len(res.Failures))
	return res, nil
}

func (s *Service) resolve(ctx context.Context, date string, opts domain.Options) (Resolution, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return Resolution{}, err
	}

	today := s.Today()
	keys := s.registry.AvailableKeys(day, today)
	s.debug("available providers", "date", day.String(), "today", today.String(), "providers", len(keys))

	res := Resolution{Date: day, Sources: []domain.Source{}}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return Resolution{}, fmt.Errorf("resolve %s: %w", day, err)
		}

		sources, err := s.sourcesFor(key, day, opts)
		if err != nil {
			perr := &ProviderError{Key: key, Err: err}
			if s.recorder != nil {
				s.recorder.ProviderFailed(key)
			}
			if s.policy != Isolate {
				return Resolution{}, perr
			}
			s.logError("provider skipped", "provider", key, "error", err)
			res.Failures = append(res.Failures, perr)
			continue
		}

		if s.recorder != nil {
			s.recorder.AddSources(key, len(sources))
		}
		s.debug("provider produced sources", "provider", key, "count", len(sources))
		res.Sources = append(res.Sources, sources...)
	}

	return res, nil
}

func (s *Service) sourcesFor(key domain.ProviderKey, day domain.Date, opts domain.Options) ([]domain.Source, error) {
	strat, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}

	md := strat.Metadata()
	descriptors, err := strat.GenerateURLs(day, opts)
	if err != nil {
		return nil, fmt.Errorf("generate urls: %w", err)
	}

	sources := make([]domain.Source, 0, len(descriptors))
	for i, d := range descriptors {
		sources = append(sources, buildSource(key, i, md, d, registrableDomain(d.URL)))
	}
	return sources, nil
}

func buildSource(key domain.ProviderKey, index int, md domain.ProviderMetadata, d domain.ResourceDescriptor, registrable string) domain.Source {
	return domain.Source{
		ID:             string(key) + "-" + strconv.Itoa(index),
		Title:          md.Name,
		Description:    md.Description,
		Source:         md.Name,
		Type:           md.Type,
		PDFURL:         d.URL,
		URL:            d.URL,
		URLType:        d.Kind,
		URLDescription: d.Description,
		Size:           EstimateSize(d.Kind),
		Pages:          EstimatePages(d.Kind),
		Metadata: domain.SourceMetadata{
			ProviderMetadata: md,
			StrategyKey:      key,
			URLIndex:         index,
			Domain:           registrable,
		},
	}
}

// AllSourceMetadata returns the metadata of every registered provider, tagged with its key.
func (s *Service) AllSourceMetadata() []domain.ProviderInfo {
	keys := s.registry.Keys()
	infos := make([]domain.ProviderInfo, 0, len(keys))
	for _, key := range keys {
		strat, err := s.registry.Get(key)
		if err != nil {
			continue
		}
		infos = append(infos, domain.ProviderInfo{Key: key, ProviderMetadata: strat.Metadata()})
	}
	return infos
}

// SourcesByType filters AllSourceMetadata by provider type.
func (s *Service) SourcesByType(t domain.ProviderType) []domain.ProviderInfo {
	infos := []domain.ProviderInfo{}
	for _, info := range s.AllSourceMetadata() {
		if info.Type == t {
			infos = append(infos, info)
		}
	}
	return infos
}

// Provider returns one provider's metadata or a wrapped domain.ErrNotFound.
func (s *Service) Provider(key domain.ProviderKey) (domain.ProviderInfo, error) {
	strat, err := s.registry.Get(key)
	if err != nil {
		return domain.ProviderInfo{}, err
	}
	return domain.ProviderInfo{Key: key, ProviderMetadata: strat.Metadata()}, nil
}

// Statistics counts registered providers by type and reliability.
func (s *Service) Statistics() domain.Statistics {
	stats := domain.Statistics{
		ByType:        map[domain.ProviderType]int{},
		ByReliability: map[domain.Reliability]int{},
	}
	for _, info := range s.AllSourceMetadata() {
		stats.Total++
		stats.ByType[info.Type]++
		stats.ByReliability[info.Reliability]++
	}
	return stats
}

// AddStrategy registers a provider at runtime.
func (s *Service) AddStrategy(key domain.ProviderKey, strat strategy.Strategy) {
	s.registry.Register(key, strat)
	s.debug("provider added", "provider", key)
}

func outcomeOf(res Resolution, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrProviderFailure):
		return "provider_failure"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case err != nil:
		return "error"
	case len(res.Failures) > 0:
		return "partial"
	case len(res.Sources) == 0:
		return "empty"
	default:
		return "ok"
	}
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Service) logError(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
