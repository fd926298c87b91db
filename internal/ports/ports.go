package ports

import (
	"context"
	"time"

	"AffairsCatalog/internal/domain"
)

// SourceCatalog answers "which resources exist for day D" for the presentation layer.
type SourceCatalog interface {
	SourcesForDate(ctx context.Context, date string, opts domain.Options) ([]domain.Source, error)
	AllSourceMetadata() []domain.ProviderInfo
	SourcesByType(t domain.ProviderType) []domain.ProviderInfo
	Statistics() domain.Statistics
}

// Recorder receives resolution telemetry (Prometheus, etc.).
type Recorder interface {
	ObserveResolution(outcome string, duration time.Duration)
	AddSources(key domain.ProviderKey, n int)
	ProviderFailed(key domain.ProviderKey)
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
