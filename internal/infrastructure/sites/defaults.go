package sites

import (
	"fmt"
	"log/slog"

	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/strategy"
)

// Keys of the reference providers.
const (
	StudyIQKey    domain.ProviderKey = "study-iq"
	DrishtiIASKey domain.ProviderKey = "drishti-ias"
	VisionIASKey  domain.ProviderKey = "vision-ias"
)

// Provider pairs a registry key with its definition.
type Provider struct {
	Key        domain.ProviderKey
	Definition Definition
}

// Defaults returns the reference providers in registration order.
func Defaults() []Provider {
	return []Provider{
		{
			Key: StudyIQKey,
			Definition: Definition{
				BaseURL: "https://www.studyiq.com",
				MaxDays: 30,
				Metadata: domain.ProviderMetadata{
					Name:        "Study IQ",
					Type:        domain.TypeCoaching,
					Description: "Comprehensive current affairs from Study IQ",
					Color:       "#1890ff",
					Icon:        "📚",
					Reliability: domain.ReliabilityHigh,
				},
				Resources: []ResourceTemplate{
					{
						// Daily PDFs carry upload ids that cannot be derived from the date.
						URL:         "{{.BaseURL}}/articles/ca-category/upsc-daily-current-affairs-pdf-in-english/",
						Kind:        domain.KindWeb,
						Description: "Daily Current Affairs Articles",
					},
				},
			},
		},
		{
			Key: DrishtiIASKey,
			Definition: Definition{
				BaseURL: "https://www.drishtiias.com",
				MaxDays: 60,
				Metadata: domain.ProviderMetadata{
					Name:        "Drishti IAS",
					Type:        domain.TypeCoaching,
					Description: "Daily current affairs compilation by Drishti IAS",
					Color:       "#52c41a",
					Icon:        "🎯",
					Reliability: domain.ReliabilityHigh,
				},
				Resources: []ResourceTemplate{
					{
						URL:         `{{.BaseURL}}/current-affairs-news-analysis-editorials/news-analysis/{{.Date.Format "02-01-2006"}}`,
						Kind:        domain.KindWeb,
						Description: "Daily Current Affairs News Analysis",
					},
					{
						URL:         `{{.BaseURL}}/current-affairs-news-analysis-editorials/editorials/{{.Date.Format "02-01-2006"}}`,
						Kind:        domain.KindWeb,
						Description: "Editorials",
						Option:      domain.OptionEditorials,
					},
					{
						URL:         `{{.BaseURL}}/current-affairs-news-analysis-editorials/hindi/{{.Date.Format "02-01-2006"}}`,
						Kind:        domain.KindWeb,
						Description: "Hindi Version",
						Option:      domain.OptionHindi,
					},
				},
			},
		},
		{
			Key: VisionIASKey,
			Definition: Definition{
				BaseURL: "https://www.visionias.in",
				MaxDays: 90,
				Metadata: domain.ProviderMetadata{
					Name:        "Vision IAS",
					Type:        domain.TypeCoaching,
					Description: "Structured current affairs analysis by Vision IAS",
					Color:       "#fa8c16",
					Icon:        "👁️",
					Reliability: domain.ReliabilityHigh,
				},
				Resources: []ResourceTemplate{
					{
						URL:         `{{.BaseURL}}/resources/daily_current_affairs_programs.php?type=1&m={{.Date.Format "01"}}&y={{.Date.Format "2006"}}`,
						Kind:        domain.KindWeb,
						Description: "Daily Current Affairs Monthly Page",
					},
				},
			},
		},
	}
}

// Register compiles providers and adds them to reg in order.
func Register(reg *strategy.Registry, providers []Provider, log *slog.Logger) error {
	for _, p := range providers {
		s, err := NewTemplateStrategy(p.Definition)
		if err != nil {
			return fmt.Errorf("register %s: %w", p.Key, err)
		}
		reg.Register(p.Key, s)
		if log != nil {
			log.Debug("provider registered", "key", p.Key, "name", p.Definition.Metadata.Name, "max_days", p.Definition.MaxDays)
		}
	}
	return nil
}

// NewDefaultRegistry builds a registry with the reference providers pre-registered.
func NewDefaultRegistry() *strategy.Registry {
	reg := strategy.NewRegistry()
	if err := Register(reg, Defaults(), nil); err != nil {
		panic(err)
	}
	return reg
}
