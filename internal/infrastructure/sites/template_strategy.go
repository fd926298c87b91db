package sites

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/strategy"
)

// ResourceTemplate describes one link a provider can offer for a day.
type ResourceTemplate struct {
	// URL is a text/template rendered with .BaseURL and .Date (a time.Time),
	// e.g. `{{.BaseURL}}/news-analysis/{{.Date.Format "02-01-2006"}}`.
	URL         string
	Kind        domain.ResourceKind
	Description string
	// Option gates the link behind an option flag; empty means always included.
	Option string
}

// Definition is everything needed to build a template-driven provider.
type Definition struct {
	BaseURL   string
	MaxDays   int
	Metadata  domain.ProviderMetadata
	Resources []ResourceTemplate
}

type compiledResource struct {
	tmpl        *template.Template
	kind        domain.ResourceKind
	description string
	option      string
}

// TemplateStrategy synthesizes URLs from per-provider templates and answers
// availability from a fixed day window.
type TemplateStrategy struct {
	baseURL   string
	maxDays   int
	metadata  domain.ProviderMetadata
	resources []compiledResource
}

var _ strategy.Strategy = (*TemplateStrategy)(nil)

type urlData struct {
	BaseURL string
	Date    time.Time
}

// NewTemplateStrategy compiles the resource templates of def.
func NewTemplateStrategy(def Definition) (*TemplateStrategy, error) {
	if def.MaxDays < 0 {
		return nil, fmt.Errorf("provider %s: negative availability window %d", def.Metadata.Name, def.MaxDays)
	}

	s := &TemplateStrategy{
		baseURL:  strings.TrimSuffix(def.BaseURL, "/"),
		maxDays:  def.MaxDays,
		metadata: def.Metadata,
	}

	for i, res := range def.Resources {
		tmpl, err := template.New(fmt.Sprintf("%s#%d", def.Metadata.Name, i)).
			Option("missingkey=error").
			Parse(res.URL)
		if err != nil {
			return nil, fmt.Errorf("provider %s resource %d: parse url template: %w", def.Metadata.Name, i, err)
		}
		s.resources = append(s.resources, compiledResource{
			tmpl:        tmpl,
			kind:        res.Kind,
			description: res.Description,
			option:      res.Option,
		})
	}

	return s, nil
}

// GenerateURLs renders every resource template whose option gate is open.
func (s *TemplateStrategy) GenerateURLs(day domain.Date, opts domain.Options) ([]domain.ResourceDescriptor, error) {
	data := urlData{BaseURL: s.baseURL, Date: day.Time()}

	descriptors := make([]domain.ResourceDescriptor, 0, len(s.resources))
	for _, res := range s.resources {
		if res.option != "" && !opts.Enabled(res.option) {
			continue
		}

		var b strings.Builder
		if err := res.tmpl.Execute(&b, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", res.tmpl.Name(), err)
		}

		descriptors = append(descriptors, domain.ResourceDescriptor{
			URL:         b.String(),
			Kind:        res.kind,
			Description: res.description,
		})
	}

	return descriptors, nil
}

// IsAvailable is true when day falls within the last MaxDays days (inclusive) before today.
func (s *TemplateStrategy) IsAvailable(day, today domain.Date) bool {
	return strategy.WithinWindow(day, today, s.maxDays)
}

// Metadata returns the provider record shown next to every source.
func (s *TemplateStrategy) Metadata() domain.ProviderMetadata {
	return s.metadata
}

// MaxDays exposes the availability window.
func (s *TemplateStrategy) MaxDays() int {
	return s.maxDays
}
