package domain

import (
	"fmt"
	"strings"
)

// ProviderKey identifies a registered provider strategy (e.g. "drishti-ias").
type ProviderKey string

// ProviderType is the category tag shown next to a provider.
type ProviderType string

// Provider categories.
const (
	TypeCoaching   ProviderType = "Coaching"
	TypeGovernment ProviderType = "Government"
	TypeNewspaper  ProviderType = "Newspaper"
)

// ParseProviderType maps raw onto the closed set of categories, ignoring case.
func ParseProviderType(raw string) (ProviderType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "coaching":
		return TypeCoaching, nil
	case "government":
		return TypeGovernment, nil
	case "newspaper":
		return TypeNewspaper, nil
	default:
		return "", fmt.Errorf("%w: provider type %q", ErrInvalidInput, raw)
	}
}

// Reliability is a coarse trust tag for a provider.
type Reliability string

// Reliability levels, most trusted first.
const (
	ReliabilityHigh   Reliability = "high"
	ReliabilityMedium Reliability = "medium"
	ReliabilityLow    Reliability = "low"
)

// ParseReliability maps raw onto high, medium or low, ignoring case.
func ParseReliability(raw string) (Reliability, error) {
	switch r := Reliability(strings.ToLower(strings.TrimSpace(raw))); r {
	case ReliabilityHigh, ReliabilityMedium, ReliabilityLow:
		return r, nil
	default:
		return "", fmt.Errorf("%w: reliability %q", ErrInvalidInput, raw)
	}
}

// ResourceKind tells what sits behind a generated link.
type ResourceKind string

// Resource kinds. Estimates in the catalog are keyed by these values.
const (
	KindPDF   ResourceKind = "PDF"
	KindWeb   ResourceKind = "WEB"
	KindVideo ResourceKind = "Video"
)

// ParseResourceKind accepts kinds case-insensitively ("Web" and "WEB" are the same kind).
func ParseResourceKind(raw string) (ResourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pdf":
		return KindPDF, nil
	case "web":
		return KindWeb, nil
	case "video":
		return KindVideo, nil
	default:
		return "", fmt.Errorf("%w: resource kind %q", ErrInvalidInput, raw)
	}
}

// ProviderMetadata is the fixed descriptive record of a provider.
type ProviderMetadata struct {
	Name        string       `json:"name" yaml:"name"`
	Type        ProviderType `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
	Color       string       `json:"color" yaml:"color"`
	Icon        string       `json:"icon" yaml:"icon"`
	Reliability Reliability  `json:"reliability" yaml:"reliability"`
}

// ProviderInfo is a provider's metadata tagged with its registry key.
type ProviderInfo struct {
	Key ProviderKey `json:"key"`
	ProviderMetadata
}

// ResourceDescriptor is one concrete link a provider offers for a day.
type ResourceDescriptor struct {
	URL         string
	Kind        ResourceKind
	Description string
}

// Option flags understood by the reference providers.
const (
	OptionAnalysis   = "includeAnalysis"
	OptionHindi      = "includeHindi"
	OptionPDF        = "includePDF"
	OptionEditorials = "includeEditorials"
)

// Options carries provider-specific toggles. Unknown flags are ignored and
// absent flags read as off.
type Options map[string]bool

// Enabled reports whether the named flag is on. Safe on a nil map.
func (o Options) Enabled(name string) bool {
	return o[name]
}

// SourceMetadata is the provider metadata plus traceability fields attached to a Source.
type SourceMetadata struct {
	ProviderMetadata
	StrategyKey ProviderKey `json:"strategyKey"`
	URLIndex    int         `json:"urlIndex"`
	Domain      string      `json:"domain,omitempty"`
}

// Source is a display-ready catalog entry consumed by the presentation layer.
type Source struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Source         string         `json:"source"`
	Type           ProviderType   `json:"type"`
	PDFURL         string         `json:"pdfUrl"`
	URL            string         `json:"url"`
	URLType        ResourceKind   `json:"urlType"`
	URLDescription string         `json:"urlDescription"`
	Size           string         `json:"size"`
	Pages          int            `json:"pages"`
	Metadata       SourceMetadata `json:"metadata"`
}

// Statistics counts registered providers.
type Statistics struct {
	Total         int                  `json:"total"`
	ByType        map[ProviderType]int `json:"byType"`
	ByReliability map[Reliability]int  `json:"byReliability"`
}
