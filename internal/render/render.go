package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"AffairsCatalog/internal/domain"
)

// Format selects how a day's catalog is written out.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat accepts text, json or html (case-insensitive).
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatText, FormatJSON, FormatHTML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: output format %q", domain.ErrInvalidInput, raw)
	}
}

// Write renders sources for day in the requested format.
func Write(w io.Writer, format Format, day domain.Date, sources []domain.Source) error {
	switch format {
	case FormatJSON:
		return JSON(w, sources)
	case FormatHTML:
		return HTML(w, day, sources)
	default:
		_, err := io.WriteString(w, Text(day, sources))
		return err
	}
}

// Text builds a plain listing grouped in response order.
func Text(day domain.Date, sources []domain.Source) string {
	if len(sources) == 0 {
		return fmt.Sprintf("%s: no sources available\n", day)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d source(s)\n\n", day, len(sources))
	for _, src := range sources {
		fmt.Fprintf(&b, "- %s [%s] %s\n  %s\n  %s · %s\n\n",
			src.Title,
			src.URLType,
			src.URLDescription,
			src.URL,
			src.Size,
			pagesLabel(src.Pages))
	}
	return b.String()
}

// JSON writes sources as an indented array; an empty catalog is "[]".
func JSON(w io.Writer, sources []domain.Source) error {
	if sources == nil {
		sources = []domain.Source{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sources); err != nil {
		return fmt.Errorf("encode sources: %w", err)
	}
	return nil
}

type card struct {
	domain.Source
	Action string
}

type page struct {
	Date  string
	Cards []card
}

// HTML writes a standalone page with one card per source.
func HTML(w io.Writer, day domain.Date, sources []domain.Source) error {
	p := page{Date: day.Time().Format("02 January 2006")}
	for _, src := range sources {
		p.Cards = append(p.Cards, card{Source: src, Action: actionLabel(src.URLType)})
	}
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func actionLabel(kind domain.ResourceKind) string {
	switch kind {
	case domain.KindPDF:
		return "View PDF"
	case domain.KindWeb:
		return "Visit Site"
	case domain.KindVideo:
		return "Watch Video"
	default:
		return "View"
	}
}

func pagesLabel(pages int) string {
	switch pages {
	case 0:
		return "no pages"
	case 1:
		return "1 page"
	default:
		return fmt.Sprintf("%d pages", pages)
	}
}

var pageTemplate = template.Must(template.New("catalog").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Current affairs · {{.Date}}</title>
</head>
<body>
<h1 class="catalog-date">{{.Date}}</h1>
{{- if .Cards}}
<div class="sources">
{{- range .Cards}}
<article class="source-card" id="{{.ID}}" data-type="{{.Type}}" style="border-top-color: {{.Metadata.Color}}">
  <h2>{{.Metadata.Icon}} {{.Title}}</h2>
  <p class="description">{{.URLDescription}}</p>
  <p class="meta"><span class="kind">{{.URLType}}</span> <span class="size">{{.Size}}</span></p>
  <a class="open" href="{{.URL}}" target="_blank" rel="noopener">{{.Action}}</a>
</article>
{{- end}}
</div>
{{- else}}
<p class="empty">No sources available for this date.</p>
{{- end}}
</body>
</html>
`))
