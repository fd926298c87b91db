package catalog

import (
	"github.com/dustin/go-humanize"

	"AffairsCatalog/internal/domain"
)

type estimate struct {
	bytes uint64
	pages int
}

// Display estimates per resource kind. They are presentation filler, not measurements.
var estimates = map[domain.ResourceKind]estimate{
	domain.KindPDF:   {bytes: 2_500_000, pages: 15},
	domain.KindWeb:   {pages: 1},
	domain.KindVideo: {bytes: 15_000_000},
}

const (
	sizeNotApplicable = "N/A"
	sizeUnknown       = "Unknown"
)

// EstimateSize returns the displayed size for a resource kind.
func EstimateSize(kind domain.ResourceKind) string {
	e, ok := estimates[kind]
	if !ok {
		return sizeUnknown
	}
	if e.bytes == 0 {
		return sizeNotApplicable
	}
	return humanize.Bytes(e.bytes)
}

// EstimatePages returns the displayed page count for a resource kind.
func EstimatePages(kind domain.ResourceKind) int {
	return estimates[kind].pages
}
