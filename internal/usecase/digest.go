package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"AffairsCatalog/internal/catalog"
	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/render"
)

// DigestDeps wires the collaborators of the daily digest.
type DigestDeps struct {
	Catalog *catalog.Service
	Output  io.Writer
	Format  render.Format
	Options domain.Options
	Logger  *slog.Logger
}

// Digest writes the catalog of a day to an output, once per trigger.
type Digest struct {
	catalog *catalog.Service
	format  render.Format
	options domain.Options
	logger  *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

// NewDigest constructs the digest use case.
func NewDigest(deps DigestDeps) *Digest {
	format := deps.Format
	if format == "" {
		format = render.FormatText
	}
	return &Digest{
		catalog: deps.Catalog,
		out:     deps.Output,
		format:  format,
		options: deps.Options,
		logger:  deps.Logger,
	}
}

// ProcessDay resolves day and renders it to the configured output.
func (d *Digest) ProcessDay(ctx context.Context, day domain.Date) error {
	if d.catalog == nil {
		return nil
	}

	res, err := d.catalog.Resolve(ctx, day.String(), d.options)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", day, err)
	}

	if d.logger != nil {
		d.logger.Info("digest built", "date", day.String(), "sources", len(res.Sources), "failures", len(res.Failures))
	}

	if d.out == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := render.Write(d.out, d.format, res.Date, res.Sources); err != nil {
		return fmt.Errorf("write digest %s: %w", day, err)
	}
	return nil
}

// ProcessTrigger runs the digest for the catalog-local day of trigger.
func (d *Digest) ProcessTrigger(ctx context.Context, trigger time.Time) error {
	if d.catalog == nil {
		return nil
	}
	return d.ProcessDay(ctx, d.catalog.DayOf(trigger))
}
