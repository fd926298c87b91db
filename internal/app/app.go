package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"AffairsCatalog/internal/catalog"
	"AffairsCatalog/internal/config"
	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/infrastructure/httpapi"
	"AffairsCatalog/internal/infrastructure/metrics"
	"AffairsCatalog/internal/infrastructure/scheduler"
	"AffairsCatalog/internal/infrastructure/sites"
	"AffairsCatalog/internal/logging"
	"AffairsCatalog/internal/render"
	"AffairsCatalog/internal/strategy"
	"AffairsCatalog/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	catalog *catalog.Service
	server  *httpapi.Server
}

// New builds the catalog from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	providers, err := cfg.SiteProviders()
	if err != nil {
		return nil, fmt.Errorf("invalid provider config: %w", err)
	}
	registry := strategy.NewRegistry()
	if err := sites.Register(registry, providers, baseLogger.With("component", "sites")); err != nil {
		return nil, fmt.Errorf("register providers: %w", err)
	}

	collector := metrics.New("affairs-catalog")
	opts := []catalog.Option{
		catalog.WithLocation(cfg.Catalog.Location()),
		catalog.WithRecorder(collector),
		catalog.WithLogger(baseLogger.With("component", "catalog")),
	}
	if cfg.Catalog.IsolateFailures {
		opts = append(opts, catalog.WithFailurePolicy(catalog.Isolate))
	}
	svc := catalog.NewService(registry, opts...)

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		metrics: collector,
		catalog: svc,
		server:  httpapi.New(svc, collector, baseLogger.With("component", "http")),
	}, nil
}

// Catalog exposes the resolution service.
func (a *Application) Catalog() *catalog.Service {
	return a.catalog
}

// RenderOnce resolves date (today when empty) and writes it to w.
func (a *Application) RenderOnce(ctx context.Context, w io.Writer, date string, format render.Format, opts domain.Options) error {
	if date == "" {
		date = a.catalog.Today().String()
	}
	res, err := a.catalog.Resolve(ctx, date, opts)
	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		a.logger.Warn("provider skipped", "provider", f.Key, "error", f.Err)
	}
	return render.Write(w, format, res.Date, res.Sources)
}

// Serve runs the HTTP API and the optional digest until ctx is canceled.
func (a *Application) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}
	return a.serve(ctx, listener)
}

func (a *Application) serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           a.server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var digest *usecase.Scheduler
	if a.cfg.Digest.Enabled {
		digest = usecase.NewScheduler(
			scheduler.NewTickerScheduler(a.cfg.Digest.Interval),
			usecase.NewDigest(usecase.DigestDeps{
				Catalog: a.catalog,
				Output:  os.Stdout,
				Logger:  a.logger.With("component", "digest"),
			}),
			a.logger.With("component", "digest"),
		)
		if err := digest.Start(ctx); err != nil {
			return fmt.Errorf("start digest: %w", err)
		}
		a.logger.Info("digest scheduled", "interval", a.cfg.Digest.Interval.String())
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if digest != nil {
		if err := digest.Stop(shutdownCtx); err != nil {
			a.logger.Warn("digest stop", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	a.logger.Info("http server stopped")
	return nil
}
