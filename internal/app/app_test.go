package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"AffairsCatalog/internal/config"
	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/render"
)

func newTestApp(t *testing.T, cfg config.Config) *Application {
	t.Helper()

	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestRenderOnceOutsideWindows(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, config.LoadFile(""))

	var buf bytes.Buffer
	if err := a.RenderOnce(context.Background(), &buf, "2000-01-01", render.FormatText, nil); err != nil {
		t.Fatalf("RenderOnce: %v", err)
	}
	if got := buf.String(); got != "2000-01-01: no sources available\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRenderOnceToday(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, config.LoadFile(""))

	var buf bytes.Buffer
	if err := a.RenderOnce(context.Background(), &buf, "", render.FormatJSON, domain.Options{domain.OptionHindi: true}); err != nil {
		t.Fatalf("RenderOnce: %v", err)
	}
	var sources []domain.Source
	if err := json.Unmarshal(buf.Bytes(), &sources); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sources) != 4 {
		t.Fatalf("expected 4 sources for today, got %d", len(sources))
	}
}

func TestRenderOnceInvalidDate(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, config.LoadFile(""))
	err := a.RenderOnce(context.Background(), &bytes.Buffer{}, "2025-13-01", render.FormatText, nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewRejectsBadProviders(t *testing.T) {
	t.Parallel()

	cfg := config.LoadFile("")
	cfg.Providers = []config.ProviderConfig{{Key: "broken"}}
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected provider validation error")
	}
}

func TestServeUntilCanceled(t *testing.T) {
	t.Parallel()

	cfg := config.LoadFile("")
	cfg.Digest.Enabled = true
	cfg.Digest.Interval = time.Hour
	a := newTestApp(t, cfg)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
