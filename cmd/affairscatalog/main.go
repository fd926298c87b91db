package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"AffairsCatalog/internal/app"
	"AffairsCatalog/internal/config"
	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/logging"
	"AffairsCatalog/internal/render"
)

type cliOptions struct {
	configPath string
	date       string
	format     string
	serve      bool
	hindi      bool
	analysis   bool
	pdf        bool
	editorials bool
}

func parseFlags(args []string) (cliOptions, error) {
	var o cliOptions
	fset := flag.NewFlagSet("affairscatalog", flag.ContinueOnError)
	fset.StringVar(&o.configPath, "config", os.Getenv("AFFAIRS_CATALOG_CONFIG"), "path to YAML config")
	fset.StringVar(&o.date, "date", "", "date to resolve (YYYY-MM-DD, default today)")
	fset.StringVar(&o.format, "format", "text", "output format: text, json or html")
	fset.BoolVar(&o.serve, "serve", false, "run the HTTP API instead of printing one date")
	fset.BoolVar(&o.hindi, "hindi", false, "include Hindi variants")
	fset.BoolVar(&o.analysis, "analysis", false, "include analysis resources")
	fset.BoolVar(&o.pdf, "pdf", false, "include PDF resources")
	fset.BoolVar(&o.editorials, "editorials", false, "include editorial resources")
	if err := fset.Parse(args); err != nil {
		return cliOptions{}, err
	}
	if fset.NArg() > 0 {
		return cliOptions{}, fmt.Errorf("unexpected arguments: %v", fset.Args())
	}
	return o, nil
}

func (o cliOptions) catalogOptions() domain.Options {
	return domain.Options{
		domain.OptionHindi:      o.hindi,
		domain.OptionAnalysis:   o.analysis,
		domain.OptionPDF:        o.pdf,
		domain.OptionEditorials: o.editorials,
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	format, err := render.ParseFormat(opts.format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config.LoadFile(opts.configPath)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.serve {
		err = application.Serve(ctx)
	} else {
		err = application.RenderOnce(ctx, os.Stdout, opts.date, format, opts.catalogOptions())
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
