// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bureau-pager serves a deck of pages as interactive pagers in chat.
//
// On Discord, "!pages" answers with a button pager and "!pages react"
// with a reaction pager; the /pages slash command does the same. On
// Matrix, "!pages" in the watched room answers with a reaction pager.
// A trailing chapter name pages only that chapter.
//
// Session activity is exported to Prometheus on the metrics listen
// address, next to a /healthz probe.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pager/lib/config"
	"github.com/bureau-foundation/pager/lib/deck"
	"github.com/bureau-foundation/pager/lib/metrics"
	"github.com/bureau-foundation/pager/lib/service"
	"github.com/bureau-foundation/pager/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// flags holds the command-line overrides. Empty values keep the config.
type flags struct {
	configPath    string
	deckPath      string
	host          string
	metricsListen string
	verbose       bool
}

func newFlagSet(values *flags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("bureau-pager", pflag.ContinueOnError)
	flagSet.StringVar(&values.configPath, "config", "", "path to pager.yaml (default: $PAGER_CONFIG)")
	flagSet.StringVar(&values.deckPath, "deck", "", "deck file to serve, overriding deck.path")
	flagSet.StringVar(&values.host, "host", "", "chat platform: discord or matrix, overriding host")
	flagSet.StringVar(&values.metricsListen, "metrics-listen", "", "address for /metrics and /healthz, overriding metrics.listen")
	flagSet.BoolVarP(&values.verbose, "verbose", "v", false, "log at debug level")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

func run() error {
	var values flags
	flagSet := newFlagSet(&values)

	// Handle --version before flag parsing to match other Bureau binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("bureau-pager")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	// Secrets may live in a .env file in the working directory.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := loadConfig(values, flagSet)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if values.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	pages, err := deck.ReadFile(cfg.Deck.Path)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		version.Collector(),
	)
	options, err := newPagerOptions(cfg.Pager, logger, metrics.New(registry))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := newConnectionHealth()
	opsDone, err := startOpsServer(ctx, cfg.Metrics.Listen, registry, health, logger)
	if err != nil {
		return err
	}

	lib := &library{deck: pages, options: options, logger: logger}
	logger.Info("bureau-pager starting",
		"version", version.Info(),
		"environment", cfg.Environment,
		"host", cfg.Host,
		"deck", cfg.Deck.Path,
		"pages", pages.Len(),
	)

	switch cfg.Host {
	case config.HostDiscord:
		err = runDiscord(ctx, cfg.Discord, lib, health, logger)
	case config.HostMatrix:
		err = runMatrix(ctx, cfg.Matrix, lib, health, logger)
	}

	stop()
	if opsErr := <-opsDone; opsErr != nil {
		err = errors.Join(err, opsErr)
	}
	return err
}

// loadConfig reads the config file and applies the flag overrides.
func loadConfig(values flags, flagSet *pflag.FlagSet) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if values.configPath != "" {
		cfg, err = config.LoadFile(values.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if values.deckPath != "" {
		cfg.Deck.Path = values.deckPath
	}
	if values.host != "" {
		cfg.Host = config.Host(values.host)
	}
	// An explicit empty --metrics-listen disables the endpoint.
	if flagSet.Changed("metrics-listen") {
		cfg.Metrics.Listen = values.metricsListen
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// startOpsServer serves /metrics and /healthz on listen until ctx is
// cancelled. The returned channel yields the serve result. An empty
// listen address disables the server.
func startOpsServer(ctx context.Context, listen string, gatherer prometheus.Gatherer, health *connectionHealth, logger *slog.Logger) (<-chan error, error) {
	done := make(chan error, 1)
	if listen == "" {
		done <- nil
		return done, nil
	}
	server, err := service.NewHTTPServer(service.HTTPServerConfig{
		Address: listen,
		Handler: service.OpsHandler(gatherer, health.check),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	go func() {
		done <- server.Serve(ctx)
	}()
	return done, nil
}

var errNotConnected = errors.New("not connected to the chat host")

// connectionHealth is the chat connection state behind /healthz.
type connectionHealth struct {
	mu  sync.Mutex
	err error
}

func newConnectionHealth() *connectionHealth {
	return &connectionHealth{err: errNotConnected}
}

func (h *connectionHealth) set(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *connectionHealth) check() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `bureau-pager serves a deck of pages as interactive chat pagers.

The config file is named by --config or $PAGER_CONFIG. Bot tokens are
read from the environment variables it names; a .env file in the
working directory is loaded first when present.

Usage:
  bureau-pager [flags]

Examples:
  # Serve the configured deck on the configured host
  bureau-pager --config pager.yaml

  # Serve another deck on Matrix with debug logs
  bureau-pager --config pager.yaml --host matrix --deck handbook.jsonc -v

  # Run without the metrics endpoint
  bureau-pager --config pager.yaml --metrics-listen ""

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
