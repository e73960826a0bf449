// CLAUDE:SUMMARY CLI entry point for domsnap — page snapshot capture with single-url, config, and serve modes.
// Command domsnap captures serialized DOM snapshots of live pages.
//
// Usage:
//
//	domsnap -config domsnap.yaml          # capture pages from YAML config
//	domsnap -url https://example.com      # snapshot a single URL to stdout
//	domsnap -serve :8080 -db snaps.db     # serve stored snapshots
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/domsnap/capture"
	"github.com/hazyhaar/domsnap/record"
	"github.com/hazyhaar/domsnap/serve"
	"github.com/hazyhaar/domsnap/store"
)

func main() {
	configPath := flag.String("config", "", "path to domsnap.yaml config file")
	singleURL := flag.String("url", "", "snapshot a single URL (stdout sink)")
	serveAddr := flag.String("serve", "", "serve stored snapshots on this address")
	dbPath := flag.String("db", "", "SQLite snapshot database (serve mode)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *singleURL, *serveAddr, *dbPath); err != nil {
		logger.Error("domsnap: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, singleURL, serveAddr, dbPath string) error {
	if serveAddr != "" {
		return runServe(ctx, logger, serveAddr, dbPath)
	}

	if singleURL != "" {
		return runSingle(ctx, logger, singleURL)
	}

	if configPath != "" {
		return runConfig(ctx, logger, configPath)
	}

	fmt.Fprintln(os.Stderr, "usage: domsnap -config <file> | -url <url> | -serve <addr> -db <path>")
	os.Exit(1)
	return nil
}

func runSingle(ctx context.Context, logger *slog.Logger, url string) error {
	cfg := &capture.FileConfig{
		Pages: []capture.PageConfig{{URL: url, Once: true}},
		Snapshot: capture.SnapshotConfig{
			InlineStylesheet: true,
			SerializeShadow:  true,
		},
	}

	r, err := capture.NewRunner(cfg, logger, record.NewStdout(nil))
	if err != nil {
		return err
	}
	if err := r.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	r.Wait()
	r.Stop()
	return nil
}

func runConfig(ctx context.Context, logger *slog.Logger, path string) error {
	cfg, err := capture.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var sinks []record.Sink
	for _, sc := range cfg.Sinks {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, record.NewStdout(nil))
		default:
			logger.Warn("domsnap: unknown sink type", "type", sc.Type)
		}
	}
	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		sinks = append(sinks, st)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, record.NewStdout(nil))
	}

	r, err := capture.NewRunner(cfg, logger, sinks...)
	if err != nil {
		return err
	}
	if err := r.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	r.Wait()
	r.Stop()
	return nil
}

func runServe(ctx context.Context, logger *slog.Logger, addr, dbPath string) error {
	if dbPath == "" {
		return fmt.Errorf("serve mode needs -db")
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return serve.New(st, logger).ListenAndServe(ctx, addr)
}
