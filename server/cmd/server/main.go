package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgepulse/edgepulse/server/internal/api"
	"github.com/edgepulse/edgepulse/server/internal/config"
	"github.com/edgepulse/edgepulse/server/internal/metrics"
	"github.com/edgepulse/edgepulse/server/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty runs with defaults and the built-in dataset")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			// Logger is not configured yet; fall back to the JSON default.
			slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	slog.SetDefault(slog.New(newLogHandler(os.Stdout, cfg.Log)))
	slog.Info("edgepulse-server starting", "config", *configPath)

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"max_body_bytes", cfg.Server.MaxBodyBytes,
		"dataset", cfg.Dataset.Path,
		"watch", cfg.Dataset.Watch,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.Dataset.Path)
	if err != nil {
		slog.Error("failed to load dataset", "err", err)
		os.Exit(1)
	}
	info := st.Info()
	slog.Info("dataset loaded", "source", info.Source, "regions", info.Regions)

	collector := metrics.New()
	collector.SetDatasetRegions(info.Regions)

	// Hot reload: a bad file keeps the previous dataset active.
	if cfg.Dataset.Path != "" && cfg.Dataset.Watch {
		path := cfg.Dataset.Path
		go func() {
			err := store.Watch(ctx, path, func(ds store.Dataset, err error) {
				collector.ObserveReload(err)
				if err != nil {
					slog.Warn("dataset reload failed, keeping previous dataset", "path", path, "err", err)
					return
				}
				st.Replace(ds, path)
				collector.SetDatasetRegions(ds.Len())
				slog.Info("dataset reloaded", "path", path, "regions", ds.Len())
			})
			if err != nil {
				slog.Error("dataset watcher stopped", "path", path, "err", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: api.New(st, collector, cfg.Server),
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("edgepulse-server shutting down", "timeout", cfg.Server.ShutdownTimeout)

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown incomplete", "err", err)
	}
}

// newLogHandler builds the process-wide slog handler from the log section.
func newLogHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
