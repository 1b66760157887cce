package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/gridpath/internal/config"
	"github.com/udisondev/gridpath/internal/engine"
	"github.com/udisondev/gridpath/internal/pathfind"
)

const ConfigPath = "config/gridpathd.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("GRIDPATH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("gridpathd starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"queries", len(cfg.Queries))

	eng, err := engine.New(cfg, engine.WithResultHandler(logResult))
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	changed, err := eng.ApplyEdits(cfg.Edits)
	if err != nil {
		return fmt.Errorf("applying edits: %w", err)
	}
	slog.Info("edits applied",
		"edits", len(cfg.Edits),
		"cells_changed", changed,
		"chunks_dirty", eng.SyncDirty())

	if _, err := eng.SubmitQueries(cfg.Queries); err != nil {
		return fmt.Errorf("submitting queries: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	drained := make(chan struct{})

	g.Go(func() error {
		defer close(drained)
		if err := eng.RunUntilDrained(gctx); err != nil {
			return fmt.Errorf("path scheduler: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-drained:
				return nil
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				slog.Info("queries pending", "pending", eng.Scheduler().Pending())
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	rep := eng.Report()
	slog.Info("report",
		"queries", rep.Queries,
		"found", rep.Found,
		"cost_mean", rep.CostMean,
		"cost_p50", rep.CostP50,
		"cost_p95", rep.CostP95,
		"expanded_mean", rep.ExpandedMean,
		"expanded_p95", rep.ExpandedP95,
		"expanded_max", rep.ExpandedMax,
		"path_cells", rep.PathCellsTotal)

	return nil
}

func logResult(res pathfind.Result) {
	if !res.Found {
		slog.Warn("no path", "id", res.ID, "expanded", res.Expanded)
		return
	}
	slog.Info("path found",
		"id", res.ID,
		"cost", res.Cost,
		"cells", len(res.Path),
		"expanded", res.Expanded)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
