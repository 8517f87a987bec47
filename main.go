package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	dumpPath := flag.String("dump-floorplan", "", "write the resolved floor plan as JSON to this path and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.Logging)
	slog.SetDefault(logger)

	src, closeSource, err := buildFloorPlanSource(ctx, cfg)
	if err != nil {
		logger.Error("failed to open floor plan source", "source", cfg.FloorPlan.Source, "error", err)
		os.Exit(1)
	}

	if *dumpPath != "" {
		err := DumpFloorPlan(ctx, logger, src, cfg.FloorPlan, *dumpPath)
		closeSource()
		if err != nil {
			logger.Error("failed to dump floor plan", "path", *dumpPath, "error", err)
			os.Exit(1)
		}
		return
	}

	graph, err := BuildFloorGraph(ctx, logger, src, cfg.FloorPlan)
	closeSource()
	if err != nil {
		logger.Error("failed to build floor graph", "error", err)
		os.Exit(1)
	}

	if !graph.IsRoom(cfg.Route.DefaultSource) {
		logger.Error("default source is not a room", "room", cfg.Route.DefaultSource)
		os.Exit(1)
	}

	cache := NewRouteCache(cfg.Route.CacheSize)
	planner := NewPlanner(graph, cache, cfg.Route.DefaultSource, logger)
	index := NewSpatialIndex(graph)
	handlers := NewHandlers(logger, planner, index, cache)

	srv := NewServer(logger, cfg.HTTP, NewRouter(logger, handlers, cfg.HTTP.AllowedOrigins()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildFloorPlanSource returns the configured source and a func releasing it
func buildFloorPlanSource(ctx context.Context, cfg Config) (FloorPlanSource, func(), error) {
	noop := func() {}

	switch cfg.FloorPlan.Source {
	case "file":
		return fileSource{path: cfg.FloorPlan.Path}, noop, nil
	case "neo4j":
		client, err := newNeo4jClient(ctx, cfg.Graph)
		if err != nil {
			return nil, noop, err
		}
		closeClient := func() {
			if err := client.Close(context.Background()); err != nil {
				slog.Warn("closing graph client failed", "error", err)
			}
		}
		return neo4jSource{reader: client}, closeClient, nil
	default:
		return builtinSource{}, noop, nil
	}
}
