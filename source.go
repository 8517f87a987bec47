package main

import (
	"context"
	"fmt"
	"log/slog"
)

// FloorPlanSource supplies the static floor plan at startup
type FloorPlanSource interface {
	Load(ctx context.Context) (FloorPlan, error)
}

type builtinSource struct{}

func (builtinSource) Load(context.Context) (FloorPlan, error) {
	return DefaultFloorPlan(), nil
}

type fileSource struct {
	path string
}

func (s fileSource) Load(context.Context) (FloorPlan, error) {
	return LoadFloorPlan(s.path)
}

// LoadScaledFloorPlan loads the plan and applies the configured rescale once
func LoadScaledFloorPlan(ctx context.Context, logger *slog.Logger, src FloorPlanSource, cfg FloorPlanConfig) (FloorPlan, error) {
	plan, err := src.Load(ctx)
	if err != nil {
		return FloorPlan{}, fmt.Errorf("load floor plan: %w", err)
	}

	if sx, sy, ok := cfg.Scale(); ok {
		logger.Info("rescaling floor plan to canvas", "scaleX", sx, "scaleY", sy)
		plan = plan.Scaled(sx, sy)
	}
	return plan, nil
}

// DumpFloorPlan validates the resolved plan and writes it as JSON
func DumpFloorPlan(ctx context.Context, logger *slog.Logger, src FloorPlanSource, cfg FloorPlanConfig, path string) error {
	plan, err := LoadScaledFloorPlan(ctx, logger, src, cfg)
	if err != nil {
		return err
	}
	if _, err := NewFloorGraph(plan); err != nil {
		return fmt.Errorf("invalid floor plan: %w", err)
	}
	if err := SaveFloorPlan(plan, path); err != nil {
		return err
	}

	logger.Info("floor plan written", "path", path, "rooms", len(plan.Rooms), "waypoints", len(plan.Waypoints))
	return nil
}

// BuildFloorGraph loads the plan, applies the configured rescale once,
// and validates it into a routing graph
func BuildFloorGraph(ctx context.Context, logger *slog.Logger, src FloorPlanSource, cfg FloorPlanConfig) (*FloorGraph, error) {
	plan, err := LoadScaledFloorPlan(ctx, logger, src, cfg)
	if err != nil {
		return nil, err
	}

	graph, err := NewFloorGraph(plan)
	if err != nil {
		return nil, fmt.Errorf("invalid floor plan: %w", err)
	}

	logger.Info("floor graph ready",
		"rooms", len(graph.Rooms()),
		"waypoints", len(graph.Waypoints()),
	)
	return graph, nil
}
