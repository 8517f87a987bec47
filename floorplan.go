package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
)

// FloorPlan is the static node and adjacency table a FloorGraph is built from
type FloorPlan struct {
	Rooms               map[string]Point    `json:"rooms"`
	Waypoints           map[string]Point    `json:"waypoints"`
	RoomExits           map[string][]string `json:"roomExits"`
	WaypointConnections map[string][]string `json:"waypointConnections"`
}

// DefaultBaseSize is the canvas size the built-in coordinates were drawn on
const DefaultBaseSize = 600

// DefaultFloorPlan returns the built-in single-floor building
func DefaultFloorPlan() FloorPlan {
	return FloorPlan{
		Rooms: map[string]Point{
			"Room101":   {X: 170, Y: 100},
			"Room102":   {X: 170, Y: 240},
			"Room104":   {X: 530, Y: 375},
			"Room105":   {X: 500, Y: 130},
			"Reception": {X: 360, Y: 500},
		},
		Waypoints: map[string]Point{
			"hall_101":           {X: 220, Y: 100},
			"hall_mid_top":       {X: 320, Y: 100},
			"hall_105":           {X: 450, Y: 100},
			"hall_102":           {X: 220, Y: 240},
			"hall_center_top":    {X: 320, Y: 240},
			"hall_center_mid":    {X: 320, Y: 320},
			"hall_center_bottom": {X: 320, Y: 420},
			"hall_104":           {X: 480, Y: 375},
			"hall_bottom_left":   {X: 220, Y: 420},
			"hall_bottom_mid":    {X: 360, Y: 420},
			"hall_bottom_right":  {X: 480, Y: 420},
			"reception_door":     {X: 360, Y: 450},
		},
		RoomExits: map[string][]string{
			"Room101":   {"hall_101"},
			"Room102":   {"hall_102"},
			"Room104":   {"hall_104"},
			"Room105":   {"hall_105"},
			"Reception": {"reception_door"},
		},
		WaypointConnections: map[string][]string{
			// Top hallway
			"hall_101":     {"Room101", "hall_mid_top"},
			"hall_mid_top": {"hall_101", "hall_105", "hall_center_top"},
			"hall_105":     {"hall_mid_top", "Room105"},

			// Center vertical hallway
			"hall_center_top":    {"hall_mid_top", "hall_102", "hall_center_mid"},
			"hall_center_mid":    {"hall_center_top", "hall_center_bottom"},
			"hall_center_bottom": {"hall_center_mid", "hall_bottom_mid"},

			"hall_102": {"Room102", "hall_center_top"},
			"hall_104": {"Room104", "hall_bottom_right"},

			// Bottom hallway: hall_102 does not list hall_bottom_left back,
			// the graph derives the reverse edge
			"hall_bottom_left":  {"hall_102", "hall_bottom_mid"},
			"hall_bottom_mid":   {"hall_bottom_left", "hall_center_bottom", "hall_bottom_right", "reception_door"},
			"hall_bottom_right": {"hall_bottom_mid", "hall_104"},

			"reception_door": {"Reception", "hall_bottom_mid"},
		},
	}
}

// CanvasScale returns the per-axis factors mapping base-size coordinates onto a canvas
func CanvasScale(width, height, base float64) (sx, sy float64) {
	if base <= 0 {
		return 1, 1
	}
	return width / base, height / base
}

// Scaled returns a copy of the plan with every position multiplied by
// (sx, sy) and rounded to whole canvas pixels, sharing the adjacency
func (p FloorPlan) Scaled(sx, sy float64) FloorPlan {
	scale := func(in map[string]Point) map[string]Point {
		out := make(map[string]Point, len(in))
		for id, pt := range in {
			out[id] = Point{X: math.Round(pt.X * sx), Y: math.Round(pt.Y * sy)}
		}
		return out
	}

	return FloorPlan{
		Rooms:               scale(p.Rooms),
		Waypoints:           scale(p.Waypoints),
		RoomExits:           p.RoomExits,
		WaypointConnections: p.WaypointConnections,
	}
}

// SaveFloorPlan serializes and saves the plan to a JSON file
func SaveFloorPlan(plan FloorPlan, filename string) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal floor plan: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	slog.Debug("floor plan saved", "file", filename, "bytes", len(data))
	return nil
}

// LoadFloorPlan deserializes a floor plan from a JSON file
func LoadFloorPlan(filename string) (FloorPlan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return FloorPlan{}, fmt.Errorf("failed to read file: %w", err)
	}

	var plan FloorPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return FloorPlan{}, fmt.Errorf("failed to unmarshal floor plan: %w", err)
	}

	slog.Debug("floor plan loaded", "file", filename,
		"rooms", len(plan.Rooms), "waypoints", len(plan.Waypoints))
	return plan, nil
}
