package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// ErrUnknownRoom is returned when input cannot be resolved to a room
var ErrUnknownRoom = errors.New("room not found")

// Narration phrases spoken back to the user
const (
	msgRoomNotFound       = "Sorry, room not found"
	msgNoPath             = "No valid path found."
	msgInvalidSource      = "Invalid source room."
	msgInvalidDestination = "Invalid destination room."
	msgInvalidScan        = "Invalid room code scanned."
)

// cornerTolerance is how far off a straight line a waypoint may sit
// before it counts as a turn, in canvas pixels
const cornerTolerance = 1.0

// NormalizeRoomInput maps a spoken string onto a room id
// Whitespace is stripped, a leading "room" becomes "Room", then the bare
// and "Room"-prefixed forms are tried before a case-insensitive match
func NormalizeRoomInput(graph *FloorGraph, raw string) (string, error) {
	candidate := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if candidate == "" {
		return "", ErrUnknownRoom
	}

	if strings.HasPrefix(strings.ToLower(candidate), "room") {
		candidate = "Room" + candidate[len("room"):]
	}

	if graph.IsRoom(candidate) {
		return candidate, nil
	}
	if graph.IsRoom("Room" + candidate) {
		return "Room" + candidate, nil
	}
	for _, room := range graph.Rooms() {
		if strings.EqualFold(room, candidate) {
			return room, nil
		}
	}
	return "", ErrUnknownRoom
}

// ScanRoomCode maps a decoded QR payload onto a room id
// Only the exact code and its "Room"-prefixed form are accepted
func ScanRoomCode(graph *FloorGraph, code string) (string, error) {
	if code == "" {
		return "", ErrUnknownRoom
	}
	if graph.IsRoom(code) {
		return code, nil
	}
	if graph.IsRoom("Room" + code) {
		return "Room" + code, nil
	}
	return "", ErrUnknownRoom
}

// SourceSetNarration is spoken after the source room changes
func SourceSetNarration(room string) string {
	return fmt.Sprintf("Source set to %s", room)
}

// NavigationNarration is spoken when a route is shown
func NavigationNarration(source, destination string) string {
	return fmt.Sprintf("Navigating from %s to %s", source, destination)
}

// Route is a computed path ready for drawing and narration
type Route struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Path        []string `json:"path"`
	Points      Polyline `json:"points"`
	Corners     Polyline `json:"corners"`
	Distance    float64  `json:"distance"`
	Narration   string   `json:"narration"`
}

// Found reports whether the route has any path
func (r Route) Found() bool {
	return len(r.Path) > 0
}

// Planner computes routes between rooms on a shared floor graph
type Planner struct {
	graph         *FloorGraph
	cache         *RouteCache
	defaultSource string
	logger        *slog.Logger
}

// NewPlanner creates a planner that routes from defaultSource when a
// request names no source; cache may be nil
func NewPlanner(graph *FloorGraph, cache *RouteCache, defaultSource string, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{graph: graph, cache: cache, defaultSource: defaultSource, logger: logger}
}

// Graph returns the floor graph the planner routes on
func (p *Planner) Graph() *FloorGraph {
	return p.graph
}

// DefaultSource is the room routes start from when none is given
func (p *Planner) DefaultSource() string {
	return p.defaultSource
}

// Route plans a path between two rooms, starting from the default source
// when source is empty
// Unknown rooms and unreachable destinations return a route with no path
// and the matching narration
func (p *Planner) Route(ctx context.Context, source, destination string) (Route, error) {
	if source == "" {
		source = p.defaultSource
	}
	route := Route{Source: source, Destination: destination, Path: []string{}}

	if !p.graph.IsRoom(destination) {
		route.Narration = msgInvalidDestination
		return route, nil
	}
	if !p.graph.IsRoom(source) {
		route.Narration = msgInvalidSource
		return route, nil
	}

	path, err := p.findPath(ctx, source, destination)
	if err != nil {
		return Route{}, fmt.Errorf("find path %s -> %s: %w", source, destination, err)
	}

	if len(path) == 0 {
		p.logger.Info("no path found", "source", source, "destination", destination)
		route.Narration = msgNoPath
		return route, nil
	}

	route.Path = path
	route.Points = p.graph.Polyline(path)
	route.Corners = route.Points.Corners(cornerTolerance)
	route.Distance = route.Points.Length()
	route.Narration = NavigationNarration(source, destination)

	p.logger.Debug("route planned",
		"source", source,
		"destination", destination,
		"nodes", len(path),
		"distance", route.Distance,
	)
	return route, nil
}

func (p *Planner) findPath(ctx context.Context, source, destination string) ([]string, error) {
	if p.cache != nil {
		if path, ok := p.cache.Get(source, destination); ok {
			return path, nil
		}
	}

	path, err := p.graph.FindRoomPath(ctx, source, destination)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Put(source, destination, path)
	}
	return path, nil
}
