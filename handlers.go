package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultNearestCount = 1
	maxNearestCount     = 20
)

// Handlers serves route planning over HTTP
type Handlers struct {
	planner *Planner
	index   *SpatialIndex
	cache   *RouteCache
	logger  *slog.Logger
}

// NewHandlers wires the HTTP handlers to a planner and spatial index
func NewHandlers(logger *slog.Logger, planner *Planner, index *SpatialIndex, cache *RouteCache) *Handlers {
	return &Handlers{planner: planner, index: index, cache: cache, logger: logger}
}

type routeRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type routeResponse struct {
	Success     bool         `json:"success"`
	Source      string       `json:"source,omitempty"`
	Destination string       `json:"destination,omitempty"`
	Path        []string     `json:"path"`
	Points      Polyline     `json:"points"`
	Corners     Polyline     `json:"corners,omitempty"`
	Frames      []Point      `json:"frames,omitempty"`
	Bounds      *BoundingBox `json:"bounds,omitempty"`
	Distance    float64      `json:"distance,omitempty"`
	Narration   string       `json:"narration"`
	Message     string       `json:"message,omitempty"`
}

// newRouteResponse shapes a planned route for the client, including the
// dot animation frames and the area the route covers
func newRouteResponse(route Route) routeResponse {
	resp := routeResponse{
		Success:     route.Found(),
		Source:      route.Source,
		Destination: route.Destination,
		Path:        route.Path,
		Points:      route.Points,
		Corners:     route.Corners,
		Distance:    route.Distance,
		Narration:   route.Narration,
	}
	if resp.Path == nil {
		resp.Path = []string{}
	}
	if resp.Points == nil {
		resp.Points = Polyline{}
	}
	if !route.Found() {
		resp.Message = route.Narration
		return resp
	}

	resp.Frames = Frames(route.Points, DefaultAnimationSteps)
	bounds := boundingBoxFromOrb(route.Points.Bound())
	resp.Bounds = &bounds
	return resp
}

func (h *Handlers) logRoute(route Route) {
	if !route.Found() {
		return
	}
	h.logger.Info("route found",
		"source", route.Source,
		"destination", route.Destination,
		"nodes", len(route.Path),
		"distance", route.Distance,
	)
}

// POST /route - plan a route between two rooms
func (h *Handlers) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid route request body", "error", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	route, err := h.planner.Route(r.Context(), req.Source, req.Destination)
	if err != nil {
		h.logger.Error("route planning failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "route planning interrupted")
		return
	}

	h.logRoute(route)
	respondJSON(w, http.StatusOK, newRouteResponse(route))
}

// GET /route/geojson?source=&destination= - route as GeoJSON
func (h *Handlers) handleRouteGeoJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	route, err := h.planner.Route(r.Context(), q.Get("source"), q.Get("destination"))
	if err != nil {
		h.logger.Error("route planning failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "route planning interrupted")
		return
	}
	if !route.Found() {
		respondError(w, http.StatusNotFound, route.Narration)
		return
	}

	respondJSON(w, http.StatusOK, RouteFeatureCollection(route))
}

// GET /route/animate?source=&destination=&interval= - stream the moving
// dot as newline-delimited JSON points
func (h *Handlers) handleRouteAnimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	interval := DefaultFrameInterval
	if v := q.Get("interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			respondError(w, http.StatusBadRequest, "interval must be a positive duration")
			return
		}
		interval = d
	}

	route, err := h.planner.Route(r.Context(), q.Get("source"), q.Get("destination"))
	if err != nil {
		h.logger.Error("route planning failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "route planning interrupted")
		return
	}
	if !route.Found() {
		respondError(w, http.StatusNotFound, route.Narration)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	enc := json.NewEncoder(w)
	sent := 0
	for frame := range Animate(ctx, route.Points, DefaultAnimationSteps, interval) {
		if err := enc.Encode(frame); err != nil {
			h.logger.Debug("animation stream closed", "frames", sent, "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		sent++
	}
	h.logger.Debug("animation finished", "source", route.Source, "destination", route.Destination, "frames", sent)
}

type resolveRequest struct {
	Input string `json:"input"`
}

// POST /resolve - normalize spoken input to a room id for the source
func (h *Handlers) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := NormalizeRoomInput(h.planner.Graph(), req.Input)
	if errors.Is(err, ErrUnknownRoom) {
		h.logger.Info("unrecognized room input", "input", req.Input)
		respondJSON(w, http.StatusOK, map[string]any{
			"success":   false,
			"narration": msgRoomNotFound,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"room":      room,
		"narration": SourceSetNarration(room),
	})
}

type scanRequest struct {
	Code   string `json:"code"`
	Source string `json:"source"`
}

// POST /scan - route to the room named by a scanned QR code
func (h *Handlers) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	destination, err := ScanRoomCode(h.planner.Graph(), req.Code)
	if errors.Is(err, ErrUnknownRoom) {
		h.logger.Info("unrecognized room code", "code", req.Code)
		respondJSON(w, http.StatusOK, newRouteResponse(Route{Narration: msgInvalidScan}))
		return
	}

	route, err := h.planner.Route(r.Context(), req.Source, destination)
	if err != nil {
		h.logger.Error("route planning failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "route planning interrupted")
		return
	}

	h.logRoute(route)
	respondJSON(w, http.StatusOK, newRouteResponse(route))
}

// GET /graph - floor graph nodes and edges as GeoJSON
func (h *Handlers) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, GraphFeatureCollection(h.planner.Graph()))
}

type nodeSummary struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Position Point    `json:"position"`
	Distance *float64 `json:"distance,omitempty"`
}

func summarizeNode(n FloorNode) nodeSummary {
	return nodeSummary{ID: n.ID, Kind: n.Kind.String(), Position: n.Position}
}

// GET /nearest?x=&y=&k=&kind= - nodes closest to a canvas position
// kind=room returns only the closest room
func (h *Handlers) handleNearest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		respondError(w, http.StatusBadRequest, "x and y must be numbers")
		return
	}

	k := defaultNearestCount
	if v := q.Get("k"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = min(parsed, maxNearestCount)
	}

	p := Point{X: x, Y: y}
	var nodes []FloorNode
	switch q.Get("kind") {
	case "", "any":
		nodes = h.index.Nearest(p, k)
	case "room":
		if room, ok := h.index.NearestRoom(p); ok {
			nodes = []FloorNode{room}
		}
	default:
		respondError(w, http.StatusBadRequest, "kind must be room or any")
		return
	}

	out := make([]nodeSummary, 0, len(nodes))
	for _, n := range nodes {
		summary := summarizeNode(n)
		d := p.Distance(n.Position)
		summary.Distance = &d
		out = append(out, summary)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"nodes":   out,
	})
}

// GET /nodes?minX=&minY=&maxX=&maxY= - nodes inside a canvas rectangle
// GET /nodes?source=&destination= - nodes inside the area a route covers
func (h *Handlers) handleNodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	var bounds BoundingBox
	if q.Has("destination") {
		route, err := h.planner.Route(r.Context(), q.Get("source"), q.Get("destination"))
		if err != nil {
			h.logger.Error("route planning failed", "error", err)
			respondError(w, http.StatusServiceUnavailable, "route planning interrupted")
			return
		}
		if !route.Found() {
			respondError(w, http.StatusNotFound, route.Narration)
			return
		}
		bounds = boundingBoxFromOrb(route.Points.Bound())
	} else {
		coords := []struct {
			key string
			dst *float64
		}{
			{"minX", &bounds.MinX},
			{"minY", &bounds.MinY},
			{"maxX", &bounds.MaxX},
			{"maxY", &bounds.MaxY},
		}
		for _, c := range coords {
			v, err := strconv.ParseFloat(q.Get(c.key), 64)
			if err != nil {
				respondError(w, http.StatusBadRequest, "minX, minY, maxX and maxY must be numbers")
				return
			}
			*c.dst = v
		}
		if bounds.MinX > bounds.MaxX || bounds.MinY > bounds.MaxY {
			respondError(w, http.StatusBadRequest, "min corner must not exceed max corner")
			return
		}
	}

	nodes := h.index.QueryRegion(bounds.Orb())
	out := make([]nodeSummary, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, summarizeNode(n))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"bounds":  bounds,
		"nodes":   out,
	})
}

// GET /health - Health check endpoint
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	graph := h.planner.Graph()
	payload := map[string]any{
		"status":        "ready",
		"rooms":         len(graph.Rooms()),
		"waypoints":     len(graph.Waypoints()),
		"defaultSource": h.planner.DefaultSource(),
	}
	if h.cache != nil {
		payload["cache"] = h.cache.Stats()
	}
	respondJSON(w, http.StatusOK, payload)
}
