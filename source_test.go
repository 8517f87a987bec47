package main

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// memoryReader returns canned records per query, for tests without a database
type memoryReader struct {
	nodes   []cypherRecord
	edges   []cypherRecord
	err     error
	queries []string
}

func (m *memoryReader) ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]cypherRecord, error) {
	m.queries = append(m.queries, cypher)
	if m.err != nil {
		return nil, m.err
	}
	if strings.Contains(cypher, "CONNECTS") {
		return m.edges, nil
	}
	return m.nodes, nil
}

func TestFileSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floorplan.json")
	if err := SaveFloorPlan(DefaultFloorPlan(), path); err != nil {
		t.Fatalf("SaveFloorPlan: %v", err)
	}

	g, err := BuildFloorGraph(context.Background(), discardLogger(), fileSource{path: path}, FloorPlanConfig{})
	if err != nil {
		t.Fatalf("BuildFloorGraph: %v", err)
	}

	got, err := g.FindRoomPath(context.Background(), "Room101", "Room105")
	if err != nil {
		t.Fatalf("FindRoomPath: %v", err)
	}
	want := []string{"Room101", "hall_101", "hall_mid_top", "hall_105", "Room105"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("path = %v, want %v", got, want)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := fileSource{path: filepath.Join(t.TempDir(), "missing.json")}
	if _, err := BuildFloorGraph(context.Background(), discardLogger(), src, FloorPlanConfig{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuildFloorGraphRescales(t *testing.T) {
	cfg := FloorPlanConfig{CanvasWidth: 1200, CanvasHeight: 1200, BaseSize: DefaultBaseSize}

	g, err := BuildFloorGraph(context.Background(), discardLogger(), builtinSource{}, cfg)
	if err != nil {
		t.Fatalf("BuildFloorGraph: %v", err)
	}
	if p, _ := g.Position("Reception"); p != (Point{X: 720, Y: 1000}) {
		t.Errorf("Reception at %v, want {720 1000}", p)
	}
}

func TestBuildFloorGraphRejectsDanglingEdge(t *testing.T) {
	reader := &memoryReader{
		nodes: []cypherRecord{
			{"id": "Lobby", "kind": "room", "x": 0.0, "y": 0.0},
		},
		edges: []cypherRecord{
			{"from": "Lobby", "to": "hall_ghost"},
		},
	}

	_, err := BuildFloorGraph(context.Background(), discardLogger(), neo4jSource{reader: reader}, FloorPlanConfig{})
	var dangling ErrDanglingEdge
	if !errors.As(err, &dangling) {
		t.Fatalf("expected ErrDanglingEdge, got %v", err)
	}
}

func TestNeo4jSourceLoad(t *testing.T) {
	reader := &memoryReader{
		nodes: []cypherRecord{
			{"id": "Lobby", "kind": "room", "x": int64(0), "y": int64(0)},
			{"id": "Office", "kind": "room", "x": 40.0, "y": 0.0},
			{"id": "door_lobby", "kind": "waypoint", "x": int64(10), "y": int64(0)},
			{"id": "door_office", "kind": "waypoint", "x": 30.0, "y": 0.0},
		},
		edges: []cypherRecord{
			{"from": "Lobby", "to": "door_lobby"},
			{"from": "door_lobby", "to": "door_office"},
			{"from": "door_office", "to": "Office"},
		},
	}

	plan, err := neo4jSource{reader: reader}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reader.queries) != 2 {
		t.Errorf("ran %d queries, want 2", len(reader.queries))
	}
	if !reflect.DeepEqual(plan.RoomExits["Lobby"], []string{"door_lobby"}) {
		t.Errorf("RoomExits = %v", plan.RoomExits)
	}
	if plan.Waypoints["door_lobby"] != (Point{X: 10, Y: 0}) {
		t.Errorf("door_lobby = %v", plan.Waypoints["door_lobby"])
	}

	g, err := NewFloorGraph(plan)
	if err != nil {
		t.Fatalf("NewFloorGraph: %v", err)
	}
	path, err := g.FindRoomPath(context.Background(), "Lobby", "Office")
	if err != nil {
		t.Fatalf("FindRoomPath: %v", err)
	}
	want := []string{"Lobby", "door_lobby", "door_office", "Office"}
	if !reflect.DeepEqual(path, want) {
		t.Errorf("path = %v, want %v", path, want)
	}
}

func TestNeo4jSourceErrors(t *testing.T) {
	boom := errors.New("connection refused")
	if _, err := (neo4jSource{reader: &memoryReader{err: boom}}).Load(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped query error, got %v", err)
	}

	bad := []cypherRecord{
		{"id": "", "kind": "room", "x": 1.0, "y": 1.0},
		{"id": "A", "kind": "room", "x": "one", "y": 1.0},
		{"id": "A", "kind": "stairs", "x": 1.0, "y": 1.0},
	}
	for _, rec := range bad {
		reader := &memoryReader{nodes: []cypherRecord{rec}}
		if _, err := (neo4jSource{reader: reader}).Load(context.Background()); err == nil {
			t.Errorf("record %v: expected error", rec)
		}
	}
}

func TestNewNeo4jClientRequiresURI(t *testing.T) {
	if _, err := newNeo4jClient(context.Background(), GraphConfig{}); !errors.Is(err, ErrMissingURI) {
		t.Fatalf("expected ErrMissingURI, got %v", err)
	}
}

func TestDumpFloorPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaled.json")
	cfg := FloorPlanConfig{CanvasWidth: 1200, CanvasHeight: 1200, BaseSize: DefaultBaseSize}

	if err := DumpFloorPlan(context.Background(), discardLogger(), builtinSource{}, cfg, path); err != nil {
		t.Fatalf("DumpFloorPlan: %v", err)
	}

	plan, err := LoadFloorPlan(path)
	if err != nil {
		t.Fatalf("LoadFloorPlan: %v", err)
	}
	if plan.Rooms["Reception"] != (Point{X: 720, Y: 1000}) {
		t.Errorf("Reception at %v, want {720 1000}", plan.Rooms["Reception"])
	}
	if len(plan.Rooms) != 5 || len(plan.Waypoints) != 12 {
		t.Errorf("dumped %d rooms and %d waypoints", len(plan.Rooms), len(plan.Waypoints))
	}

	// The dump reloads as the same graph without rescaling again
	g, err := BuildFloorGraph(context.Background(), discardLogger(), fileSource{path: path}, FloorPlanConfig{})
	if err != nil {
		t.Fatalf("BuildFloorGraph: %v", err)
	}
	if p, _ := g.Position("Room101"); p != (Point{X: 340, Y: 200}) {
		t.Errorf("Room101 at %v, want {340 200}", p)
	}
}

func TestDumpFloorPlanRejectsInvalidPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	reader := &memoryReader{
		nodes: []cypherRecord{{"id": "Lobby", "kind": "room", "x": 0.0, "y": 0.0}},
		edges: []cypherRecord{{"from": "Lobby", "to": "hall_ghost"}},
	}

	err := DumpFloorPlan(context.Background(), discardLogger(), neo4jSource{reader: reader}, FloorPlanConfig{}, path)
	var dangling ErrDanglingEdge
	if !errors.As(err, &dangling) {
		t.Fatalf("expected ErrDanglingEdge, got %v", err)
	}
	if _, err := LoadFloorPlan(path); err == nil {
		t.Error("invalid plan was written")
	}
}
