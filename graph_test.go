package main

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewFloorGraphDerivesReverseEdges(t *testing.T) {
	g := mustDefaultGraph(t)

	// Only hall_bottom_left declares this edge
	if !g.HasEdge("hall_bottom_left", "hall_102") {
		t.Fatal("declared edge hall_bottom_left -> hall_102 missing")
	}
	if !g.HasEdge("hall_102", "hall_bottom_left") {
		t.Fatal("reverse edge hall_102 -> hall_bottom_left not derived")
	}

	ids := append(g.Rooms(), g.Waypoints()...)
	for _, a := range ids {
		for _, b := range g.Neighbors(a) {
			if !g.HasEdge(b, a) {
				t.Errorf("edge %s -> %s has no reverse", a, b)
			}
		}
	}
}

func TestNewFloorGraphAdjacencyOrder(t *testing.T) {
	g := mustDefaultGraph(t)

	// Declared order first, then derived reverse edges sorted
	want := []string{"Room102", "hall_center_top", "hall_bottom_left"}
	if got := g.Neighbors("hall_102"); !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors(hall_102) = %v, want %v", got, want)
	}

	if got := g.Neighbors("Room101"); !reflect.DeepEqual(got, []string{"hall_101"}) {
		t.Errorf("Neighbors(Room101) = %v, want [hall_101]", got)
	}
}

func TestFloorGraphLookup(t *testing.T) {
	g := mustDefaultGraph(t)

	node, ok := g.Node("Room104")
	if !ok || node.Kind != RoomNode || node.Position != (Point{X: 530, Y: 375}) {
		t.Errorf("Node(Room104) = %+v, %v", node, ok)
	}
	if g.Kind("hall_104") != WaypointNode {
		t.Errorf("Kind(hall_104) = %v, want waypoint", g.Kind("hall_104"))
	}

	if _, ok := g.Position("RoomXYZ"); ok {
		t.Error("unknown id should have no position")
	}
	if n := g.Neighbors("RoomXYZ"); len(n) != 0 {
		t.Errorf("unknown id should have no neighbors, got %v", n)
	}
	if g.Kind("RoomXYZ").String() != "unknown" {
		t.Errorf("Kind(RoomXYZ) = %v", g.Kind("RoomXYZ"))
	}

	if g.Len() != 17 || len(g.Rooms()) != 5 || len(g.Waypoints()) != 12 {
		t.Errorf("unexpected sizes: len=%d rooms=%d waypoints=%d", g.Len(), len(g.Rooms()), len(g.Waypoints()))
	}
}

func TestNewFloorGraphRejectsBadPlans(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FloorPlan)
		check  func(error) bool
	}{
		{
			name: "dangling waypoint connection",
			mutate: func(p *FloorPlan) {
				p.WaypointConnections["hall_101"] = append(p.WaypointConnections["hall_101"], "hall_ghost")
			},
			check: func(err error) bool {
				var e ErrDanglingEdge
				return errors.As(err, &e) && e.From == "hall_101" && e.To == "hall_ghost"
			},
		},
		{
			name: "dangling room exit",
			mutate: func(p *FloorPlan) {
				p.RoomExits["Room101"] = []string{"hall_ghost"}
			},
			check: func(err error) bool {
				var e ErrDanglingEdge
				return errors.As(err, &e) && e.From == "Room101"
			},
		},
		{
			name: "exits for unknown room",
			mutate: func(p *FloorPlan) {
				p.RoomExits["Room999"] = []string{"hall_101"}
			},
			check: func(err error) bool {
				var e ErrDanglingEdge
				return errors.As(err, &e) && e.From == "Room999"
			},
		},
		{
			name: "exit to another room",
			mutate: func(p *FloorPlan) {
				p.RoomExits["Room101"] = []string{"Room102"}
			},
			check: func(err error) bool {
				var e ErrInvalidExit
				return errors.As(err, &e) && e.Room == "Room101" && e.Target == "Room102"
			},
		},
		{
			name: "duplicate id",
			mutate: func(p *FloorPlan) {
				p.Waypoints["Room101"] = Point{X: 1, Y: 1}
			},
			check: func(err error) bool {
				var e ErrDuplicateNode
				return errors.As(err, &e) && e.ID == "Room101"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := DefaultFloorPlan()
			tt.mutate(&plan)

			_, err := NewFloorGraph(plan)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFloorPlanScaled(t *testing.T) {
	plan := DefaultFloorPlan()
	sx, sy := CanvasScale(900, 300, DefaultBaseSize)

	scaled := plan.Scaled(sx, sy)
	if got := scaled.Rooms["Room101"]; got != (Point{X: 255, Y: 50}) {
		t.Errorf("scaled Room101 = %v, want {255 50}", got)
	}
	if got := scaled.Waypoints["hall_104"]; got != (Point{X: 720, Y: 188}) {
		t.Errorf("scaled hall_104 = %v, want {720 188}", got)
	}
	if plan.Rooms["Room101"] != (Point{X: 170, Y: 100}) {
		t.Error("Scaled modified the source plan")
	}

	g, err := NewFloorGraph(scaled)
	if err != nil {
		t.Fatalf("scaled plan rejected: %v", err)
	}
	if g.Len() != 17 {
		t.Errorf("scaled graph has %d nodes", g.Len())
	}
}
