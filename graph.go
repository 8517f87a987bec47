package main

import (
	"fmt"
	"sort"
)

// NodeKind distinguishes the two disjoint kinds of floor graph nodes
type NodeKind int

const (
	// RoomNode is a named destination, reachable only through its exits
	RoomNode NodeKind = iota + 1
	// WaypointNode is a hallway or intersection point
	WaypointNode
)

func (k NodeKind) String() string {
	switch k {
	case RoomNode:
		return "room"
	case WaypointNode:
		return "waypoint"
	default:
		return "unknown"
	}
}

// FloorNode is a resolved node in the floor graph
type FloorNode struct {
	ID       string
	Kind     NodeKind
	Position Point
}

// FloorGraph is the immutable room/waypoint graph used for routing
// It is safe for concurrent readers; nothing mutates it after construction
type FloorGraph struct {
	nodes map[string]FloorNode
	edges map[string][]string

	rooms     []string
	waypoints []string
}

// ErrDuplicateNode is returned when an id is declared as both a room and a waypoint
type ErrDuplicateNode struct {
	ID string
}

func (e ErrDuplicateNode) Error() string {
	return fmt.Sprintf("node %q declared as both room and waypoint", e.ID)
}

// ErrDanglingEdge is returned when adjacency references a node with no position
type ErrDanglingEdge struct {
	From string
	To   string
}

func (e ErrDanglingEdge) Error() string {
	return fmt.Sprintf("edge %q -> %q references an unknown node", e.From, e.To)
}

// ErrInvalidExit is returned when a room exit does not lead to a waypoint
type ErrInvalidExit struct {
	Room   string
	Target string
}

func (e ErrInvalidExit) Error() string {
	return fmt.Sprintf("room %q exit %q is not a waypoint", e.Room, e.Target)
}

// NewFloorGraph validates a floor plan and builds the routing graph
// Every declared edge is made bidirectional
func NewFloorGraph(plan FloorPlan) (*FloorGraph, error) {
	g := &FloorGraph{
		nodes: make(map[string]FloorNode, len(plan.Rooms)+len(plan.Waypoints)),
		edges: make(map[string][]string),
	}

	for id, pos := range plan.Rooms {
		g.nodes[id] = FloorNode{ID: id, Kind: RoomNode, Position: pos}
		g.rooms = append(g.rooms, id)
	}
	for id, pos := range plan.Waypoints {
		if _, exists := g.nodes[id]; exists {
			return nil, ErrDuplicateNode{ID: id}
		}
		g.nodes[id] = FloorNode{ID: id, Kind: WaypointNode, Position: pos}
		g.waypoints = append(g.waypoints, id)
	}
	sort.Strings(g.rooms)
	sort.Strings(g.waypoints)

	// Declared edges first, in declaration order, then derived reverse edges
	declared := make(map[string][]string)
	for _, room := range sortedKeys(plan.RoomExits) {
		node, ok := g.nodes[room]
		if !ok || node.Kind != RoomNode {
			return nil, ErrDanglingEdge{From: room, To: firstOrEmpty(plan.RoomExits[room])}
		}
		for _, target := range plan.RoomExits[room] {
			targetNode, ok := g.nodes[target]
			if !ok {
				return nil, ErrDanglingEdge{From: room, To: target}
			}
			if targetNode.Kind != WaypointNode {
				return nil, ErrInvalidExit{Room: room, Target: target}
			}
			declared[room] = append(declared[room], target)
		}
	}
	for _, wp := range sortedKeys(plan.WaypointConnections) {
		node, ok := g.nodes[wp]
		if !ok || node.Kind != WaypointNode {
			return nil, ErrDanglingEdge{From: wp, To: firstOrEmpty(plan.WaypointConnections[wp])}
		}
		for _, target := range plan.WaypointConnections[wp] {
			if _, ok := g.nodes[target]; !ok {
				return nil, ErrDanglingEdge{From: wp, To: target}
			}
			declared[wp] = append(declared[wp], target)
		}
	}

	reverse := make(map[string][]string)
	for from, targets := range declared {
		for _, to := range targets {
			reverse[to] = append(reverse[to], from)
		}
	}

	for _, id := range sortedKeys(g.nodes) {
		seen := make(map[string]bool)
		var adj []string
		for _, to := range declared[id] {
			if to == id || seen[to] {
				continue
			}
			seen[to] = true
			adj = append(adj, to)
		}
		back := reverse[id]
		sort.Strings(back)
		for _, to := range back {
			if to == id || seen[to] {
				continue
			}
			seen[to] = true
			adj = append(adj, to)
		}
		if len(adj) > 0 {
			g.edges[id] = adj
		}
	}

	return g, nil
}

// Node looks up a node of either kind
func (g *FloorGraph) Node(id string) (FloorNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Position returns the coordinates of a node, if known
func (g *FloorGraph) Position(id string) (Point, bool) {
	n, ok := g.nodes[id]
	return n.Position, ok
}

// Kind returns the kind of a node, or zero for unknown ids
func (g *FloorGraph) Kind(id string) NodeKind {
	return g.nodes[id].Kind
}

// IsRoom reports whether id is a known room
func (g *FloorGraph) IsRoom(id string) bool {
	return g.Kind(id) == RoomNode
}

// Neighbors returns the adjacency of a node, where rooms only list their exits
// Unknown ids have no neighbors
func (g *FloorGraph) Neighbors(id string) []string {
	return g.edges[id]
}

// HasEdge reports whether a and b are directly connected
func (g *FloorGraph) HasEdge(a, b string) bool {
	for _, n := range g.edges[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Rooms returns all room ids in sorted order
func (g *FloorGraph) Rooms() []string {
	return append([]string(nil), g.rooms...)
}

// Waypoints returns all waypoint ids in sorted order
func (g *FloorGraph) Waypoints() []string {
	return append([]string(nil), g.waypoints...)
}

// Len is the total number of nodes
func (g *FloorGraph) Len() int {
	return len(g.nodes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstOrEmpty(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}
