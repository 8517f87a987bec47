package main

import (
	"context"
	"math"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

// frontierEntry is a node waiting for expansion in the A* search
// A node may have several entries; stale ones are skipped once it is closed
type frontierEntry struct {
	NodeID   string
	Priority float64 // distance from start + heuristic
	seq      uint64  // insertion order, breaks priority ties FIFO
}

func frontierLess(a, b frontierEntry) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

// FindRoomPath routes between two nodes, short-circuiting when they are the same
func (g *FloorGraph) FindRoomPath(ctx context.Context, start, end string) ([]string, error) {
	if start == end {
		return []string{start}, nil
	}
	return g.FindPath(ctx, start, end)
}

// FindPath computes the shortest path from start to end using A*
// An unknown or unreachable node yields an empty path, not an error;
// the only error is ctx cancellation
func (g *FloorGraph) FindPath(ctx context.Context, start, end string) ([]string, error) {
	endPos, endKnown := g.Position(end)
	heuristic := func(id string) float64 {
		p, ok := g.Position(id)
		if !ok || !endKnown {
			return 0
		}
		return p.Distance(endPos)
	}

	dist := map[string]float64{start: 0}
	cameFrom := make(map[string]string)
	closedSet := mapset.New[string]()

	var seq uint64
	openSet := heap.New[frontierEntry](frontierLess)
	openSet.Push(frontierEntry{NodeID: start, Priority: heuristic(start), seq: seq})

	best := func(id string) float64 {
		if d, ok := dist[id]; ok {
			return d
		}
		return math.Inf(1)
	}

	for openSet.Size() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, _ := openSet.Pop()
		if closedSet.Has(current.NodeID) {
			continue
		}

		// Check if we reached the goal
		if current.NodeID == end {
			return reconstructPath(cameFrom, start, end), nil
		}

		closedSet.Put(current.NodeID)

		currentPos, ok := g.Position(current.NodeID)
		if !ok {
			continue
		}

		for _, neighborID := range g.Neighbors(current.NodeID) {
			if closedSet.Has(neighborID) {
				continue
			}
			neighborPos, ok := g.Position(neighborID)
			if !ok {
				continue
			}

			tentativeG := dist[current.NodeID] + currentPos.Distance(neighborPos)
			if tentativeG < best(neighborID) {
				dist[neighborID] = tentativeG
				cameFrom[neighborID] = current.NodeID
				seq++
				openSet.Push(frontierEntry{
					NodeID:   neighborID,
					Priority: tentativeG + heuristic(neighborID),
					seq:      seq,
				})
			}
		}
	}

	// No path found
	return []string{}, nil
}

func reconstructPath(cameFrom map[string]string, start, end string) []string {
	path := []string{end}
	for node := end; node != start; {
		node = cameFrom[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathLength sums the Euclidean length of consecutive path nodes
func (g *FloorGraph) PathLength(path []string) float64 {
	return g.Polyline(path).Length()
}

// Polyline resolves path ids to coordinates, dropping ids with no position
func (g *FloorGraph) Polyline(path []string) Polyline {
	points := make(Polyline, 0, len(path))
	for _, id := range path {
		if p, ok := g.Position(id); ok {
			points = append(points, p)
		}
	}
	return points
}
