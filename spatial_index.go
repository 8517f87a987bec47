package main

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// pointTolerance gives point entries a non-degenerate bounding box
const pointTolerance = 0.01

// NodeEntry wraps a floor node for R-tree storage
type NodeEntry struct {
	Node FloorNode
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (n *NodeEntry) Bounds() rtreego.Rect {
	return n.BBox
}

// SpatialIndex answers position queries against floor nodes
type SpatialIndex struct {
	tree *rtreego.Rtree
}

// NewSpatialIndex indexes every room and waypoint in the graph
func NewSpatialIndex(graph *FloorGraph) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	ids := append(graph.Rooms(), graph.Waypoints()...)
	for _, id := range ids {
		node, _ := graph.Node(id)
		tree.Insert(&NodeEntry{
			Node: node,
			BBox: rtreego.Point{node.Position.X, node.Position.Y}.ToRect(pointTolerance),
		})
	}

	return &SpatialIndex{tree: tree}
}

// Size is the number of indexed nodes
func (si *SpatialIndex) Size() int {
	return si.tree.Size()
}

// Nearest returns up to k nodes closest to p, nearest first
func (si *SpatialIndex) Nearest(p Point, k int) []FloorNode {
	if k <= 0 {
		return []FloorNode{}
	}

	results := si.tree.NearestNeighbors(k, rtreego.Point{p.X, p.Y})
	nodes := make([]FloorNode, 0, len(results))
	for _, item := range results {
		if item == nil {
			continue
		}
		nodes = append(nodes, item.(*NodeEntry).Node)
	}
	return nodes
}

// NearestRoom returns the room closest to p
func (si *SpatialIndex) NearestRoom(p Point) (FloorNode, bool) {
	onlyRooms := func(results []rtreego.Spatial, object rtreego.Spatial) (refuse, abort bool) {
		return object.(*NodeEntry).Node.Kind != RoomNode, false
	}

	results := si.tree.NearestNeighbors(1, rtreego.Point{p.X, p.Y}, onlyRooms)
	if len(results) == 0 || results[0] == nil {
		return FloorNode{}, false
	}
	return results[0].(*NodeEntry).Node, true
}

// QueryRegion returns nodes whose position lies within the bound, edges included
// The search rect is padded since rtreego treats touching rects as disjoint
func (si *SpatialIndex) QueryRegion(bound orb.Bound) []FloorNode {
	bbox, err := rtreego.NewRect(
		rtreego.Point{bound.Min.X() - pointTolerance, bound.Min.Y() - pointTolerance},
		[]float64{
			bound.Max.X() - bound.Min.X() + 2*pointTolerance,
			bound.Max.Y() - bound.Min.Y() + 2*pointTolerance,
		},
	)
	if err != nil {
		return []FloorNode{}
	}

	results := si.tree.SearchIntersect(bbox)
	nodes := make([]FloorNode, 0, len(results))
	for _, item := range results {
		node := item.(*NodeEntry).Node
		if bound.Contains(node.Position.Orb()) {
			nodes = append(nodes, node)
		}
	}
	return nodes
}
