package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GraphFeatureCollection renders the floor graph for a debug overlay:
// one Point feature per node and one LineString per undirected edge
func GraphFeatureCollection(graph *FloorGraph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	ids := append(graph.Rooms(), graph.Waypoints()...)
	for _, id := range ids {
		node, _ := graph.Node(id)
		f := geojson.NewFeature(node.Position.Orb())
		f.Properties["id"] = node.ID
		f.Properties["kind"] = node.Kind.String()
		fc.Append(f)
	}

	// Edges are bidirectional; emit each pair once
	seen := make(map[[2]string]bool)
	for _, id := range ids {
		from, _ := graph.Position(id)
		for _, neighborID := range graph.Neighbors(id) {
			key := [2]string{id, neighborID}
			if neighborID < id {
				key = [2]string{neighborID, id}
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			to, ok := graph.Position(neighborID)
			if !ok {
				continue
			}
			f := geojson.NewFeature(orb.LineString{from.Orb(), to.Orb()})
			f.Properties["from"] = key[0]
			f.Properties["to"] = key[1]
			f.Properties["length"] = from.Distance(to)
			fc.Append(f)
		}
	}

	return fc
}

// RouteFeatureCollection renders a route as its line plus start and end markers
func RouteFeatureCollection(route Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(route.Points) == 0 {
		return fc
	}

	line := geojson.NewFeature(route.Points.LineString())
	line.Properties["source"] = route.Source
	line.Properties["destination"] = route.Destination
	line.Properties["path"] = route.Path
	line.Properties["distance"] = route.Distance
	fc.Append(line)

	start := geojson.NewFeature(route.Points[0].Orb())
	start.Properties["role"] = "start"
	start.Properties["id"] = route.Source
	fc.Append(start)

	end := geojson.NewFeature(route.Points[len(route.Points)-1].Orb())
	end.Properties["role"] = "end"
	end.Properties["id"] = route.Destination
	fc.Append(end)

	return fc
}
