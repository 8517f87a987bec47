package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ErrMissingURI indicates the graph URI is not provided
var ErrMissingURI = errors.New("graph URI is required")

// cypherRecord groups key-value pairs returned from the graph engine
type cypherRecord map[string]any

// cypherReader is the read-only slice of a graph database client the
// floor plan loader needs
type cypherReader interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]cypherRecord, error)
}

const (
	floorNodesQuery = `
MATCH (n)
WHERE n:Room OR n:Waypoint
RETURN n.id AS id, CASE WHEN n:Room THEN 'room' ELSE 'waypoint' END AS kind, n.x AS x, n.y AS y`

	floorEdgesQuery = `
MATCH (a)-[:CONNECTS]->(b)
WHERE (a:Room OR a:Waypoint) AND (b:Room OR b:Waypoint)
RETURN a.id AS from, b.id AS to
ORDER BY from, to`
)

// neo4jSource loads a floor plan stored as (:Room)/(:Waypoint) nodes
// joined by [:CONNECTS] relationships
type neo4jSource struct {
	reader cypherReader
}

func (s neo4jSource) Load(ctx context.Context) (FloorPlan, error) {
	plan := FloorPlan{
		Rooms:               make(map[string]Point),
		Waypoints:           make(map[string]Point),
		RoomExits:           make(map[string][]string),
		WaypointConnections: make(map[string][]string),
	}

	nodes, err := s.reader.ExecuteRead(ctx, floorNodesQuery, nil)
	if err != nil {
		return FloorPlan{}, fmt.Errorf("query floor nodes: %w", err)
	}
	for _, rec := range nodes {
		id, _ := rec["id"].(string)
		if id == "" {
			return FloorPlan{}, fmt.Errorf("floor node without id: %v", rec)
		}
		x, okX := toFloat(rec["x"])
		y, okY := toFloat(rec["y"])
		if !okX || !okY {
			return FloorPlan{}, fmt.Errorf("floor node %q has no numeric position", id)
		}

		switch rec["kind"] {
		case "room":
			plan.Rooms[id] = Point{X: x, Y: y}
		case "waypoint":
			plan.Waypoints[id] = Point{X: x, Y: y}
		default:
			return FloorPlan{}, fmt.Errorf("floor node %q has unknown kind %v", id, rec["kind"])
		}
	}

	edges, err := s.reader.ExecuteRead(ctx, floorEdgesQuery, nil)
	if err != nil {
		return FloorPlan{}, fmt.Errorf("query floor edges: %w", err)
	}
	for _, rec := range edges {
		from, _ := rec["from"].(string)
		to, _ := rec["to"].(string)
		if _, isRoom := plan.Rooms[from]; isRoom {
			plan.RoomExits[from] = append(plan.RoomExits[from], to)
		} else {
			plan.WaypointConnections[from] = append(plan.WaypointConnections[from], to)
		}
	}

	return plan, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// neo4jClient runs read queries over Bolt using the official driver
type neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
}

// newNeo4jClient establishes a Bolt connection and verifies it
func newNeo4jClient(ctx context.Context, cfg GraphConfig) (*neo4jClient, error) {
	if cfg.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		if cfg.MaxConnections > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &neo4jClient{driver: driver, database: cfg.Database}, nil
}

func (c *neo4jClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]cypherRecord, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	var records []cypherRecord
	for res.Next(ctx) {
		rec := res.Record()
		record := make(cypherRecord, len(rec.Keys))
		for _, key := range rec.Keys {
			value, _ := rec.Get(key)
			record[key] = value
		}
		records = append(records, record)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}
