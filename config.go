package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values
type Config struct {
	HTTP      HTTPConfig
	Logging   LoggingConfig
	FloorPlan FloorPlanConfig
	Route     RouteConfig
	Graph     GraphConfig
}

// HTTPConfig governs HTTP server behaviour
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// LoggingConfig controls structured logging settings
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// FloorPlanConfig selects where the floor graph comes from and how it is scaled
type FloorPlanConfig struct {
	Source       string // builtin|file|neo4j
	Path         string
	CanvasWidth  float64
	CanvasHeight float64
	BaseSize     float64
}

// RouteConfig holds planner settings
type RouteConfig struct {
	DefaultSource string // room used when a request names no source
	CacheSize     int
}

// GraphConfig describes connectivity to a Neo4j floor-plan database
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultFloorPlanSource  = "builtin"
	defaultFloorPlanPath    = "floorplan.json"
	defaultRouteSource      = "Reception"
	defaultRouteCacheSize   = 256
	defaultGraphMaxSessions = 10
)

// LoadConfig reads configuration from environment variables, applying defaults
func LoadConfig() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			AllowedOriginsCSV: valueOrDefault("SERVER_ALLOWED_ORIGINS", "*"),
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
		},
		FloorPlan: FloorPlanConfig{
			Source: strings.ToLower(valueOrDefault("FLOORPLAN_SOURCE", defaultFloorPlanSource)),
			Path:   valueOrDefault("FLOORPLAN_PATH", defaultFloorPlanPath),
		},
		Route: RouteConfig{
			DefaultSource: valueOrDefault("ROUTE_DEFAULT_SOURCE", defaultRouteSource),
		},
		Graph: GraphConfig{
			URI:      os.Getenv("GRAPH_URI"),
			Database: os.Getenv("GRAPH_DATABASE"),
			Username: os.Getenv("GRAPH_USERNAME"),
			Password: os.Getenv("GRAPH_PASSWORD"),
		},
	}

	var err error
	if cfg.Logging.IncludeCaller, err = parseBool("LOG_INCLUDE_CALLER", false); err != nil {
		return Config{}, err
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", defaultReadTimeout, &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := parseDuration(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = v
	}

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"ROUTE_CACHE_SIZE", defaultRouteCacheSize, &cfg.Route.CacheSize},
		{"GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions, &cfg.Graph.MaxConnections},
	}
	for _, i := range ints {
		v, err := parseInt(i.key, i.fallback)
		if err != nil {
			return Config{}, err
		}
		*i.dst = v
	}

	base, err := parseFloat("FLOORPLAN_BASE_SIZE", DefaultBaseSize)
	if err != nil {
		return Config{}, err
	}
	cfg.FloorPlan.BaseSize = base

	// A zero canvas size leaves coordinates unscaled
	if cfg.FloorPlan.CanvasWidth, err = parseFloat("FLOORPLAN_CANVAS_WIDTH", 0); err != nil {
		return Config{}, err
	}
	if cfg.FloorPlan.CanvasHeight, err = parseFloat("FLOORPLAN_CANVAS_HEIGHT", 0); err != nil {
		return Config{}, err
	}

	switch cfg.FloorPlan.Source {
	case "builtin", "file", "neo4j":
	default:
		return Config{}, fmt.Errorf("invalid FLOORPLAN_SOURCE %q", cfg.FloorPlan.Source)
	}

	return cfg, nil
}

// AllowedOrigins splits the CSV origin list
func (c HTTPConfig) AllowedOrigins() []string {
	if c.AllowedOriginsCSV == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(c.AllowedOriginsCSV, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

// Scale returns the rescale factors, and false if no rescale is configured
func (c FloorPlanConfig) Scale() (sx, sy float64, ok bool) {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return 1, 1, false
	}
	sx, sy = CanvasScale(c.CanvasWidth, c.CanvasHeight, c.BaseSize)
	return sx, sy, true
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		return val, nil
	}
	return fallback, nil
}

func parseInt(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		return val, nil
	}
	return fallback, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		return val, nil
	}
	return fallback, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	}
	return fallback, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
