// Package config provides centralized configuration management.
// This is the single source of truth for board, weapon and server settings.
//
// Every section has a Default*() constructor and a *FromEnv() variant where
// environment variables take precedence over defaults.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// BOARD & TIMING CONFIGURATION
// =============================================================================

// GameConfig holds board geometry, game speed and run rules.
type GameConfig struct {
	GridSize       int // Cell size in pixels
	Width          int // Field width in pixels
	Height         int // Field height in pixels
	BaseTickMs     int // Tick interval at level 1
	MinTickMs      int // Fastest tick interval
	TickStepMs     int // Interval reduction per level
	StartLives     int
	FoodCount      int   // Food items on the board at once
	FoodLifespanMs int   // Uneaten food respawns after this long
	Seed           int64 // 0 picks a time-based seed
	StarterWeapon  string
	WeaponsFile    string // Optional JSON weapon table replacing the built-in one
}

// DefaultGame returns the classic 800x600 board of 20px cells.
func DefaultGame() GameConfig {
	return GameConfig{
		GridSize:       20,
		Width:          800,
		Height:         600,
		BaseTickMs:     150,
		MinTickMs:      50,
		TickStepMs:     2,
		StartLives:     3,
		FoodCount:      1,
		FoodLifespanMs: 30000,
		StarterWeapon:  "basic",
	}
}

// GameFromEnv returns game configuration with environment variable overrides.
func GameFromEnv() GameConfig {
	cfg := DefaultGame()

	if v := getEnvInt("GRID_SIZE", 0); v > 0 {
		cfg.GridSize = v
	}
	if v := getEnvInt("FIELD_WIDTH", 0); v > 0 {
		cfg.Width = v
	}
	if v := getEnvInt("FIELD_HEIGHT", 0); v > 0 {
		cfg.Height = v
	}
	if v := getEnvInt("BASE_TICK_MS", 0); v > 0 {
		cfg.BaseTickMs = v
	}
	if v := getEnvInt("MIN_TICK_MS", 0); v > 0 {
		cfg.MinTickMs = v
	}
	if v := getEnvInt("START_LIVES", 0); v > 0 {
		cfg.StartLives = v
	}
	if v := getEnvInt("FOOD_COUNT", 0); v > 0 {
		cfg.FoodCount = v
	}
	if v, err := strconv.ParseInt(os.Getenv("RNG_SEED"), 10, 64); err == nil {
		cfg.Seed = v
	}
	if v := os.Getenv("STARTER_WEAPON"); v != "" {
		cfg.StarterWeapon = v
	}
	cfg.WeaponsFile = os.Getenv("WEAPONS_FILE")

	return cfg
}

// Cols returns the board width in cells.
func (c GameConfig) Cols() int { return c.Width / c.GridSize }

// Rows returns the board height in cells.
func (c GameConfig) Rows() int { return c.Height / c.GridSize }

// TickMsForLevel is the tick interval at a given level, never below MinTickMs.
func (c GameConfig) TickMsForLevel(level int) int {
	return max(c.MinTickMs, c.BaseTickMs-level*c.TickStepMs)
}

// =============================================================================
// AMMO CONFIGURATION
// =============================================================================

// AmmoConfig holds the shared ammo pool settings.
type AmmoConfig struct {
	Start float64
	Max   float64
	Regen float64 // Per tick
}

func DefaultAmmo() AmmoConfig {
	return AmmoConfig{Start: 100, Max: 100, Regen: 0.1}
}

func AmmoFromEnv() AmmoConfig {
	cfg := DefaultAmmo()

	if v := getEnvFloat("MAX_AMMO", -1); v >= 0 {
		cfg.Max = v
		cfg.Start = v
	}
	if v := getEnvFloat("START_AMMO", -1); v >= 0 {
		cfg.Start = v
	}
	if v := getEnvFloat("AMMO_REGEN", -1); v >= 0 {
		cfg.Regen = v
	}

	return cfg
}

// =============================================================================
// GAME RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and performance limits.
type ResourceLimits struct {
	MaxProjectiles int     // Live projectile cap; extra shots are dropped
	MaxWSClients   int     // Concurrent WebSocket spectators/controllers
	MaxWSPerIP     int     // WebSocket connections per client IP
	RequestsPerSec float64 // HTTP rate per client IP
	RequestBurst   int
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxProjectiles: 256,
		MaxWSClients:   50,
		MaxWSPerIP:     5,
		RequestsPerSec: 20,
		RequestBurst:   40,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	BroadcastHz    int // WebSocket snapshot rate
	DebugAddr      string
	DisableDebug   bool
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:           3000,
		AllowedOrigins: []string{"*"},
		BroadcastHz:    10,
		DebugAddr:      "localhost:6060",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	if v := getEnvInt("BROADCAST_HZ", 0); v > 0 {
		cfg.BroadcastHz = v
	}
	if v := os.Getenv("DEBUG_ADDR"); v != "" {
		cfg.DebugAddr = v
	}
	cfg.DisableDebug = os.Getenv("DISABLE_DEBUG_SERVER") == "true"

	return cfg
}

// =============================================================================
// EVENT LOG CONFIGURATION
// =============================================================================

// EventLogConfig controls the on-disk game event journal.
type EventLogConfig struct {
	Path        string // Empty disables file output
	Compression string // none, snappy or zstd
}

func DefaultEventLog() EventLogConfig {
	return EventLogConfig{Path: "events.jsonl", Compression: "none"}
}

func EventLogFromEnv() EventLogConfig {
	cfg := DefaultEventLog()

	if v, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.Path = v
	}
	if v := os.Getenv("EVENT_LOG_COMPRESSION"); v != "" {
		cfg.Compression = strings.ToLower(v)
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Game     GameConfig
	Ammo     AmmoConfig
	Limits   ResourceLimits
	Server   ServerConfig
	EventLog EventLogConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Game:     GameFromEnv(),
		Ammo:     AmmoFromEnv(),
		Limits:   DefaultLimits(),
		Server:   ServerFromEnv(),
		EventLog: EventLogFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
