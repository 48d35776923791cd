package api

import (
	"io"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"neon-snake/internal/game"
	"neon-snake/internal/weapon"
)

// EngineInterface is the part of the game engine the API drives.
// *game.Engine satisfies it.
type EngineInterface interface {
	// GetSnapshot returns the latest published state without locking.
	GetSnapshot() *game.GameSnapshot
	Weapons() []game.WeaponInfo
	GetEventLogStats() game.EventLogStats

	Begin() game.State
	TogglePause() (game.State, error)
	Reset()
	Turn(d weapon.Direction) (bool, error)
	SetFire(hold bool) error
	FireOnce() error

	Equip(id string) (weapon.Equipped, error)
	Unlock(id string) (bool, error)
	Upgrade(id string) (int, error)
}

// FrameEncoder renders a snapshot as PNG.
type FrameEncoder interface {
	EncodePNG(w io.Writer, snap *game.GameSnapshot) error
}

var _ EngineInterface = (*game.Engine)(nil)

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	router := api.NewRouter(api.RouterConfig{
//	    Engine:          engine,
//	    RateLimitConfig: &api.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
//	})
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the game engine (required)
	Engine EngineInterface

	// Renderer serves /api/frame.png. Nil disables the route.
	Renderer FrameEncoder

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is used only if RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is the list of allowed CORS origins. Nil allows any.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

type routerHandlers struct {
	engine   EngineInterface
	renderer FrameEncoder
}

// NewRouter constructs the HTTP router with all middleware and routes.
// It starts no goroutines and opens no listeners, so it is safe to use
// with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS to reject early
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rl := RateLimitConfig{RequestsPerSecond: 20, Burst: 40}
		if cfg.RateLimitConfig != nil {
			rl = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rl)
	}
	r.Use(rateLimiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &routerHandlers{
		engine:   cfg.Engine,
		renderer: cfg.Renderer,
	}

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/weapons", h.handleGetWeapons)
		r.Get("/events/stats", h.handleEventStats)
		if h.renderer != nil {
			r.Get("/frame.png", h.handleFrame)
		}

		r.Route("/game", func(r chi.Router) {
			r.Post("/start", h.handleGameStart)
			r.Post("/pause", h.handleGamePause)
			r.Post("/reset", h.handleGameReset)
		})

		r.Route("/input", func(r chi.Router) {
			r.Post("/turn", h.handleTurn)
			r.Post("/fire", h.handleFire)
		})

		r.Route("/weapon", func(r chi.Router) {
			r.Post("/equip", h.handleEquip)
			r.Post("/unlock", h.handleUnlock)
			r.Post("/upgrade", h.handleUpgrade)
		})
	})

	return r
}
