package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"neon-snake/internal/config"
)

// Server is the HTTP API server with WebSocket support.
type Server struct {
	engine      EngineInterface
	cfg         config.ServerConfig
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
	stop        chan struct{}
}

// NewServer wires the router and WebSocket hub. Background workers do not
// start until Start is called, so tests can use Router directly.
func NewServer(engine EngineInterface, renderer FrameEncoder, cfg config.ServerConfig, limits config.ResourceLimits) *Server {
	s := &Server{
		engine:      engine,
		cfg:         cfg,
		wsHub:       NewWebSocketHub(engine, limits, cfg.AllowedOrigins),
		rateLimiter: NewIPRateLimiter(RateLimitFromLimits(limits)),
		stop:        make(chan struct{}),
	}

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		Renderer:    renderer,
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.AllowedOrigins,
	})
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Start runs the background workers and serves HTTP until Shutdown.
func (s *Server) Start(addr string) error {
	s.rateLimiter.Start()
	go s.wsHub.Run(s.stop)
	s.wsHub.StartBroadcastLoop(s.cfg.BroadcastHz, s.stop)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("🌐 API server starting on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub exposes the WebSocket hub for tests.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Shutdown stops the workers and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.rateLimiter.Stop()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
