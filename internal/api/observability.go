package api

import (
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neon-snake/internal/game"
)

// Labels are bounded: pattern names come from a closed enum.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "game_tick_duration_seconds",
		Help:    "Time spent in game tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frame_render_duration_seconds",
		Help:    "Time spent rendering a PNG frame",
		Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1},
	})

	liveProjectiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weapon_live_projectiles",
		Help: "Projectiles alive after the last tick",
	})

	ammoLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weapon_ammo",
		Help: "Current ammo pool",
	})

	gameScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_score",
		Help: "Score of the current run",
	})

	shotsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weapon_shots_total",
		Help: "Shots fired by pattern",
	}, []string{"pattern"})

	dryFires = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weapon_dry_fires_total",
		Help: "Fire attempts rejected for lack of ammo",
	})

	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weapon_hits_total",
		Help: "Hits delivered by pattern",
	}, []string{"pattern"})

	detonationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weapon_detonations_total",
		Help: "Area detonations resolved",
	})

	projectilesDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weapon_projectiles_dropped",
		Help: "Projectiles refused at the live cap this run",
	})

	eventLogDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_log_dropped",
		Help: "Events dropped due to rate limiting or buffer full",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages broadcast",
	})
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string
}

// StartDebugServer serves pprof and /metrics. Non-loopback addresses are
// forced to localhost.
func StartDebugServer(cfg ObservabilityConfig) {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return
	}
	if !isLoopback(cfg.ListenAddr) {
		log.Printf("⚠️ Debug server address %q is not loopback, using 127.0.0.1:6060", cfg.ListenAddr)
		cfg.ListenAddr = "127.0.0.1:6060"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// ObserveTick feeds one engine tick into the metrics. Install it with
// Engine.SetTickObserver.
func ObserveTick(s game.TickSummary) {
	tickDuration.Observe(s.Duration.Seconds())
	liveProjectiles.Set(float64(s.Live))
	ammoLevel.Set(s.Ammo)
	gameScore.Set(float64(s.Score))
	projectilesDropped.Set(float64(s.Dropped))

	if s.Fired {
		shotsFired.WithLabelValues(s.FirePattern.String()).Inc()
	}
	if s.DryFire {
		dryFires.Inc()
	}
	for p, n := range s.HitsByPattern {
		hitsTotal.WithLabelValues(p.String()).Add(float64(n))
	}
	if s.Detonations > 0 {
		detonationsTotal.Add(float64(s.Detonations))
	}
}

// RecordRender records render timing for metrics
func RecordRender(duration time.Duration) {
	renderDuration.Observe(duration.Seconds())
}

// UpdateEventLogStats mirrors the event log drop count.
func UpdateEventLogStats(stats game.EventLogStats) {
	eventLogDropped.Set(float64(stats.Dropped))
}

// RecordConnectionRejected increments the rejection counter
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
