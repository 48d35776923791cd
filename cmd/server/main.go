package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"neon-snake/internal/api"
	"neon-snake/internal/config"
	"neon-snake/internal/game"
	"neon-snake/internal/render"
	"neon-snake/internal/weapon"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🐍 ================================")
	log.Println("🐍  NEON SNAKE - HEADLESS SERVER")
	log.Println("🐍 ================================")

	appConfig := config.Load()
	gameCfg := appConfig.Game
	serverCfg := appConfig.Server

	catalog, err := loadCatalog(gameCfg.WeaponsFile)
	if err != nil {
		log.Fatalf("❌ Weapon catalog: %v", err)
	}

	engine, err := game.NewEngine(game.EngineConfig{
		Game:     gameCfg,
		Ammo:     appConfig.Ammo,
		Limits:   appConfig.Limits,
		EventLog: appConfig.EventLog,
		Catalog:  catalog,
	})
	if err != nil {
		log.Fatalf("❌ Engine: %v", err)
	}
	log.Printf("🎮 Config: %dx%d cells of %dpx, %dms base tick, seed %d",
		gameCfg.Cols(), gameCfg.Rows(), gameCfg.GridSize, gameCfg.BaseTickMs, engine.Seed())
	log.Printf("🛡️ Resource limits: %d projectiles, %d ws clients (%d per IP), %.0f req/s",
		appConfig.Limits.MaxProjectiles, appConfig.Limits.MaxWSClients, appConfig.Limits.MaxWSPerIP,
		appConfig.Limits.RequestsPerSec)

	if appConfig.EventLog.Path != "" {
		if err := engine.StartEventLog(); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s (%s)", appConfig.EventLog.Path, appConfig.EventLog.Compression)
		}
	}

	api.StartDebugServer(api.ObservabilityConfig{
		Enabled:    !serverCfg.DisableDebug,
		ListenAddr: serverCfg.DebugAddr,
	})
	engine.SetTickObserver(api.ObserveTick)

	renderer := render.NewFrameRenderer(gameCfg.Width, gameCfg.Height)
	server := api.NewServer(engine, renderer, serverCfg, appConfig.Limits)

	engine.Start()
	log.Println("✅ Game Engine started")

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("🔌 WebSocket: ws://localhost%s/ws", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! POST /api/game/start to play. Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}

// loadCatalog reads a JSON weapon table, or returns nil for the built-in one.
func loadCatalog(path string) (*weapon.Catalog, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	catalog, err := weapon.LoadCatalog(f)
	if err != nil {
		return nil, err
	}
	log.Printf("🔫 Loaded %d weapons from %s", catalog.Len(), path)
	return catalog, nil
}
