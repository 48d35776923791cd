package config

import "testing"

func TestDefaultGame(t *testing.T) {
	cfg := DefaultGame()

	if cfg.Cols() != 40 || cfg.Rows() != 30 {
		t.Errorf("expected a 40x30 board, got %dx%d", cfg.Cols(), cfg.Rows())
	}
	if cfg.StartLives != 3 {
		t.Errorf("expected 3 lives, got %d", cfg.StartLives)
	}
}

func TestTickMsForLevel(t *testing.T) {
	cfg := DefaultGame()

	tests := []struct {
		level int
		want  int
	}{
		{1, 148},
		{2, 146},
		{10, 130},
		{50, 50},
		{99, 50},
	}

	for _, tt := range tests {
		if got := cfg.TickMsForLevel(tt.level); got != tt.want {
			t.Errorf("TickMsForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestGameFromEnv(t *testing.T) {
	t.Setenv("GRID_SIZE", "10")
	t.Setenv("FIELD_WIDTH", "400")
	t.Setenv("RNG_SEED", "1234")
	t.Setenv("STARTER_WEAPON", "spread")
	t.Setenv("START_LIVES", "not-a-number")

	cfg := GameFromEnv()

	if cfg.GridSize != 10 || cfg.Width != 400 || cfg.Cols() != 40 {
		t.Errorf("board overrides not applied: %+v", cfg)
	}
	if cfg.Seed != 1234 {
		t.Errorf("seed = %d, want 1234", cfg.Seed)
	}
	if cfg.StarterWeapon != "spread" {
		t.Errorf("starter = %q", cfg.StarterWeapon)
	}
	if cfg.StartLives != 3 {
		t.Errorf("invalid START_LIVES should keep the default, got %d", cfg.StartLives)
	}
}

func TestAmmoFromEnv(t *testing.T) {
	t.Setenv("MAX_AMMO", "250")
	t.Setenv("AMMO_REGEN", "0.5")

	cfg := AmmoFromEnv()
	if cfg.Max != 250 || cfg.Start != 250 || cfg.Regen != 0.5 {
		t.Errorf("ammo overrides not applied: %+v", cfg)
	}
}

func TestServerAndEventLogFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DISABLE_DEBUG_SERVER", "true")
	t.Setenv("EVENT_LOG_PATH", "")
	t.Setenv("EVENT_LOG_COMPRESSION", "ZSTD")

	app := Load()

	if app.Server.Port != 8080 || len(app.Server.AllowedOrigins) != 2 || !app.Server.DisableDebug {
		t.Errorf("server overrides not applied: %+v", app.Server)
	}
	if app.EventLog.Path != "" || app.EventLog.Compression != "zstd" {
		t.Errorf("event log overrides not applied: %+v", app.EventLog)
	}
}
