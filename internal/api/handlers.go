package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// maxBodyBytes caps command bodies; commands are a few dozen bytes.
const maxBodyBytes = 4 << 10

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetSnapshot())
}

func (h *routerHandlers) handleGetWeapons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Weapons())
}

func (h *routerHandlers) handleEventStats(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.GetEventLogStats()
	UpdateEventLogStats(stats)
	writeJSON(w, stats)
}

func (h *routerHandlers) handleFrame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var buf bytes.Buffer
	if err := h.renderer.EncodePNG(&buf, h.engine.GetSnapshot()); err != nil {
		log.Printf("❌ Frame render failed: %v", err)
		writeError(w, "render failed", http.StatusInternalServerError)
		return
	}
	RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleGameStart(w http.ResponseWriter, r *http.Request) {
	h.run(w, Command{Type: "start"})
}

func (h *routerHandlers) handleGamePause(w http.ResponseWriter, r *http.Request) {
	h.run(w, Command{Type: "pause"})
}

func (h *routerHandlers) handleGameReset(w http.ResponseWriter, r *http.Request) {
	h.run(w, Command{Type: "reset"})
}

func (h *routerHandlers) handleTurn(w http.ResponseWriter, r *http.Request) {
	h.decodeAndRun(w, r, "turn")
}

func (h *routerHandlers) handleFire(w http.ResponseWriter, r *http.Request) {
	h.decodeAndRun(w, r, "fire")
}

func (h *routerHandlers) handleEquip(w http.ResponseWriter, r *http.Request) {
	h.decodeAndRun(w, r, "equip")
}

func (h *routerHandlers) handleUnlock(w http.ResponseWriter, r *http.Request) {
	h.decodeAndRun(w, r, "unlock")
}

func (h *routerHandlers) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	h.decodeAndRun(w, r, "upgrade")
}

// decodeAndRun reads a Command body; the route fixes its type.
func (h *routerHandlers) decodeAndRun(w http.ResponseWriter, r *http.Request, typ string) {
	var cmd Command
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&cmd); err != nil {
		writeError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	cmd.Type = typ
	h.run(w, cmd)
}

func (h *routerHandlers) run(w http.ResponseWriter, cmd Command) {
	res, err := execute(h.engine, cmd)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, res)
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
