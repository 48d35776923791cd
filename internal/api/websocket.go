package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"neon-snake/internal/config"
)

const (
	wsWriteWait      = 5 * time.Second
	wsMaxMessageSize = 1024
	wsSendBuffer     = 16
)

// Envelope is the frame format sent to WebSocket clients.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	ip   string
	send chan []byte
}

type directMessage struct {
	client *wsClient
	data   []byte
}

// WebSocketHub fans snapshots out to clients and feeds their commands into
// the engine. Run owns the client set; everything else talks to it through
// channels.
type WebSocketHub struct {
	engine  EngineInterface
	clients map[*wsClient]struct{}
	count   atomic.Int32

	broadcast  chan []byte
	direct     chan directMessage
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}

	maxTotal  int
	wsLimiter *WebSocketRateLimiter
	upgrader  websocket.Upgrader
}

// NewWebSocketHub creates a hub with connection limits and an origin check.
func NewWebSocketHub(engine EngineInterface, limits config.ResourceLimits, origins []string) *WebSocketHub {
	h := &WebSocketHub{
		engine:     engine,
		clients:    make(map[*wsClient]struct{}),
		broadcast:  make(chan []byte, 16),
		direct:     make(chan directMessage, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
		maxTotal:   limits.MaxWSClients,
		wsLimiter:  NewWebSocketRateLimiter(limits.MaxWSPerIP),
	}

	checker := NewOriginChecker(origins)
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if checker.Allowed(origin) {
				return true
			}
			log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run serves the hub until stop is closed, then disconnects every client.
func (h *WebSocketHub) Run(stop <-chan struct{}) {
	defer close(h.done)

	for {
		select {
		case <-stop:
			for c := range h.clients {
				h.drop(c)
			}
			UpdateWSConnections(0)
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int32(len(h.clients)))
			log.Printf("📱 Client %s connected from %s (%d total)", c.id, c.ip, len(h.clients))
			UpdateWSConnections(len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				log.Printf("📱 Client %s disconnected (%d remaining)", c.id, len(h.clients))
			}

		case m := <-h.direct:
			if _, ok := h.clients[m.client]; ok {
				h.deliver(m.client, m.data)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}
			IncrementWSMessages()
		}
	}
}

// deliver queues data for c, dropping clients that cannot keep up.
func (h *WebSocketHub) deliver(c *wsClient, data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("⚠️ Client %s too slow, disconnecting", c.id)
		h.drop(c)
	}
}

func (h *WebSocketHub) drop(c *wsClient) {
	delete(h.clients, c)
	close(c.send)
	h.wsLimiter.Release(c.ip)
	h.count.Store(int32(len(h.clients)))
	UpdateWSConnections(len(h.clients))
}

// Broadcast sends an event to all connected clients. It never blocks; a
// full queue skips the message.
func (h *WebSocketHub) Broadcast(event string, data any) {
	msg, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}

func (h *WebSocketHub) ClientCount() int {
	return int(h.count.Load())
}

// StartBroadcastLoop pushes the latest snapshot hz times per second while
// clients are connected.
func (h *WebSocketHub) StartBroadcastLoop(hz int, stop <-chan struct{}) {
	if hz <= 0 {
		hz = 10
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))

	go func() {
		defer ticker.Stop()
		var lastSeq uint64
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			if h.ClientCount() == 0 {
				continue
			}
			snap := h.engine.GetSnapshot()
			if snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence
			h.Broadcast("game:state", snap)
		}
	}()
}

// HandleWebSocket upgrades the request after checking connection limits.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if total := h.ClientCount(); h.maxTotal > 0 && total >= h.maxTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", total)
		RecordConnectionRejected("ws_total_limit")
		writeError(w, "too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		writeError(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	c := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		ip:   ip,
		send: make(chan []byte, wsSendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *WebSocketHub) writePump(c *wsClient) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
}

// readPump decodes commands and answers each one to its sender only.
func (h *WebSocketHub) readPump(c *wsClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(wsMaxMessageSize)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var reply Envelope
		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			reply = Envelope{Event: "command:error", Data: map[string]string{"error": "invalid message"}}
		} else if res, err := execute(h.engine, cmd); err != nil {
			reply = Envelope{Event: "command:error", Data: map[string]string{"type": cmd.Type, "error": err.Error()}}
		} else {
			reply = Envelope{Event: "command:result", Data: map[string]any{"type": cmd.Type, "result": res}}
		}

		data, err := json.Marshal(reply)
		if err != nil {
			continue
		}
		select {
		case h.direct <- directMessage{client: c, data: data}:
		case <-h.done:
			return
		}
	}
}
