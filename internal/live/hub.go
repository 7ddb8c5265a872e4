// Package live pushes roster-changed events to every open page over WebSocket so each
// view can refetch its list after another tab mutates the roster.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yoniadmire/puppy-bowl/internal/logging"
	"github.com/yoniadmire/puppy-bowl/internal/metrics"
)

// HeaderClientID carries the live client id of the page that issued a mutation.
const HeaderClientID = "X-Live-Client"

const (
	MsgHello         = "hello"
	MsgRosterChanged = "roster-changed"
)

const (
	sendBuffer = 8
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Message is the JSON frame sent to clients.
type Message struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

// Hub tracks connected pages and fans out roster-changed events.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*client
	closed   bool
	upgrader websocket.Upgrader
	logger   *slog.Logger
	recorder *metrics.Recorder
	newID    func() string
}

// NewHub constructs an empty hub.
func NewHub(logger *slog.Logger, recorder *metrics.Recorder) *Hub {
	return &Hub{
		clients:  make(map[string]*client),
		logger:   logger,
		recorder: recorder,
		newID:    uuid.NewString,
	}
}

// ServeHTTP upgrades the request and registers the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		logging.Warn(logger, "websocket upgrade failed", "error", err)
		return
	}

	c := &client{id: h.newID(), conn: conn, send: make(chan Message, sendBuffer)}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	logging.Debug(logger, "live client connected", "client_id", c.id, logging.FieldClients, h.Clients())

	go h.writePump(c)
	h.readPump(c)
}

// Notify tells every client except the one that caused the change to refresh.
func (h *Hub) Notify(ctx context.Context) {
	origin := OriginFromContext(ctx)
	msg := Message{Type: MsgRosterChanged}

	h.mu.Lock()
	delivered := 0
	for id, c := range h.clients {
		if id == origin {
			continue
		}
		select {
		case c.send <- msg:
			delivered++
		default:
			// Client is not draining; it will catch up on its next fetch.
			logging.Warn(h.logger, "dropping live event for slow client", "client_id", id)
		}
	}
	h.mu.Unlock()

	h.recorder.RecordBroadcast(delivered)
	logging.Debug(logging.FromContext(ctx, h.logger), "roster change broadcast", logging.FieldClients, delivered)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
		h.recorder.RecordLiveClient(-1)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	c.send <- Message{Type: MsgHello, Data: map[string]string{"clientId": c.id}}
	h.recorder.RecordLiveClient(1)
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
		close(c.send)
		h.recorder.RecordLiveClient(-1)
	}
}

// readPump discards client frames; it only exists to observe pongs and disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		logging.Debug(h.logger, "live client disconnected", "client_id", c.id)
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logging.Warn(h.logger, "live write failed", "client_id", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
