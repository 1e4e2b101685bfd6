package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/logger"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 대시보드는 별도 origin
	},
}

// StreamMessage is one frame pushed to dashboard clients
type StreamMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla allows one concurrent writer
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub pushes every new composite result to connected websocket clients
// ⭐ SSOT: 실시간 푸시는 이 허브에서만
type Hub struct {
	clients map[*client]struct{}
	mu      sync.RWMutex
	latest  Reader
	logger  *logger.Logger
}

// NewHub creates a hub. latest (may be nil) seeds new connections.
func NewHub(latest Reader, log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		latest:  latest,
		logger:  log.WithField("module", "stream"),
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends result to every client. Matches monitor.Service.Subscribe.
func (h *Hub) Broadcast(result contracts.CompositeResult) {
	data, err := json.Marshal(StreamMessage{Type: "liquidity_update", Payload: result})
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal update")
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.WithError(err).Warn("Failed to send update, dropping client")
			h.remove(c)
		}
	}
}

// ServeWS upgrades the request and keeps the client until it disconnects
// GET /ws/liquidity
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	// 서버 ReadTimeout 해제
	conn.SetReadDeadline(time.Time{})

	c := &client{conn: conn}

	if h.latest != nil {
		if result, err := h.latest.Latest(r.Context()); err == nil {
			data, _ := json.Marshal(StreamMessage{Type: "liquidity_snapshot", Payload: result})
			if err := c.write(data); err != nil {
				conn.Close()
				return
			}
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.WithField("clients", h.ClientCount()).Debug("Client connected")

	// 읽기 루프: 클라이언트 종료 감지용
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		h.logger.WithField("clients", h.ClientCount()).Debug("Client disconnected")
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		c.conn.Close()
	}
}
