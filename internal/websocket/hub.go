// Package websocket pushes tenant-scoped events (role changes, store
// changes) to connected clients. Each connection is authenticated with the
// same resolver as HTTP requests and only ever receives events for its own
// tenant.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"storehub/internal/tenancy"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is the envelope pushed to clients.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client represents a single connected WebSocket client
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	tenantID uuid.UUID
	send     chan []byte
}

// Hub maintains the set of active clients, partitioned by tenant. Broadcasts
// target one tenant; there is no cross-tenant fanout.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	broadcast  chan tenantMessage
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger
	mu         sync.Mutex
}

type tenantMessage struct {
	tenantID uuid.UUID
	data     []byte
}

// NewHub initializes a new WS Hub instance
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan tenantMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Broadcast pushes an event to every client of one tenant.
func (h *Hub) Broadcast(tenantID uuid.UUID, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		h.log.Error("marshal websocket event failed", zap.String("type", eventType), zap.Error(err))
		return
	}
	h.broadcast <- tenantMessage{tenantID: tenantID, data: data}
}

// Run starts the core dispatch loop for WebSocket events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.tenantID] == nil {
				h.clients[client.tenantID] = make(map[*Client]bool)
			}
			h.clients[client.tenantID][client] = true
			h.mu.Unlock()
			h.log.Debug("websocket client connected", zap.String("tenant_id", client.tenantID.String()))
		case client := <-h.unregister:
			h.mu.Lock()
			if peers, ok := h.clients[client.tenantID]; ok {
				if _, ok := peers[client]; ok {
					delete(peers, client)
					close(client.send)
					if len(peers) == 0 {
						delete(h.clients, client.tenantID)
					}
				}
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.tenantID] {
				select {
				case client.send <- msg.data:
				default:
					close(client.send)
					delete(h.clients[msg.tenantID], client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		// Fast track writing queued messages
		n := len(c.send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	for {
		// Just reading to keep the connection alive
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("websocket read error", zap.Error(err))
			}
			break
		}
	}
}

// ServeWs authenticates the connection with the same resolver as HTTP
// requests and joins the client to its tenant's event stream.
func ServeWs(hub *Hub, resolver *tenancy.ContextResolver, c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	rc, err := resolver.Resolve(c.Request.Context(), rawToken, "")
	if err != nil {
		if te, ok := tenancy.AsError(err); ok {
			c.AbortWithStatus(te.Status)
			return
		}
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{hub: hub, conn: conn, tenantID: rc.Tenant.ID, send: make(chan []byte, 256)}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}
