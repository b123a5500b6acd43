package notifyhub

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/moyoez/portal-gateway/tool"
	"github.com/moyoez/portal-gateway/types"
)

const (
	defaultWriteWait = 5 * time.Second
	sendQueueSize    = 16
)

// client is one open landing page. Frames are queued on send and written by the
// connection's own writer goroutine, so Broadcast never waits on a slow reader.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// Hub holds the websocket connections of open landing pages and pushes new wall entries to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client

	// writeWait bounds a single frame write; a client that cannot take a frame in time is dropped.
	writeWait time.Duration
}

// New creates a new hub.
func New() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]*client),
		writeWait: defaultWriteWait,
	}
}

// Register adds a websocket connection to the hub and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	go h.writeLoop(c)
}

// Unregister removes a websocket connection from the hub and stops its writer.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	c, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		c.stop()
	}
}

// Len returns the number of connected pages.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues frame as JSON for every registered connection. A connection whose
// queue is full misses the frame.
func (h *Hub) Broadcast(frame types.WallFrame) {
	payload, err := sonic.Marshal(frame)
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to encode wall frame: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			tool.DefaultLogger.Debugf("Dropped wall frame for %s: send queue full", c.conn.RemoteAddr())
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			err := c.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err == nil {
				err = c.conn.WriteMessage(websocket.TextMessage, payload)
			}
			if err != nil {
				tool.DefaultLogger.Debugf("Failed to push wall frame, closing: %v", err)
				// closing unblocks the read loop in HandleWallWS, which unregisters
				_ = c.conn.Close()
				h.Unregister(c.conn)
				return
			}
		}
	}
}
