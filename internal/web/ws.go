package web

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sysglance/internal/logger"
)

const (
	wsWriteTimeout = 5 * time.Second
	// wsSendBuffer bounds the per-client queue. A client that cannot
	// drain one screenful of snapshots is dropped rather than allowed
	// to stall the publisher.
	wsSendBuffer = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

// hub tracks websocket clients. broadcast never blocks the caller: each
// client has a buffered queue drained by its own writer goroutine.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	log     logger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan snapshotPayload
	done chan struct{}
	once sync.Once
}

func newHub(log logger.Logger) *hub {
	return &hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (h *hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *hub) broadcast(payload snapshotPayload) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			h.log.Warn("websocket client too slow, dropping connection")
			h.remove(c)
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.closed = true
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// close signals shutdown without closing the send channel; a closed
// send channel could panic a concurrent broadcast.
func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writeLoop drains the send queue onto the wire. Exits on shutdown or
// the first failed write.
func (c *client) writeLoop() {
	for {
		select {
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteJSON(payload); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// handleWS upgrades the connection, replays the current snapshot, and
// streams every publish until the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{
		conn: conn,
		send: make(chan snapshotPayload, wsSendBuffer),
		done: make(chan struct{}),
	}
	if !s.hub.add(c) {
		_ = conn.Close()
		return
	}

	// New clients start from the current state rather than waiting a
	// full refresh interval for their first frame.
	snap, ok := s.adapter.Latest()
	c.send <- s.snapshotPayload(snap, ok)

	go c.writeLoop()

	// Reads only detect disconnects; clients never send data.
	go func() {
		defer s.hub.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
