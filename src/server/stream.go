package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"tradeconsole/src/dashboard"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamHub pushes every applied snapshot to the connected browsers. The
// engine boundary stays polling; this is console-to-browser only.
type streamHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newStreamHub() *streamHub {
	return &streamHub{conns: map[*websocket.Conn]struct{}{}}
}

func (h *streamHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *streamHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *streamHub) broadcast(snap dashboard.Snapshot) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(snap); err != nil {
			logger.WithError(err).Debug("dropping stream subscriber")
			h.remove(conn)
		}
	}
}

// StreamHandler upgrades the request and keeps the connection registered
// until the browser goes away.
func (c *Console) StreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Error("stream upgrade failed")
		return
	}
	c.hub.add(conn)

	// reads are only used to detect the peer closing
	go func() {
		defer c.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
