package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	xlogger "MarketPulse/pkg/logger"
)

// ProgressEvent is one fetch-progress frame pushed to subscribers.
type ProgressEvent struct {
	Ticker  string  `json:"ticker"`
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the API is same-origin behind the CORS middleware already
	CheckOrigin: func(*http.Request) bool { return true },
}

// ProgressHub fans fetch progress out to websocket subscribers. Slow
// clients are dropped rather than allowed to stall a fetch.
type ProgressHub struct {
	logger *xlogger.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]*sync.Mutex
}

func NewProgressHub(logger *xlogger.Logger) *ProgressHub {
	return &ProgressHub{logger: logger, conns: make(map[*websocket.Conn]*sync.Mutex)}
}

// Handle upgrades the connection and keeps it registered until the
// client goes away. Incoming frames are drained and discarded.
func (h *ProgressHub) Handle(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.conns[conn] = &sync.Mutex{}
	n := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("progress subscriber connected", xlogger.Int("subscribers", n))

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Broadcast pushes one progress event to every subscriber.
func (h *ProgressHub) Broadcast(ticker string, done, total int) {
	ev := ProgressEvent{Ticker: ticker, Done: done, Total: total}
	if total > 0 {
		ev.Percent = float64(done) / float64(total) * 100
	}

	h.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.conns))
	for c, wmu := range h.conns {
		conns[c] = wmu
	}
	h.mu.Unlock()

	// A websocket connection allows one writer at a time, so each
	// connection carries its own write lock.
	for c, wmu := range conns {
		wmu.Lock()
		_ = c.SetWriteDeadline(time.Now().Add(2 * time.Second))
		err := c.WriteJSON(ev)
		wmu.Unlock()
		if err != nil {
			h.drop(c)
		}
	}
}

// Close disconnects all subscribers.
func (h *ProgressHub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[*websocket.Conn]*sync.Mutex)
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

func (h *ProgressHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}
