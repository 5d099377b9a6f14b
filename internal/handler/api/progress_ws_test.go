package api

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	xlogger "MarketPulse/pkg/logger"
)

func dialProgress(t *testing.T, hub *ProgressHub) (*httptest.Server, *websocket.Conn) {
	t.Helper()

	e := echo.New()
	e.GET("/ws/progress", hub.Handle)
	srv := httptest.NewServer(e)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}

	// registration happens just after the handshake completes
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.conns)
		hub.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return srv, conn
}

func TestProgressHubBroadcast(t *testing.T) {
	hub := NewProgressHub(xlogger.Nop())
	defer hub.Close()

	srv, conn := dialProgress(t, hub)
	defer srv.Close()
	defer conn.Close()

	hub.Broadcast("AAPL", 1, 4)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev ProgressEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Ticker != "AAPL" || ev.Done != 1 || ev.Total != 4 {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Percent != 25 {
		t.Errorf("percent = %v, want 25", ev.Percent)
	}
}

func TestProgressHubConcurrentBroadcast(t *testing.T) {
	hub := NewProgressHub(xlogger.Nop())
	defer hub.Close()

	srv, conn := dialProgress(t, hub)
	defer srv.Close()
	defer conn.Close()

	received := make(chan struct{}, 1)
	go func() {
		for {
			var ev ProgressEvent
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case received <- struct{}{}:
			default:
			}
		}
	}()

	// two request handlers driving the shared hub at once
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				hub.Broadcast("MSFT", i+1, 200)
			}
		}()
	}
	wg.Wait()

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("no progress frame received")
	}

	hub.mu.Lock()
	n := len(hub.conns)
	hub.mu.Unlock()
	if n != 1 {
		t.Errorf("subscriber dropped during broadcast, %d left", n)
	}
}
