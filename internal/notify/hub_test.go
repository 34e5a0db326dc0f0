// internal/notify/hub_test.go
package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNotifyReloadReachesConnectedClient(t *testing.T) {
	h := NewHub()
	h.Start()

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWs))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration races the broadcast; give the hub a beat.
	time.Sleep(50 * time.Millisecond)
	h.NotifyReload("ruafit-static-v2")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "reload" {
		t.Fatalf("message type = %q, want reload", msg.Type)
	}
	payload, ok := msg.Payload.(map[string]any)
	if !ok || payload["cache"] != "ruafit-static-v2" {
		t.Fatalf("payload = %+v", msg.Payload)
	}
}

func TestBroadcastReachesMultipleClients(t *testing.T) {
	h := NewHub()
	h.Start()

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWs))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		defer conn.Close()
		conns = append(conns, conn)
	}

	time.Sleep(50 * time.Millisecond)
	h.Broadcast("reload", nil)

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("client %d read: %v", i, err)
		}
		if msg.Type != "reload" {
			t.Fatalf("client %d message type = %q", i, msg.Type)
		}
	}
}

func TestBroadcastWithNoClientsDoesNotBlock(t *testing.T) {
	h := NewHub()
	h.Start()

	done := make(chan struct{})
	go func() {
		h.NotifyReload("ruafit-static-v2")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("broadcast blocked with no clients connected")
	}
}
