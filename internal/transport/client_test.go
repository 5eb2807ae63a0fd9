// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shopvn/shopchat-tui/internal/chat"
)

// brokerStub is a minimal push broker: it records connections and lets
// tests push envelope frames or kill the connection.
type brokerStub struct {
	t        *testing.T
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
	auths []string
}

func newBrokerStub(t *testing.T) (*brokerStub, *httptest.Server) {
	t.Helper()
	b := &brokerStub{t: t}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		b.mu.Lock()
		b.conns = append(b.conns, conn)
		b.auths = append(b.auths, r.Header.Get("Authorization"))
		b.mu.Unlock()
		// Drain the connection so close frames and pings are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *brokerStub) connCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns)
}

func (b *brokerStub) lastConn() *websocket.Conn {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.conns) == 0 {
		return nil
	}
	return b.conns[len(b.conns)-1]
}

func (b *brokerStub) push(t *testing.T, topic string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	frame, err := json.Marshal(envelope{Topic: topic, Payload: data})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	if err := b.lastConn().WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("push frame: %v", err)
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestTransport(srv *httptest.Server) *Client {
	return NewClient(&Config{
		URL:                  wsURL(srv),
		HandshakeTimeout:     2 * time.Second,
		ReconnectDelay:       50 * time.Millisecond,
		MaxReconnectAttempts: 3,
	})
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// =============================================================================
// CONNECT TESTS
// =============================================================================

func TestConnect_AuthenticatesAndIsIdempotent(t *testing.T) {
	broker, srv := newBrokerStub(t)
	client := newTestTransport(srv)
	defer client.Disconnect()

	if err := client.Connect(context.Background(), "tok-1"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := client.Connect(context.Background(), "tok-1"); err != nil {
		t.Fatalf("second connect failed: %v", err)
	}

	if broker.connCount() != 1 {
		t.Errorf("expected 1 connection, got %d", broker.connCount())
	}
	broker.mu.Lock()
	auth := broker.auths[0]
	broker.mu.Unlock()
	if auth != "Bearer tok-1" {
		t.Errorf("expected bearer header, got %q", auth)
	}
	if !client.IsConnected() {
		t.Error("client should report connected")
	}
}

func TestConnect_ConcurrentCallersShareOneDial(t *testing.T) {
	broker, srv := newBrokerStub(t)
	client := newTestTransport(srv)
	defer client.Disconnect()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.Connect(context.Background(), "tok"); err != nil {
				t.Errorf("connect failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if broker.connCount() != 1 {
		t.Errorf("concurrent connects opened %d sockets, want 1", broker.connCount())
	}
}

func TestConnect_HandshakeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestTransport(srv)
	if err := client.Connect(context.Background(), "tok"); err == nil {
		t.Fatal("expected handshake error")
	}
	if client.IsConnected() {
		t.Error("client must stay disconnected after handshake failure")
	}
}

// =============================================================================
// SUBSCRIPTION TESTS
// =============================================================================

func TestSubscribeBeforeConnectIsNonFatal(t *testing.T) {
	_, srv := newBrokerStub(t)
	client := newTestTransport(srv)

	if sub := client.SubscribeToRoom("room-1", func(*chat.ChatMessage) {}); sub != nil {
		t.Error("subscribe before connect should return nil")
	}
}

func TestDispatch_MessageAndReadTopics(t *testing.T) {
	broker, srv := newBrokerStub(t)
	client := newTestTransport(srv)
	defer client.Disconnect()

	if err := client.Connect(context.Background(), "tok"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	msgCh := make(chan *chat.ChatMessage, 1)
	readCh := make(chan string, 1)
	if sub := client.SubscribeToRoom("room-1", func(m *chat.ChatMessage) { msgCh <- m }); sub == nil {
		t.Fatal("room subscription failed")
	}
	if sub := client.SubscribeToReadStatus("room-1", func(id string) { readCh <- id }); sub == nil {
		t.Fatal("read subscription failed")
	}

	broker.push(t, "room/room-1", chat.ChatMessage{ID: "m1", RoomID: "room-1", SenderID: "admin-1", Content: "hi"})
	broker.push(t, "room/room-1/read", "admin-1")

	select {
	case m := <-msgCh:
		if m.ID != "m1" {
			t.Errorf("unexpected message %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message never dispatched")
	}

	select {
	case id := <-readCh:
		if id != "admin-1" {
			t.Errorf("unexpected reader id %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("read receipt never dispatched")
	}
}

func TestUnsubscribe_IsIdempotentAndStopsDelivery(t *testing.T) {
	broker, srv := newBrokerStub(t)
	client := newTestTransport(srv)
	defer client.Disconnect()

	if err := client.Connect(context.Background(), "tok"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	var delivered int
	var mu sync.Mutex
	sub := client.SubscribeToRoom("room-1", func(*chat.ChatMessage) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	sub.Unsubscribe()
	sub.Unsubscribe() // second call is a no-op
	var nilSub *Subscription
	nilSub.Unsubscribe() // nil-safe

	broker.push(t, "room/room-1", chat.ChatMessage{ID: "m1"})
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if delivered != 0 {
		t.Errorf("message delivered after unsubscribe: %d", delivered)
	}
}

func TestSubscribe_ReplacementKeepsSingleDelivery(t *testing.T) {
	broker, srv := newBrokerStub(t)
	client := newTestTransport(srv)
	defer client.Disconnect()

	if err := client.Connect(context.Background(), "tok"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	first := make(chan struct{}, 4)
	second := make(chan struct{}, 4)
	client.SubscribeToRoom("room-1", func(*chat.ChatMessage) { first <- struct{}{} })
	client.SubscribeToRoom("room-1", func(*chat.ChatMessage) { second <- struct{}{} })

	broker.push(t, "room/room-1", chat.ChatMessage{ID: "m1"})

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement subscription never delivered")
	}
	select {
	case <-first:
		t.Error("replaced subscription still receiving")
	case <-time.After(100 * time.Millisecond):
	}
}

// =============================================================================
// RECONNECT TESTS
// =============================================================================

func TestReconnect_AfterUnexpectedClose(t *testing.T) {
	broker, srv := newBrokerStub(t)
	client := newTestTransport(srv)
	defer client.Disconnect()

	var disconnects, reconnects int
	var mu sync.Mutex
	client.OnDisconnect(func() { mu.Lock(); disconnects++; mu.Unlock() })
	client.OnReconnect(func() { mu.Lock(); reconnects++; mu.Unlock() })

	if err := client.Connect(context.Background(), "tok"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	broker.lastConn().Close() // simulate broker crash

	waitFor(t, func() bool { return broker.connCount() == 2 }, "automatic reconnect")
	waitFor(t, func() bool { return client.IsConnected() }, "connected state after reconnect")

	mu.Lock()
	defer mu.Unlock()
	if disconnects != 1 || reconnects != 1 {
		t.Errorf("expected 1 disconnect / 1 reconnect callback, got %d/%d", disconnects, reconnects)
	}
}

func TestDisconnect_SuppressesReconnect(t *testing.T) {
	broker, srv := newBrokerStub(t)
	client := newTestTransport(srv)

	if err := client.Connect(context.Background(), "tok"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	client.Disconnect()
	client.Disconnect() // safe to call repeatedly

	time.Sleep(300 * time.Millisecond)
	if broker.connCount() != 1 {
		t.Errorf("disconnect must not trigger reconnects, got %d connections", broker.connCount())
	}
	if client.IsConnected() {
		t.Error("client should report disconnected")
	}
}

func TestDisconnect_CancelsPendingReconnectTimer(t *testing.T) {
	broker, srv := newBrokerStub(t)
	client := newTestTransport(srv)

	var disconnected bool
	var reconnects int
	var mu sync.Mutex
	client.OnDisconnect(func() { mu.Lock(); disconnected = true; mu.Unlock() })
	client.OnReconnect(func() { mu.Lock(); reconnects++; mu.Unlock() })

	if err := client.Connect(context.Background(), "tok"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	// Unexpected close arms the reconnect timer before Disconnect runs.
	broker.lastConn().Close()
	waitFor(t, func() bool { mu.Lock(); defer mu.Unlock(); return disconnected }, "disconnect callback")

	client.Disconnect()

	time.Sleep(300 * time.Millisecond)
	if broker.connCount() != 1 {
		t.Errorf("stale reconnect timer re-dialed after Disconnect, got %d connections", broker.connCount())
	}
	if client.IsConnected() {
		t.Error("client should stay disconnected")
	}
	mu.Lock()
	defer mu.Unlock()
	if reconnects != 0 {
		t.Errorf("reconnect callback fired %d times after Disconnect", reconnects)
	}
}

// =============================================================================
// TOPIC PARSING
// =============================================================================

func TestParseTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  subKey
		ok    bool
	}{
		{"room/abc", subKey{roomID: "abc", kind: ChannelMessages}, true},
		{"room/abc/read", subKey{roomID: "abc", kind: ChannelReadStatus}, true},
		{"room/", subKey{}, false},
		{"room//read", subKey{}, false},
		{"presence/abc", subKey{}, false},
	}

	for _, tt := range tests {
		got, ok := parseTopic(tt.topic)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseTopic(%q) = %+v,%v want %+v,%v", tt.topic, got, ok, tt.want, tt.ok)
		}
	}
}
