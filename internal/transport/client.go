// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shopvn/shopchat-tui/internal/chat"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConnected is returned when an operation requires an
	// established connection.
	ErrNotConnected = errors.New("transport: not connected")

	// ErrClosed is returned when a dial completes after Disconnect
	// already tore the client down.
	ErrClosed = errors.New("transport: client closed during connect")
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds transport client options.
type Config struct {
	// URL is the broker WebSocket endpoint, e.g. ws://host/ws.
	URL string

	// HandshakeTimeout bounds the protocol handshake. Fail fast so the
	// UI can offer a manual reconnect instead of appearing to hang
	// (default: 5s).
	HandshakeTimeout time.Duration

	// ReconnectDelay is the fixed delay between reconnect attempts
	// (default: 3s).
	ReconnectDelay time.Duration

	// MaxReconnectAttempts bounds automatic reconnection (default: 5).
	MaxReconnectAttempts int

	// WriteWait bounds a single control-frame write (default: 10s).
	WriteWait time.Duration

	// PongWait is the read deadline extended on every pong (default: 60s).
	PongWait time.Duration

	// MaxMessageSize limits inbound frames in bytes (default: 64KB).
	MaxMessageSize int64
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:                  "ws://127.0.0.1:8080/ws",
		HandshakeTimeout:     5 * time.Second,
		ReconnectDelay:       3 * time.Second,
		MaxReconnectAttempts: 5,
		WriteWait:            10 * time.Second,
		PongWait:             60 * time.Second,
		MaxMessageSize:       64 * 1024,
	}
}

// pingPeriod returns how often to ping; must be shorter than PongWait.
func (c *Config) pingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// ChannelKind distinguishes the two per-room topics.
type ChannelKind int

const (
	ChannelMessages ChannelKind = iota
	ChannelReadStatus
)

// String returns the log-friendly name of the channel kind.
func (k ChannelKind) String() string {
	if k == ChannelReadStatus {
		return "read"
	}
	return "room"
}

// subKey identifies one registry entry.
type subKey struct {
	roomID string
	kind   ChannelKind
}

// MessageHandler is invoked once per inbound message on a room channel.
type MessageHandler func(*chat.ChatMessage)

// ReadHandler is invoked when the counterpart acknowledges reading,
// carrying the reader's user id.
type ReadHandler func(readerID string)

// subscriber holds the callbacks for one registry entry. Exactly one of
// the two handlers is set, matching the entry's channel kind.
type subscriber struct {
	onMessage MessageHandler
	onRead    ReadHandler
}

// Subscription is a disposable handle to a registry entry.
// Unsubscribe is idempotent and safe after Disconnect.
type Subscription struct {
	client *Client
	key    subKey
	once   sync.Once
}

// Unsubscribe removes the subscription from the registry.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.client.removeSubscription(s.key)
	})
}

// =============================================================================
// ENVELOPE
// =============================================================================

// envelope is the inbound frame format: one event per topic.
// room/{id} carries a chat message, room/{id}/read the reader's id.
type envelope struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// parseTopic extracts the registry key from a topic string.
func parseTopic(topic string) (subKey, bool) {
	rest, ok := strings.CutPrefix(topic, "room/")
	if !ok || rest == "" {
		return subKey{}, false
	}
	if roomID, found := strings.CutSuffix(rest, "/read"); found {
		if roomID == "" {
			return subKey{}, false
		}
		return subKey{roomID: roomID, kind: ChannelReadStatus}, true
	}
	return subKey{roomID: rest, kind: ChannelMessages}, true
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is the persistent push-connection client. Safe for concurrent use.
type Client struct {
	config *Config

	mu                sync.Mutex
	conn              *websocket.Conn
	connected         bool
	connecting        bool
	dialDone          chan struct{} // closed when the in-flight dial settles
	dialErr           error
	lastToken         string
	reconnectAttempts int
	manualClose       bool
	gen               int // connection generation; bumping it detaches old pumps
	subs              map[subKey]*subscriber

	onDisconnect func()
	onReconnect  func()
}

// NewClient creates a transport client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.HandshakeTimeout == 0 {
		config.HandshakeTimeout = 5 * time.Second
	}
	if config.ReconnectDelay == 0 {
		config.ReconnectDelay = 3 * time.Second
	}
	if config.MaxReconnectAttempts == 0 {
		config.MaxReconnectAttempts = 5
	}
	if config.WriteWait == 0 {
		config.WriteWait = 10 * time.Second
	}
	if config.PongWait == 0 {
		config.PongWait = 60 * time.Second
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = 64 * 1024
	}

	return &Client{
		config: config,
		subs:   make(map[subKey]*subscriber),
	}
}

// OnDisconnect sets the callback invoked on unexpected connection loss.
func (c *Client) OnDisconnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = fn
}

// OnReconnect sets the callback invoked after a successful automatic
// reconnect.
func (c *Client) OnReconnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReconnect = fn
}

// IsConnected reports whether the connection is established.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// =============================================================================
// CONNECT / DISCONNECT
// =============================================================================

// Connect establishes the push connection, authenticating with the bearer
// token. Idempotent: when already connected it returns immediately, and
// when a dial is in flight the caller awaits that attempt's outcome
// instead of opening a second socket.
func (c *Client) Connect(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		log.Println("transport: already connected, reusing connection")
		return nil
	}
	if c.connecting {
		wait := c.dialDone
		c.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
		err := c.dialErr
		connected := c.connected
		c.mu.Unlock()
		if connected {
			return nil
		}
		return err
	}
	c.connecting = true
	c.manualClose = false
	c.lastToken = token
	c.dialDone = make(chan struct{})
	c.mu.Unlock()

	err := c.dial(ctx, token)

	c.mu.Lock()
	c.connecting = false
	c.dialErr = err
	close(c.dialDone)
	c.mu.Unlock()
	return err
}

// dial performs one handshake attempt and, on success, installs the
// connection and starts the read and ping pumps.
func (c *Client) dial(ctx context.Context, token string) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.config.HandshakeTimeout}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := dialer.DialContext(ctx, c.config.URL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		log.Printf("transport: handshake failed: %v", err)
		return err
	}

	conn.SetReadLimit(c.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	c.mu.Lock()
	if c.manualClose {
		// Disconnect raced the handshake; drop the fresh socket.
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.connected = true
	c.reconnectAttempts = 0
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	log.Printf("transport: connected to %s", c.config.URL)
	go c.readPump(conn, gen)
	go c.pingPump(conn, gen)
	return nil
}

// Disconnect unsubscribes everything, tears down the socket, and resets
// the reconnection counters. Safe to call repeatedly and when never
// connected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.manualClose = true
	c.subs = make(map[subKey]*subscriber)
	c.lastToken = ""
	c.reconnectAttempts = 0
	c.gen++ // detach any live pumps
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	if conn != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.config.WriteWait))
		conn.Close()
		log.Println("transport: disconnected")
	}
}

// =============================================================================
// SUBSCRIBE / UNSUBSCRIBE
// =============================================================================

// SubscribeToRoom registers a callback for inbound messages on the room's
// message channel. Returns nil (logged, non-fatal) when not connected.
func (c *Client) SubscribeToRoom(roomID string, fn MessageHandler) *Subscription {
	return c.subscribe(subKey{roomID: roomID, kind: ChannelMessages}, &subscriber{onMessage: fn})
}

// SubscribeToReadStatus registers a callback for the counterpart's read
// acknowledgements. Returns nil (logged, non-fatal) when not connected.
func (c *Client) SubscribeToReadStatus(roomID string, fn ReadHandler) *Subscription {
	return c.subscribe(subKey{roomID: roomID, kind: ChannelReadStatus}, &subscriber{onRead: fn})
}

func (c *Client) subscribe(key subKey, sub *subscriber) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		log.Printf("transport: subscribe %s-%s skipped: not connected", key.kind, key.roomID)
		return nil
	}
	if _, exists := c.subs[key]; exists {
		// One live subscription per key: the new registration replaces
		// the old one, whose handle becomes a no-op.
		log.Printf("transport: replacing existing subscription %s-%s", key.kind, key.roomID)
	}
	c.subs[key] = sub
	log.Printf("transport: subscribed to %s-%s", key.kind, key.roomID)
	return &Subscription{client: c, key: key}
}

// removeSubscription deletes a registry entry; unknown keys are ignored.
func (c *Client) removeSubscription(key subKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.subs[key]; exists {
		delete(c.subs, key)
		log.Printf("transport: unsubscribed from %s-%s", key.kind, key.roomID)
	}
}

// =============================================================================
// PUMPS
// =============================================================================

// readPump reads frames until the connection dies, then triggers the
// reconnect path unless this generation has been detached.
func (c *Client) readPump(conn *websocket.Conn, gen int) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("transport: unexpected close: %v", err)
			}
			c.handleConnectionLoss(gen)
			return
		}
		c.dispatch(raw)
	}
}

// pingPump keeps the connection alive. The read deadline is extended by
// the pong handler installed at dial time.
func (c *Client) pingPump(conn *websocket.Conn, gen int) {
	ticker := time.NewTicker(c.config.pingPeriod())
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		stale := gen != c.gen || !c.connected
		c.mu.Unlock()
		if stale {
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.config.WriteWait)); err != nil {
			return // read pump will observe the closed connection
		}
	}
}

// dispatch routes one inbound frame to its registered subscriber.
// The handler is invoked without holding the client lock.
func (c *Client) dispatch(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("transport: dropping malformed frame: %v", err)
		return
	}

	key, ok := parseTopic(env.Topic)
	if !ok {
		log.Printf("transport: dropping frame with unknown topic %q", env.Topic)
		return
	}

	c.mu.Lock()
	sub := c.subs[key]
	c.mu.Unlock()
	if sub == nil {
		return
	}

	switch key.kind {
	case ChannelMessages:
		var msg chat.ChatMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			log.Printf("transport: bad message payload on %q: %v", env.Topic, err)
			return
		}
		sub.onMessage(&msg)
	case ChannelReadStatus:
		var readerID string
		if err := json.Unmarshal(env.Payload, &readerID); err != nil {
			log.Printf("transport: bad read payload on %q: %v", env.Topic, err)
			return
		}
		sub.onRead(readerID)
	}
}

// =============================================================================
// RECONNECTION
// =============================================================================

// handleConnectionLoss marks the client disconnected and schedules a
// reconnect attempt, unless the loss belongs to a detached generation or
// was caused by an explicit Disconnect.
func (c *Client) handleConnectionLoss(gen int) {
	c.mu.Lock()
	if gen != c.gen || c.manualClose {
		c.mu.Unlock()
		return
	}
	c.connected = false
	c.conn = nil
	// Server-side subscription state died with the socket; the session
	// layer re-subscribes after OnReconnect.
	c.subs = make(map[subKey]*subscriber)
	notify := c.onDisconnect
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
	c.scheduleReconnect()
}

// scheduleReconnect arms one reconnect attempt after the fixed delay,
// respecting the bounded attempt budget.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.manualClose || c.lastToken == "" {
		c.mu.Unlock()
		return
	}
	if c.reconnectAttempts >= c.config.MaxReconnectAttempts {
		log.Printf("transport: reconnect budget exhausted (%d attempts)", c.config.MaxReconnectAttempts)
		c.mu.Unlock()
		return
	}
	c.reconnectAttempts++
	attempt := c.reconnectAttempts
	token := c.lastToken
	c.mu.Unlock()

	log.Printf("transport: reconnecting in %s (%d/%d)", c.config.ReconnectDelay, attempt, c.config.MaxReconnectAttempts)
	time.AfterFunc(c.config.ReconnectDelay, func() {
		// The client may have been explicitly closed, reconnected, or
		// re-authed while the timer was pending; a stale timer must not
		// dial.
		c.mu.Lock()
		if c.manualClose || c.connected || c.lastToken != token {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		err := c.Connect(context.Background(), token)
		if err != nil {
			log.Printf("transport: reconnect attempt %d failed: %v", attempt, err)
			c.scheduleReconnect()
			return
		}
		c.mu.Lock()
		notify := c.onReconnect
		c.mu.Unlock()
		if notify != nil {
			notify()
		}
	})
}
