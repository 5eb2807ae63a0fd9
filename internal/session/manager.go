// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shopvn/shopchat-tui/internal/chat"
	"github.com/shopvn/shopchat-tui/internal/chatapi"
	"github.com/shopvn/shopchat-tui/internal/identity"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrRoomUnavailable is surfaced when initialization cannot fetch or
	// create the room. Retryable by re-invoking InitializeChat.
	ErrRoomUnavailable = errors.New("session: chat room unavailable")

	// ErrConnectionFailed is surfaced when the push-channel handshake
	// fails. Retryable via an explicit reconnect.
	ErrConnectionFailed = errors.New("session: connection failed")

	// ErrSendFailed is surfaced when a message send is rejected by the
	// backend. Local state is untouched, so resubmitting is safe.
	ErrSendFailed = errors.New("session: message not sent")

	// ErrRoomNotInitialized is returned when an operation needs an
	// active room before InitializeChat has completed.
	ErrRoomNotInitialized = errors.New("session: no active chat room")
)

// =============================================================================
// STATE
// =============================================================================

// State is the session manager's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateConnecting
	StateConnected
	StateErrored
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// HistoryClient is the REST surface the manager needs. *chatapi.Client
// satisfies it.
type HistoryClient interface {
	MyRoom(ctx context.Context) (*chat.Room, error)
	RoomMessages(ctx context.Context, roomID string, page, size int) ([]*chat.ChatMessage, error)
	Send(ctx context.Context, req chatapi.SendRequest) (*chat.ChatMessage, error)
	MarkRead(ctx context.Context, roomID string) error
}

// Subscription is a disposable push-channel subscription handle.
type Subscription interface {
	Unsubscribe()
}

// Transport is the push-connection surface the manager needs. The
// transport package's client is adapted to it in main.
type Transport interface {
	Connect(ctx context.Context, token string) error
	Disconnect()
	SubscribeToRoom(roomID string, fn func(*chat.ChatMessage)) Subscription
	SubscribeToReadStatus(roomID string, fn func(readerID string)) Subscription
	OnDisconnect(fn func())
	OnReconnect(fn func())
}

// IdentityProvider supplies the signed-in shopper. Read-only.
type IdentityProvider interface {
	Current() (*identity.Identity, error)
}

// HistoryCache is the optional local display cache. The thread is
// seeded from it before the history fetch and refreshed afterwards.
type HistoryCache interface {
	LoadThread(roomID string) ([]*chat.ChatMessage, error)
	SaveThread(roomID string, msgs []*chat.ChatMessage) error
}

// Deps wires the manager's collaborators.
type Deps struct {
	History   HistoryClient
	Transport Transport
	Identity  IdentityProvider

	// Cache is optional; nil disables local history caching.
	Cache HistoryCache

	// PageSize for the initial history fetch (default: 50).
	PageSize int
}

// =============================================================================
// STATUS SNAPSHOT
// =============================================================================

// Status is an immutable view of the session for rendering.
type Status struct {
	State        State
	Room         *chat.Room
	Messages     []chat.Message
	IsLoading    bool
	IsConnecting bool
	IsConnected  bool
	Err          error
	UnreadCount  int
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager is the chat session state machine. Safe for concurrent use.
type Manager struct {
	deps Deps

	mu         sync.Mutex
	epoch      int // bumped on Teardown; stale callbacks check it and drop
	userID     string
	room       *chat.Room
	thread     *chat.Thread
	loading    bool
	connecting bool
	connected  bool
	subscribed bool
	viewing    bool
	unread     int
	err        error

	msgSub  Subscription
	readSub Subscription

	onChange func()
}

// NewManager creates a session manager and hooks the transport's
// connection-lifecycle callbacks.
func NewManager(deps Deps) *Manager {
	if deps.PageSize <= 0 {
		deps.PageSize = 50
	}
	m := &Manager{
		deps:   deps,
		thread: chat.NewThread(),
	}
	if deps.Transport != nil {
		epoch := m.epoch
		deps.Transport.OnDisconnect(func() { m.handleTransportDown(epoch) })
		deps.Transport.OnReconnect(func() { m.handleTransportUp(epoch) })
	}
	return m
}

// SetOnChange registers a callback invoked after every state change.
// The TUI converts it into a program message.
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Snapshot returns the current session status for rendering.
func (m *Manager) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		State:        m.stateLocked(),
		Room:         m.room,
		Messages:     m.thread.Messages(),
		IsLoading:    m.loading,
		IsConnecting: m.connecting,
		IsConnected:  m.connected,
		Err:          m.err,
		UnreadCount:  m.unread,
	}
}

func (m *Manager) stateLocked() State {
	switch {
	case m.err != nil:
		return StateErrored
	case m.loading:
		return StateLoading
	case m.connected:
		return StateConnected
	case m.connecting:
		return StateConnecting
	case m.room != nil:
		return StateReady
	default:
		return StateIdle
	}
}

// ClearError dismisses the surfaced error banner. The underlying state
// (Ready, Connected, ...) shows through again.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.err = nil
	m.mu.Unlock()
	m.notify()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// InitializeChat fetches-or-creates the room and loads its history.
// Requires a stored credential: without one it fails with the
// unauthenticated sentinel and performs no network call. No-op when a
// room is already active or a load is in flight.
func (m *Manager) InitializeChat(ctx context.Context) error {
	id, err := m.deps.Identity.Current()
	if err != nil {
		log.Printf("session: initialize refused, not signed in: %v", err)
		return fmt.Errorf("%w: %v", chatapi.ErrUnauthenticated, err)
	}

	m.mu.Lock()
	if m.room != nil || m.loading {
		m.mu.Unlock()
		return nil
	}
	m.loading = true
	m.err = nil
	m.userID = id.UserID
	epoch := m.epoch
	m.mu.Unlock()
	m.notify()

	room, err := m.deps.History.MyRoom(ctx)
	if err != nil {
		return m.failInit(epoch, err)
	}

	// Seed from the local cache so the thread renders instantly; the
	// fetch below merges on top under id-dedupe.
	var cached []*chat.ChatMessage
	if m.deps.Cache != nil {
		if cached, err = m.deps.Cache.LoadThread(room.ID); err != nil {
			log.Printf("session: history cache read failed: %v", err)
			cached = nil
		}
	}

	msgs, err := m.deps.History.RoomMessages(ctx, room.ID, 0, m.deps.PageSize)
	if err != nil {
		return m.failInit(epoch, err)
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	m.room = room
	for _, cm := range cached {
		cm.ResolveDirection(m.userID)
		m.thread.Append(cm)
	}
	for _, cm := range msgs {
		cm.ResolveDirection(m.userID)
		m.thread.Append(cm)
	}
	m.unread = m.thread.UnreadReceived()
	m.loading = false
	m.maybeSubscribeLocked()
	snapshot := m.thread.ChatMessages()
	m.mu.Unlock()
	m.notify()

	if m.deps.Cache != nil {
		if err := m.deps.Cache.SaveThread(room.ID, snapshot); err != nil {
			log.Printf("session: history cache write failed: %v", err)
		}
	}
	log.Printf("session: initialized room %s with %d messages", room.ID, len(msgs))
	return nil
}

// failInit surfaces an initialization failure. 401 passes through
// unchanged (terminal, do not retry in place); everything else becomes
// the retryable room-unavailable error.
func (m *Manager) failInit(epoch int, cause error) error {
	surfaced := cause
	if !errors.Is(cause, chatapi.ErrUnauthenticated) {
		surfaced = fmt.Errorf("%w: %v", ErrRoomUnavailable, cause)
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return surfaced
	}
	m.loading = false
	m.err = surfaced
	m.mu.Unlock()
	m.notify()
	return surfaced
}

// =============================================================================
// CONNECTION
// =============================================================================

// ConnectWebSocket establishes the push connection. No-op success when
// already Connected or Connecting, so concurrent callers cannot open a
// second transport. Safe to call before InitializeChat completes: the
// room subscription only activates once both the room and the
// connection exist.
func (m *Manager) ConnectWebSocket(ctx context.Context) error {
	m.mu.Lock()
	if m.connected || m.connecting {
		m.mu.Unlock()
		return nil
	}
	m.connecting = true
	m.err = nil
	epoch := m.epoch
	m.mu.Unlock()
	m.notify()

	id, err := m.deps.Identity.Current()
	if err != nil {
		return m.failConnect(epoch, fmt.Errorf("%w: %v", chatapi.ErrUnauthenticated, err))
	}

	if err := m.deps.Transport.Connect(ctx, id.AccessToken); err != nil {
		return m.failConnect(epoch, fmt.Errorf("%w: %v", ErrConnectionFailed, err))
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	m.connecting = false
	m.connected = true
	m.maybeSubscribeLocked()
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *Manager) failConnect(epoch int, surfaced error) error {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return surfaced
	}
	m.connecting = false
	m.connected = false
	m.err = surfaced
	m.mu.Unlock()
	m.notify()
	return surfaced
}

// maybeSubscribeLocked activates the room subscriptions once both the
// room and the connection exist. The subscribed flag is mandatory:
// double subscription means duplicate delivery.
func (m *Manager) maybeSubscribeLocked() {
	if m.subscribed || !m.connected || m.room == nil {
		return
	}
	roomID := m.room.ID
	epoch := m.epoch

	msgSub := m.deps.Transport.SubscribeToRoom(roomID, func(msg *chat.ChatMessage) {
		m.handleIncoming(epoch, msg)
	})
	readSub := m.deps.Transport.SubscribeToReadStatus(roomID, func(readerID string) {
		m.handleReadReceipt(epoch, readerID)
	})
	if msgSub == nil || readSub == nil {
		if msgSub != nil {
			msgSub.Unsubscribe()
		}
		if readSub != nil {
			readSub.Unsubscribe()
		}
		log.Printf("session: subscription to room %s incomplete, will retry on next connect", roomID)
		return
	}

	m.msgSub = msgSub
	m.readSub = readSub
	m.subscribed = true
	log.Printf("session: subscribed to room %s", roomID)
}

// =============================================================================
// PUSH HANDLERS
// =============================================================================

// handleIncoming merges one pushed message into the thread. Duplicate
// ids are dropped; that dedupe is the sole ordering-safety net between
// the optimistic send append and the push echo of the same message.
func (m *Manager) handleIncoming(epoch int, msg *chat.ChatMessage) {
	m.mu.Lock()
	if m.epoch != epoch || m.room == nil {
		m.mu.Unlock()
		return
	}
	msg.ResolveDirection(m.userID)
	if !m.thread.Append(msg) {
		m.mu.Unlock()
		return
	}
	if !msg.Sent() && !m.viewing {
		m.unread++
	}
	m.mu.Unlock()
	m.notify()
}

// handleReadReceipt marks the user's own sent messages read. Drives
// the delivery-confirmation ticks, never the unread counter.
func (m *Manager) handleReadReceipt(epoch int, readerID string) {
	m.mu.Lock()
	if m.epoch != epoch || m.room == nil {
		m.mu.Unlock()
		return
	}
	m.thread.MarkSentRead()
	m.mu.Unlock()
	log.Printf("session: read receipt from %s", readerID)
	m.notify()
}

// handleTransportDown reacts to an unexpected connection loss. The
// transport cleared its registry, so the subscribed flag resets here
// and the subscriptions are re-established after reconnect.
func (m *Manager) handleTransportDown(epoch int) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	m.connected = false
	m.subscribed = false
	m.msgSub, m.readSub = nil, nil
	m.err = ErrConnectionFailed
	m.thread.Append(chat.NewSystemNotice("Mất kết nối. Đang thử kết nối lại..."))
	m.mu.Unlock()
	m.notify()
}

// handleTransportUp reacts to a successful automatic reconnect.
func (m *Manager) handleTransportUp(epoch int) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	m.connected = true
	m.connecting = false
	m.err = nil
	m.maybeSubscribeLocked()
	m.thread.Append(chat.NewSystemNotice("Đã kết nối lại."))
	m.mu.Unlock()
	m.notify()
}

// =============================================================================
// SEND / MARK-READ
// =============================================================================

// SendMessage posts a message and appends the created message to the
// thread under the id-dedupe check. Empty content (after trimming) is
// a silent no-op. Backend failure is surfaced without touching the
// thread, so resubmitting the same content is safe.
func (m *Manager) SendMessage(ctx context.Context, content string, msgType chat.MessageType) (*chat.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	if msgType == "" {
		msgType = chat.MessageTypeText
	}

	m.mu.Lock()
	if m.room == nil {
		m.mu.Unlock()
		return nil, ErrRoomNotInitialized
	}
	roomID := m.room.ID
	epoch := m.epoch
	m.mu.Unlock()

	msg, err := m.deps.History.Send(ctx, chatapi.SendRequest{
		RoomID:      roomID,
		Content:     content,
		MessageType: msgType,
	})
	if err != nil {
		surfaced := fmt.Errorf("%w: %v", ErrSendFailed, err)
		m.mu.Lock()
		if m.epoch == epoch {
			m.err = surfaced
		}
		m.mu.Unlock()
		m.notify()
		return nil, surfaced
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return msg, nil
	}
	msg.ResolveDirection(m.userID)
	m.thread.Append(msg) // push echo may already have landed
	m.mu.Unlock()
	m.notify()
	return msg, nil
}

// MarkAsRead tells the backend the user has read the room and zeroes
// the local unread counter. Best-effort: failures are logged, never
// surfaced, and the counter is kept so a later retry still fires.
func (m *Manager) MarkAsRead(ctx context.Context) {
	m.mu.Lock()
	if m.room == nil {
		m.mu.Unlock()
		return
	}
	roomID := m.room.ID
	epoch := m.epoch
	m.mu.Unlock()

	if err := m.deps.History.MarkRead(ctx, roomID); err != nil {
		log.Printf("session: mark-read failed: %v", err)
		return
	}

	m.mu.Lock()
	if m.epoch == epoch {
		m.unread = 0
	}
	m.mu.Unlock()
	m.notify()
}

// SetViewing records whether the user is actively viewing the
// conversation. This single predicate decides unread accounting;
// turning it on with pending unreads counts as reading them.
func (m *Manager) SetViewing(viewing bool) {
	m.mu.Lock()
	turnedOn := viewing && !m.viewing
	m.viewing = viewing
	trigger := turnedOn && m.unread > 0 && m.room != nil
	m.mu.Unlock()

	if trigger {
		go m.MarkAsRead(context.Background())
	}
}

// AddSystemMessage appends a local-only notice to the thread.
func (m *Manager) AddSystemMessage(text string) {
	m.mu.Lock()
	m.thread.Append(chat.NewSystemNotice(text))
	m.mu.Unlock()
	m.notify()
}

// =============================================================================
// TEARDOWN
// =============================================================================

// Teardown disconnects the transport and invalidates every in-flight
// callback. Room and thread state stay readable for the caller to
// discard; push events arriving afterwards are silently dropped.
func (m *Manager) Teardown() {
	m.mu.Lock()
	m.epoch++
	m.subscribed = false
	msgSub, readSub := m.msgSub, m.readSub
	m.msgSub, m.readSub = nil, nil
	m.connected = false
	m.connecting = false
	m.loading = false
	m.mu.Unlock()

	if msgSub != nil {
		msgSub.Unsubscribe()
	}
	if readSub != nil {
		readSub.Unsubscribe()
	}
	if m.deps.Transport != nil {
		m.deps.Transport.Disconnect()
	}
	log.Println("session: torn down")
	m.notify()
}

// notify invokes the change callback outside the lock.
func (m *Manager) notify() {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}
