// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopvn/shopchat-tui/internal/chat"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnauthenticated
	ErrTypeForbidden
	ErrTypeRoomNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
	ErrTypeBackend
)

// ClientError represents an error from the chat backend.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match any ClientError of the same type, so sentinel
// comparisons work against classified responses.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	return ok && t.Type == e.Type
}

// Sentinel errors for easy checking.
var (
	ErrUnauthenticated = &ClientError{Type: ErrTypeUnauthenticated, Message: "session expired, please sign in again"}
	ErrForbidden       = &ClientError{Type: ErrTypeForbidden, Message: "not authorized for this room"}
	ErrRoomNotFound    = &ClientError{Type: ErrTypeRoomNotFound, Message: "chat room not found"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// TokenSource supplies the bearer token attached to every request. It is
// the authenticated-request collaborator: token refresh happens elsewhere,
// this client only surfaces 401 when the credential has expired.
type TokenSource func() (string, error)

// ClientConfig holds configuration options for the chat REST client.
type ClientConfig struct {
	// BaseURL is the backend API base URL, e.g. https://api.example.com/api
	BaseURL string

	// Timeout for requests. Generous by default: some backend calls fan
	// out into email/notification side-effects (default: 30s).
	Timeout time.Duration

	// PageSize is the default page size for history fetches (default: 50).
	PageSize int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:  "http://127.0.0.1:8080/api",
		Timeout:  30 * time.Second,
		PageSize: 50,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the chat backend REST API.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	token      TokenSource
}

// NewClient creates a chat REST client.
func NewClient(config *ClientConfig, token TokenSource) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.PageSize == 0 {
		config.PageSize = 50
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		token:      token,
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// MyRoom fetches or creates the caller's support room. Creation is owned
// by the backend; the client only caches the returned id.
func (c *Client) MyRoom(ctx context.Context) (*chat.Room, error) {
	var room chat.Room
	if err := c.doJSON(ctx, http.MethodGet, "/chat/my-room", nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// RoomMessages lists messages for a room, oldest first.
func (c *Client) RoomMessages(ctx context.Context, roomID string, page, size int) ([]*chat.ChatMessage, error) {
	if size <= 0 {
		size = c.config.PageSize
	}
	path := "/chat/rooms/" + roomID + "/messages?page=" + strconv.Itoa(page) + "&size=" + strconv.Itoa(size)

	var msgs []*chat.ChatMessage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// RoomDetails fetches a single room by id.
func (c *Client) RoomDetails(ctx context.Context, roomID string) (*chat.Room, error) {
	var room chat.Room
	if err := c.doJSON(ctx, http.MethodGet, "/chat/rooms/"+roomID, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// SendRequest is the payload for Send.
type SendRequest struct {
	RoomID      string           `json:"roomId"`
	Content     string           `json:"content"`
	MessageType chat.MessageType `json:"messageType"`
}

// Send posts a message and returns the created message with its
// server-assigned id and timestamp.
func (c *Client) Send(ctx context.Context, req SendRequest) (*chat.ChatMessage, error) {
	var msg chat.ChatMessage
	if err := c.doJSON(ctx, http.MethodPost, "/chat/send", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, roomID, text string) (*chat.ChatMessage, error) {
	return c.Send(ctx, SendRequest{RoomID: roomID, Content: text, MessageType: chat.MessageTypeText})
}

// SendImage sends a message whose content is an already-uploaded image URL.
func (c *Client) SendImage(ctx context.Context, roomID, imageURL string) (*chat.ChatMessage, error) {
	return c.Send(ctx, SendRequest{RoomID: roomID, Content: imageURL, MessageType: chat.MessageTypeImage})
}

// MarkRead marks all counterpart messages in a room as read.
// The backend returns an acknowledgement only.
func (c *Client) MarkRead(ctx context.Context, roomID string) error {
	return c.doJSON(ctx, http.MethodPost, "/chat/rooms/"+roomID+"/read", nil, nil)
}

// =============================================================================
// TRANSPORT HELPERS
// =============================================================================

// backendError is the error envelope the backend returns on non-2xx.
type backendError struct {
	Message string `json:"message"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	tok, err := c.token()
	if err != nil {
		return &ClientError{Type: ErrTypeUnauthenticated, Message: ErrUnauthenticated.Message, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &ClientError{Type: ErrTypeConnection, Message: "request timed out", Cause: err}
		}
		return &ClientError{Type: ErrTypeConnection, Message: "cannot reach chat backend", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp.StatusCode, resp.Body)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response from backend", Cause: err}
	}
	return nil
}

// classify maps a backend status code to the error taxonomy.
func classify(status int, body io.Reader) error {
	var be backendError
	_ = json.NewDecoder(io.LimitReader(body, 64*1024)).Decode(&be)

	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrRoomNotFound
	default:
		msg := be.Message
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", status)
		}
		return &ClientError{Type: ErrTypeBackend, Message: msg}
	}
}
