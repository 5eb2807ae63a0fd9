// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when the local pacing budget for AI calls
// is exhausted. The widget renders the offline response in that case.
var ErrRateLimited = errors.New("assistant: too many AI requests, slow down")

// =============================================================================
// CONFIGURATION
// =============================================================================

// ResponderConfig holds AI responder client options.
type ResponderConfig struct {
	// BaseURL of the bot service, e.g. http://127.0.0.1:8000/api
	BaseURL string

	// Timeout per request. AI generation is slow; be generous
	// (default: 30s).
	Timeout time.Duration

	// RequestsPerMinute paces outbound AI calls (default: 20).
	RequestsPerMinute int
}

// DefaultResponderConfig returns the default responder configuration.
func DefaultResponderConfig() *ResponderConfig {
	return &ResponderConfig{
		BaseURL:           "http://127.0.0.1:8000/api",
		Timeout:           30 * time.Second,
		RequestsPerMinute: 20,
	}
}

// =============================================================================
// RESPONDER CLIENT
// =============================================================================

// Responder calls the remote AI bot service. Safe for concurrent use.
type Responder struct {
	config     *ResponderConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewResponder creates an AI responder client.
func NewResponder(config *ResponderConfig) *Responder {
	if config == nil {
		config = DefaultResponderConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultResponderConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = 20
	}

	return &Responder{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(config.RequestsPerMinute)/60.0), config.RequestsPerMinute),
	}
}

// Reply is the responder's answer to one message.
type Reply struct {
	ConversationID string       `json:"conversation_id"`
	Message        ReplyMessage `json:"message"`
}

// ReplyMessage is the generated bot message inside a Reply.
type ReplyMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// sendRequest is the wire payload. Nil pointers marshal to null: the
// responder tolerates an anonymous user and a first-turn conversation.
type sendRequest struct {
	Message        string  `json:"message"`
	UserID         *string `json:"user_id"`
	ConversationID *string `json:"conversation_id"`
}

// responderError is the error envelope the bot service returns.
type responderError struct {
	Detail string `json:"detail"`
}

// Send asks the AI responder to answer a message. userID may be nil for
// anonymous shoppers; conversationID is nil on the first turn and the
// returned id is adopted (sticky) for the rest of the widget's mount.
func (r *Responder) Send(ctx context.Context, message string, userID, conversationID *string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("assistant: empty message")
	}
	if !r.limiter.Allow() {
		return nil, ErrRateLimited
	}

	body, err := json.Marshal(sendRequest{
		Message:        message,
		UserID:         userID,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.BaseURL+"/chat-bot", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant: responder unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var re responderError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&re)
		if re.Detail == "" {
			re.Detail = fmt.Sprintf("responder returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("assistant: %s", re.Detail)
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("assistant: invalid responder reply: %w", err)
	}
	return &reply, nil
}

// Health checks whether the bot service is reachable. Drives the
// online/offline indicator in the widget header.
func (r *Responder) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("assistant: build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assistant: responder unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("assistant: responder unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}
