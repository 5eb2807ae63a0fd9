// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// MessageType identifies the content kind of a chat message.
type MessageType string

const (
	MessageTypeText  MessageType = "TEXT"
	MessageTypeImage MessageType = "IMAGE"
)

// Valid reports whether the message type is one the backend understands.
func (t MessageType) Valid() bool {
	return t == MessageTypeText || t == MessageTypeImage
}

// =============================================================================
// DIRECTION
// =============================================================================

// Direction records whether a chat message was authored by the current
// user or by the counterpart (admin support).
type Direction int

const (
	DirectionReceived Direction = iota
	DirectionSent
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	if d == DirectionSent {
		return "sent"
	}
	return "received"
}

// =============================================================================
// MESSAGE UNION
// =============================================================================

// Message is the tagged union of everything that can appear in a thread:
// a ChatMessage from the backend or a locally-injected SystemNotice.
type Message interface {
	// MessageID returns the stable identity used for deduplication.
	MessageID() string

	// Timestamp returns when the message was created.
	Timestamp() time.Time

	isMessage()
}

// =============================================================================
// CHAT MESSAGE
// =============================================================================

// ChatMessage is a message exchanged with the backend over REST or the
// push channel. The JSON tags match the backend wire format.
type ChatMessage struct {
	ID        string      `json:"id"`
	RoomID    string      `json:"roomId"`
	SenderID  string      `json:"senderId"`
	Content   string      `json:"content"`
	Type      MessageType `json:"messageType"`
	CreatedAt time.Time   `json:"createdAt"`
	IsRead    bool        `json:"isRead"`

	// Direction is derived at ingestion, never sent over the wire.
	Direction Direction `json:"-"`
}

// MessageID implements Message.
func (m *ChatMessage) MessageID() string { return m.ID }

// Timestamp implements Message.
func (m *ChatMessage) Timestamp() time.Time { return m.CreatedAt }

func (m *ChatMessage) isMessage() {}

// ResolveDirection computes the message direction from the current user's
// id. Call exactly once, when the message enters the client.
func (m *ChatMessage) ResolveDirection(currentUserID string) {
	if m.SenderID == currentUserID {
		m.Direction = DirectionSent
	} else {
		m.Direction = DirectionReceived
	}
}

// Sent reports whether the current user authored this message.
func (m *ChatMessage) Sent() bool { return m.Direction == DirectionSent }

// =============================================================================
// SYSTEM NOTICE
// =============================================================================

// SystemNotice is a local-only thread entry, e.g. "you were disconnected".
// It never leaves the client and carries a locally-synthesized id.
type SystemNotice struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// NewSystemNotice creates a system notice with a generated id.
func NewSystemNotice(content string) *SystemNotice {
	return &SystemNotice{
		ID:        "sys_" + uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// MessageID implements Message.
func (n *SystemNotice) MessageID() string { return n.ID }

// Timestamp implements Message.
func (n *SystemNotice) Timestamp() time.Time { return n.CreatedAt }

func (n *SystemNotice) isMessage() {}
