// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// MaxMessages is the maximum number of messages kept in a thread.
// When exceeded, the oldest chat messages are pruned to prevent unbounded
// memory growth; system notices are preserved.
const MaxMessages = 1000

// =============================================================================
// THREAD
// =============================================================================

// Thread is the ordered in-memory message list for one room.
//
// Message ids are unique within a thread: Append is a no-op for an id that
// is already present. That idempotent merge is the sole ordering-safety net
// between the optimistic REST-send append and the same message's later
// delivery over the push channel.
//
// Thread is not safe for concurrent use; the session manager owns it and
// serializes access under its own lock.
type Thread struct {
	messages []Message
	index    map[string]struct{}
}

// NewThread creates an empty thread.
func NewThread() *Thread {
	return &Thread{
		messages: make([]Message, 0),
		index:    make(map[string]struct{}),
	}
}

// Append adds a message unless its id is already present.
// It reports whether the message was actually appended.
func (t *Thread) Append(msg Message) bool {
	id := msg.MessageID()
	if _, exists := t.index[id]; exists {
		return false
	}
	t.messages = append(t.messages, msg)
	t.index[id] = struct{}{}
	t.prune()
	return true
}

// Messages returns a copy of the message list in arrival order.
func (t *Thread) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages in the thread.
func (t *Thread) Len() int { return len(t.messages) }

// Last returns the most recent message, or nil if the thread is empty.
func (t *Thread) Last() Message {
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// ChatMessages returns only the backend-originated messages, in order.
// Used when persisting the thread to the local display cache.
func (t *Thread) ChatMessages() []*ChatMessage {
	out := make([]*ChatMessage, 0, len(t.messages))
	for _, msg := range t.messages {
		if cm, ok := msg.(*ChatMessage); ok {
			out = append(out, cm)
		}
	}
	return out
}

// MarkSentRead flips IsRead on every sent message. Called when the
// counterpart acknowledges reading; drives the delivery-confirmation
// ticks in the view, not the unread counter.
func (t *Thread) MarkSentRead() {
	for _, msg := range t.messages {
		if cm, ok := msg.(*ChatMessage); ok && cm.Sent() {
			cm.IsRead = true
		}
	}
}

// UnreadReceived counts counterpart messages not yet marked read.
func (t *Thread) UnreadReceived() int {
	n := 0
	for _, msg := range t.messages {
		if cm, ok := msg.(*ChatMessage); ok && !cm.Sent() && !cm.IsRead {
			n++
		}
	}
	return n
}

// prune removes the oldest chat messages once the thread exceeds
// MaxMessages. System notices are kept, and every survivor stays in
// arrival order.
func (t *Thread) prune() {
	excess := len(t.messages) - MaxMessages
	if excess <= 0 {
		return
	}

	kept := make([]Message, 0, MaxMessages)
	for _, msg := range t.messages {
		if excess > 0 {
			if _, ok := msg.(*SystemNotice); !ok {
				delete(t.index, msg.MessageID())
				excess--
				continue
			}
		}
		kept = append(kept, msg)
	}
	t.messages = kept
}
