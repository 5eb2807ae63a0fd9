// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"testing"
	"time"
)

func newTestMessage(id, senderID string) *ChatMessage {
	return &ChatMessage{
		ID:        id,
		RoomID:    "room-1",
		SenderID:  senderID,
		Content:   "hello",
		Type:      MessageTypeText,
		CreatedAt: time.Now(),
	}
}

// =============================================================================
// DIRECTION TESTS
// =============================================================================

func TestResolveDirection(t *testing.T) {
	mine := newTestMessage("m1", "user-1")
	mine.ResolveDirection("user-1")
	if mine.Direction != DirectionSent {
		t.Errorf("expected DirectionSent, got %v", mine.Direction)
	}

	theirs := newTestMessage("m2", "admin-1")
	theirs.ResolveDirection("user-1")
	if theirs.Direction != DirectionReceived {
		t.Errorf("expected DirectionReceived, got %v", theirs.Direction)
	}
}

// =============================================================================
// THREAD TESTS
// =============================================================================

func TestThread_AppendDeduplicatesByID(t *testing.T) {
	thread := NewThread()

	msg := newTestMessage("m1", "admin-1")
	if !thread.Append(msg) {
		t.Fatal("first append should succeed")
	}

	// Feeding the same id twice must leave exactly one entry.
	dup := newTestMessage("m1", "admin-1")
	if thread.Append(dup) {
		t.Error("duplicate append should be a no-op")
	}
	if thread.Len() != 1 {
		t.Errorf("expected 1 message, got %d", thread.Len())
	}
}

func TestThread_AppendSystemNotice(t *testing.T) {
	thread := NewThread()
	notice := NewSystemNotice("reconnected")
	if !thread.Append(notice) {
		t.Fatal("system notice append should succeed")
	}
	if thread.Last().MessageID() != notice.ID {
		t.Error("last message should be the notice")
	}
}

func TestThread_MarkSentRead(t *testing.T) {
	thread := NewThread()

	sent := newTestMessage("m1", "user-1")
	sent.ResolveDirection("user-1")
	received := newTestMessage("m2", "admin-1")
	received.ResolveDirection("user-1")

	thread.Append(sent)
	thread.Append(received)
	thread.MarkSentRead()

	if !sent.IsRead {
		t.Error("sent message should be marked read")
	}
	if received.IsRead {
		t.Error("received message must not be touched by MarkSentRead")
	}
}

func TestThread_UnreadReceived(t *testing.T) {
	thread := NewThread()

	for i := 0; i < 3; i++ {
		msg := newTestMessage(fmt.Sprintf("a%d", i), "admin-1")
		msg.ResolveDirection("user-1")
		thread.Append(msg)
	}

	readMsg := newTestMessage("a3", "admin-1")
	readMsg.IsRead = true
	readMsg.ResolveDirection("user-1")
	thread.Append(readMsg)

	sent := newTestMessage("m1", "user-1")
	sent.ResolveDirection("user-1")
	thread.Append(sent)

	if got := thread.UnreadReceived(); got != 3 {
		t.Errorf("expected 3 unread, got %d", got)
	}
}

func TestThread_PruneKeepsNotices(t *testing.T) {
	thread := NewThread()
	notice := NewSystemNotice("you were disconnected")
	thread.Append(notice)

	for i := 0; i <= MaxMessages; i++ {
		msg := newTestMessage(fmt.Sprintf("m%d", i), "admin-1")
		thread.Append(msg)
	}

	if thread.Len() > MaxMessages {
		t.Errorf("thread should be pruned to %d, got %d", MaxMessages, thread.Len())
	}

	found := false
	for _, msg := range thread.Messages() {
		if msg.MessageID() == notice.ID {
			found = true
			break
		}
	}
	if !found {
		t.Error("system notice should survive pruning")
	}

	// Oldest chat message should be gone and its id re-usable.
	if !thread.Append(newTestMessage("m0", "admin-1")) {
		t.Error("pruned id should be appendable again")
	}
}

func TestThread_PrunePreservesNoticePosition(t *testing.T) {
	thread := NewThread()

	// A notice in the middle of the thread, with enough traffic after
	// it to force several prunes.
	for i := 0; i < MaxMessages/2; i++ {
		thread.Append(newTestMessage(fmt.Sprintf("a%d", i), "admin-1"))
	}
	notice := NewSystemNotice("đã kết nối lại")
	thread.Append(notice)
	for i := 0; i < MaxMessages/2+100; i++ {
		thread.Append(newTestMessage(fmt.Sprintf("b%d", i), "admin-1"))
	}

	msgs := thread.Messages()
	noticeAt := -1
	for i, msg := range msgs {
		if msg.MessageID() == notice.ID {
			noticeAt = i
			break
		}
	}
	if noticeAt < 0 {
		t.Fatal("system notice should survive pruning")
	}
	if noticeAt == 0 {
		t.Error("pruning must not move the notice to the front of the thread")
	}

	// Everything before the notice predates it; everything after came
	// later. The b-messages all arrived after the notice.
	for _, msg := range msgs[:noticeAt] {
		if id := msg.MessageID(); len(id) > 0 && id[0] == 'b' {
			t.Fatalf("message %s arrived after the notice but renders before it", id)
		}
	}
	for _, msg := range msgs[noticeAt+1:] {
		if id := msg.MessageID(); len(id) > 0 && id[0] == 'a' {
			t.Fatalf("message %s arrived before the notice but renders after it", id)
		}
	}
}

func TestThread_ChatMessagesFiltersNotices(t *testing.T) {
	thread := NewThread()
	thread.Append(newTestMessage("m1", "admin-1"))
	thread.Append(NewSystemNotice("note"))
	thread.Append(newTestMessage("m2", "admin-1"))

	msgs := thread.ChatMessages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 chat messages, got %d", len(msgs))
	}
}
