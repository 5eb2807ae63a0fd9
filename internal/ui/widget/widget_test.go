// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopvn/shopchat-tui/internal/assistant"
	"github.com/shopvn/shopchat-tui/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(styles.NewTheme("dark"), assistant.NewResponder(nil), nil)
	m.resize(80, 24)
	m.online = true
	return m
}

func TestFocus_SeedsGreetingOnce(t *testing.T) {
	m := newTestModel(t)

	m.Focus()
	if len(m.Transcript()) != 1 {
		t.Fatalf("first focus should seed the greeting, got %d turns", len(m.Transcript()))
	}
	greeting := m.Transcript()[0]
	if greeting.Origin != assistant.OriginPredefined {
		t.Error("greeting should be a predefined turn")
	}
	if !strings.Contains(greeting.Content, "Xin chào") {
		t.Errorf("unexpected greeting content: %q", greeting.Content)
	}

	m.Blur()
	m.Focus()
	if len(m.Transcript()) != 1 {
		t.Errorf("reopening must not repeat the greeting, got %d turns", len(m.Transcript()))
	}
}

func TestSubmit_AppendsUserTurnBeforeRouting(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.submit("size", false)
	if cmd == nil {
		t.Fatal("submit should schedule a reply")
	}
	turns := m.Transcript()
	if len(turns) != 1 || turns[0].Origin != assistant.OriginUser {
		t.Fatalf("user turn should land immediately, got %+v", turns)
	}
	if !m.busy {
		t.Error("widget should be busy while the reply is pending")
	}

	m, _ = m.Update(cannedReplyMsg{response: assistant.Response(assistant.CategorySize)})
	turns = m.Transcript()
	if len(turns) != 2 || turns[1].Origin != assistant.OriginPredefined {
		t.Fatalf("canned reply should follow the user turn, got %+v", turns)
	}
	if m.busy {
		t.Error("widget should be idle after the reply lands")
	}
}

func TestSubmit_EmptyOrBusyIsIgnored(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.submit("", false)
	if cmd != nil || len(m.Transcript()) != 0 {
		t.Error("empty submit should be a no-op")
	}

	m.busy = true
	m, cmd = m.submit("ship", false)
	if cmd != nil || len(m.Transcript()) != 0 {
		t.Error("submit while busy should be a no-op")
	}
}

func TestTransfer_IsIrreversible(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.submit("cho tôi gặp admin", false)
	if cmd == nil {
		t.Fatal("transfer request should schedule the notice")
	}

	decision := assistant.Route("cho tôi gặp admin")
	if !decision.Transfer {
		t.Fatal("admin request should route to transfer")
	}

	m, navCmd := m.Update(transferNoticeMsg{response: decision.Response})
	if !m.transferred {
		t.Error("notice should flip the transferred state")
	}
	if navCmd == nil {
		t.Error("notice should schedule the tab switch")
	}
	if m.canType() {
		t.Error("input must stay disabled after the hand-off")
	}

	m, cmd = m.submit("một câu hỏi nữa", false)
	if cmd != nil {
		t.Error("messages after the hand-off should be ignored")
	}
}

func TestAIReply_SticksConversationID(t *testing.T) {
	m := newTestModel(t)
	m.busy = true

	m, _ = m.Update(aiReplyMsg{reply: &assistant.Reply{
		ConversationID: "conv-7",
		Message:        assistant.ReplyMessage{ID: "m1", Content: "Dạ, shop còn hàng ạ."},
	}})

	if m.conversationID == nil || *m.conversationID != "conv-7" {
		t.Error("conversation id from the reply should stick")
	}
	turns := m.Transcript()
	if len(turns) != 1 || turns[0].Origin != assistant.OriginAI {
		t.Fatalf("AI turn should be recorded, got %+v", turns)
	}
}

func TestAIReply_FailureFallsBackOffline(t *testing.T) {
	m := newTestModel(t)
	m.busy = true

	m, _ = m.Update(aiReplyMsg{err: errors.New("backend down")})

	turns := m.Transcript()
	if len(turns) != 1 || turns[0].Origin != assistant.OriginError {
		t.Fatalf("failure should append an error turn, got %+v", turns)
	}
	if turns[0].Content != assistant.OfflineResponse {
		t.Errorf("error turn should carry the offline response, got %q", turns[0].Content)
	}
	if !m.banner.Visible() {
		t.Error("failure should raise the error banner")
	}
}

func TestHealth_GatesInput(t *testing.T) {
	m := newTestModel(t)
	m.online = false

	if m.canType() {
		t.Error("offline widget should not accept input")
	}

	m, _ = m.Update(HealthResultMsg{Err: nil})
	if !m.online || !m.canType() {
		t.Error("healthy probe should enable input")
	}

	m, _ = m.Update(HealthResultMsg{Err: errors.New("down")})
	if m.online {
		t.Error("failed probe should mark the widget offline")
	}
}

func TestQuickActions_MatchStorefrontChips(t *testing.T) {
	want := []string{"size", "đổi trả", "ship"}
	if len(quickActions) != len(want) {
		t.Fatalf("expected %d chips, got %d", len(want), len(quickActions))
	}
	for i, action := range quickActions {
		if action.Message != want[i] {
			t.Errorf("chip %d sends %q, want %q", i, action.Message, want[i])
		}
		if _, ok := assistant.Match(action.Message); !ok {
			t.Errorf("chip message %q should hit a canned category", action.Message)
		}
	}
}
