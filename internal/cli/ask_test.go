// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/shopvn/shopchat-tui/internal/assistant"
)

func TestHandleSlashCommand(t *testing.T) {
	session := newAskSession(nil, true)
	conv := "conv-1"
	session.conversationID = &conv

	if !handleSlashCommand("/help", session) {
		t.Error("/help should keep the REPL running")
	}
	if !handleSlashCommand("/unknown", session) {
		t.Error("unknown commands should keep the REPL running")
	}
	if handleSlashCommand("/quit", session) {
		t.Error("/quit should exit the REPL")
	}
	if handleSlashCommand("/Q", session) {
		t.Error("commands should be case-insensitive")
	}

	if !handleSlashCommand("/clear", session) {
		t.Error("/clear should keep the REPL running")
	}
	if session.conversationID != nil {
		t.Error("/clear should drop the AI conversation")
	}
}

func TestCannedQuestionsDoNotNeedTheResponder(t *testing.T) {
	// Canned categories answer locally; only unmatched questions fall
	// through to the AI backend.
	for _, q := range []string{"size áo thế nào?", "phí ship bao nhiêu?", "đổi trả thế nào?"} {
		decision := assistant.Route(q)
		if decision.UseAI {
			t.Errorf("%q should answer from the canned set", q)
		}
	}
	if decision := assistant.Route("cho tôi gặp admin"); !decision.Transfer {
		t.Error("admin requests should route to the hand-off notice")
	}
}

func TestRenderMarkdownFallsBackToRawContent(t *testing.T) {
	saved := markdownRenderer
	markdownRenderer = nil
	defer func() { markdownRenderer = saved }()

	if got := renderMarkdown("plain text"); got != "plain text" {
		t.Errorf("renderer-less fallback should pass content through, got %q", got)
	}
}
