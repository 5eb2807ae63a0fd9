// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"

	chatmsg "github.com/shopvn/shopchat-tui/internal/chat"
	"github.com/shopvn/shopchat-tui/internal/ui/styles"
)

func TestFormatDateHeading(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)

	testCases := []struct {
		name     string
		ts       time.Time
		expected string
	}{
		{"today morning", time.Date(2025, 6, 15, 8, 0, 0, 0, time.Local), "Hôm nay"},
		{"today midnight", time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local), "Hôm nay"},
		{"yesterday", time.Date(2025, 6, 14, 23, 59, 0, 0, time.Local), "Hôm qua"},
		{"older", time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local), "01/06/2025"},
		{"last year", time.Date(2024, 12, 31, 10, 0, 0, 0, time.Local), "31/12/2024"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatDateHeading(tc.ts, now, "02/01/2006"); got != tc.expected {
				t.Errorf("formatDateHeading(%v) = %q, want %q", tc.ts, got, tc.expected)
			}
		})
	}
}

func TestFormatDateHeading_EmptyLayoutFallsBack(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

	if got := formatDateHeading(ts, now, ""); got != "01/06/2025" {
		t.Errorf("empty layout should use the default, got %q", got)
	}
}

func TestRenderTicks(t *testing.T) {
	m := Model{theme: styles.NewTheme("dark")}

	read := &chatmsg.ChatMessage{IsRead: true, Direction: chatmsg.DirectionSent}
	if out := renderTicks(m, read); !strings.Contains(out, "✓✓") {
		t.Errorf("read message should show a double tick, got %q", out)
	}

	unread := &chatmsg.ChatMessage{IsRead: false, Direction: chatmsg.DirectionSent}
	out := renderTicks(m, unread)
	if !strings.Contains(out, "✓") || strings.Contains(out, "✓✓") {
		t.Errorf("delivered-but-unread message should show a single tick, got %q", out)
	}
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	k := DefaultKeyMap()
	if len(k.Submit.Keys()) == 0 || k.Submit.Keys()[0] != "enter" {
		t.Error("submit should bind enter")
	}
	if len(k.Reconnect.Keys()) == 0 || k.Reconnect.Keys()[0] != "r" {
		t.Error("reconnect should bind r")
	}
}
