// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme_Modes(t *testing.T) {
	if th := NewTheme("dark"); !th.IsDark {
		t.Error("dark mode should force IsDark")
	}
	if th := NewTheme("light"); th.IsDark {
		t.Error("light mode should clear IsDark")
	}
	// "auto" follows the terminal; either value is valid, the theme
	// just has to initialize.
	if th := NewTheme("auto"); th == nil {
		t.Fatal("auto mode should still build a theme")
	}
}

func TestGetLayoutMode(t *testing.T) {
	testCases := []struct {
		width    int
		expected LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	th := NewTheme("dark")
	for _, tc := range testCases {
		th.SetSize(tc.width, 24)
		if got := th.GetLayoutMode(); got != tc.expected {
			t.Errorf("width %d: got mode %d, want %d", tc.width, got, tc.expected)
		}
	}
}

func TestThemeStylesRender(t *testing.T) {
	th := NewTheme("dark")

	if out := th.SentBubble.Render("xin chào"); out == "" {
		t.Error("sent bubble should render")
	}
	if out := th.ErrorBanner.Render("lỗi"); out == "" {
		t.Error("error banner should render")
	}
	if out := th.UnreadBadge.Render("3"); out == "" {
		t.Error("unread badge should render")
	}
}
