// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shopvn/shopchat-tui/internal/session"
	"github.com/shopvn/shopchat-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom bar: connection state, unread count,
// and keyboard shortcuts.
type StatusBar struct {
	State         session.State
	UnreadCount   int
	Width         int
	ShowShortcuts bool
}

// NewStatusBar creates a status bar with defaults.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		State:         session.StateIdle,
		Width:         80,
		ShowShortcuts: true,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetState updates the session state shown in the bar.
func (s *StatusBar) SetState(state session.State) {
	s.State = state
}

// SetUnread updates the unread counter.
func (s *StatusBar) SetUnread(count int) {
	s.UnreadCount = count
}

// connectionLabel returns the styled connection indicator.
func (s *StatusBar) connectionLabel() string {
	switch s.State {
	case session.StateConnected:
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true).Render("● Trực tuyến")
	case session.StateConnecting, session.StateLoading:
		return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true).Render("◌ Đang kết nối...")
	case session.StateErrored:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true).Render("○ Mất kết nối")
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted).Render("○ Ngoại tuyến")
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	parts := []string{s.connectionLabel()}

	if s.UnreadCount > 0 {
		badge := lipgloss.NewStyle().
			Foreground(styles.TextInverse).
			Background(styles.Rose).
			Bold(true).
			Padding(0, 1).
			Render(strconv.Itoa(s.UnreadCount) + " chưa đọc")
		parts = append(parts, badge)
	}

	if s.ShowShortcuts && s.Width >= 60 {
		keyStyle := lipgloss.NewStyle().Foreground(styles.Orange).Bold(true)
		descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		shortcuts := []string{
			keyStyle.Render("Tab") + descStyle.Render(" chuyển"),
			keyStyle.Render("^C") + descStyle.Render(" thoát"),
		}
		if s.State == session.StateErrored {
			shortcuts = append([]string{keyStyle.Render("r") + descStyle.Render(" kết nối lại")}, shortcuts...)
		}
		parts = append(parts, strings.Join(shortcuts, " "))
	}

	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(strings.Join(parts, separator))
}
