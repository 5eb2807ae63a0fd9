// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for the admin-chat view.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Bottom    key.Binding
	Submit    key.Binding
	Reconnect key.Binding
	Dismiss   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "cuộn lên"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "cuộn xuống"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "trang trước"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "trang sau"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "xuống cuối"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "gửi"),
		),
		// Plain "r" only acts while the channel is down; the input is
		// disabled then, so it cannot shadow typing.
		Reconnect: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "kết nối lại"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "đóng thông báo lỗi"),
		),
	}
}
