// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// SessionChangedMsg signals that the session manager's state changed
// and the view should re-render from a fresh snapshot. The root model
// forwards these from the manager's change callback.
type SessionChangedMsg struct{}

// InitResultMsg reports the outcome of InitializeChat.
type InitResultMsg struct {
	Err error
}

// ConnectResultMsg reports the outcome of ConnectWebSocket.
type ConnectResultMsg struct {
	Err error
}

// SendResultMsg reports the outcome of a message send.
type SendResultMsg struct {
	Err error
}
