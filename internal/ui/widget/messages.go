// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import "github.com/shopvn/shopchat-tui/internal/assistant"

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// HealthResultMsg reports the assistant backend health probe.
type HealthResultMsg struct {
	Err error
}

// cannedReplyMsg delivers a predefined response after the typing delay.
type cannedReplyMsg struct {
	response string
}

// transferNoticeMsg shows the admin-transfer notice after its delay.
type transferNoticeMsg struct {
	response string
}

// TransferToAdminMsg asks the root model to switch to the admin-chat
// tab. Emitted a beat after the transfer notice so the user can read
// it. The hand-off is one-way; the widget stays in its transferred
// state for the rest of the session.
type TransferToAdminMsg struct{}

// aiReplyMsg delivers the AI responder's answer (or its failure).
type aiReplyMsg struct {
	reply *assistant.Reply
	err   error
}
