// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the live chat session with admin support: the
// active room, the message thread, connection status, and the unread
// counter. Views read snapshots and request mutations (send, mark-read,
// connect); they never touch the thread directly.
//
// The manager is a small state machine: Idle -> Loading -> Ready ->
// Connecting -> Connected, with Errored reachable from any state. An
// epoch counter invalidates callbacks that land after Teardown, so a
// push event arriving mid-teardown is dropped instead of mutating
// stale state.
package session
