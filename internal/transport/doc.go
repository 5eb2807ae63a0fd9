// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport maintains the single persistent push connection to the
// chat broker and brokers per-room topic subscriptions over it.
//
// One logical connection exists per authenticated session. Connect is
// idempotent and only one dial may be in flight at a time; concurrent
// callers await the in-progress attempt instead of opening a second
// socket. On unexpected closure the client schedules reconnect attempts
// at a fixed delay up to a bounded budget, reusing the last-known token;
// exhausting the budget leaves the client disconnected until a caller
// reconnects explicitly.
//
// Subscriptions are registered in a registry keyed by (roomID, channel
// kind) and returned as disposable handles. At most one subscription per
// key is live at any instant; handles and Disconnect release registry
// entries on every exit path.
package transport
