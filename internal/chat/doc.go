// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat contains the data structures for support-chat rooms,
// messages, and the in-memory message thread.
//
// Messages form a tagged union: ChatMessage for messages exchanged with
// the backend, and SystemNotice for purely local annotations such as
// connection-status notices. Direction (sent vs. received) is computed
// once at ingestion and never changes; the only field mutated after
// construction is ChatMessage.IsRead.
package chat
