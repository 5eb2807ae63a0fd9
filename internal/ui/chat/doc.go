// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the admin-chat view: the full conversation
// with ShopVN support, backed by the session manager. It renders the
// message thread with date groups and read receipts, drives the
// initialize/connect flow the first time the view gains focus, and
// reports viewing state so unread accounting stays correct.
package chat
