// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatapi provides the REST client for the storefront chat backend:
// fetch-or-create the caller's room, list room messages, send a message,
// and mark a room as read.
//
// The client holds no local state. Backend errors are classified into a
// typed ClientError so callers can branch on the failure class: 401 means
// the credential itself is gone and must not be retried in place, 403 and
// 404 are room-level failures, everything else passes the backend message
// through.
package chatapi
