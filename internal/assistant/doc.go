// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant implements the shopping-assistant bot: a keyword
// router that answers frequent questions from a canned-response table,
// and a client for the remote AI responder used when no keyword
// matches.
//
// Routing is deterministic and order-sensitive: categories are checked
// in a fixed order and the first keyword found as a substring wins. A
// message containing keywords from several categories resolves to the
// earliest category by that order; this tie-break is deliberate.
package assistant
