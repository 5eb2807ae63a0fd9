// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the application:
// rune- and width-aware string truncation for terminal rendering, and
// crash-safe file writing.
package util
