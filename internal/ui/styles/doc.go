// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the shopchat
// TUI. All colors use Lip Gloss AdaptiveColor so the same palette
// works on light and dark terminals.
package styles
