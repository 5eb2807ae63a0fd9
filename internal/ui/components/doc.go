// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the shared UI components for the
// shopchat TUI: loading spinners, the dismissible error banner, and
// the bottom status bar.
package components
