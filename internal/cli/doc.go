// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the "shopchat ask" line mode: the shopping
// assistant without the TUI. One-shot questions answer and exit; with
// no question it drops into a readline-style REPL with history.
package cli
