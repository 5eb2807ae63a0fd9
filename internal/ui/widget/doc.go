// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package widget provides the shopping-assistant view: a bot
// conversation that answers common questions from canned Vietnamese
// responses, falls back to the AI responder for everything else, and
// hands the user over to the live admin chat on request.
package widget
