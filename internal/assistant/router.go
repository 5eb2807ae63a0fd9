// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fold prepares text for substring matching: NFC normalization first,
// so composed and decomposed Vietnamese diacritics compare equal, then
// lowercasing.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Match finds the first matching category for a message. Categories
// are checked in the fixed Categories order, keywords in slice order;
// the first keyword found in the message wins.
func Match(message string) (Category, bool) {
	msg := fold(strings.TrimSpace(message))
	if msg == "" {
		return "", false
	}
	for _, cat := range Categories {
		for _, kw := range keywordPatterns[cat] {
			if matchesKeyword(msg, fold(kw)) {
				return cat, true
			}
		}
	}
	return "", false
}

// matchesKeyword reports whether the folded message contains the folded
// keyword. Short ASCII keywords ("hi", "cod") hide inside longer words
// ("ship", "code") as substrings and would steal the match from later
// categories, so they only match whole words.
func matchesKeyword(msg, kw string) bool {
	if len(kw) <= 3 && isASCIIWord(kw) {
		return containsWord(msg, kw)
	}
	return strings.Contains(msg, kw)
}

func isASCIIWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return len(s) > 0
}

// containsWord reports whether w appears as a standalone word in msg.
func containsWord(msg, w string) bool {
	for _, tok := range strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if tok == w {
			return true
		}
	}
	return false
}

// Decision is the routing outcome for one user message.
type Decision struct {
	// UseAI is true when no keyword matched and the remote responder
	// should answer.
	UseAI bool

	// Category and Response are set when a keyword matched.
	Category Category
	Response string

	// Transfer is true for the admin category: emit the transfer
	// notice, then hand the user over to the live admin chat.
	Transfer bool
}

// Route decides how to answer a message: canned response or AI.
func Route(message string) Decision {
	cat, ok := Match(message)
	if !ok {
		return Decision{UseAI: true}
	}
	return Decision{
		Category: cat,
		Response: botResponses[cat],
		Transfer: cat == CategoryAdmin,
	}
}
