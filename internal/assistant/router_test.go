// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"
	"testing"
)

func TestMatch_FirstCategoryWinsTies(t *testing.T) {
	// Contains both a size keyword and a shipping keyword; size is
	// earlier in the fixed order, so size wins.
	cat, ok := Match("tôi cần tư vấn size và ship")
	if !ok {
		t.Fatal("expected a match")
	}
	if cat != CategorySize {
		t.Errorf("expected size (earlier in order), got %s", cat)
	}
}

func TestMatch_Table(t *testing.T) {
	tests := []struct {
		message string
		want    Category
		matched bool
	}{
		{"xin chào shop", CategoryGreeting, true},
		{"HELLO", CategoryGreeting, true},
		{"bảng size áo thun", CategorySize, true},
		{"shop cho hỏi chính sách đổi trả", CategoryReturn, true},
		{"bao lâu nhận được hàng vậy", CategoryShipping, true},
		{"có thanh toán cod không", CategoryPayment, true},
		{"cho tôi gặp admin", CategoryAdmin, true},
		{"giá sản phẩm này có thể giảm không", "", false},
		{"", "", false},
		{"   \t  ", "", false},
	}

	for _, tt := range tests {
		got, ok := Match(tt.message)
		if ok != tt.matched || got != tt.want {
			t.Errorf("Match(%q) = %q,%v want %q,%v", tt.message, got, ok, tt.want, tt.matched)
		}
	}
}

func TestMatch_ShortKeywordsMatchWholeWordsOnly(t *testing.T) {
	tests := []struct {
		message string
		want    Category
	}{
		// "hi" must not match inside "ship", nor "cod" inside "code".
		{"phí ship bao nhiêu vậy shop", CategoryShipping},
		{"nhập code giảm giá ở đâu", ""},
		// Standalone they still match.
		{"hi shop", CategoryGreeting},
		{"hey, còn hàng không", CategoryGreeting},
		{"thanh toán cod được không", CategoryPayment},
	}

	for _, tt := range tests {
		got, ok := Match(tt.message)
		if tt.want == "" {
			if ok {
				t.Errorf("Match(%q) = %q, want no match", tt.message, got)
			}
			continue
		}
		if !ok || got != tt.want {
			t.Errorf("Match(%q) = %q,%v want %q", tt.message, got, ok, tt.want)
		}
	}
}

func TestMatch_CaseInsensitiveSubstring(t *testing.T) {
	cat, ok := Match("SIZE nào vừa với tôi?")
	if !ok || cat != CategorySize {
		t.Errorf("matching must be case-insensitive, got %q,%v", cat, ok)
	}
}

func TestRoute_CannedCategories(t *testing.T) {
	d := Route("shop ship hàng mất bao lâu")
	if d.UseAI {
		t.Fatal("keyword match must not delegate to AI")
	}
	if d.Category != CategoryShipping {
		t.Errorf("expected shipping, got %s", d.Category)
	}
	if d.Response != Response(CategoryShipping) {
		t.Error("decision must carry the canned response verbatim")
	}
	if d.Transfer {
		t.Error("only admin transfers")
	}
}

func TestRoute_AdminTransfersWithoutAI(t *testing.T) {
	d := Route("cho tôi gặp admin")
	if d.UseAI {
		t.Error("admin routing must not call the AI responder")
	}
	if !d.Transfer || d.Category != CategoryAdmin {
		t.Errorf("expected admin transfer decision, got %+v", d)
	}
	if !strings.Contains(d.Response, "Đang chuyển bạn") {
		t.Error("admin decision should carry the transfer notice")
	}
}

func TestRoute_UnmatchedDelegatesToAI(t *testing.T) {
	d := Route("giá sản phẩm này có thể giảm không")
	if !d.UseAI {
		t.Error("unmatched message must delegate to AI")
	}
	if d.Category != "" || d.Response != "" || d.Transfer {
		t.Errorf("AI decision should carry no canned data, got %+v", d)
	}
}

func TestCategories_CoverAllTables(t *testing.T) {
	for _, cat := range Categories {
		if len(keywordPatterns[cat]) == 0 {
			t.Errorf("category %s has no keywords", cat)
		}
		if botResponses[cat] == "" {
			t.Errorf("category %s has no canned response", cat)
		}
	}
	if len(Categories) != len(keywordPatterns) || len(Categories) != len(botResponses) {
		t.Error("tables out of sync with the category order")
	}
}
