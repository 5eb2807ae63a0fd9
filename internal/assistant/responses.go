// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import "time"

// =============================================================================
// CATEGORIES
// =============================================================================

// Category names a canned-response topic.
type Category string

const (
	CategoryGreeting Category = "greeting"
	CategorySize     Category = "size"
	CategoryReturn   Category = "return"
	CategoryShipping Category = "shipping"
	CategoryPayment  Category = "payment"
	CategoryAdmin    Category = "admin"
)

// Categories is the fixed match order. Earlier categories win ties.
var Categories = []Category{
	CategoryGreeting,
	CategorySize,
	CategoryReturn,
	CategoryShipping,
	CategoryPayment,
	CategoryAdmin,
}

// =============================================================================
// KEYWORD TABLE
// =============================================================================

// keywordPatterns maps each category to its keyword list. Within a
// category, keywords are checked in slice order.
var keywordPatterns = map[Category][]string{
	CategoryGreeting: {"xin chào", "hello", "hi", "chào bạn", "chào", "hey"},

	CategorySize: {
		"size",
		"số đo",
		"kích thước",
		"kích cỡ",
		"chọn size",
		"size nào",
		"đo size",
		"bảng size",
	},

	CategoryReturn: {
		"đổi trả",
		"đổi hàng",
		"trả hàng",
		"hoàn trả",
		"hoàn tiền",
		"bảo hành",
		"chính sách đổi",
		"chính sách trả",
	},

	CategoryShipping: {
		"ship",
		"giao hàng",
		"vận chuyển",
		"ship hàng",
		"phí ship",
		"miễn phí ship",
		"giao nhanh",
		"thời gian giao",
		"bao lâu nhận được",
	},

	CategoryPayment: {
		"thanh toán",
		"payment",
		"chuyển khoản",
		"trả tiền",
		"phương thức thanh toán",
		"thanh toán thế nào",
		"cod",
		"vnpay",
	},

	CategoryAdmin: {
		"admin",
		"nhân viên",
		"tư vấn viên",
		"hỗ trợ",
		"support",
		"liên hệ admin",
	},
}

// =============================================================================
// CANNED RESPONSES
// =============================================================================

var botResponses = map[Category]string{
	CategoryGreeting: "Xin chào! Tôi là trợ lý ảo được hỗ trợ bởi AI. Tôi có thể giúp bạn:\n\n🛍️ Tìm kiếm sản phẩm\n📏 Tư vấn chọn size\n🔄 Chính sách đổi trả\n🚚 Thông tin vận chuyển\n💳 Hướng dẫn thanh toán\n\n💬 Hãy hỏi tôi bất cứ điều gì!",

	CategorySize: "📏 HƯỚNG DẪN CHỌN SIZE:\n\n• Size S: 45-52kg (Cao 1m50-1m60)\n• Size M: 53-58kg (Cao 1m60-1m68)\n• Size L: 59-65kg (Cao 1m68-1m75)\n• Size XL: 66-75kg (Cao 1m75-1m80)\n\n💡 Tip: Nếu bạn nằm giữa 2 size, hãy chọn size lớn hơn để thoải mái nhé!",

	CategoryReturn: "✅ CHÍNH SÁCH ĐỔI TRẢ:\n\n• Đổi size miễn phí trong 7 ngày\n• Sản phẩm chưa qua sử dụng, còn nguyên tag\n• Hoàn tiền 100% nếu lỗi từ shop\n• Đổi trả tại nhà miễn phí (nội thành HN, HCM)\n\n📞 Hotline hỗ trợ: 19001111",

	CategoryShipping: "🚚 THỜI GIAN GIAO HÀNG:\n\n• Nội thành HN/HCM: 1-2 ngày\n• Tỉnh thành khác: 2-4 ngày\n• Vùng xa: 4-7 ngày\n\n📦 Miễn phí ship đơn từ 300k\n⚡ Giao hàng nhanh +30k",

	CategoryPayment: "💳 PHƯƠNG THỨC THANH TOÁN:\n\n• COD (Thanh toán khi nhận hàng)\n• Ví VNPay\n• Chuyển khoản ngân hàng\n\n🔒 Thanh toán an toàn, bảo mật 100%",

	CategoryAdmin: "⏳ Đang chuyển bạn sang trang chat với admin...\n\nVui lòng đợi trong giây lát!",
}

// OfflineResponse is appended when the AI responder cannot be reached.
const OfflineResponse = "Xin lỗi, tôi đang gặp sự cố kết nối. Vui lòng thử lại sau hoặc liên hệ admin."

// Response returns the canned response for a category.
func Response(c Category) string {
	return botResponses[c]
}

// GreetingResponse is the message seeded when the widget first opens.
func GreetingResponse() string {
	return botResponses[CategoryGreeting]
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Origin records where a transcript turn came from.
type Origin int

const (
	OriginUser Origin = iota
	OriginPredefined
	OriginAI
	OriginError
)

// Turn is one entry in the widget's ephemeral transcript.
type Turn struct {
	Content   string
	CreatedAt time.Time
	Origin    Origin
}

// FromBot reports whether the turn was authored by the assistant.
func (t Turn) FromBot() bool { return t.Origin != OriginUser }
