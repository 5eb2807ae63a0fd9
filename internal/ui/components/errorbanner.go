// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"

	"github.com/charmbracelet/lipgloss"

	"github.com/shopvn/shopchat-tui/internal/chatapi"
	"github.com/shopvn/shopchat-tui/internal/session"
	"github.com/shopvn/shopchat-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER
// =============================================================================

// ErrorBanner is a dismissible banner shown above the input area when
// the session is in an error state.
type ErrorBanner struct {
	err   error
	width int
}

// NewErrorBanner creates an empty banner.
func NewErrorBanner() ErrorBanner {
	return ErrorBanner{}
}

// SetError sets the error to display. A nil error hides the banner.
func (b *ErrorBanner) SetError(err error) {
	b.err = err
}

// Dismiss clears the banner.
func (b *ErrorBanner) Dismiss() {
	b.err = nil
}

// Visible reports whether the banner has something to show.
func (b ErrorBanner) Visible() bool {
	return b.err != nil
}

// SetWidth updates the available width.
func (b *ErrorBanner) SetWidth(width int) {
	b.width = width
}

// View renders the banner.
func (b ErrorBanner) View() string {
	if b.err == nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true).
		Render("Lỗi: ")
	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("  [x] đóng")

	banner := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Rose).
		Padding(0, 2)
	if b.width > 4 {
		banner = banner.Width(b.width - 2)
	}

	return banner.Render(title + Humanize(b.err) + hint)
}

// Humanize maps an error to a user-facing Vietnamese message. Unknown
// errors fall back to the raw error text.
func Humanize(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, chatapi.ErrUnauthenticated):
		return "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại."
	case errors.Is(err, chatapi.ErrForbidden):
		return "Bạn không có quyền truy cập cuộc trò chuyện này."
	case errors.Is(err, session.ErrRoomUnavailable):
		return "Không thể tải cuộc trò chuyện. Vui lòng thử lại sau."
	case errors.Is(err, session.ErrConnectionFailed):
		return "Mất kết nối với máy chủ. Nhấn r để kết nối lại."
	case errors.Is(err, session.ErrSendFailed):
		return "Gửi tin nhắn thất bại. Vui lòng thử lại."
	default:
		return err.Error()
	}
}
