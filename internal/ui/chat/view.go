// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	chatmsg "github.com/shopvn/shopchat-tui/internal/chat"
	"github.com/shopvn/shopchat-tui/internal/session"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the admin-chat view.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.spinner.IsActive() {
		sections = append(sections, m.theme.Container.Render(m.spinner.View()))
	} else {
		sections = append(sections, m.viewport.View())
	}

	if m.banner.Visible() {
		sections = append(sections, m.banner.View())
	}
	sections = append(sections, m.renderInput())
	sections = append(sections, m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the view title with the unread badge.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Hỗ trợ ShopVN")
	snap := m.session.Snapshot()
	if snap.UnreadCount > 0 {
		title += " " + m.theme.UnreadBadge.Render(strconv.Itoa(snap.UnreadCount))
	}
	return m.theme.Header.Width(m.width).Render(title)
}

// renderInput renders the message input, or a disabled hint when the
// connection is down or a send is in flight.
func (m Model) renderInput() string {
	box := m.theme.InputContainer.Width(m.width)
	if m.sending {
		return box.Render(m.theme.InputDisabled.Render("Đang gửi..."))
	}
	if m.session.Snapshot().State != session.StateConnected {
		return box.Render(m.theme.InputDisabled.Render("Chưa kết nối. Nhấn Ctrl+R để kết nối lại."))
	}
	return box.Render(m.input.View())
}

// =============================================================================
// THREAD RENDERING
// =============================================================================

// renderThread renders the full message list with date separators.
func (m Model) renderThread(snap session.Status) string {
	if len(snap.Messages) == 0 {
		return m.theme.Container.Render(
			m.theme.InputPlaceholder.Render("Chưa có tin nhắn. Hãy bắt đầu cuộc trò chuyện!"))
	}

	now := time.Now()
	var b strings.Builder
	var lastDay time.Time

	for _, msg := range snap.Messages {
		ts := msg.Timestamp().Local()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		if !day.Equal(lastDay) {
			heading := formatDateHeading(ts, now, m.cfg.UI.DateFormat)
			b.WriteString(m.theme.DateSeparator.Width(m.width).Render("── "+heading+" ──") + "\n")
			lastDay = day
		}

		switch v := msg.(type) {
		case *chatmsg.ChatMessage:
			b.WriteString(m.renderChatMessage(v) + "\n")
		case *chatmsg.SystemNotice:
			b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center,
				m.theme.SystemNotice.Render(v.Content)) + "\n")
		}
	}
	return b.String()
}

// renderChatMessage renders one bubble, aligned by direction.
func (m Model) renderChatMessage(msg *chatmsg.ChatMessage) string {
	timestamp := m.theme.Timestamp.Render(msg.CreatedAt.Local().Format("15:04"))
	maxBubble := m.width * 3 / 4
	if maxBubble < 20 {
		maxBubble = 20
	}

	if msg.Sent() {
		bubble := m.theme.SentBubble.MaxWidth(maxBubble).Render(msg.Content)
		meta := timestamp + " " + renderTicks(m, msg)
		block := lipgloss.JoinVertical(lipgloss.Right, bubble, meta)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}

	bubble := m.theme.ReceivedBubble.MaxWidth(maxBubble).Render(msg.Content)
	block := lipgloss.JoinVertical(lipgloss.Left, bubble, timestamp)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, block)
}

// renderTicks renders the delivery indicator for a sent message:
// one tick for delivered, two for read.
func renderTicks(m Model, msg *chatmsg.ChatMessage) string {
	if msg.IsRead {
		return m.theme.ReadTick.Render("✓✓")
	}
	return m.theme.UnreadTick.Render("✓")
}

// formatDateHeading returns the date group label for a timestamp:
// "Hôm nay", "Hôm qua", or the configured date layout.
func formatDateHeading(ts, now time.Time, layout string) string {
	ts, now = ts.Local(), now.Local()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case day.Equal(today):
		return "Hôm nay"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Hôm qua"
	default:
		if layout == "" {
			layout = "02/01/2006"
		}
		return ts.Format(layout)
	}
}
