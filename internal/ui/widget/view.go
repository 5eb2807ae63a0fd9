// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shopvn/shopchat-tui/internal/assistant"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the shopping-assistant view.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.viewport.View())

	if m.banner.Visible() {
		sections = append(sections, m.banner.View())
	}
	sections = append(sections, m.renderInput())
	sections = append(sections, m.renderChips())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title with the online indicator.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Trợ lý mua sắm")

	var indicator string
	if m.online {
		indicator = m.theme.StatusOnline.Render("● trực tuyến")
	} else {
		indicator = m.theme.StatusOffline.Render("○ ngoại tuyến")
	}
	return m.theme.Header.Width(m.width).Render(title + "  " + indicator)
}

// renderInput renders the input, or the reason it is disabled.
func (m Model) renderInput() string {
	box := m.theme.InputContainer.Width(m.width)
	switch {
	case m.transferred:
		return box.Render(m.theme.TransferNotice.Render("Đã chuyển đến admin. Chuyển sang tab Hỗ trợ để tiếp tục."))
	case m.busy:
		return box.Render(m.typing.View())
	case !m.online:
		return box.Render(m.theme.InputDisabled.Render("Trợ lý đang ngoại tuyến."))
	default:
		return box.Render(m.input.View())
	}
}

// renderChips renders the quick-action row.
func (m Model) renderChips() string {
	var chips []string
	for i, action := range quickActions {
		label := m.theme.ShortcutKey.Render(string(rune('1'+i))) + " " + action.Label
		chips = append(chips, m.theme.QuickChip.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderTranscript renders the conversation so far.
func (m Model) renderTranscript() string {
	var b strings.Builder
	maxBubble := m.width * 3 / 4
	if maxBubble < 20 {
		maxBubble = 20
	}

	for _, turn := range m.transcript {
		timestamp := m.theme.Timestamp.Render(turn.CreatedAt.Format("15:04"))

		if !turn.FromBot() {
			bubble := m.theme.SentBubble.MaxWidth(maxBubble).Render(turn.Content)
			block := lipgloss.JoinVertical(lipgloss.Right, bubble, timestamp)
			b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block) + "\n")
			continue
		}

		content := turn.Content
		if turn.Origin == assistant.OriginAI && m.markdown != nil {
			if rendered, err := m.markdown.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}

		style := m.theme.BotBubble
		if turn.Origin == assistant.OriginError {
			style = m.theme.SystemNotice
		}
		bubble := style.MaxWidth(maxBubble).Render(content)
		block := lipgloss.JoinVertical(lipgloss.Left, bubble, timestamp)
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Left, block) + "\n")
	}

	if m.busy {
		b.WriteString(m.typing.View() + "\n")
	}
	return b.String()
}
