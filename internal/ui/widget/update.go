// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/shopvn/shopchat-tui/internal/assistant"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the shopping-assistant view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()

	case HealthResultMsg:
		m.online = msg.Err == nil
		m.refresh()

	case cannedReplyMsg:
		m.busy = false
		m.typing.Stop()
		m.appendBot(msg.response, assistant.OriginPredefined)
		m.refresh()

	case transferNoticeMsg:
		m.typing.Stop()
		m.appendBot(msg.response, assistant.OriginPredefined)
		m.transferred = true
		m.busy = false
		m.refresh()
		cmds = append(cmds, m.transferNavCmd())

	case aiReplyMsg:
		m.busy = false
		m.typing.Stop()
		if msg.err != nil {
			m.appendBot(assistant.OfflineResponse, assistant.OriginError)
			m.banner.SetError(msg.err)
		} else {
			convID := msg.reply.ConversationID
			m.conversationID = &convID
			m.appendBot(msg.reply.Message.Content, assistant.OriginAI)
		}
		m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes a key press.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit(strings.TrimSpace(m.input.Value()), true)

	case "esc":
		if m.banner.Visible() {
			m.banner.Dismiss()
			m.refresh()
		}
		return m, nil

	case "up":
		m.viewport.LineUp(1)
		return m, nil
	case "down":
		m.viewport.LineDown(1)
		return m, nil
	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil

	case "1", "2", "3":
		// Quick-action chips fire only from an empty input so the
		// digits still type normally mid-sentence.
		if m.input.Value() == "" {
			idx := int(msg.String()[0] - '1')
			return m.submit(quickActions[idx].Message, false)
		}
	}

	if m.canType() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit routes one user message. The user's turn lands in the
// transcript no matter what answers it.
func (m Model) submit(content string, fromInput bool) (Model, tea.Cmd) {
	if content == "" || !m.canType() {
		return m, nil
	}
	if fromInput {
		m.input.SetValue("")
	}

	m.transcript = append(m.transcript, assistant.Turn{
		Content:   content,
		CreatedAt: time.Now(),
		Origin:    assistant.OriginUser,
	})
	m.busy = true
	m.refresh()

	decision := assistant.Route(content)
	cmds := []tea.Cmd{m.typing.Start()}
	switch {
	case decision.Transfer:
		cmds = append(cmds, m.transferNoticeCmd(decision.Response))
	case decision.UseAI:
		cmds = append(cmds, m.aiReplyCmd(content))
	default:
		cmds = append(cmds, m.cannedReplyCmd(decision.Response))
	}
	return m, tea.Batch(cmds...)
}

// canType reports whether the input accepts text. Typing is blocked
// while a reply is pending, when the backend is offline, and forever
// after the admin hand-off.
func (m Model) canType() bool {
	return m.online && !m.busy && !m.transferred
}

// appendBot adds a bot turn to the transcript.
func (m *Model) appendBot(content string, origin assistant.Origin) {
	m.transcript = append(m.transcript, assistant.Turn{
		Content:   content,
		CreatedAt: time.Now(),
		Origin:    origin,
	})
}

// =============================================================================
// STATE SYNC
// =============================================================================

// resize recomputes component dimensions for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	viewportHeight := height - m.chromeHeight()
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = width - 6

	wrap := width - 8
	if wrap < 20 {
		wrap = 20
	}
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.markdown = renderer
	}
}

// chromeHeight returns the rows taken by everything except the
// transcript.
func (m Model) chromeHeight() int {
	h := 1 + 3 + 1 // header + input box + chips row
	if m.banner.Visible() {
		h += 3
	}
	return h
}

// refresh re-renders the transcript.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.banner.SetWidth(m.width)
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
