// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/shopvn/shopchat-tui/internal/assistant"
	"github.com/shopvn/shopchat-tui/internal/ui/components"
	"github.com/shopvn/shopchat-tui/internal/ui/styles"
)

// Reply pacing. The canned answers arrive after a short typing pause
// so the bot does not feel instantaneous; the admin hand-off shows its
// notice quickly and then navigates once the user has had time to
// read it.
const (
	cannedReplyDelay    = 800 * time.Millisecond
	transferNoticeDelay = 500 * time.Millisecond
	transferNavDelay    = 1500 * time.Millisecond
)

// quickAction is one of the suggestion chips under the input.
type quickAction struct {
	Label   string
	Message string
}

// quickActions mirror the storefront widget's suggestion chips.
var quickActions = []quickAction{
	{Label: "📏 Size", Message: "size"},
	{Label: "✅ Đổi trả", Message: "đổi trả"},
	{Label: "🚚 Ship", Message: "ship"},
}

// =============================================================================
// WIDGET MODEL
// =============================================================================

// Model is the Bubble Tea model for the shopping-assistant view.
type Model struct {
	theme     *styles.Theme
	responder *assistant.Responder
	markdown  *glamour.TermRenderer

	// Identity forwarded to the AI responder; nil means anonymous.
	userID *string

	// Sticky conversation id, set from the first AI reply.
	conversationID *string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	typing   components.TypingIndicator
	banner   components.ErrorBanner

	transcript []assistant.Turn

	// Dimensions
	width  int
	height int
	ready  bool

	// State
	focused       bool
	greeted       bool
	online        bool
	healthChecked bool
	busy          bool
	transferred   bool
}

// New creates the shopping-assistant view. userID may be nil for
// anonymous visitors.
func New(theme *styles.Theme, responder *assistant.Responder, userID *string) Model {
	input := textinput.New()
	input.Placeholder = "Hỏi trợ lý mua sắm..."
	input.Prompt = "> "
	input.CharLimit = 1000

	return Model{
		theme:     theme,
		responder: responder,
		userID:    userID,
		input:     input,
		typing:    components.NewTypingIndicator("Trợ lý đang trả lời"),
		banner:    components.NewErrorBanner(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Focus activates the view. The first focus seeds the greeting and
// probes the assistant backend; the greeting is never repeated.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	m.input.Focus()

	var cmds []tea.Cmd
	if !m.greeted {
		m.greeted = true
		m.transcript = append(m.transcript, assistant.Turn{
			Content:   assistant.GreetingResponse(),
			CreatedAt: time.Now(),
			Origin:    assistant.OriginPredefined,
		})
	}
	if !m.healthChecked {
		m.healthChecked = true
		cmds = append(cmds, m.healthCmd())
	}
	return tea.Batch(cmds...)
}

// Blur deactivates the view.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// Focused reports whether the view currently has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Transcript returns the conversation so far.
func (m Model) Transcript() []assistant.Turn {
	return m.transcript
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) healthCmd() tea.Cmd {
	r := m.responder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return HealthResultMsg{Err: r.Health(ctx)}
	}
}

func (m Model) cannedReplyCmd(response string) tea.Cmd {
	return tea.Tick(cannedReplyDelay, func(time.Time) tea.Msg {
		return cannedReplyMsg{response: response}
	})
}

func (m Model) transferNoticeCmd(response string) tea.Cmd {
	return tea.Tick(transferNoticeDelay, func(time.Time) tea.Msg {
		return transferNoticeMsg{response: response}
	})
}

func (m Model) transferNavCmd() tea.Cmd {
	return tea.Tick(transferNavDelay, func(time.Time) tea.Msg {
		return TransferToAdminMsg{}
	})
}

func (m Model) aiReplyCmd(message string) tea.Cmd {
	r := m.responder
	userID, convID := m.userID, m.conversationID
	return func() tea.Msg {
		reply, err := r.Send(context.Background(), message, userID, convID)
		return aiReplyMsg{reply: reply, err: err}
	}
}
