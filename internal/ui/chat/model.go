// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	chatmsg "github.com/shopvn/shopchat-tui/internal/chat"
	"github.com/shopvn/shopchat-tui/internal/config"
	"github.com/shopvn/shopchat-tui/internal/session"
	"github.com/shopvn/shopchat-tui/internal/ui/components"
	"github.com/shopvn/shopchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the admin-chat view.
type Model struct {
	theme   *styles.Theme
	cfg     *config.Config
	session *session.Manager

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   components.Spinner
	banner    components.ErrorBanner
	statusBar *components.StatusBar

	keyMap KeyMap

	// Dimensions
	width  int
	height int
	ready  bool

	// State
	focused      bool
	initStarted  bool
	sending      bool
	userScrolled bool
}

// New creates the admin-chat view.
func New(theme *styles.Theme, cfg *config.Config, mgr *session.Manager) Model {
	input := textinput.New()
	input.Placeholder = "Nhập tin nhắn..."
	input.Prompt = "> "
	input.CharLimit = 2000

	return Model{
		theme:     theme,
		cfg:       cfg,
		session:   mgr,
		input:     input,
		spinner:   components.NewSpinner("Đang tải cuộc trò chuyện"),
		banner:    components.NewErrorBanner(),
		statusBar: components.NewStatusBar(),
		keyMap:    DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Focus activates the view. The first focus kicks off the
// initialize-then-connect flow; later focuses only flip the viewing
// flag so incoming messages stop counting as unread.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	m.input.Focus()
	m.session.SetViewing(true)

	if m.initStarted {
		return nil
	}
	if m.session.Snapshot().State != session.StateIdle {
		return nil
	}
	m.initStarted = true
	return tea.Batch(m.spinner.Start(), m.initCmd())
}

// Blur deactivates the view.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
	m.session.SetViewing(false)
}

// Focused reports whether the view currently has focus.
func (m Model) Focused() bool {
	return m.focused
}

// UnreadCount returns the number of unread admin messages. The root
// model shows it as a badge on the support tab.
func (m Model) UnreadCount() int {
	return m.session.Snapshot().UnreadCount
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) initCmd() tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		return InitResultMsg{Err: mgr.InitializeChat(context.Background())}
	}
}

func (m Model) connectCmd() tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		return ConnectResultMsg{Err: mgr.ConnectWebSocket(context.Background())}
	}
}

func (m Model) markReadCmd() tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		mgr.MarkAsRead(context.Background())
		return SessionChangedMsg{}
	}
}

func (m Model) sendCmd(content string) tea.Cmd {
	mgr := m.session
	return func() tea.Msg {
		_, err := mgr.SendMessage(context.Background(), content, chatmsg.MessageTypeText)
		return SendResultMsg{Err: err}
	}
}
