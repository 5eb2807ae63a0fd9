// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopvn/shopchat-tui/internal/session"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the admin-chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()

	case SessionChangedMsg:
		m.refresh()

	case InitResultMsg:
		m.spinner.Stop()
		m.refresh()
		if msg.Err == nil {
			// Room is ready; bring the push channel up, then flush
			// any unread left over from the history fetch.
			cmds = append(cmds, m.connectCmd())
		}

	case ConnectResultMsg:
		m.refresh()
		if msg.Err == nil {
			cmds = append(cmds, m.markReadCmd())
		}

	case SendResultMsg:
		m.sending = false
		if msg.Err == nil {
			// Own messages always snap the thread to the bottom.
			m.userScrolled = false
		}
		m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes a key press.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Reconnect):
		snap := m.session.Snapshot()
		if snap.State == session.StateErrored || (!snap.IsConnected && !snap.IsConnecting && snap.Room != nil) {
			m.session.ClearError()
			m.refresh()
			return m, m.connectCmd()
		}
		// Connected: "r" is just a letter; let it reach the input.

	case key.Matches(msg, m.keyMap.Dismiss):
		if m.banner.Visible() {
			m.session.ClearError()
			m.banner.Dismiss()
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		m.userScrolled = !m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		m.userScrolled = !m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		m.userScrolled = !m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		m.userScrolled = !m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
		m.userScrolled = false
		return m, nil
	}

	if m.canType() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit sends the typed message through the session manager.
func (m Model) submit() (Model, tea.Cmd) {
	if !m.canType() {
		return m, nil
	}
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.sending = true
	return m, m.sendCmd(content)
}

// canType reports whether the input accepts text right now. Typing is
// blocked while a send is in flight or the push channel is down.
func (m Model) canType() bool {
	if m.sending {
		return false
	}
	snap := m.session.Snapshot()
	return snap.State == session.StateConnected
}

// =============================================================================
// STATE SYNC
// =============================================================================

// resize recomputes component dimensions for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.statusBar.SetWidth(width)
	m.banner.SetWidth(width)

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
}

// chromeHeight returns the rows taken by everything except the thread.
func (m Model) chromeHeight() int {
	h := 1 + 3 + 1 // header + input box + status bar
	if m.banner.Visible() {
		h += 3
	}
	return h
}

// refresh re-renders the thread from a fresh session snapshot.
func (m *Model) refresh() {
	snap := m.session.Snapshot()
	m.statusBar.SetState(snap.State)
	m.statusBar.SetUnread(snap.UnreadCount)
	m.banner.SetError(snap.Err)

	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderThread(snap))
	if !m.userScrolled {
		m.viewport.GotoBottom()
	}
}
