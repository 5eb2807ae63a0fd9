// shopchat TUI - terminal client for the ShopVN storefront chat.
//
// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shopvn/shopchat-tui/internal/assistant"
	chatmsg "github.com/shopvn/shopchat-tui/internal/chat"
	"github.com/shopvn/shopchat-tui/internal/chatapi"
	"github.com/shopvn/shopchat-tui/internal/cli"
	"github.com/shopvn/shopchat-tui/internal/config"
	"github.com/shopvn/shopchat-tui/internal/identity"
	"github.com/shopvn/shopchat-tui/internal/session"
	"github.com/shopvn/shopchat-tui/internal/storage"
	"github.com/shopvn/shopchat-tui/internal/transport"
	chatview "github.com/shopvn/shopchat-tui/internal/ui/chat"
	"github.com/shopvn/shopchat-tui/internal/ui/styles"
	"github.com/shopvn/shopchat-tui/internal/ui/widget"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := os.Args[1:]

	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "ask":
		userID := currentUserID()
		if err := cli.HandleAsk(args[1:], userID, false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("shopchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	case "help", "--help", "-h":
		printUsage()
	case "":
		runTUI()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shopchat - ShopVN storefront chat client

Usage:
  shopchat                Start the TUI (assistant + admin support chat)
  shopchat ask [question] Ask the shopping assistant from the command line
  shopchat version        Print version information
  shopchat help           Show this help`)
}

// openLogFile opens ~/.shopchat/shopchat.log for appending. Returns
// nil when the app directory is unavailable.
func openLogFile() *os.File {
	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	if err := config.EnsureDir(); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "shopchat.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil
	}
	return f
}

// currentUserID resolves the signed-in shopper, or nil for anonymous
// use. The line-mode assistant works either way.
func currentUserID() *string {
	provider, err := identity.NewProvider()
	if err != nil {
		return nil
	}
	id, err := provider.Current()
	if err != nil {
		return nil
	}
	return &id.UserID
}

// =============================================================================
// TUI STARTUP
// =============================================================================

// runTUI wires the clients together and starts the Bubble Tea program.
func runTUI() {
	cfg := config.Global()

	// Logging goes to a file; the terminal belongs to the TUI.
	if f := openLogFile(); f != nil {
		log.SetOutput(f)
		defer f.Close()
	} else if devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0); err == nil {
		log.SetOutput(devnull)
	}

	theme := styles.NewTheme(cfg.UI.Theme)

	provider, err := identity.NewProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	apiClient := chatapi.NewClient(&chatapi.ClientConfig{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  time.Duration(cfg.API.TimeoutSecs) * time.Second,
		PageSize: cfg.API.PageSize,
	}, provider.Token)

	wsClient := transport.NewClient(&transport.Config{
		URL:                  cfg.WS.URL,
		HandshakeTimeout:     time.Duration(cfg.WS.HandshakeTimeoutSecs) * time.Second,
		ReconnectDelay:       time.Duration(cfg.WS.ReconnectDelaySecs) * time.Second,
		MaxReconnectAttempts: cfg.WS.MaxReconnectAttempts,
	})

	var cache session.HistoryCache
	var cacheCloser func() error
	if cfg.Storage.CacheEnabled {
		if c, err := storage.Open(cfg.Storage.Dir); err == nil {
			cache = c
			cacheCloser = c.Close
		}
		// A broken cache is not fatal; the session just skips it.
	}

	mgr := session.NewManager(session.Deps{
		History:   apiClient,
		Transport: transportAdapter{wsClient},
		Identity:  provider,
		Cache:     cache,
		PageSize:  cfg.API.PageSize,
	})

	responder := assistant.NewResponder(&assistant.ResponderConfig{
		BaseURL:           cfg.Bot.BaseURL,
		Timeout:           time.Duration(cfg.Bot.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Bot.RequestsPerMinute,
	})

	app := newApp(theme, cfg, mgr, responder, currentUserID())

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Session changes arrive from transport goroutines; convert them
	// into program messages so rendering stays on the update loop.
	mgr.SetOnChange(func() {
		p.Send(chatview.SessionChangedMsg{})
	})

	// Reload configuration when the file changes on disk.
	stopWatch, err := config.Watch(func(*config.Config) {
		p.Send(configReloadedMsg{})
	})
	if err == nil {
		defer stopWatch()
	}

	_, runErr := p.Run()

	mgr.Teardown()
	if cacheCloser != nil {
		cacheCloser()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running shopchat: %v\n", runErr)
		os.Exit(1)
	}
}

// =============================================================================
// TRANSPORT ADAPTER
// =============================================================================

// transportAdapter adapts the concrete websocket client to the session
// manager's Transport interface. The explicit nil checks keep a nil
// *transport.Subscription from turning into a non-nil interface.
type transportAdapter struct {
	client *transport.Client
}

func (a transportAdapter) Connect(ctx context.Context, token string) error {
	return a.client.Connect(ctx, token)
}

func (a transportAdapter) Disconnect() {
	a.client.Disconnect()
}

func (a transportAdapter) SubscribeToRoom(roomID string, fn func(*chatmsg.ChatMessage)) session.Subscription {
	if sub := a.client.SubscribeToRoom(roomID, fn); sub != nil {
		return sub
	}
	return nil
}

func (a transportAdapter) SubscribeToReadStatus(roomID string, fn func(readerID string)) session.Subscription {
	if sub := a.client.SubscribeToReadStatus(roomID, fn); sub != nil {
		return sub
	}
	return nil
}

func (a transportAdapter) OnDisconnect(fn func()) {
	a.client.OnDisconnect(fn)
}

func (a transportAdapter) OnReconnect(fn func()) {
	a.client.OnReconnect(fn)
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Tab identifies one of the two top-level views.
type Tab int

const (
	TabAssistant Tab = iota // shopping-assistant widget
	TabSupport              // live admin chat
)

// configReloadedMsg signals that the config file changed on disk.
type configReloadedMsg struct{}

// App is the root model: a tab bar over the assistant widget and the
// admin support chat.
type App struct {
	theme *styles.Theme
	cfg   *config.Config

	assistant widget.Model
	support   chatview.Model

	active Tab
	width  int
	height int
}

// newApp creates the root model. The assistant tab opens first,
// mirroring the storefront where the widget is the entry point.
func newApp(theme *styles.Theme, cfg *config.Config, mgr *session.Manager, responder *assistant.Responder, userID *string) *App {
	return &App{
		theme:     theme,
		cfg:       cfg,
		assistant: widget.New(theme, responder, userID),
		support:   chatview.New(theme, cfg, mgr),
		active:    TabAssistant,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.assistant.Init(),
		a.support.Init(),
		a.assistant.Focus(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The tab bar takes the top row.
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 1}
		var cmd tea.Cmd
		a.assistant, cmd = a.assistant.Update(inner)
		cmds = append(cmds, cmd)
		a.support, cmd = a.support.Update(inner)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "tab":
			return a, a.switchTab(nextTab(a.active))
		}
		// Everything else goes to the active view.
		return a, a.updateActive(msg)

	case widget.TransferToAdminMsg:
		// The assistant handed the conversation to a human; bring up
		// the live support chat.
		return a, a.switchTab(TabSupport)

	case chatview.SessionChangedMsg:
		// Session state feeds the support view regardless of focus so
		// the unread badge stays current.
		var cmd tea.Cmd
		a.support, cmd = a.support.Update(msg)
		return a, cmd

	case configReloadedMsg:
		a.cfg = config.Global()
		return a, nil
	}

	// Remaining messages (spinner ticks, command results) fan out to
	// both views; each ignores what it does not recognize.
	var cmd tea.Cmd
	a.assistant, cmd = a.assistant.Update(msg)
	cmds = append(cmds, cmd)
	a.support, cmd = a.support.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// updateActive routes a message to the focused view only.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.active {
	case TabAssistant:
		a.assistant, cmd = a.assistant.Update(msg)
	case TabSupport:
		a.support, cmd = a.support.Update(msg)
	}
	return cmd
}

// switchTab moves focus between the views. Focus and blur matter: the
// support view counts unread messages only while it is not viewed, and
// its first focus kicks off the chat session.
func (a *App) switchTab(target Tab) tea.Cmd {
	if target == a.active {
		return nil
	}
	switch a.active {
	case TabAssistant:
		a.assistant.Blur()
	case TabSupport:
		a.support.Blur()
	}
	a.active = target
	switch target {
	case TabAssistant:
		return a.assistant.Focus()
	case TabSupport:
		return a.support.Focus()
	}
	return nil
}

func nextTab(t Tab) Tab {
	if t == TabAssistant {
		return TabSupport
	}
	return TabAssistant
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return ""
	}

	var body string
	switch a.active {
	case TabAssistant:
		body = a.assistant.View()
	case TabSupport:
		body = a.support.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabBar(), body)
}

// renderTabBar renders the two tab labels with the unread badge on
// the support tab.
func (a *App) renderTabBar() string {
	labels := []string{"Trợ lý", "Hỗ trợ"}

	supportLabel := labels[TabSupport]
	if unread := a.support.UnreadCount(); unread > 0 {
		supportLabel += " " + a.theme.UnreadBadge.Render(fmt.Sprintf("%d", unread))
	}
	labels[TabSupport] = supportLabel

	var rendered []string
	for i, label := range labels {
		style := a.theme.Tab
		if Tab(i) == a.active {
			style = a.theme.TabActive
		}
		rendered = append(rendered, style.Render(label))
	}
	hint := a.theme.ShortcutDesc.Render("  Tab chuyển, Ctrl+C thoát")
	return lipgloss.JoinHorizontal(lipgloss.Top, append(rendered, hint)...)
}
