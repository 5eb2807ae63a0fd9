// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Line-mode assistant command handler.
//
// Handles "shopchat ask" which answers a single question on the
// command line, or starts an interactive REPL when no question is
// given.
//
// Examples:
//
//	shopchat ask "shop có ship COD không?"
//	echo "size áo thế nào?" | shopchat ask
//	shopchat ask            Start interactive mode
//
// Interactive commands:
//
//	/help, /h           Show available commands
//	/clear, /c          Start a fresh AI conversation
//	/quit, /q           Exit
//	Ctrl+C, Ctrl+D      Exit
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/shopvn/shopchat-tui/internal/assistant"
	"github.com/shopvn/shopchat-tui/internal/config"
	"github.com/shopvn/shopchat-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Orange).
			Bold(true)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	noticeStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders AI answers for terminal display. Canned
// answers are plain Vietnamese text and skip it.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown when possible, passing the content
// through unchanged otherwise.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// replInput provides line editing and input history for the REPL.
type replInput struct {
	line        *liner.State
	historyFile string
}

// newREPLInput creates the liner-backed input with history loaded
// from ~/.shopchat/ask_history.
func newREPLInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	in := &replInput{
		line:        line,
		historyFile: filepath.Join(dir, "ask_history"),
	}
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

// Read reads one line with history navigation.
func (in *replInput) Read(prompt string) (string, error) {
	input, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		in.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and releases the terminal.
func (in *replInput) Close() {
	if err := config.EnsureDir(); err == nil {
		if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			in.line.WriteHistory(f)
			f.Close()
		}
	}
	in.line.Close()
}

// =============================================================================
// ASK SESSION
// =============================================================================

// askSession routes questions to canned answers or the AI responder,
// keeping the AI conversation id sticky across questions.
type askSession struct {
	responder      *assistant.Responder
	conversationID *string
	userID         *string
	quiet          bool
}

// newAskSession builds a session from the global configuration.
// userID may be nil for anonymous use.
func newAskSession(userID *string, quiet bool) *askSession {
	cfg := config.Global()
	responder := assistant.NewResponder(&assistant.ResponderConfig{
		BaseURL:           cfg.Bot.BaseURL,
		Timeout:           time.Duration(cfg.Bot.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Bot.RequestsPerMinute,
	})
	return &askSession{
		responder: responder,
		userID:    userID,
		quiet:     quiet,
	}
}

// Answer answers one question. The routing mirrors the widget: canned
// categories answer locally, the admin category prints a hand-off
// notice, and everything else goes to the AI responder.
func (s *askSession) Answer(ctx context.Context, question string) error {
	decision := assistant.Route(question)

	switch {
	case decision.Transfer:
		fmt.Println(noticeStyle.Render(decision.Response))
		fmt.Println(infoStyle.Render("Mở giao diện chính (shopchat) để chat trực tiếp với admin."))
		return nil

	case !decision.UseAI:
		fmt.Println(decision.Response)
		return nil
	}

	if !s.quiet && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, infoStyle.Render("Đang hỏi trợ lý AI..."))
	}

	reply, err := s.responder.Send(ctx, question, s.userID, s.conversationID)
	if err != nil {
		fmt.Println(assistant.OfflineResponse)
		return err
	}
	s.conversationID = &reply.ConversationID

	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(reply.Message.Content))
	} else {
		fmt.Println(reply.Message.Content)
	}
	return nil
}

// Reset drops the AI conversation so the next question starts fresh.
func (s *askSession) Reset() {
	s.conversationID = nil
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk handles the "ask" command. A question from args (or piped
// stdin) answers once and exits; otherwise the interactive REPL runs.
func HandleAsk(args []string, userID *string, quiet bool) error {
	question := strings.TrimSpace(strings.Join(args, " "))

	// Piped input: read the question from stdin.
	if question == "" && !IsStdinTTY() {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err == nil {
			question = strings.TrimSpace(string(data))
		}
	}

	session := newAskSession(userID, quiet)

	if question != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := session.Answer(ctx, question); err != nil {
			return fmt.Errorf("ask failed: %w", err)
		}
		return nil
	}

	return runREPL(session)
}

// runREPL runs the interactive loop until the user exits.
func runREPL(session *askSession) error {
	input := newREPLInput()
	defer input.Close()

	if !session.quiet {
		printWelcome()
	}

	for {
		line, err := input.Read(promptStyle.Render("shopchat> "))
		if err != nil {
			// liner.ErrPromptAborted is Ctrl+C; anything else is
			// EOF (Ctrl+D) or a closed terminal. Exit either way.
			if err != liner.ErrPromptAborted && err != io.EOF {
				fmt.Fprintln(os.Stderr, errorStyle.Render("Lỗi: ")+err.Error())
			}
			fmt.Println()
			fmt.Println(infoStyle.Render("Tạm biệt!"))
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if !handleSlashCommand(line, session) {
				fmt.Println(infoStyle.Render("Tạm biệt!"))
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			fmt.Println(infoStyle.Render("Tạm biệt!"))
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		if err := session.Answer(ctx, line); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Lỗi: ")+err.Error())
		}
		cancel()
		fmt.Println()
	}
}

// handleSlashCommand processes a REPL slash command. Returns false
// when the REPL should exit.
func handleSlashCommand(cmd string, session *askSession) bool {
	switch strings.ToLower(strings.Fields(cmd)[0]) {
	case "/help", "/h", "/?":
		printHelp()
		return true

	case "/clear", "/c":
		session.Reset()
		fmt.Println(commandStyle.Render("[Đã bắt đầu cuộc trò chuyện mới]"))
		return true

	case "/quit", "/q", "/exit":
		return false

	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("Lệnh không hợp lệ: ")+cmd+
			infoStyle.Render("  (gõ /help để xem các lệnh)"))
		return true
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// printWelcome prints the REPL banner.
func printWelcome() {
	fmt.Println()
	fmt.Println(botLabelStyle.Render("Trợ lý mua sắm ShopVN"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Println(assistant.GreetingResponse())
	fmt.Println()
	fmt.Println(infoStyle.Render("Nhập câu hỏi và nhấn Enter. Lệnh: /help, /quit"))
	fmt.Println()
}

// printHelp prints available REPL commands.
func printHelp() {
	fmt.Println()
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Hiện trợ giúp"},
		{"/clear, /c", "Bắt đầu cuộc trò chuyện AI mới"},
		{"/quit, /q", "Thoát"},
	}
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-12s", c.cmd)),
			infoStyle.Render(c.desc))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Mẹo: Ctrl+D để thoát"))
	fmt.Println()
}
