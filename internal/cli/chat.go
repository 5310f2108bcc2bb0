// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL for the tutor CLI.
//
// Command: chat
// Short:   Line-based chat for terminals where the TUI is unusable
//
// Interactive commands:
//   /help, /h      Show available commands
//   /history       Show the conversation so far
//   /clear, /c     Forget the conversation (new session)
//   /status, /s    Probe the tutor service
//   /quit, /q      Exit (also Ctrl+D)
//
// Input history is persisted to ~/.tutor/chat_history and navigable
// with the arrow keys.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/controller"
	"github.com/jeranaias/tutor-tui/internal/conversation"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/tutor"
	"github.com/jeranaias/tutor-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	replInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	replErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// replInput wraps liner with persistent history.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newReplInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &replInput{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

// Read reads one line, recording non-empty input in history.
func (r *replInput) Read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and restores the terminal.
func (r *replInput) Close() {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// HandleChat runs the interactive REPL until /quit or EOF.
func HandleChat(args *Args) {
	cfg := loadConfigOrDefault(args.Quiet)
	client := clientFromConfig(cfg, args.ServerURL)
	store := conversation.NewStore()
	id := session.New()

	in := newReplInput()
	defer in.Close()

	if !args.Quiet {
		fmt.Println(replInfoStyle.Render("tutor chat - /help for commands, /quit to exit"))
		fmt.Println(replInfoStyle.Render("session " + id.Short()))
	}

	prompt := promptStyle.Render("you> ")
	for {
		input, err := in.Read(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// io.EOF on Ctrl+D
			fmt.Println()
			return
		}

		text := strings.TrimSpace(input)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if quit := runReplCommand(text, client, &store, &id); quit {
				return
			}
			continue
		}

		if util.RuneLen(text) > controller.MaxInputRunes {
			fmt.Println(replErrorStyle.Render(fmt.Sprintf("question too long (max %d characters)", controller.MaxInputRunes)))
			continue
		}

		askOnce(client, store, id, text, args.Quiet)
	}
}

// askOnce streams one turn, echoing deltas to stdout as they arrive.
func askOnce(client *tutor.Client, store *conversation.Store, id session.Identity, text string, quiet bool) {
	store.AppendUser(text)
	store.BeginAssistantTurn()

	var failed string
	gotDelta := false

	err := client.ChatStream(context.Background(), text, id.String(), func(ev tutor.Event) {
		switch ev.Kind {
		case tutor.KindDelta:
			gotDelta = true
			store.ApplyDelta(ev.Content)
			fmt.Print(ev.Content)
		case tutor.KindToolCall:
			store.MarkSearching()
			if !quiet {
				fmt.Println(replInfoStyle.Render("Searching textbook..."))
			}
		case tutor.KindDone:
			store.Finalize(ev.Content)
			if !gotDelta && ev.Content != "" {
				fmt.Print(ev.Content)
			}
		case tutor.KindError:
			failed = ev.Content
			store.Fail("Error: " + ev.Content)
		}
	})

	switch {
	case err != nil:
		if store.TurnOpen() {
			store.Fail(controller.FallbackMessage)
		}
		fmt.Println(replErrorStyle.Render(controller.FallbackMessage))
	case failed != "":
		fmt.Println(replErrorStyle.Render("Error: " + failed))
	default:
		if store.TurnOpen() {
			store.Finalize("")
		}
		fmt.Println()
	}
}

// runReplCommand handles a /command. Returns true when the REPL should exit.
func runReplCommand(text string, client *tutor.Client, store **conversation.Store, id *session.Identity) bool {
	switch strings.Fields(text)[0] {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h":
		fmt.Println(replInfoStyle.Render("/help /history /clear /status /quit"))
	case "/history":
		for _, msg := range (*store).Messages() {
			fmt.Printf("%s: %s\n", msg.Role.DisplayName(), msg.Content)
		}
	case "/clear", "/c":
		*store = conversation.NewStore()
		*id = session.New()
		fmt.Println(replInfoStyle.Render("conversation cleared, new session " + id.Short()))
	case "/status", "/s":
		status := client.CheckHealth(context.Background())
		fmt.Println(replInfoStyle.Render("tutor service: " + status.String()))
	default:
		fmt.Println(replErrorStyle.Render("unknown command (try /help)"))
	}
	return false
}
