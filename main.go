// tutor - A terminal client for the Physical AI textbook chatbot.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tutor-tui/internal/cli"
	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/controller"
	"github.com/jeranaias/tutor-tui/internal/conversation"
	"github.com/jeranaias/tutor-tui/internal/selection"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/tutor"
	"github.com/jeranaias/tutor-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(2)
	}
}

func runTUI(args *cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}
	if args.ServerURL != "" {
		cfg.ServerURL = args.ServerURL
	}

	client := buildClient(cfg)
	store := conversation.NewStore()
	id := session.New()
	sel := selection.NewObserver()

	ctrl := controller.New(client, store, id)
	ctrl.AttachSelection(sel)
	defer ctrl.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseSelection {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(chat.New(ctrl, store, sel, id, cfg), opts...)

	// Repaint whenever the controller mutates the transcript off the
	// bubbletea goroutine.
	ctrl.SetNotify(func() {
		p.Send(chat.TranscriptChangedMsg{})
	})

	// Hot-reload: pick up config edits without restarting the session.
	if path, err := config.Path(); err == nil {
		watcher, werr := config.Watch(path, func(next *config.Config) {
			p.Send(chat.ConfigReloadedMsg{Config: next})
		})
		if werr == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildClient(cfg *config.Config) *tutor.Client {
	return tutor.NewClientWithConfig(&tutor.Config{
		BaseURL:       cfg.ServerURL,
		Timeout:       time.Duration(cfg.TimeoutSecs) * time.Second,
		HealthTimeout: time.Duration(cfg.HealthTimeoutSecs) * time.Second,
	})
}
