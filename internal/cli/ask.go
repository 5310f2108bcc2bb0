// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command for the tutor CLI.
//
// Command: ask [question]
// Short:   Ask a single question and stream the answer to stdout
//
// Examples:
//   tutor ask "What is a VLA model?"
//   tutor ask --plain "Explain ROS 2 topics" > answer.md
//   tutor ask --server http://tutor.lab:8000 "What is Isaac Sim?"
//
// On a TTY the finished answer is re-rendered as markdown; piped output
// receives the raw streamed text so scripts see exactly what the
// service sent.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/controller"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/tutor"
	"github.com/jeranaias/tutor-tui/internal/util"
)

// clientFromConfig builds a tutor client from the loaded configuration,
// honoring a --server override.
func clientFromConfig(cfg *config.Config, override string) *tutor.Client {
	baseURL := cfg.ServerURL
	if override != "" {
		baseURL = override
	}
	return tutor.NewClientWithConfig(&tutor.Config{
		BaseURL:       baseURL,
		Timeout:       time.Duration(cfg.TimeoutSecs) * time.Second,
		HealthTimeout: time.Duration(cfg.HealthTimeoutSecs) * time.Second,
	})
}

// loadConfigOrDefault loads the user configuration, falling back to
// defaults with a warning rather than refusing to run.
func loadConfigOrDefault(quiet bool) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		if !quiet {
			fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		}
		return config.Default()
	}
	return cfg
}

// renderAnswer re-renders the collected answer as markdown when stdout
// is an interactive terminal. Returns the raw text on any failure.
func renderAnswer(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth()),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// HandleAsk streams a single question to stdout and exits non-zero on
// failure.
func HandleAsk(args *Args) {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: tutor ask \"question\"")
		os.Exit(2)
	}
	if util.RuneLen(question) > controller.MaxInputRunes {
		fmt.Fprintf(os.Stderr, "question too long (max %d characters)\n", controller.MaxInputRunes)
		os.Exit(2)
	}

	cfg := loadConfigOrDefault(args.Quiet)
	client := clientFromConfig(cfg, args.ServerURL)
	id := session.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Re-render on a TTY: collect the full answer, print deltas live only
	// when output is piped or --plain was given.
	pretty := IsStdoutTTY() && !args.Plain

	var answer strings.Builder
	var failed string
	searching := false

	err := client.ChatStream(ctx, question, id.String(), func(ev tutor.Event) {
		switch ev.Kind {
		case tutor.KindDelta:
			if searching {
				searching = false
			}
			answer.WriteString(ev.Content)
			if !pretty {
				fmt.Print(ev.Content)
			}
		case tutor.KindToolCall:
			searching = true
			if !args.Quiet {
				fmt.Fprintln(os.Stderr, "Searching textbook...")
			}
		case tutor.KindDone:
			if ev.Content != "" {
				answer.Reset()
				answer.WriteString(ev.Content)
			}
		case tutor.KindError:
			failed = ev.Content
		}
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", controller.FallbackMessage)
		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "(%v)\n", err)
		}
		os.Exit(1)
	}
	if failed != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", failed)
		os.Exit(1)
	}

	if pretty {
		fmt.Print(renderAnswer(answer.String()))
	} else if !strings.HasSuffix(answer.String(), "\n") {
		fmt.Println()
	}
}
