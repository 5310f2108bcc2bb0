// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Argument parsing and command routing for tutor.
//
// Command: (none)          Start the TUI (default)
// Command: ask [question]  Ask a single question, stream to stdout
// Command: chat            Interactive REPL for dumb terminals
// Command: status          Probe the tutor service
// Command: version         Print version information
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Query is the joined positional text after the command.
	Query string

	// ServerURL overrides the configured tutor service URL.
	ServerURL string

	// Plain disables markdown rendering even on a TTY.
	Plain bool

	// Quiet suppresses informational output on stderr.
	Quiet bool

	// Raw holds the arguments after the command word.
	Raw []string
}

const usageText = `tutor - terminal client for the Physical AI textbook tutor

Tutor connects to the textbook chatbot service and streams answers
about Physical AI, ROS 2, Gazebo, NVIDIA Isaac and VLA models.

Usage:
  tutor                    Start TUI (default)
  tutor ask "question"     Ask a single question
  tutor chat               Interactive chat in plain terminals
  tutor status, s          Probe the tutor service
  tutor version, -v        Print version
  tutor help, -h           Show this help

Flags:
  --server URL             Override the tutor service URL
  --plain                  Disable markdown rendering
  -q, --quiet              Suppress informational output

Configuration is read from ~/.tutor/config.toml and the
TUTOR_SERVER_URL, TUTOR_TIMEOUT_SECS and TUTOR_THEME variables.
`

// Parse interprets os.Args and returns the command to run plus its arguments.
func Parse() (Command, *Args) {
	return parse(os.Args[1:])
}

func parse(raw []string) (Command, *Args) {
	args := &Args{}

	if len(raw) == 0 {
		return CmdTUI, args
	}

	cmd := CmdTUI
	rest := raw

	switch raw[0] {
	case "ask":
		cmd = CmdAsk
		rest = raw[1:]
	case "chat":
		cmd = CmdChat
		rest = raw[1:]
	case "status", "s":
		cmd = CmdStatus
		rest = raw[1:]
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	}

	var positional []string
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--server" && i+1 < len(rest):
			args.ServerURL = rest[i+1]
			i++
		case strings.HasPrefix(arg, "--server="):
			args.ServerURL = strings.TrimPrefix(arg, "--server=")
		case arg == "--plain":
			args.Plain = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		default:
			positional = append(positional, arg)
		}
	}

	args.Raw = rest
	args.Query = strings.Join(positional, " ")
	return cmd, args
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("tutor %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
