// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Service status command for the tutor CLI.
//
// Command: status
// Short:   Probe the tutor service and report reachability
// Aliases: s
//
// Examples:
//   tutor status
//   tutor status --server http://tutor.lab:8000
//
// Exits 0 when the service is available, 1 otherwise, so the command
// doubles as a scriptable liveness check.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/tutor"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	statusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	statusBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// HandleStatus probes the tutor service once and prints the result.
func HandleStatus(args *Args) {
	cfg := loadConfigOrDefault(args.Quiet)
	client := clientFromConfig(cfg, args.ServerURL)

	status := client.CheckHealth(context.Background())

	fmt.Println(statusTitleStyle.Render("Tutor Service"))
	fmt.Printf("%s %s\n", statusLabelStyle.Render("Server:"), client.BaseURL())

	switch status {
	case tutor.HealthAvailable:
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Status:"), statusOKStyle.Render("available"))
	default:
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Status:"), statusBadStyle.Render("unavailable"))
		os.Exit(1)
	}
}
