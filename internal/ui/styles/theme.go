// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for tutor-tui.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// THEME
// =============================================================================

// Theme bundles every lipgloss style the chat view uses.
type Theme struct {
	Header    lipgloss.Style
	StatusBar lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserMessage    lipgloss.Style
	ErrorMessage   lipgloss.Style

	HealthAvailable   lipgloss.Style
	HealthUnavailable lipgloss.Style
	HealthUnknown     lipgloss.Style

	Searching lipgloss.Style
	Tooltip   lipgloss.Style

	Counter     lipgloss.Style
	CounterWarn lipgloss.Style

	Welcome lipgloss.Style
	Help    lipgloss.Style
}

// DefaultTheme returns the standard dark-friendly theme.
func DefaultTheme() *Theme {
	return &Theme{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135")),
		UserMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		ErrorMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),

		HealthAvailable: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		HealthUnavailable: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		HealthUnknown: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		Searching: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("220")),
		Tooltip: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1),

		Counter: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		CounterWarn: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208")),

		Welcome: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// HealthDot renders the colored status indicator for the header.
func (t *Theme) HealthDot(available, known bool) string {
	switch {
	case !known:
		return t.HealthUnknown.Render("o")
	case available:
		return t.HealthAvailable.Render("*")
	default:
		return t.HealthUnavailable.Render("x")
	}
}
