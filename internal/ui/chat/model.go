// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/controller"
	"github.com/jeranaias/tutor-tui/internal/conversation"
	"github.com/jeranaias/tutor-tui/internal/selection"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	headerHeight = 1 // title + health dot
	inputHeight  = 2 // separator hint line + input
	statusHeight = 1 // status / counter / help line
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat panel.
type Model struct {
	// Collaborators, constructed once and passed in explicitly.
	ctrl  *controller.Controller
	store *conversation.Store
	sel   *selection.Observer
	id    session.Identity
	cfg   *config.Config

	// Styling
	theme    *styles.Theme
	renderer *glamour.TermRenderer

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keyMap   KeyMap

	// Dimensions
	width  int
	height int
	ready  bool

	// Transcript cache: plain lines backing the viewport, used to map a
	// mouse drag back to text.
	plainLines []string

	// Mouse drag state for selection capture.
	pressRow   int
	pressed    bool

	// Temporary status-line message.
	statusMsg string
}

// New creates the chat panel over its explicit collaborators.
func New(ctrl *controller.Controller, store *conversation.Store, sel *selection.Observer, id session.Identity, cfg *config.Config) Model {
	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.CharLimit = 0 // the controller enforces the rune limit
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Line

	return Model{
		ctrl:    ctrl,
		store:   store,
		sel:     sel,
		id:      id,
		cfg:     cfg,
		theme:   styles.DefaultTheme(),
		input:   input,
		spinner: sp,
		keyMap:  DefaultKeyMap(),
	}
}

// newRenderer builds the glamour renderer for the current width and theme.
func (m *Model) newRenderer() {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(max(20, m.width-2)),
	}
	switch m.cfg.UI.Theme {
	case "dark":
		opts = append(opts, glamour.WithStandardStyle("dark"))
	case "light":
		opts = append(opts, glamour.WithStandardStyle("light"))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		// Fall back to plain text rendering.
		m.renderer = nil
		return
	}
	m.renderer = r
}
