// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tutor-tui/internal/controller"
)

// =============================================================================
// INIT
// =============================================================================

// Init probes service health once on startup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.probeHealthCmd(), m.spinner.Tick)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update is the Bubble Tea message loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := max(1, m.height-headerHeight-inputHeight-statusHeight)
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.newRenderer()
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TranscriptChangedMsg:
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case SubmitDoneMsg:
		return m.handleSubmitDone(msg)

	case HealthMsg:
		// The controller already cached the status; re-render picks it up.
		return m, nil

	case ConfigReloadedMsg:
		// Rendering preferences may have changed; the server URL is
		// deliberately not re-applied mid-session.
		m.cfg = msg.Config
		m.newRenderer()
		m.refreshTranscript()
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			return m.flashStatus("Export failed: " + msg.Err.Error())
		}
		return m.flashStatus("Exported to " + msg.Path)

	case statusExpiredMsg:
		m.statusMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.ctrl.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.RetryHealth):
		return m, m.probeHealthCmd()

	case key.Matches(msg, m.keyMap.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keyMap.ClearSel):
		m.sel.Clear()
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit validates locally, then runs the turn off the UI thread.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" {
		return m, nil
	}
	if m.ctrl.Sending() {
		return m.flashStatus("Still answering; wait for the current turn.")
	}

	m.input.Reset()
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return SubmitDoneMsg{Err: ctrl.Submit(context.Background(), text)}
	}
}

func (m Model) handleSubmitDone(msg SubmitDoneMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err == nil:
		return m, nil
	case errors.Is(msg.Err, controller.ErrTooLong):
		return m.flashStatus("Message is over the 2000 character limit.")
	case errors.Is(msg.Err, controller.ErrBusy):
		return m.flashStatus("Still answering; wait for the current turn.")
	case errors.Is(msg.Err, controller.ErrEmpty):
		return m, nil
	default:
		return m.flashStatus(msg.Err.Error())
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

// probeHealthCmd re-probes the service off the UI thread.
func (m Model) probeHealthCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return HealthMsg{Status: ctrl.ProbeHealth(context.Background())}
	}
}

// flashStatus shows a transient status-line message.
func (m Model) flashStatus(text string) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}
