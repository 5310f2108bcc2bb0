// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tutor-tui/internal/selection"
)

// =============================================================================
// MOUSE SELECTION
// =============================================================================

// handleMouse maps press/release drags over the transcript onto
// selection.Release events. Wheel events scroll the viewport.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.viewport.LineUp(3)
		return m, nil
	case tea.MouseWheelDown:
		m.viewport.LineDown(3)
		return m, nil

	case tea.MouseLeft:
		if !m.pressed {
			m.pressed = true
			m.pressRow = msg.Y
		}
		return m, nil

	case tea.MouseRelease:
		if !m.pressed || !m.cfg.UI.MouseSelection {
			m.pressed = false
			return m, nil
		}
		m.pressed = false
		m.sel.Handle(m.releaseEvent(m.pressRow, msg.Y, msg.X))
		return m, nil
	}
	return m, nil
}

// releaseEvent assembles the selection release for a drag from pressRow to
// releaseRow (screen coordinates).
func (m Model) releaseEvent(pressRow, releaseRow, x int) selection.Release {
	// Releases over the input/status chrome never qualify.
	inWidget := releaseRow >= m.height-inputHeight-statusHeight

	return selection.Release{
		Text:     m.draggedText(pressRow, releaseRow),
		Anchor:   selection.Anchor{X: x, Y: releaseRow},
		InWidget: inWidget,
	}
}

// draggedText returns the transcript text the drag swept over, empty when
// the drag never left one row or fell outside the transcript area.
func (m Model) draggedText(fromRow, toRow int) string {
	if fromRow > toRow {
		fromRow, toRow = toRow, fromRow
	}
	if fromRow == toRow {
		return ""
	}

	// Map screen rows to transcript line indices through the scroll offset.
	first := fromRow - headerHeight + m.viewport.YOffset
	last := toRow - headerHeight + m.viewport.YOffset

	if first < 0 {
		first = 0
	}
	if last >= len(m.plainLines) {
		last = len(m.plainLines) - 1
	}
	if first > last {
		return ""
	}
	return strings.Join(m.plainLines[first:last+1], "\n")
}
