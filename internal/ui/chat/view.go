// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/controller"
	"github.com/jeranaias/tutor-tui/internal/conversation"
	"github.com/jeranaias/tutor-tui/internal/tutor"
	"github.com/jeranaias/tutor-tui/internal/util"
)

// welcomeText greets an empty transcript.
const welcomeText = "Ask me anything about Physical AI, ROS 2, Gazebo, NVIDIA Isaac, or VLA models!"

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat panel.
// Layout: header + transcript viewport + input + status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatus(),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	health := m.ctrl.Health()
	dot := m.theme.HealthDot(health == tutor.HealthAvailable, health != tutor.HealthUnknown)
	title := m.theme.Header.Render("Physical AI Tutor")
	right := m.theme.StatusBar.Render("session " + m.id.Short())

	line := dot + " " + title
	pad := m.width - lipgloss.Width(line) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return line + strings.Repeat(" ", pad) + right
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript rebuilds the viewport content from a store snapshot.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	msgs := m.store.Messages()
	var b strings.Builder
	var plain strings.Builder

	if len(msgs) == 0 {
		b.WriteString(m.theme.Welcome.Render(welcomeText))
	}

	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
			plain.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		plain.WriteString(msg.Content)
		b.WriteString("\n")
		plain.WriteString("\n")
	}

	if m.store.Searching() {
		b.WriteString("\n" + m.theme.Searching.Render(m.spinner.View()+" Searching textbook..."))
	}

	m.plainLines = strings.Split(plain.String(), "\n")
	m.viewport.SetContent(b.String())
}

// renderMessage renders one transcript entry.
func (m Model) renderMessage(msg conversation.Message) string {
	switch {
	case msg.Role == conversation.RoleUser:
		return m.theme.UserLabel.Render(msg.Role.DisplayName()+":") + " " +
			m.theme.UserMessage.Render(msg.Content)

	case msg.Status == conversation.StatusErrored:
		return m.theme.AssistantLabel.Render(msg.Role.DisplayName()+":") + " " +
			m.theme.ErrorMessage.Render(msg.Content)

	case msg.Status == conversation.StatusFinal:
		return m.theme.AssistantLabel.Render(msg.Role.DisplayName()+":") + "\n" +
			m.renderMarkdown(msg.Content)

	default:
		// Pending or streaming: raw text plus a cursor block.
		return m.theme.AssistantLabel.Render(msg.Role.DisplayName()+":") + " " +
			msg.Content + "_"
	}
}

// renderMarkdown renders final assistant content through glamour, falling
// back to the raw text if rendering fails.
func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m Model) renderInput() string {
	hint := ""
	if capture, ok := m.sel.Capture(); ok {
		preview := util.TruncateRunes(capture.Text, 40)
		hint = m.theme.Tooltip.Render("Ask about this") +
			m.theme.StatusBar.Render(" "+preview+"  (ctrl+x to drop)")
		m.input.Placeholder = "Ask about the selected text..."
	} else {
		m.input.Placeholder = "Ask a question..."
	}

	return lipgloss.JoinVertical(lipgloss.Left, hint, m.input.View())
}

func (m Model) renderStatus() string {
	if m.statusMsg != "" {
		return m.theme.StatusBar.Render(util.TruncateWidth(m.statusMsg, m.width))
	}

	if m.ctrl.Health() == tutor.HealthUnavailable {
		return m.theme.ErrorMessage.Render("Chatbot is currently unavailable.") +
			m.theme.Help.Render("  ctrl+r to retry")
	}

	left := m.theme.Help.Render("enter send | ctrl+e export | esc quit")
	if m.ctrl.Sending() {
		left = m.theme.Searching.Render(m.spinner.View()+" thinking") + " " + left
	}

	right := m.renderCounter()
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// renderCounter shows "n/2000" once the user starts typing, switching to the
// warn style close to the limit.
func (m Model) renderCounter() string {
	n := util.RuneLen(m.input.Value())
	if n == 0 {
		return ""
	}
	text := fmt.Sprintf("%d/%d", n, controller.MaxInputRunes)
	if n > controller.WarnInputRunes {
		return m.theme.CounterWarn.Render(text)
	}
	return m.theme.Counter.Render(text)
}
