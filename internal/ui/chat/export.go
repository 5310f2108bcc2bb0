// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tutor-tui/internal/conversation"
)

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// exportCmd writes the current transcript to a markdown file in the working
// directory. The transcript itself stays memory-only; this is a one-shot
// copy, not persistence.
func (m Model) exportCmd() tea.Cmd {
	msgs := m.store.Messages()
	return func() tea.Msg {
		if len(msgs) == 0 {
			return ExportDoneMsg{Err: fmt.Errorf("nothing to export")}
		}

		path := fmt.Sprintf("tutor-transcript-%s.md", time.Now().Format("20060102-150405"))
		if err := os.WriteFile(path, []byte(formatTranscript(msgs)), 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// formatTranscript renders messages as a markdown document.
func formatTranscript(msgs []conversation.Message) string {
	var b strings.Builder
	b.WriteString("# Physical AI Tutor transcript\n\n")
	b.WriteString("Exported " + time.Now().Format(time.RFC1123) + "\n\n")

	for _, msg := range msgs {
		b.WriteString("## " + msg.Role.DisplayName())
		if msg.Status == conversation.StatusErrored {
			b.WriteString(" (error)")
		}
		b.WriteString("\n\n")
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
