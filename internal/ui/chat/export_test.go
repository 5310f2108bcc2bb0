// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	"github.com/jeranaias/tutor-tui/internal/conversation"
)

func TestFormatTranscript(t *testing.T) {
	msgs := []conversation.Message{
		{Role: conversation.RoleUser, Content: "Hello", Status: conversation.StatusFinal},
		{Role: conversation.RoleAssistant, Content: "Hi there", Status: conversation.StatusFinal},
		{Role: conversation.RoleAssistant, Content: "boom", Status: conversation.StatusErrored},
	}

	out := formatTranscript(msgs)

	if !strings.HasPrefix(out, "# Physical AI Tutor transcript") {
		t.Errorf("missing title header:\n%s", out)
	}
	for _, want := range []string{"## You", "## Tutor", "## Tutor (error)", "Hello", "Hi there", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// User turn must precede assistant turn.
	if strings.Index(out, "Hello") > strings.Index(out, "Hi there") {
		t.Error("transcript order not preserved")
	}
}
