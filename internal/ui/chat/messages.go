// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/tutor"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// TranscriptChangedMsg signals that the conversation store changed and the
// viewport must re-render. Sent by the controller's notify hook, so it may
// arrive from the streaming goroutine at any time.
type TranscriptChangedMsg struct{}

// SubmitDoneMsg reports the outcome of a Submit call. A nil Err covers both
// success and in-transcript failures; non-nil means the input was rejected
// before any network call.
type SubmitDoneMsg struct {
	Err error
}

// HealthMsg delivers a probe result.
type HealthMsg struct {
	Status tutor.HealthStatus
}

// ConfigReloadedMsg delivers a freshly validated configuration from the
// file watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// statusExpiredMsg clears a temporary status-line message.
type statusExpiredMsg struct{}
