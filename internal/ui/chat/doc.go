// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat panel for tutor-tui.
//
// The panel is a thin shell over the controller: key presses become
// submissions, controller notifications become re-renders, and the transcript
// snapshot from the conversation store is the single source of truth for
// what appears on screen. Mouse drags over the transcript feed the selection
// observer, which drives the "ask about this" offer.
package chat
