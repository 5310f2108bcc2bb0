// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import "time"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Tutor"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE STATUS
// =============================================================================

// Status is the lifecycle state of a message.
//
// User messages are born final. An assistant message moves
// Pending -> Streaming -> Final, or from either non-terminal state to
// Errored. Final and Errored are terminal.
type Status int

const (
	StatusPending Status = iota
	StatusStreaming
	StatusFinal
	StatusErrored
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusStreaming:
		return "streaming"
	case StatusFinal:
		return "final"
	case StatusErrored:
		return "errored"
	default:
		return "invalid"
	}
}

// Terminal reports whether the status is a rest state that permits no
// further mutation.
func (s Status) Terminal() bool {
	return s == StatusFinal || s == StatusErrored
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of the transcript. Values handed out by the store are
// copies; mutating them does not affect the transcript.
type Message struct {
	Role      Role
	Content   string
	Status    Status
	Timestamp time.Time
}
