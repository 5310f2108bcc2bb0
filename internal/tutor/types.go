// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

// =============================================================================
// STREAM EVENTS
// =============================================================================

// EventKind identifies the protocol event carried by a stream line.
type EventKind int

const (
	// KindDelta carries an incremental fragment of assistant text.
	KindDelta EventKind = iota
	// KindToolCall signals the backend is performing a textbook lookup.
	KindToolCall
	// KindDone signals turn completion and carries the authoritative final text.
	KindDone
	// KindError signals a backend failure with a user-facing explanation.
	KindError
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case KindDelta:
		return "delta"
	case KindToolCall:
		return "tool_call"
	case KindDone:
		return "done"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a single decoded protocol event from the chat stream.
// Content is meaningful for KindDelta (the fragment), KindDone (the
// authoritative final text, possibly empty) and KindError (the explanation).
type Event struct {
	Kind    EventKind
	Content string
}

// EventCallback is called for each decoded event, strictly in stream order.
type EventCallback func(ev Event)

// =============================================================================
// HEALTH STATUS
// =============================================================================

// HealthStatus classifies the tutor service's liveness.
type HealthStatus int

const (
	// HealthUnknown is the state before any probe has completed.
	HealthUnknown HealthStatus = iota
	// HealthAvailable means the service reported healthy or degraded.
	HealthAvailable
	// HealthUnavailable means the probe failed or the service reported
	// anything other than healthy/degraded.
	HealthUnavailable
)

// String returns a human-readable status name.
func (h HealthStatus) String() string {
	switch h {
	case HealthAvailable:
		return "available"
	case HealthUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// streamRequest is the body of POST /api/chat/stream.
type streamRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// selectedRequest is the body of POST /api/chat/selected.
type selectedRequest struct {
	SelectedText string `json:"selected_text"`
	Question     string `json:"question"`
	SessionID    string `json:"session_id"`
}

// SelectedResponse is the single JSON reply of the selected-text endpoint.
type SelectedResponse struct {
	Response string `json:"response"`
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status string `json:"status"`
}

// streamEvent is the wire form of one "data: " payload.
type streamEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}
