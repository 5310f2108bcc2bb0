// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrTurnOpen is returned by BeginAssistantTurn while the previous
	// assistant message has not reached a terminal state.
	ErrTurnOpen = errors.New("assistant turn already in progress")

	// ErrNoTurn is returned by turn mutations when no assistant turn is open.
	ErrNoTurn = errors.New("no assistant turn in progress")
)

// =============================================================================
// CURRENT TURN
// =============================================================================

// turn is the single mutable in-flight assistant message. Accumulation goes
// through a strings.Builder so repeated deltas stay linear.
type turn struct {
	content strings.Builder
	status  Status
	started time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is the ordered transcript plus the one in-flight assistant slot.
//
// Store is safe for concurrent use: the stream read loop applies events while
// the renderer snapshots. Each operation is atomic, so a snapshot never
// observes a torn update.
type Store struct {
	mu        sync.Mutex
	history   []Message
	turn      *turn
	searching bool
}

// NewStore creates an empty transcript.
func NewStore() *Store {
	return &Store{}
}

// =============================================================================
// TRANSCRIPT OPERATIONS
// =============================================================================

// AppendUser appends a final user message. Always legal.
func (s *Store) AppendUser(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, Message{
		Role:      RoleUser,
		Content:   text,
		Status:    StatusFinal,
		Timestamp: time.Now(),
	})
}

// BeginAssistantTurn opens the pending assistant slot. It fails with
// ErrTurnOpen if the prior assistant message is not terminal yet.
func (s *Store) BeginAssistantTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turn != nil {
		return ErrTurnOpen
	}
	s.turn = &turn{status: StatusPending, started: time.Now()}
	return nil
}

// ApplyDelta appends an increment to the in-flight assistant message and
// moves it to Streaming. Content length is monotonically non-decreasing
// across deltas within a turn.
func (s *Store) ApplyDelta(increment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turn == nil {
		return ErrNoTurn
	}
	s.turn.content.WriteString(increment)
	s.turn.status = StatusStreaming
	return nil
}

// Finalize closes the in-flight assistant message as Final. A non-empty
// content is authoritative and replaces whatever the deltas accumulated; an
// empty content keeps the accumulation (the implicit end-of-stream finalize).
func (s *Store) Finalize(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turn == nil {
		return ErrNoTurn
	}
	if content == "" {
		content = s.turn.content.String()
	}
	s.closeTurn(content, StatusFinal)
	return nil
}

// Fail closes the in-flight assistant message as Errored with a user-facing
// explanation.
func (s *Store) Fail(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turn == nil {
		return ErrNoTurn
	}
	s.closeTurn(message, StatusErrored)
	return nil
}

// closeTurn merges the slot into the immutable history. Caller holds the lock.
func (s *Store) closeTurn(content string, status Status) {
	s.history = append(s.history, Message{
		Role:      RoleAssistant,
		Content:   content,
		Status:    status,
		Timestamp: s.turn.started,
	})
	s.turn = nil
	s.searching = false
}

// =============================================================================
// SEARCHING FLAG
// =============================================================================

// MarkSearching raises the "searching textbook" indicator. Orthogonal to
// message state.
func (s *Store) MarkSearching() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searching = true
}

// ClearSearching lowers the indicator.
func (s *Store) ClearSearching() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searching = false
}

// Searching reports whether the indicator is raised.
func (s *Store) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Messages returns a copy of the transcript, the open turn included as its
// current pending/streaming message. Safe to render from any goroutine.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.history), len(s.history)+1)
	copy(out, s.history)
	if s.turn != nil {
		out = append(out, Message{
			Role:      RoleAssistant,
			Content:   s.turn.content.String(),
			Status:    s.turn.status,
			Timestamp: s.turn.started,
		})
	}
	return out
}

// TurnOpen reports whether an assistant turn is currently in flight.
func (s *Store) TurnOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn != nil
}

// Len returns the number of messages, the open turn included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.history)
	if s.turn != nil {
		n++
	}
	return n
}

// IsEmpty reports whether the transcript has no messages at all.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}
