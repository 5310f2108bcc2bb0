// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller orchestrates chat turns against the tutor service.
//
// The controller owns the single-flight discipline: one turn at a time, a
// second submit while one is in flight is rejected, never queued. It drives
// the transport, applies decoded events to the conversation store strictly in
// stream order, and resolves every failure into either an errored transcript
// message or a health status. Nothing ever propagates past the controller
// boundary as a panic or an unhandled stream error.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/jeranaias/tutor-tui/internal/conversation"
	"github.com/jeranaias/tutor-tui/internal/selection"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/tutor"
	"github.com/jeranaias/tutor-tui/internal/util"
)

// =============================================================================
// LIMITS AND FIXED TEXT
// =============================================================================

const (
	// MaxInputRunes is the hard input limit; longer submissions are rejected
	// before any network call.
	MaxInputRunes = 2000

	// WarnInputRunes is where the UI starts warning about the limit.
	WarnInputRunes = 1800

	// FallbackMessage is the fixed transcript text for connection failures.
	FallbackMessage = "Sorry, I could not connect to the chatbot service. Please try again later."

	// selectedPrefix marks user messages submitted through the selection path.
	selectedPrefix = "[About selected text] "
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy rejects a submit while a turn is in flight. The caller must
	// resubmit after the turn completes; nothing is queued.
	ErrBusy = errors.New("a chat turn is already in flight")

	// ErrEmpty rejects empty or whitespace-only input.
	ErrEmpty = errors.New("message is empty")

	// ErrTooLong rejects input over MaxInputRunes.
	ErrTooLong = errors.New("message exceeds the input limit")

	// ErrClosed rejects submissions after Close.
	ErrClosed = errors.New("controller is closed")
)

// =============================================================================
// TRANSPORT INTERFACE
// =============================================================================

// Transport is the slice of the tutor client the controller needs. Declared
// here so the controller is testable against fakes.
type Transport interface {
	ChatStream(ctx context.Context, message, sessionID string, callback tutor.EventCallback) error
	ChatSelected(ctx context.Context, selectedText, question, sessionID string) (*tutor.SelectedResponse, error)
	CheckHealth(ctx context.Context) tutor.HealthStatus
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives chat turns. Construct with New; all collaborators are
// explicit, there is no ambient state.
type Controller struct {
	transport Transport
	store     *conversation.Store
	id        session.Identity
	sel       *selection.Observer // optional

	// Single-flight lock for the whole turn.
	mu      sync.Mutex
	sending bool
	closed  bool
	cancel  context.CancelFunc // cancels the in-flight turn, if any

	// Health is a separate resource: probing runs concurrently with a turn.
	healthMu sync.Mutex
	health   tutor.HealthStatus
	probes   *rate.Limiter

	// notify is invoked after every observable state change so the UI can
	// re-render. May be nil.
	notify func()
}

// New creates a controller over an explicit transport, store, and session
// identity.
func New(transport Transport, store *conversation.Store, id session.Identity) *Controller {
	return &Controller{
		transport: transport,
		store:     store,
		id:        id,
		health:    tutor.HealthUnknown,
		// UI-driven re-probes are coalesced; the retry affordance itself
		// needs no backoff.
		probes: rate.NewLimiter(rate.Limit(2), 1),
		notify: func() {},
	}
}

// SetNotify installs the change-notification callback. Call before the first
// Submit.
func (c *Controller) SetNotify(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	c.notify = fn
}

// AttachSelection wires a selection observer. When a capture is present at
// submit time, the turn takes the selected-text path.
func (c *Controller) AttachSelection(sel *selection.Observer) {
	c.sel = sel
}

// Sending reports whether a turn is currently in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit runs one chat turn to completion. It validates synchronously,
// acquires the single-flight lock, and blocks until the turn resolves; run it
// in its own goroutine when the caller must not block. Validation failures
// and ErrBusy leave the transcript untouched. Once a turn starts, Submit
// always returns nil: failures resolve into the transcript, not the error
// return.
func (c *Controller) Submit(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmpty
	}
	if util.RuneLen(text) > MaxInputRunes {
		return ErrTooLong
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	turnCtx, cancel := context.WithCancel(ctx)
	c.sending = true
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.mu.Unlock()
		c.notify()
	}()

	if capture, ok := c.takeCapture(); ok {
		c.runSelected(turnCtx, capture, trimmed)
	} else {
		c.runStreaming(turnCtx, trimmed)
	}
	return nil
}

// takeCapture peeks the attached selection capture without clearing it; the
// capture is cleared only when its turn succeeds.
func (c *Controller) takeCapture() (selection.Capture, bool) {
	if c.sel == nil {
		return selection.Capture{}, false
	}
	return c.sel.Capture()
}

// =============================================================================
// SELECTED-TEXT PATH
// =============================================================================

// runSelected asks a single-shot question about a captured selection. This
// path is not streamed and never touches the searching flag.
func (c *Controller) runSelected(ctx context.Context, capture selection.Capture, question string) {
	c.store.AppendUser(selectedPrefix + question)
	if err := c.store.BeginAssistantTurn(); err != nil {
		return
	}
	c.notify()

	resp, err := c.transport.ChatSelected(ctx, capture.Text, question, c.id.String())
	if err != nil {
		c.store.Fail(FallbackMessage)
		return
	}

	c.store.Finalize(resp.Response)
	c.sel.Clear()
}

// =============================================================================
// STREAMING PATH
// =============================================================================

// runStreaming drives a streamed turn, applying each event in decode order.
func (c *Controller) runStreaming(ctx context.Context, message string) {
	c.store.AppendUser(message)
	if err := c.store.BeginAssistantTurn(); err != nil {
		return
	}
	c.notify()

	terminal := false
	err := c.transport.ChatStream(ctx, message, c.id.String(), func(ev tutor.Event) {
		switch ev.Kind {
		case tutor.KindDelta:
			c.store.ApplyDelta(ev.Content)
			c.store.ClearSearching()
		case tutor.KindToolCall:
			c.store.MarkSearching()
		case tutor.KindDone:
			c.store.Finalize(ev.Content)
			terminal = true
		case tutor.KindError:
			c.store.Fail("Error: " + ev.Content)
			terminal = true
		}
		c.notify()
	})

	if terminal {
		return
	}
	if err != nil {
		c.store.Fail(FallbackMessage)
		return
	}
	// End-of-stream with no done/error event: the accumulated content is the
	// answer.
	c.store.Finalize("")
}

// =============================================================================
// HEALTH
// =============================================================================

// Health returns the last classified status; HealthUnknown before any probe.
func (c *Controller) Health() tutor.HealthStatus {
	c.healthMu.Lock()
	defer c.healthMu.Unlock()
	return c.health
}

// ProbeHealth re-probes the service and caches the classification. Rapid
// repeat calls are coalesced to the cached value. Independent of the turn
// lock: probing is legal mid-stream.
func (c *Controller) ProbeHealth(ctx context.Context) tutor.HealthStatus {
	if !c.probes.Allow() {
		return c.Health()
	}

	status := c.transport.CheckHealth(ctx)

	c.healthMu.Lock()
	c.health = status
	c.healthMu.Unlock()

	c.notify()
	return status
}

// =============================================================================
// TEARDOWN
// =============================================================================

// Close aborts any in-flight turn and rejects all later submissions. The
// aborted turn resolves through its normal failure path, so the transcript is
// left in a terminal state.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c.sel != nil {
		c.sel.Close()
	}
}
