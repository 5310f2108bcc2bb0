// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package selection captures qualifying text selections for "ask about this".
//
// The observer maps pointer-release events to a bounded selection context. It
// never touches the network; it only decides whether a selection qualifies
// and, if so, holds a clamped copy until the selection is used or a
// disqualifying release invalidates it.
package selection

import (
	"strings"
	"sync"

	"github.com/jeranaias/tutor-tui/internal/util"
)

// =============================================================================
// QUALIFICATION LIMITS
// =============================================================================

const (
	// MinRunes is the exclusive lower bound: a trimmed selection qualifies
	// only when it is strictly longer than this.
	MinRunes = 10

	// MaxCaptureRunes clamps the captured text at capture time.
	MaxCaptureRunes = 5000
)

// =============================================================================
// EVENT AND CAPTURE TYPES
// =============================================================================

// Anchor is the screen position of a selection, used to place the offer
// tooltip.
type Anchor struct {
	X int
	Y int
}

// Release is one pointer-release event with the selection active at that
// moment. InWidget marks releases inside the widget's own chrome, which
// never qualify.
type Release struct {
	Text     string
	Anchor   Anchor
	InWidget bool
}

// Capture is a qualified, clamped selection context.
type Capture struct {
	Text   string
	Anchor Anchor
}

// =============================================================================
// SOURCE SUBSCRIPTION
// =============================================================================

// Source is anything that emits pointer-release events the observer can
// subscribe to. The returned Subscription must be closed on teardown so no
// free-floating handler outlives the widget.
type Source interface {
	Subscribe(handler func(Release)) Subscription
}

// Subscription is the handle to an active event subscription.
type Subscription interface {
	Close()
}

// =============================================================================
// OBSERVER
// =============================================================================

// Observer watches pointer releases and exposes the current capture.
// Safe for concurrent use.
type Observer struct {
	mu      sync.Mutex
	capture *Capture
	sub     Subscription
}

// NewObserver creates an observer with no capture and no subscription.
func NewObserver() *Observer {
	return &Observer{}
}

// Attach subscribes the observer to a source. A previous subscription, if
// any, is closed first.
func (o *Observer) Attach(src Source) {
	o.mu.Lock()
	prev := o.sub
	o.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	sub := src.Subscribe(o.Handle)
	o.mu.Lock()
	o.sub = sub
	o.mu.Unlock()
}

// Handle processes one pointer-release event. A qualifying selection
// replaces the capture; anything else (too short, empty, or inside the
// widget) clears it and hides the offer.
func (o *Observer) Handle(r Release) {
	trimmed := strings.TrimSpace(r.Text)

	o.mu.Lock()
	defer o.mu.Unlock()

	if r.InWidget || util.RuneLen(trimmed) <= MinRunes {
		o.capture = nil
		return
	}

	o.capture = &Capture{
		Text:   util.TruncateRunesNoEllipsis(trimmed, MaxCaptureRunes),
		Anchor: r.Anchor,
	}
}

// Capture returns the current capture, if one is held. The second return is
// the "offer tooltip" signal.
func (o *Observer) Capture() (Capture, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.capture == nil {
		return Capture{}, false
	}
	return *o.capture, true
}

// Clear drops the capture, hiding the offer.
func (o *Observer) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.capture = nil
}

// Close releases the subscription and drops any capture. Safe to call more
// than once.
func (o *Observer) Close() {
	o.mu.Lock()
	sub := o.sub
	o.sub = nil
	o.capture = nil
	o.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}
