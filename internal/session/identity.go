// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the widget's session identity.
//
// A session identity is created once per activation, reused on every request
// for its lifetime, and never persisted. There is nothing to authenticate
// here: the token only lets the backend correlate the turns of one
// conversation.
package session

import "github.com/google/uuid"

// Identity is the opaque per-activation session token, a UUIDv4 string.
type Identity string

// New generates a fresh session identity. Call it exactly once per widget
// activation; the result is immutable.
func New() Identity {
	return Identity(uuid.NewString())
}

// String returns the token in its wire form.
func (id Identity) String() string {
	return string(id)
}

// Short returns the first eight characters, for status-line display.
func (id Identity) Short() string {
	if len(id) < 8 {
		return string(id)
	}
	return string(id[:8])
}
