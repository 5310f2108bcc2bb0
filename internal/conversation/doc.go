// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation holds the in-memory chat transcript.
//
// The transcript is append-only: once a message reaches a terminal status it
// is never mutated again. The single in-flight assistant message lives in a
// dedicated current-turn slot, separate from the finalized history, and is
// merged into the history when it terminates. At most one turn is open at a
// time.
//
// Nothing here is persisted; the transcript dies with the process.
package conversation
