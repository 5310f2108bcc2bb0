// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface: argument parsing and
// the ask, chat and status handlers for plain terminals and scripts.
package cli
