// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the HTTP client for the Physical AI tutor service.
//
// The service exposes three endpoints:
//   - POST /api/chat/stream: streaming chat, SSE-framed line protocol
//   - POST /api/chat/selected: single-shot question about selected text
//   - GET  /api/health: liveness probe
//
// Streaming responses are a sequence of text lines; only lines prefixed with
// "data: " carry protocol payload. The payload is a small JSON event with a
// type of delta, tool_call, done, or error. Framing is tolerant of arbitrary
// chunk boundaries: a logical line split anywhere across two reads, including
// in the middle of a multi-byte character, decodes identically to the unsplit
// stream.
package tutor
