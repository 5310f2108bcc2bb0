// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
)

// =============================================================================
// LINE FRAMER
// =============================================================================

// eventPrefix marks a line that carries protocol payload. Lines without it
// are protocol padding (SSE comments, keep-alives) and are ignored.
var eventPrefix = []byte("data: ")

// Framer reassembles logical protocol lines from an arbitrarily-chunked byte
// stream. It carries the trailing incomplete line (and therefore any trailing
// incomplete multi-byte character) across Feed calls, so chunk boundaries
// never lose or corrupt data.
//
// The zero value is ready to use. Framer is not safe for concurrent use; a
// stream has exactly one reader.
type Framer struct {
	carry []byte
}

// Feed appends chunk to the carried fragment and returns every complete line
// found, without trailing newlines. The (possibly empty) fragment after the
// last newline becomes the new carry.
func (f *Framer) Feed(chunk []byte) [][]byte {
	if len(chunk) == 0 {
		return nil
	}

	buf := append(f.carry, chunk...)
	segments := bytes.Split(buf, []byte{'\n'})

	// The last segment is an incomplete line (empty if buf ended in '\n').
	last := segments[len(segments)-1]
	f.carry = append([]byte(nil), last...)

	lines := make([][]byte, 0, len(segments)-1)
	for _, line := range segments[:len(segments)-1] {
		lines = append(lines, bytes.TrimSuffix(line, []byte{'\r'}))
	}
	return lines
}

// Pending returns the number of carried bytes awaiting a newline.
// A non-empty carry at end-of-stream is discarded, never flushed: a line
// that was never terminated was never a complete protocol frame.
func (f *Framer) Pending() int {
	return len(f.carry)
}

// =============================================================================
// EVENT DECODING
// =============================================================================

// DecodeEvent parses a complete line into a protocol event.
// Returns false for padding lines (no "data: " prefix), malformed JSON, and
// unrecognized event types; all three are dropped silently and never abort
// the stream.
func DecodeEvent(line []byte) (Event, bool) {
	if !bytes.HasPrefix(line, eventPrefix) {
		return Event{}, false
	}

	var wire streamEvent
	if err := json.Unmarshal(line[len(eventPrefix):], &wire); err != nil {
		return Event{}, false
	}

	switch wire.Type {
	case "delta":
		return Event{Kind: KindDelta, Content: wire.Content}, true
	case "tool_call":
		return Event{Kind: KindToolCall}, true
	case "done":
		return Event{Kind: KindDone, Content: wire.Content}, true
	case "error":
		return Event{Kind: KindError, Content: wire.Content}, true
	default:
		return Event{}, false
	}
}

// =============================================================================
// STREAM READER
// =============================================================================

// readBufferSize is the read granularity for streaming bodies. Correctness
// does not depend on it: the Framer tolerates any chunking.
const readBufferSize = 4096

// StreamReader drives a Framer over a live byte source and delivers decoded
// events to a callback.
type StreamReader struct {
	source io.Reader
	framer Framer
	buf    []byte
}

// NewStreamReader creates a stream reader over an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		source: r,
		buf:    make([]byte, readBufferSize),
	}
}

// Process reads the stream to completion, invoking the callback for each
// decoded event strictly in stream order. It returns nil on end-of-stream or
// after delivering a done or error event (the server has nothing further to
// say), and the read error otherwise. Context cancellation is checked between
// reads.
func (s *StreamReader) Process(ctx context.Context, callback EventCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := s.source.Read(s.buf)
		if n > 0 {
			for _, line := range s.framer.Feed(s.buf[:n]) {
				ev, ok := DecodeEvent(line)
				if !ok {
					continue
				}
				callback(ev)
				if ev.Kind == KindDone || ev.Kind == KindError {
					return nil
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				// Any carried partial line is discarded, not flushed.
				return nil
			}
			return err
		}
	}
}
