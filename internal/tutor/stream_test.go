// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"io"
	"reflect"
	"strings"
	"testing"
)

// =============================================================================
// FRAMER TESTS
// =============================================================================

func TestFramerSingleFeed(t *testing.T) {
	var f Framer
	lines := f.Feed([]byte("one\ntwo\nthree"))

	if len(lines) != 2 {
		t.Fatalf("Feed returned %d lines, want 2", len(lines))
	}
	if string(lines[0]) != "one" || string(lines[1]) != "two" {
		t.Errorf("lines = %q, %q; want 'one', 'two'", lines[0], lines[1])
	}
	if f.Pending() != len("three") {
		t.Errorf("Pending = %d, want %d", f.Pending(), len("three"))
	}
}

func TestFramerCarryAcrossFeeds(t *testing.T) {
	var f Framer

	if lines := f.Feed([]byte("hel")); len(lines) != 0 {
		t.Fatalf("incomplete line produced %d lines", len(lines))
	}
	lines := f.Feed([]byte("lo\nworld\n"))
	if len(lines) != 2 {
		t.Fatalf("Feed returned %d lines, want 2", len(lines))
	}
	if string(lines[0]) != "hello" {
		t.Errorf("carried line = %q, want 'hello'", lines[0])
	}
	if string(lines[1]) != "world" {
		t.Errorf("second line = %q, want 'world'", lines[1])
	}
	if f.Pending() != 0 {
		t.Errorf("Pending = %d after terminated feed, want 0", f.Pending())
	}
}

func TestFramerTrimsCarriageReturn(t *testing.T) {
	var f Framer
	lines := f.Feed([]byte("alpha\r\nbeta\n"))

	if len(lines) != 2 {
		t.Fatalf("Feed returned %d lines, want 2", len(lines))
	}
	if string(lines[0]) != "alpha" {
		t.Errorf("line = %q, want 'alpha' without CR", lines[0])
	}
}

func TestFramerEmptyChunk(t *testing.T) {
	var f Framer
	f.Feed([]byte("partial"))
	if lines := f.Feed(nil); lines != nil {
		t.Errorf("empty chunk produced lines: %q", lines)
	}
	if f.Pending() != len("partial") {
		t.Errorf("empty chunk disturbed carry: Pending = %d", f.Pending())
	}
}

// =============================================================================
// DECODE TESTS
// =============================================================================

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     Event
		wantOK   bool
	}{
		{"delta", `data: {"type":"delta","content":"Hi"}`, Event{Kind: KindDelta, Content: "Hi"}, true},
		{"tool call", `data: {"type":"tool_call"}`, Event{Kind: KindToolCall}, true},
		{"done", `data: {"type":"done","content":"Hi there"}`, Event{Kind: KindDone, Content: "Hi there"}, true},
		{"error", `data: {"type":"error","content":"boom"}`, Event{Kind: KindError, Content: "boom"}, true},
		{"no prefix", `{"type":"delta","content":"Hi"}`, Event{}, false},
		{"padding", `: keep-alive`, Event{}, false},
		{"empty line", ``, Event{}, false},
		{"malformed json", `data: {"type":"delta",`, Event{}, false},
		{"unknown type", `data: {"type":"metrics","content":"x"}`, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeEvent([]byte(tt.line))
			if ok != tt.wantOK {
				t.Fatalf("DecodeEvent ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DecodeEvent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// CHUNK-BOUNDARY INSENSITIVITY
// =============================================================================

// decodeAll runs the full stream through a fresh framer in the given chunks
// and collects every decoded event.
func decodeAll(chunks ...[]byte) []Event {
	var f Framer
	var events []Event
	for _, chunk := range chunks {
		for _, line := range f.Feed(chunk) {
			if ev, ok := DecodeEvent(line); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

func TestChunkBoundaryInsensitivity(t *testing.T) {
	stream := []byte("data: {\"type\":\"delta\",\"content\":\"Hi\"}\n" +
		"data: {\"type\":\"tool_call\"}\n" +
		"data: {\"type\":\"delta\",\"content\":\" th\\u00e9re\"}\n" +
		"data: {\"type\":\"done\",\"content\":\"Hi thére\"}\n")

	want := decodeAll(stream)
	if len(want) != 4 {
		t.Fatalf("reference decode produced %d events, want 4", len(want))
	}

	// Split at every possible byte boundary, including mid-line and
	// mid-multibyte-character.
	for i := 1; i < len(stream); i++ {
		got := decodeAll(stream[:i], stream[i:])
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("split at byte %d decoded %+v, want %+v", i, got, want)
		}
	}

	// Byte-at-a-time delivery.
	var chunks [][]byte
	for i := range stream {
		chunks = append(chunks, stream[i:i+1])
	}
	if got := decodeAll(chunks...); !reflect.DeepEqual(got, want) {
		t.Errorf("byte-at-a-time decode = %+v, want %+v", got, want)
	}
}

func TestMalformedLineTolerance(t *testing.T) {
	clean := "data: {\"type\":\"delta\",\"content\":\"a\"}\n" +
		"data: {\"type\":\"delta\",\"content\":\"b\"}\n"
	dirty := "data: {\"type\":\"delta\",\"content\":\"a\"}\n" +
		"data: {not json at all\n" +
		"data: {\"type\":\"wat\"}\n" +
		"event: noise\n" +
		"data: {\"type\":\"delta\",\"content\":\"b\"}\n"

	want := decodeAll([]byte(clean))
	got := decodeAll([]byte(dirty))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dirty stream decoded %+v, want %+v", got, want)
	}
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

// trickleReader yields the underlying data a fixed number of bytes per Read.
type trickleReader struct {
	data []byte
	step int
}

func (r *trickleReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.step
	if n > len(r.data) || n > len(p) {
		n = min(len(r.data), len(p))
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestStreamReaderProcess(t *testing.T) {
	stream := "data: {\"type\":\"delta\",\"content\":\"Hi\"}\n" +
		"data: {\"type\":\"delta\",\"content\":\" there\"}\n" +
		"data: {\"type\":\"done\",\"content\":\"Hi there\"}\n"

	for _, step := range []int{1, 3, 7, 4096} {
		reader := NewStreamReader(&trickleReader{data: []byte(stream), step: step})

		var kinds []EventKind
		var content strings.Builder
		err := reader.Process(context.Background(), func(ev Event) {
			kinds = append(kinds, ev.Kind)
			if ev.Kind == KindDelta {
				content.WriteString(ev.Content)
			}
		})
		if err != nil {
			t.Fatalf("step %d: Process error: %v", step, err)
		}

		wantKinds := []EventKind{KindDelta, KindDelta, KindDone}
		if !reflect.DeepEqual(kinds, wantKinds) {
			t.Errorf("step %d: kinds = %v, want %v", step, kinds, wantKinds)
		}
		if content.String() != "Hi there" {
			t.Errorf("step %d: accumulated = %q, want 'Hi there'", step, content.String())
		}
	}
}

func TestStreamReaderDiscardsTrailingPartial(t *testing.T) {
	// The final line is never terminated: it must not decode.
	stream := "data: {\"type\":\"delta\",\"content\":\"a\"}\n" +
		"data: {\"type\":\"delta\",\"content\":\"never-terminated\"}"

	reader := NewStreamReader(strings.NewReader(stream))
	var events []Event
	if err := reader.Process(context.Background(), func(ev Event) {
		events = append(events, ev)
	}); err != nil {
		t.Fatalf("Process error: %v", err)
	}

	if len(events) != 1 || events[0].Content != "a" {
		t.Errorf("events = %+v, want single delta 'a'", events)
	}
}

func TestStreamReaderStopsAfterDone(t *testing.T) {
	stream := "data: {\"type\":\"done\",\"content\":\"x\"}\n" +
		"data: {\"type\":\"delta\",\"content\":\"late\"}\n"

	reader := NewStreamReader(strings.NewReader(stream))
	var events []Event
	if err := reader.Process(context.Background(), func(ev Event) {
		events = append(events, ev)
	}); err != nil {
		t.Fatalf("Process error: %v", err)
	}

	if len(events) != 1 || events[0].Kind != KindDone {
		t.Errorf("events after done = %+v, want only the done event", events)
	}
}

func TestStreamReaderContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewStreamReader(strings.NewReader("data: {\"type\":\"delta\",\"content\":\"a\"}\n"))
	err := reader.Process(ctx, func(Event) {})
	if err != context.Canceled {
		t.Errorf("Process with cancelled context = %v, want context.Canceled", err)
	}
}
