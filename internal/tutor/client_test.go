// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// STREAMING CHAT TESTS
// =============================================================================

func TestChatStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/stream" {
			t.Errorf("path = %q, want /api/chat/stream", r.URL.Path)
		}
		var req streamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("request body: %v", err)
		}
		if req.Message != "Hello" {
			t.Errorf("message = %q, want 'Hello'", req.Message)
		}
		if req.SessionID == "" {
			t.Error("session_id missing from request body")
		}

		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range []string{
			"data: {\"type\":\"delta\",\"content\":\"Hi\"}\n",
			"data: {\"type\":\"delta\",\"content\":\" there\"}\n",
			"data: {\"type\":\"done\",\"content\":\"Hi there\"}\n",
		} {
			w.Write([]byte(line))
			flusher.Flush()
		}
	}))
	defer server.Close()

	client := NewClientWithConfig(&Config{BaseURL: server.URL})

	var deltas strings.Builder
	var final string
	err := client.ChatStream(context.Background(), "Hello", "session-1", func(ev Event) {
		switch ev.Kind {
		case KindDelta:
			deltas.WriteString(ev.Content)
		case KindDone:
			final = ev.Content
		}
	})
	if err != nil {
		t.Fatalf("ChatStream error: %v", err)
	}

	if deltas.String() != "Hi there" {
		t.Errorf("accumulated deltas = %q, want 'Hi there'", deltas.String())
	}
	if final != "Hi there" {
		t.Errorf("done content = %q, want 'Hi there'", final)
	}
}

func TestChatStreamServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClientWithConfig(&Config{BaseURL: server.URL})

	called := false
	err := client.ChatStream(context.Background(), "Hello", "s", func(Event) { called = true })

	status, ok := IsServerError(err)
	if !ok {
		t.Fatalf("error = %v, want *ServerError", err)
	}
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
	if called {
		t.Error("callback invoked despite non-2xx response")
	}
}

func TestChatStreamConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening

	client := NewClientWithConfig(&Config{BaseURL: server.URL})
	err := client.ChatStream(context.Background(), "Hello", "s", func(Event) {})
	if err == nil {
		t.Fatal("ChatStream against closed server returned nil error")
	}
	if _, ok := IsServerError(err); ok {
		t.Errorf("connection failure reported as server error: %v", err)
	}
}

// =============================================================================
// SELECTED-TEXT CHAT TESTS
// =============================================================================

func TestChatSelected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/selected" {
			t.Errorf("path = %q, want /api/chat/selected", r.URL.Path)
		}
		var req selectedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("request body: %v", err)
		}
		if req.SelectedText != "some passage" || req.Question != "What does this mean?" {
			t.Errorf("body = %+v", req)
		}
		json.NewEncoder(w).Encode(SelectedResponse{Response: "It means this."})
	}))
	defer server.Close()

	client := NewClientWithConfig(&Config{BaseURL: server.URL})
	resp, err := client.ChatSelected(context.Background(), "some passage", "What does this mean?", "s")
	if err != nil {
		t.Fatalf("ChatSelected error: %v", err)
	}
	if resp.Response != "It means this." {
		t.Errorf("response = %q, want 'It means this.'", resp.Response)
	}
}

func TestChatSelectedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClientWithConfig(&Config{BaseURL: server.URL})
	_, err := client.ChatSelected(context.Background(), "text", "q", "s")
	if status, ok := IsServerError(err); !ok || status != http.StatusBadRequest {
		t.Errorf("error = %v, want *ServerError{400}", err)
	}
}

// =============================================================================
// HEALTH PROBE TESTS
// =============================================================================

func TestCheckHealthMapping(t *testing.T) {
	tests := []struct {
		status string
		want   HealthStatus
	}{
		{"healthy", HealthAvailable},
		{"degraded", HealthAvailable},
		{"unhealthy", HealthUnavailable},
		{"unknown", HealthUnavailable},
		{"outage", HealthUnavailable},
		{"", HealthUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/health" {
					t.Errorf("path = %q, want /api/health", r.URL.Path)
				}
				json.NewEncoder(w).Encode(healthResponse{Status: tt.status})
			}))
			defer server.Close()

			client := NewClientWithConfig(&Config{BaseURL: server.URL})
			if got := client.CheckHealth(context.Background()); got != tt.want {
				t.Errorf("CheckHealth(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestCheckHealthNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClientWithConfig(&Config{BaseURL: server.URL})
	if got := client.CheckHealth(context.Background()); got != HealthUnavailable {
		t.Errorf("CheckHealth against closed server = %v, want HealthUnavailable", got)
	}
}

func TestCheckHealthMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClientWithConfig(&Config{BaseURL: server.URL})
	if got := client.CheckHealth(context.Background()); got != HealthUnavailable {
		t.Errorf("CheckHealth with malformed body = %v, want HealthUnavailable", got)
	}
}

// =============================================================================
// CONFIGURATION TESTS
// =============================================================================

func TestNewClientWithConfigDefaults(t *testing.T) {
	client := NewClientWithConfig(&Config{})

	if client.config.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q", client.config.BaseURL)
	}
	if client.config.Timeout == 0 || client.config.HealthTimeout == 0 {
		t.Error("zero timeouts were not filled with defaults")
	}
}

func TestNewClientWithNilConfig(t *testing.T) {
	client := NewClientWithConfig(nil)
	if client.BaseURL() != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q", client.BaseURL())
	}
}
