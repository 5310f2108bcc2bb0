// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
)

// ClientError represents an error from the tutor client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ServerError reports a non-2xx response, before any of the body is read.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return "server returned status " + strconv.Itoa(e.Status)
}

// Sentinel errors for easy checking.
var (
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "tutor service is unreachable"}
)

// IsServerError reports whether err is a ServerError and returns its status.
func IsServerError(err error) (int, bool) {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Status, true
	}
	return 0, false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Config holds configuration options for the tutor client.
type Config struct {
	// BaseURL is the tutor service base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// HealthTimeout for the liveness probe (default: 5s)
	HealthTimeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "http://127.0.0.1:8000",
		Timeout:       30 * time.Second,
		HealthTimeout: 5 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the tutor service. It performs no
// retries; retry policy belongs to the caller.
//
// The Client is safe for concurrent use: a health probe may run while a chat
// turn is streaming.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a tutor client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a tutor client with custom configuration.
func NewClientWithConfig(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.HealthTimeout == 0 {
		config.HealthTimeout = 5 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream sends a message to the streaming chat endpoint and delivers each
// decoded event to the callback, strictly in stream order. A non-2xx status
// fails with *ServerError before any of the body is read. Returns when the
// stream ends or the context is cancelled.
func (c *Client) ChatStream(ctx context.Context, message, sessionID string, callback EventCallback) error {
	body, err := json.Marshal(streamRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat/stream", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	// Use a client without timeout for streaming (cancellation via context)
	streamClient := &http.Client{}

	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "stream request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		drain(resp.Body)
		return &ServerError{Status: resp.StatusCode}
	}

	return NewStreamReader(resp.Body).Process(ctx, callback)
}

// =============================================================================
// SELECTED-TEXT CHAT
// =============================================================================

// ChatSelected asks a question about a selected passage. This path is not
// streamed: the endpoint replies with a single JSON object.
func (c *Client) ChatSelected(ctx context.Context, selectedText, question, sessionID string) (*SelectedResponse, error) {
	body, err := json.Marshal(selectedRequest{
		SelectedText: selectedText,
		Question:     question,
		SessionID:    sessionID,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat/selected", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		drain(resp.Body)
		return nil, &ServerError{Status: resp.StatusCode}
	}

	var result SelectedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// HEALTH PROBE
// =============================================================================

// CheckHealth probes the service's liveness. A status of "healthy" or
// "degraded" maps to HealthAvailable; any other value, a decode failure, or
// any transport failure maps to HealthUnavailable. The probe never returns an
// error: unreachable is a classification, not a failure.
func (c *Client) CheckHealth(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/health", nil)
	if err != nil {
		return HealthUnavailable
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return HealthUnavailable
	}

	var result healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return HealthUnavailable
	}

	switch result.Status {
	case "healthy", "degraded":
		return HealthAvailable
	default:
		return HealthUnavailable
	}
}

// drain discards the rest of a response body so the connection can be reused.
func drain(r io.Reader) {
	io.Copy(io.Discard, r)
}
