// Package metricsapi is the HTTP client for the backend metrics API that
// computes and serves the raw bot figures.
package metricsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"alphagex/dashboard/internal/model"
)

// TransportError marks a call that never completed (timeout, connection
// refused). Kept distinct from RejectionError so callers can tell "network
// error, try again" apart from an actual backend failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("metrics API unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectionError marks a call that completed but reported failure. Detail
// carries the backend's own message when it supplied one.
type RejectionError struct {
	StatusCode int
	Detail     string
}

func (e *RejectionError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("metrics API rejected the request (status %d)", e.StatusCode)
}

// Client represents the metrics API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new metrics API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// mutationResponse is the envelope returned by capital-update and reset
type mutationResponse struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
}

// GetBotStatus fetches the raw status flags for a bot
func (c *Client) GetBotStatus(ctx context.Context, botID string) (*model.BotStatusSnapshot, error) {
	var snap model.BotStatusSnapshot
	if err := c.getJSON(ctx, fmt.Sprintf("/api/bots/%s/status", botID), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetMetricsSummary fetches the server-computed performance summary for a bot
func (c *Client) GetMetricsSummary(ctx context.Context, botID string) (*model.MetricsSummary, error) {
	var summary model.MetricsSummary
	if err := c.getJSON(ctx, fmt.Sprintf("/api/bots/%s/metrics-summary", botID), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetCapitalConfig fetches the capital configuration for a bot
func (c *Client) GetCapitalConfig(ctx context.Context, botID string) (*model.CapitalConfig, error) {
	var cfg model.CapitalConfig
	if err := c.getJSON(ctx, fmt.Sprintf("/api/bots/%s/capital-config", botID), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetReconciliation fetches the latest consistency check result for a bot
func (c *Client) GetReconciliation(ctx context.Context, botID string) (*model.ReconciliationResult, error) {
	var result model.ReconciliationResult
	if err := c.getJSON(ctx, fmt.Sprintf("/api/bots/%s/reconciliation", botID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateCapital sets a bot's starting capital. The caller validates the
// amount before this is invoked.
func (c *Client) UpdateCapital(ctx context.Context, botID string, amount float64) error {
	body := map[string]float64{"amount": amount}
	return c.postJSON(ctx, fmt.Sprintf("/api/bots/%s/capital", botID), body)
}

// Reset asks the backend to reset a bot's stored metrics. The exact reset
// semantics belong to the backend.
func (c *Client) Reset(ctx context.Context, botID string) error {
	return c.postJSON(ctx, fmt.Sprintf("/api/bots/%s/reset", botID), nil)
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &RejectionError{StatusCode: resp.StatusCode, Detail: rejectionDetail(payload)}
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &RejectionError{StatusCode: resp.StatusCode, Detail: rejectionDetail(payload)}
	}

	var result mutationResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !result.Success {
		return &RejectionError{StatusCode: resp.StatusCode, Detail: result.Detail}
	}
	return nil
}

// rejectionDetail pulls a human-readable message out of an error payload
func rejectionDetail(payload []byte) string {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Detail != "" {
		return body.Detail
	}
	return body.Error
}
