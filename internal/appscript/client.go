package appscript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxResponseBytes bounds a single full-sheet fetch
const maxResponseBytes = 32 << 20

// Config is the explicit configuration of the remote data source
type Config struct {
	URL    string
	Secret string
	// Timeout bounds one round trip. Zero leaves only the caller's context.
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
}

// Observer receives one notification per round trip
type Observer interface {
	ObserveRemoteCall(ctx context.Context, entity, action, outcome string, d time.Duration)
}

// Request is one action sent to the script. Fields are merged into the JSON
// body next to "action" and "entity".
type Request struct {
	Entity string
	Action string
	Fields map[string]any
}

// Response is the script's answer. Data stays raw so callers can decode it
// into their own entity types.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client talks to the spreadsheet-backed Apps Script endpoint
type Client struct {
	url        string
	secret     string
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   Observer
}

// NewClient creates a new Apps Script client. observer may be nil.
func NewClient(cfg Config, observer Observer) *Client {
	c := &Client{
		url:    strings.TrimSpace(cfg.URL),
		secret: cfg.Secret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		observer: observer,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// Call sends one action and returns the decoded envelope. It never retries.
func (c *Client) Call(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := c.call(ctx, req)

	if c.observer != nil {
		c.observer.ObserveRemoteCall(ctx, req.Entity, req.Action, outcomeOf(err), time.Since(start))
	}
	if err != nil {
		slog.Warn("Apps Script call failed",
			"entity", req.Entity,
			"action", req.Action,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return nil, err
	}

	slog.Debug("Apps Script call succeeded",
		"entity", req.Entity,
		"action", req.Action,
		"duration_ms", time.Since(start).Milliseconds(),
		"data_bytes", len(resp.Data))
	return resp, nil
}

func (c *Client) call(ctx context.Context, req Request) (*Response, error) {
	if c.url == "" {
		return nil, ErrMissingConfiguration
	}

	payload := make(map[string]any, len(req.Fields)+2)
	for k, v := range req.Fields {
		payload[k] = v
	}
	payload["action"] = req.Action
	if req.Entity != "" {
		payload["entity"] = req.Entity
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: throttle wait: %v", ErrRemoteUnavailable, err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.secret != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.secret)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrRemoteUnavailable, err)
	}

	ok2xx := httpResp.StatusCode >= 200 && httpResp.StatusCode < 300
	if !ok2xx && len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: status %d with empty body", ErrRemoteUnavailable, httpResp.StatusCode)
	}

	if !isJSON(httpResp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: content type %q", ErrInvalidRemoteResponse, httpResp.Header.Get("Content-Type"))
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRemoteResponse, err)
	}

	if !decoded.Success {
		return nil, &RejectedError{Message: decoded.Message}
	}
	if !ok2xx {
		return nil, fmt.Errorf("%w: status %d", ErrRemoteUnavailable, httpResp.StatusCode)
	}

	return &decoded, nil
}

// isJSON accepts application/json and any +json media type
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
