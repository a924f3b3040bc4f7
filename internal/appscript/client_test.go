package appscript

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveRemoteCall(_ context.Context, _, _, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func newScript(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Call_SendsActionAndBearer(t *testing.T) {
	var gotBody map[string]any
	var gotAuth, gotContentType string

	srv := newScript(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"success":true,"message":"ok","data":[{"id":1}]}`))
	})

	obs := &recordingObserver{}
	client := NewClient(Config{URL: srv.URL, Secret: "s3cret", Timeout: time.Second}, obs)

	resp, err := client.Call(context.Background(), Request{
		Entity: "products",
		Action: "create",
		Fields: map[string]any{"name": "Teh", "action": "spoofed"},
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Message)
	assert.JSONEq(t, `[{"id":1}]`, string(resp.Data))

	assert.Equal(t, "Bearer s3cret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "create", gotBody["action"])
	assert.Equal(t, "products", gotBody["entity"])
	assert.Equal(t, "Teh", gotBody["name"])
	assert.Equal(t, []string{OutcomeOK}, obs.outcomes)
}

func TestClient_Call_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		expectIs    error
		expectMsg   string
		outcome     string
	}{
		{
			name:        "html page is not parsed",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			body:        `{"success":true}`,
			expectIs:    ErrInvalidRemoteResponse,
			outcome:     OutcomeInvalidResponse,
		},
		{
			name:        "broken json",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"success":`,
			expectIs:    ErrInvalidRemoteResponse,
			outcome:     OutcomeInvalidResponse,
		},
		{
			name:        "rejection",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"success":false,"message":"Branch not found"}`,
			expectMsg:   "Branch not found",
			outcome:     OutcomeRejected,
		},
		{
			name:        "rejection on error status",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"success":false,"message":"Name is required"}`,
			expectMsg:   "Name is required",
			outcome:     OutcomeRejected,
		},
		{
			name:     "error status without body",
			status:   http.StatusBadGateway,
			expectIs: ErrRemoteUnavailable,
			outcome:  OutcomeUnavailable,
		},
		{
			name:        "error status claiming success",
			status:      http.StatusInternalServerError,
			contentType: "application/json",
			body:        `{"success":true}`,
			expectIs:    ErrRemoteUnavailable,
			outcome:     OutcomeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newScript(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			obs := &recordingObserver{}
			client := NewClient(Config{URL: srv.URL}, obs)

			resp, err := client.Call(context.Background(), Request{Entity: "branches", Action: "get"})
			require.Error(t, err)
			assert.Nil(t, resp)

			if tt.expectIs != nil {
				assert.ErrorIs(t, err, tt.expectIs)
			}
			if tt.expectMsg != "" {
				var rejected *RejectedError
				require.True(t, errors.As(err, &rejected))
				assert.Equal(t, tt.expectMsg, rejected.Message)
			}
			assert.Equal(t, []string{tt.outcome}, obs.outcomes)
		})
	}
}

func TestClient_Call_MissingConfiguration(t *testing.T) {
	client := NewClient(Config{}, nil)

	_, err := client.Call(context.Background(), Request{Action: "list"})
	assert.ErrorIs(t, err, ErrMissingConfiguration)
}

func TestClient_Call_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Config{URL: url, Timeout: time.Second}, nil)

	_, err := client.Call(context.Background(), Request{Action: "list"})
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestClient_Call_NoRetry(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := newScript(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := NewClient(Config{URL: srv.URL}, nil)
	_, err := client.Call(context.Background(), Request{Action: "list"})
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestClient_Call_ThrottleHonoursContext(t *testing.T) {
	srv := newScript(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})

	client := NewClient(Config{URL: srv.URL, RequestsPerSecond: 0.01}, nil)

	_, err := client.Call(context.Background(), Request{Action: "list"})
	require.NoError(t, err)

	// the single token is spent; the next call cannot be admitted before the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Call(ctx, Request{Action: "list"})
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("application/json"))
	assert.True(t, isJSON("application/json; charset=utf-8"))
	assert.True(t, isJSON("application/problem+json"))
	assert.False(t, isJSON("text/html"))
	assert.False(t, isJSON(""))
}
