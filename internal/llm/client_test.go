package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/",
		Model:   "gpt-3.5-turbo",
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return c, &hits
}

func TestNewClient_RequiresKeyAndModel(t *testing.T) {
	_, err := NewClient(Config{Model: "gpt-3.5-turbo"})
	assert.Error(t, err)

	_, err = NewClient(Config{APIKey: "sk-test"})
	assert.Error(t, err)
}

func TestComplete_Success(t *testing.T) {
	var got chatRequest
	var auth, path string
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("10.0.0.1 -> [REDACTED]")))
	})

	out, err := c.Complete(context.Background(), "the prompt", 0.2)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1 -> [REDACTED]", out)
	assert.EqualValues(t, 1, hits.Load())
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "the prompt", got.Messages[0].Content)
}

func TestComplete_APIErrorIsNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":{"message":"upstream said no","type":"invalid_request_error"}}`))
			})

			_, err := c.Complete(context.Background(), "p", 0.3)
			require.Error(t, err)

			assert.ErrorIs(t, err, ErrServiceCall)
			var sce *ServiceCallError
			require.True(t, errors.As(err, &sce))
			assert.Equal(t, FaultAPI, sce.Kind)
			assert.Equal(t, status, sce.StatusCode)
			assert.NotEmpty(t, err.Error())
			assert.EqualValues(t, 1, hits.Load())
		})
	}
}

func TestComplete_NoChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo","choices":[]}`))
	})

	_, err := c.Complete(context.Background(), "p", 0.2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceCall)

	var sce *ServiceCallError
	require.True(t, errors.As(err, &sce))
	assert.Equal(t, FaultMalformed, sce.Kind)
	assert.Contains(t, err.Error(), "no choices")
}

func TestComplete_Timeout(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "gpt-3.5-turbo", Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Complete(context.Background(), "p", 0.2)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrServiceCall)
	assert.Less(t, time.Since(start), time.Second)
	assert.EqualValues(t, 1, hits.Load())
}

func TestComplete_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: url + "/", Model: "gpt-3.5-turbo", Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p", 0.2)
	require.Error(t, err)

	var sce *ServiceCallError
	require.True(t, errors.As(err, &sce))
	assert.Equal(t, FaultTransport, sce.Kind)
}
