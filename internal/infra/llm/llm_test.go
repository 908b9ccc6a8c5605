package infra_llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"github.com/ShivanshCoding36/college-companion/internal/config"
)

type LLMClientSuite struct {
	suite.Suite
}

func newClient(t provider.T, handler http.HandlerFunc, opts ...Option) (*Client, *atomic.Int32) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return New(config.LLM{
		BaseURL:  srv.URL + "/v1",
		APIKey:   "secret",
		Model:    "test-model",
		Timeout:  time.Second,
	}, opts...), &calls
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
	failing bool
}

func (m *mapCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return "", false, errors.New("cache down")
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("cache down")
	}
	m.entries[key] = value
	return nil
}

func (s *LLMClientSuite) TestComplete(t provider.T) {
	t.Parallel()

	client, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
			assert.Equal(t, "sys", req.Messages[0].Content)
			assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
			assert.Equal(t, "hello", req.Messages[1].Content)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`))
	})

	got, err := client.Complete(context.Background(), "sys", "hello")

	assert.NoError(t, err)
	assert.Equal(t, "hi there", got)
	assert.Equal(t, int32(1), calls.Load())
}

func (s *LLMClientSuite) TestFailures(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
		},
		{
			name: "API error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			},
		},
		{
			name: "Malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":`))
			},
		},
		{
			name: "No choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			client, calls := newClient(t, tc.handler)

			_, err := client.Complete(context.Background(), "sys", "hello")

			assert.ErrorIs(t, err, ErrRequestFailed)
			assert.Equal(t, int32(1), calls.Load(), "requests are not retried")
		})
	}
}

func (s *LLMClientSuite) TestCancelledContext(t provider.T) {
	t.Parallel()
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, "sys", "hello")

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func (s *LLMClientSuite) TestCache(t provider.T) {
	t.Parallel()

	t.Run("Identical request is served from cache", func(t provider.T) {
		cache := &mapCache{entries: map[string]string{}}
		client, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"plan"}}]}`))
		}, WithCache(cache, time.Minute))

		for i := 0; i < 3; i++ {
			got, err := client.Complete(context.Background(), "sys", "hello")
			assert.NoError(t, err)
			assert.Equal(t, "plan", got)
		}
		_, err := client.Complete(context.Background(), "sys", "other prompt")
		assert.NoError(t, err)

		assert.Equal(t, int32(2), calls.Load())
		assert.Len(t, cache.entries, 2)
	})

	t.Run("Failing cache falls through", func(t provider.T) {
		cache := &mapCache{entries: map[string]string{}, failing: true}
		client, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"plan"}}]}`))
		}, WithCache(cache, time.Minute))

		got, err := client.Complete(context.Background(), "sys", "hello")

		assert.NoError(t, err)
		assert.Equal(t, "plan", got)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Errors are not cached", func(t provider.T) {
		cache := &mapCache{entries: map[string]string{}}
		client, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}, WithCache(cache, time.Minute))

		_, err := client.Complete(context.Background(), "sys", "hello")
		assert.ErrorIs(t, err, ErrRequestFailed)
		_, err = client.Complete(context.Background(), "sys", "hello")
		assert.ErrorIs(t, err, ErrRequestFailed)

		assert.Equal(t, int32(2), calls.Load())
		assert.Empty(t, cache.entries)
	})
}

func TestLLMClientSuite(t *testing.T) {
	suite.RunSuite(t, new(LLMClientSuite))
}
