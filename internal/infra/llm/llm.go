package infra_llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ShivanshCoding36/college-companion/internal/config"
)

var ErrRequestFailed = errors.New("completion request failed")

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Client talks to an OpenAI-compatible chat completion API.
// Requests are never retried.
type Client struct {
	api    *openai.Client
	model  string
	logger *slog.Logger

	cache    Cache
	cacheTTL time.Duration
}

type Option func(*Client)

// WithCache reuses the completion of an identical request for ttl.
// Cache failures only cost a backend call.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func New(cfg config.LLM, opts ...Option) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	c := &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		model:  cfg.Model,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return c.complete(ctx, system, prompt)
	}

	key := c.cacheKey(system, prompt)
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("completion cache read failed", slog.String("error", err.Error()))
	} else if ok {
		return cached, nil
	}

	content, err := c.complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, content, c.cacheTTL); err != nil {
		c.logger.Warn("completion cache write failed", slog.String("error", err.Error()))
	}
	return content, nil
}

func (c *Client) cacheKey(system, prompt string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + system + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Warn("completion rejected",
				slog.Int("status", apiErr.HTTPStatusCode),
				slog.String("error", apiErr.Message),
			)
		}
		return "", errors.Join(ErrRequestFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrRequestFailed)
	}
	return resp.Choices[0].Message.Content, nil
}
