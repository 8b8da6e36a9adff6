// Package llm provides chat completion providers for the catalog chat
// collaborator.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"stylegraph/application/ports"
	"stylegraph/pkg/errors"
)

const systemPrompt = `You are a helpful shopping assistant for a fashion catalog.
Answer using only the catalog products provided in the context.
Mention products by name and keep answers short.`

// OpenAIConfig configures the OpenAI provider
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAIProvider implements ports.ChatProvider against the OpenAI chat
// completions API. Calls run behind a circuit breaker so a degraded
// upstream fails fast instead of piling up requests.
type OpenAIProvider struct {
	config  OpenAIConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewOpenAIProvider creates a provider
func NewOpenAIProvider(config OpenAIConfig, logger *zap.Logger) *OpenAIProvider {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.TotalFailures*2 > counts.Requests
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &OpenAIProvider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		breaker: breaker,
		logger:  logger,
	}
}

var _ ports.ChatProvider = (*OpenAIProvider)(nil)

// Name identifies the provider in logs
func (p *OpenAIProvider) Name() string {
	return "openai/" + p.config.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete answers a prompt grounded in the given catalog context
func (p *OpenAIProvider) Complete(ctx context.Context, prompt, contextBlock string) (string, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.complete(ctx, prompt, contextBlock)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return "", errors.NewUnavailableError("chat provider is temporarily unavailable")
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt, contextBlock string) (string, error) {
	payload := chatRequest{
		Model: p.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "system", Content: "Context:\n" + contextBlock},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.5,
		MaxTokens:   400,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	started := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return "", errors.NewExternalError("chat completion request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.NewExternalError("reading chat response", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errors.NewExternalError("parsing chat response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("chat provider returned status %d", resp.StatusCode)
		if parsed.Error != nil {
			msg = fmt.Sprintf("%s: %s", msg, parsed.Error.Message)
		}
		return "", errors.NewExternalError(msg, nil)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.NewExternalError("chat provider returned no choices", nil)
	}

	p.logger.Debug("chat completion succeeded",
		zap.String("model", p.config.Model),
		zap.Duration("elapsed", time.Since(started)))

	return parsed.Choices[0].Message.Content, nil
}
