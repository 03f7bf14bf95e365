package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
	"github.com/loomhq/loom/internal/xjson"
)

// HTTPProvider speaks the OpenAI-compatible chat-completions protocol used
// by hosted inference services. It classifies HTTP failures into the
// generation error taxonomy; retry policy lives in the Client above it.
type HTTPProvider struct {
	config domain.ProviderConfig
	client *http.Client
	logger *slog.Logger
}

func NewHTTPProvider(config domain.ProviderConfig, logger *slog.Logger) *HTTPProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPProvider{
		config: config,
		client: &http.Client{},
		logger: logger.With("component", "http-provider"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
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

func (p *HTTPProvider) Complete(ctx context.Context, req ports.GenerateRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	body := chatRequest{
		Model:       p.config.Model,
		MaxTokens:   maxTokens,
		Temperature: p.config.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
	}
	payload, err := xjson.Marshal(body)
	if err != nil {
		return "", domain.NewGenerationError(domain.GenerationMalformedRequest, "encode request", err)
	}

	url := p.config.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", domain.NewGenerationError(domain.GenerationMalformedRequest, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		// Context errors surface here wrapped in *url.Error; the client
		// classifies deadline expiry as transient.
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewGenerationError(domain.GenerationProviderFailure, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", p.classifyStatus(resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := xjson.Unmarshal(data, &parsed); err != nil {
		return "", domain.NewGenerationError(domain.GenerationProviderFailure, "decode response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", domain.NewGenerationError(domain.GenerationProviderFailure, "response carried no choices", nil)
	}

	return parsed.Choices[0].Message.Content, nil
}

func (p *HTTPProvider) classifyStatus(status int, body []byte) *domain.GenerationError {
	message := fmt.Sprintf("status %d: %s", status, truncate(body, 300))

	switch {
	case status == http.StatusTooManyRequests:
		return domain.NewGenerationError(domain.GenerationRateLimited, message, nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewGenerationError(domain.GenerationAuth, message, nil)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.NewGenerationError(domain.GenerationMalformedRequest, message, nil)
	}
	return domain.NewGenerationError(domain.GenerationProviderFailure, message, nil)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ ports.Provider = (*HTTPProvider)(nil)
