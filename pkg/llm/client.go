package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ewittry/parley/pkg/chat"
)

// ClientConfig holds the parameters for talking to a completion
// endpoint.
type ClientConfig struct {
	// BaseURL of the provider (e.g., "http://localhost:11434")
	BaseURL string

	// Model name sent with every request
	Model string

	// APIKey, if non-empty, is sent as a bearer token. Local providers
	// ignore it.
	APIKey string

	// Temperature, if non-nil, overrides the provider default.
	Temperature *float64
}

// Client calls an Ollama-compatible /api/chat endpoint. It sends the
// full conversation history on every call and never streams.
type Client struct {
	config     ClientConfig
	logger     *zap.Logger
	httpClient *http.Client
}

// NewClient creates a completion client.
func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			// LLM requests can be slow, especially with thinking blocks
			Timeout: 5 * time.Minute,
		},
	}
}

// Complete sends the conversation to the provider and returns the
// assistant's reply as a new turn. Any failure — network, auth, bad
// status, malformed body — comes back as a single wrapped error; the
// caller does not distinguish causes.
func (c *Client) Complete(ctx context.Context, turns []chat.Turn) (chat.Turn, error) {
	streaming := false
	req := ChatRequest{
		Model:    c.config.Model,
		Messages: make([]Message, len(turns)),
		Stream:   &streaming,
	}
	for i, t := range turns {
		req.Messages[i] = Message{Role: string(t.Role), Content: t.Content}
	}
	if c.config.Temperature != nil {
		req.Options = &Options{Temperature: c.config.Temperature}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return chat.Turn{}, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/api/chat"
	c.logger.Debug("sending chat request",
		zap.String("url", url),
		zap.String("model", c.config.Model),
		zap.Int("message_count", len(req.Messages)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return chat.Turn{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return chat.Turn{}, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return chat.Turn{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return chat.Turn{}, fmt.Errorf("provider returned %d: %s", httpResp.StatusCode, apiErr.Error)
		}
		return chat.Turn{}, fmt.Errorf("provider returned %d: %s", httpResp.StatusCode, string(body))
	}

	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return chat.Turn{}, fmt.Errorf("unmarshal response: %w", err)
	}

	c.logger.Debug("received chat response",
		zap.String("model", resp.Model),
		zap.Int("eval_count", resp.EvalCount),
	)

	return chat.AssistantTurn(resp.Message.Content), nil
}
