package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"planner_backend/internal/feature/chat/usecase"
	"planner_backend/internal/platform/externalapi/openrouter/dto"
)

// maxErrorBody limits how much of an error response is kept for the error message.
const maxErrorBody = 512

// Client はOpenRouterのchat completions APIを呼び出すCompleter実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがCompleterを実装していることをコンパイル時に検証します。
var _ usecase.Completer = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: client}
}

// Name implements usecase.Completer.
func (c *Client) Name() string { return "openrouter" }

// Complete はシステム指示と会話ターンを送信し、最初の選択肢の本文を返します。
func (c *Client) Complete(ctx context.Context, in usecase.CompletionRequest) (string, error) {
	payload, err := json.Marshal(buildRequest(c.cfg.Model, in))
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return "", fmt.Errorf("openrouter http %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var body dto.ChatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Error != nil {
		return "", fmt.Errorf("openrouter: %s", body.Error.Message)
	}
	if len(body.Choices) == 0 {
		return "", nil
	}
	return body.Choices[0].Message.Content, nil
}

// buildRequest prepends the system instruction to the conversation window.
func buildRequest(model string, in usecase.CompletionRequest) dto.ChatCompletionRequest {
	messages := make([]dto.Message, 0, len(in.Turns)+1)
	if in.System != "" {
		messages = append(messages, dto.Message{Role: "system", Content: in.System})
	}
	for _, t := range in.Turns {
		messages = append(messages, dto.Message{Role: string(t.Role), Content: t.Content})
	}
	return dto.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   in.MaxTokens,
		Temperature: in.Temperature,
	}
}
