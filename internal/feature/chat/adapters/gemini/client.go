// Package gemini はGoogle Gemini APIを使用したCompleter実装を提供します。
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"planner_backend/internal/feature/chat/domain/entity"
	"planner_backend/internal/feature/chat/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// contentGenerator は*genai.Modelsのうち使用するメソッドです。
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter はGoogle Gemini APIでプロジェクト計画を生成します。
type GeminiCompleter struct {
	models contentGenerator
	model  string
}

// GeminiCompleterがCompleterを実装していることをコンパイル時に検証します。
var _ usecase.Completer = (*GeminiCompleter)(nil)

// NewGeminiCompleter はGeminiCompleterの新しいインスタンスを生成します。
// apiKeyが空の場合は環境変数（GOOGLE_API_KEY、またはGOOGLE_GENAI_USE_VERTEXAIとADC）から認証情報を解決します。
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	var cc *genai.ClientConfig
	if apiKey != "" {
		cc = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiCompleter{models: client.Models, model: model}, nil
}

// Name implements usecase.Completer.
func (g *GeminiCompleter) Name() string { return "gemini" }

// Complete はシステム指示と会話ターンから応答を生成します。
func (g *GeminiCompleter) Complete(ctx context.Context, req usecase.CompletionRequest) (string, error) {
	contents, config := toGenAI(req)
	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}

// toGenAI はターンをGeminiのcontentsに変換します。アシスタントのロールは"model"です。
func toGenAI(req usecase.CompletionRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, t := range req.Turns {
		role := genai.RoleUser
		if t.Role == entity.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, genai.Role(role)))
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return contents, config
}
