package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"planner_backend/internal/feature/chat/domain/entity"
	"planner_backend/internal/shared/apperr"
	"planner_backend/internal/shared/ratelimiter"
)

const (
	// ContextWindow は補完リクエストに含める直近ターン数です。
	ContextWindow = 20
	// DefaultMaxTokens は出力トークン数の上限です。
	DefaultMaxTokens = 1800
	// DefaultTemperature はサンプリング温度です。
	DefaultTemperature float32 = 0.6
)

// CompletionRequest は外部補完サービスへの入力です。
type CompletionRequest struct {
	System      string
	Turns       []entity.Turn
	MaxTokens   int
	Temperature float32
}

// Completer は外部のテキスト補完サービスを抽象化します。
// 実装はplatform/externalapi/openrouterとadapters/geminiにあります。
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Name はメトリクスとログに使うプロバイダー名です。
	Name() string
}

// PromptCounter はユーザーごとのプロンプト数を加算します。
type PromptCounter interface {
	Increment(ctx context.Context, userID string) error
}

// CompletionRecorder は補完呼び出しの結果を記録します。
type CompletionRecorder interface {
	RecordCompletion(provider string, d time.Duration, err error)
}

// CompletionOptions はサンプリング設定です。ゼロ値はデフォルトに置き換えられます。
type CompletionOptions struct {
	MaxTokens   int
	Temperature float32
}

// completionUsecase はプロンプトを外部サービスに転送し、会話と統計を更新します。
type completionUsecase struct {
	repo      ConversationRepository
	completer Completer
	counter   PromptCounter
	limiter   ratelimiter.RateLimiterInterface
	recorder  CompletionRecorder
	opts      CompletionOptions
	now       func() time.Time
}

// NewCompletionUsecase はcompletionUsecaseの新しいインスタンスを生成します。
func NewCompletionUsecase(
	repo ConversationRepository,
	completer Completer,
	counter PromptCounter,
	limiter ratelimiter.RateLimiterInterface,
	recorder CompletionRecorder,
	opts CompletionOptions,
) *completionUsecase {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultTemperature
	}
	return &completionUsecase{
		repo:      repo,
		completer: completer,
		counter:   counter,
		limiter:   limiter,
		recorder:  recorder,
		opts:      opts,
		now:       time.Now,
	}
}

// Complete はプロンプトを会話に追加し、直近20ターンとシステム指示で補完を要求します。
// 成功時のみ会話を保存（最新50件）し、プロンプト数を加算して応答を返します。
// 外部サービスの失敗や空応答ではKindUpstreamのエラーを返し、何も保存しません。
func (u *completionUsecase) Complete(ctx context.Context, userID, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrPromptRequired
	}

	conv, err := loadOrNew(ctx, u.repo, userID)
	if err != nil {
		return "", err
	}
	conv.Append(entity.RoleUser, prompt)

	if err := u.limiter.Wait(ctx); err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "completion throttled", err)
	}

	start := u.now()
	reply, err := u.completer.Complete(ctx, CompletionRequest{
		System:      PlanSystemInstruction,
		Turns:       conv.Window(ContextWindow),
		MaxTokens:   u.opts.MaxTokens,
		Temperature: u.opts.Temperature,
	})
	reply = strings.TrimSpace(reply)
	if err == nil && reply == "" {
		err = ErrEmptyCompletion
	}
	u.recorder.RecordCompletion(u.completer.Name(), u.now().Sub(start), err)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "completion failed", err)
	}

	conv.Append(entity.RoleAssistant, reply)
	conv.Trim(entity.MaxStoredTurns)
	if err := u.repo.Save(ctx, conv); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to save conversation", err)
	}

	// 統計の加算失敗で応答を失わない
	if err := u.counter.Increment(ctx, userID); err != nil {
		slog.Warn("failed to increment prompt stats", "user_id", userID, "error", err)
	}
	return reply, nil
}
