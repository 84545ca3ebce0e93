// Package usecase はchatフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"planner_backend/internal/feature/chat/domain/entity"
)

// ConversationRepository は会話履歴の永続化層を抽象化します。
type ConversationRepository interface {
	// Load はユーザーの会話を取得します。存在しない場合はErrConversationNotFoundを返します。
	Load(ctx context.Context, userID string) (*entity.Conversation, error)
	// Save は会話全体を置き換えて保存します。
	Save(ctx context.Context, conv *entity.Conversation) error
}

// historyUsecase は会話履歴の保存・取得・削除を提供します。
// 同一ユーザーへの同時書き込みは後勝ちになり、片方の更新が失われることがあります。
type historyUsecase struct {
	repo ConversationRepository
}

// NewHistoryUsecase はhistoryUsecaseの新しいインスタンスを生成します。
func NewHistoryUsecase(repo ConversationRepository) *historyUsecase {
	return &historyUsecase{repo: repo}
}

// loadOrNew は会話を取得し、存在しなければ空の会話を返します。
func loadOrNew(ctx context.Context, repo ConversationRepository, userID string) (*entity.Conversation, error) {
	conv, err := repo.Load(ctx, userID)
	if errors.Is(err, ErrConversationNotFound) {
		return entity.NewConversation(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return conv, nil
}

// AppendTurn は1件のターンを追加し、最新50件に切り詰めて保存します。
func (u *historyUsecase) AppendTurn(ctx context.Context, userID string, role entity.Role, content string) error {
	conv, err := loadOrNew(ctx, u.repo, userID)
	if err != nil {
		return err
	}
	conv.Append(role, content)
	conv.Trim(entity.MaxStoredTurns)
	return u.save(ctx, conv)
}

// SaveExchange はユーザー入力とAI応答を同じペアとして追加します。
func (u *historyUsecase) SaveExchange(ctx context.Context, userID, userInput, aiResponse string) error {
	if userID == "" || userInput == "" || aiResponse == "" {
		return ErrAllFieldsRequired
	}
	conv, err := loadOrNew(ctx, u.repo, userID)
	if err != nil {
		return err
	}
	conv.Append(entity.RoleUser, userInput)
	conv.Append(entity.RoleAssistant, aiResponse)
	conv.Trim(entity.MaxStoredTurns)
	return u.save(ctx, conv)
}

// GetPaired は会話を先頭から2件ずつのペアとして返します。会話がなければ空スライスです。
func (u *historyUsecase) GetPaired(ctx context.Context, userID string) ([]entity.Pair, error) {
	conv, err := u.repo.Load(ctx, userID)
	if errors.Is(err, ErrConversationNotFound) {
		return []entity.Pair{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return conv.Paired(), nil
}

// DeletePair は内容が一致する最初のユーザー/アシスタントのペアを削除します。
func (u *historyUsecase) DeletePair(ctx context.Context, userID, userInput, aiResponse string) error {
	if userID == "" || userInput == "" || aiResponse == "" {
		return ErrAllFieldsRequired
	}
	return u.mutate(ctx, userID, func(conv *entity.Conversation) bool {
		return conv.RemovePair(userInput, aiResponse)
	})
}

// DeletePairByID は履歴一覧でpairIDとして表示されている2ターンを削除します。
func (u *historyUsecase) DeletePairByID(ctx context.Context, userID, pairID string) error {
	if userID == "" || pairID == "" {
		return ErrAllFieldsRequired
	}
	return u.mutate(ctx, userID, func(conv *entity.Conversation) bool {
		return conv.RemovePairByID(pairID)
	})
}

// mutate は既存の会話にfnを適用し、変更があれば保存します。
func (u *historyUsecase) mutate(ctx context.Context, userID string, fn func(*entity.Conversation) bool) error {
	conv, err := u.repo.Load(ctx, userID)
	if errors.Is(err, ErrConversationNotFound) {
		return ErrNoHistory
	}
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}
	if !fn(conv) {
		return ErrNoMatchingPair
	}
	return u.save(ctx, conv)
}

func (u *historyUsecase) save(ctx context.Context, conv *entity.Conversation) error {
	if err := u.repo.Save(ctx, conv); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}
