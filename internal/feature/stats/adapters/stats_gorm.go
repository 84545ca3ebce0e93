// Package adapters はstatsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner_backend/internal/feature/stats/domain/entity"
	"planner_backend/internal/feature/stats/usecase"
)

// statsGorm はStatsRepositoryインターフェースのGORM実装です。
type statsGorm struct {
	db *gorm.DB
}

var _ usecase.StatsRepository = (*statsGorm)(nil)

// NewStatsGorm は指定されたDB接続でstatsGormリポジトリの新しいインスタンスを生成します。
func NewStatsGorm(db *gorm.DB) *statsGorm {
	return &statsGorm{db: db}
}

// Increment はユーザーのプロンプト数を1増やします。行がなければ1で作成します。
func (r *statsGorm) Increment(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"prompts": gorm.Expr("prompt_stats.prompts + 1")}),
		}).
		Create(&entity.PromptStats{UserID: userID, Prompts: 1}).Error
}

// Total は全ユーザーのプロンプト数の合計を返します。
func (r *statsGorm) Total(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entity.PromptStats{}).
		Select("COALESCE(SUM(prompts), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ForUser はユーザーのプロンプト数を返します。行がなければ0です。
func (r *statsGorm) ForUser(ctx context.Context, userID string) (int64, error) {
	var row entity.PromptStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Prompts, nil
}
