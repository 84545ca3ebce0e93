package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner_backend/internal/feature/chat/domain/entity"
	"planner_backend/internal/feature/chat/usecase"
)

const turnBatchSize = 100

// conversationGorm is a GORM implementation of the ConversationRepository interface.
type conversationGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure conversationGorm implements ConversationRepository.
var _ usecase.ConversationRepository = (*conversationGorm)(nil)

// NewConversationGorm creates a new instance of conversationGorm.
func NewConversationGorm(db *gorm.DB) *conversationGorm {
	return &conversationGorm{db: db}
}

// Load retrieves the conversation of userID with turns in stored order.
func (r *conversationGorm) Load(ctx context.Context, userID string) (*entity.Conversation, error) {
	var model ConversationModel
	err := r.db.WithContext(ctx).
		Preload("Turns", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrConversationNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Save replaces the stored turns of conv in a single transaction,
// creating the conversation row on first save.
func (r *conversationGorm) Save(ctx context.Context, conv *entity.Conversation) error {
	if conv == nil || conv.UserID == "" {
		return errors.New("conversation must have a user id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		row := ConversationModel{UserID: conv.UserID, CreatedAt: now, UpdatedAt: now}
		if err := tx.Omit("Turns").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to upsert conversation: %w", err)
		}

		if err := tx.Where("user_id = ?", conv.UserID).Delete(&TurnModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear turns: %w", err)
		}

		rows := turnModelsFromEntity(conv)
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, turnBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert turns: %w", err)
		}
		return nil
	})
}
