// Package adapters provides repository implementations for the chat feature.
package adapters

import (
	"time"

	"planner_backend/internal/feature/chat/domain/entity"
)

// ConversationModel is the GORM row of one user's conversation.
type ConversationModel struct {
	UserID    string      `gorm:"primaryKey;type:text"`
	Turns     []TurnModel `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM.
func (ConversationModel) TableName() string { return "conversations" }

// TurnModel is one stored turn. Position orders turns within a conversation.
type TurnModel struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   string `gorm:"type:text;not null;uniqueIndex:idx_turn_position"`
	Position int    `gorm:"not null;uniqueIndex:idx_turn_position"`
	PairID   string `gorm:"size:36;not null;index"`
	Role     string `gorm:"size:16;not null"`
	Content  string `gorm:"type:text;not null"`
}

// TableName specifies the table name for GORM.
func (TurnModel) TableName() string { return "conversation_turns" }

// ToEntity converts the model and its ordered turns into a Conversation.
func (m *ConversationModel) ToEntity() *entity.Conversation {
	conv := entity.NewConversation(m.UserID)
	for _, t := range m.Turns {
		conv.Turns = append(conv.Turns, entity.Turn{
			PairID:  t.PairID,
			Role:    entity.Role(t.Role),
			Content: t.Content,
		})
	}
	return conv
}

// turnModelsFromEntity converts turns into rows numbered from 0.
func turnModelsFromEntity(conv *entity.Conversation) []TurnModel {
	rows := make([]TurnModel, len(conv.Turns))
	for i, t := range conv.Turns {
		rows[i] = TurnModel{
			UserID:   conv.UserID,
			Position: i,
			PairID:   t.PairID,
			Role:     string(t.Role),
			Content:  t.Content,
		}
	}
	return rows
}
