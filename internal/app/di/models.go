package di

import (
	authadapters "planner_backend/internal/feature/auth/adapters"
	authentity "planner_backend/internal/feature/auth/domain/entity"
	chatadapters "planner_backend/internal/feature/chat/adapters"
	statsentity "planner_backend/internal/feature/stats/domain/entity"
)

// Models returns every GORM model that OpenDB migrates.
func Models() []any {
	return []any{
		&authentity.User{},
		&authadapters.OTPModel{},
		&chatadapters.ConversationModel{},
		&chatadapters.TurnModel{},
		&statsentity.PromptStats{},
	}
}
