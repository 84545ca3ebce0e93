// Package usecase implements the business logic for prompt statistics.
package usecase

import (
	"context"
	"fmt"

	"planner_backend/internal/feature/stats/domain/entity"
)

// StatsRepository abstracts the persistence layer for prompt counters.
type StatsRepository interface {
	Increment(ctx context.Context, userID string) error
	Total(ctx context.Context) (int64, error)
	ForUser(ctx context.Context, userID string) (int64, error)
}

// StatsUsecase counts prompts and reports them.
type StatsUsecase struct {
	repo StatsRepository
}

// NewStatsUsecase creates a new StatsUsecase with the given repository.
func NewStatsUsecase(r StatsRepository) *StatsUsecase {
	return &StatsUsecase{repo: r}
}

// Increment records one more prompt for userID.
func (u *StatsUsecase) Increment(ctx context.Context, userID string) error {
	return u.repo.Increment(ctx, userID)
}

// Get returns the total prompt count and the count for userID.
func (u *StatsUsecase) Get(ctx context.Context, userID string) (*entity.Summary, error) {
	total, err := u.repo.Total(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum prompts: %w", err)
	}
	mine, err := u.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count user prompts: %w", err)
	}
	return &entity.Summary{TotalPrompts: total, UserPrompts: mine}, nil
}
