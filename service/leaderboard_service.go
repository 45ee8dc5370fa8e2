package service

import (
	"context"
	"fmt"

	"concoin/models"
)

// leaderboardService implements the LeaderboardService interface
type leaderboardService struct {
	uowFactory UnitOfWorkFactory
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(uowFactory UnitOfWorkFactory) LeaderboardService {
	return &leaderboardService{
		uowFactory: uowFactory,
	}
}

// Top returns up to limit users ranked by balance descending, ties by
// identity ascending. Read-only; an empty ledger yields an empty slice.
func (s *leaderboardService) Top(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, &models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      user.UserID,
			DisplayName: user.DisplayName,
			Balance:     user.Balance,
		})
	}

	return entries, nil
}
