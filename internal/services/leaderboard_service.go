package services

import (
	"context"

	"github.com/vytor/phishdefense/internal/leaderboard"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
)

// LeaderboardService exposes the shared score history
type LeaderboardService interface {
	Top(ctx context.Context, n int) []models.ScoreRecord
	All(ctx context.Context) []models.ScoreRecord
}

type leaderboardService struct {
	book *leaderboard.Book
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(book *leaderboard.Book) LeaderboardService {
	return &leaderboardService{book: book}
}

func (s *leaderboardService) Top(ctx context.Context, n int) []models.ScoreRecord {
	log := logger.FromContext(ctx)
	log.Debug("getting leaderboard: n=%d", n)

	return leaderboard.Top(s.All(ctx), n)
}

func (s *leaderboardService) All(_ context.Context) []models.ScoreRecord {
	if s.book == nil {
		return []models.ScoreRecord{}
	}
	return s.book.Records()
}
