package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/phishdefense/internal/models"
)

// MockHistoryRepository is a mock implementation of repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Load(ctx context.Context) ([]models.ScoreRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScoreRecord), args.Error(1)
}

func (m *MockHistoryRepository) Save(ctx context.Context, records []models.ScoreRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}
