package repository

import (
	"context"

	"github.com/vytor/phishdefense/internal/models"
)

// HistoryRepository is the durable store for the score history. The whole
// list is loaded and saved as one record.
type HistoryRepository interface {
	Load(ctx context.Context) ([]models.ScoreRecord, error)
	Save(ctx context.Context, records []models.ScoreRecord) error
}
