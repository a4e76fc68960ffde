// Package memory provides an in-process HistoryRepository, used when no
// database is available and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/repository"
)

type HistoryRepository struct {
	mu      sync.Mutex
	records []models.ScoreRecord
	saves   int

	// LoadErr and SaveErr, when set, are returned instead of touching the data.
	LoadErr error
	SaveErr error
}

var _ repository.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository returns a store seeded with a copy of records.
func NewHistoryRepository(records ...models.ScoreRecord) *HistoryRepository {
	return &HistoryRepository{records: clone(records)}
}

func (r *HistoryRepository) Load(_ context.Context) ([]models.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	return clone(r.records), nil
}

func (r *HistoryRepository) Save(_ context.Context, records []models.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.records = clone(records)
	r.saves++
	return nil
}

// Saves counts successful Save calls.
func (r *HistoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func clone(in []models.ScoreRecord) []models.ScoreRecord {
	out := make([]models.ScoreRecord, len(in))
	copy(out, in)
	return out
}
