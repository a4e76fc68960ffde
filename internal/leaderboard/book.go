package leaderboard

import (
	"context"
	"sync"

	apperrors "github.com/vytor/phishdefense/internal/errors"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/repository"
)

// Book is the in-memory view of the persisted history. It is loaded once and
// written through on every Record. Storage failures never reach the caller:
// a failed load starts from an empty history, a failed save keeps the
// in-memory result.
type Book struct {
	mu      sync.Mutex
	repo    repository.HistoryRepository
	limit   int
	records []models.ScoreRecord
	log     *logger.Logger
}

// NewBook loads the history from repo. repo may be nil for a book that is
// never persisted.
func NewBook(ctx context.Context, repo repository.HistoryRepository, limit int) *Book {
	if limit <= 0 {
		limit = DefaultLimit
	}
	b := &Book{
		repo:    repo,
		limit:   limit,
		records: []models.ScoreRecord{},
		log:     logger.FromContext(ctx).WithPrefix("leaderboard"),
	}
	if repo == nil {
		return b
	}

	records, err := repo.Load(ctx)
	if err != nil {
		b.log.Warn("%v", apperrors.NewStorageUnavailableError("load", err))
		return b
	}
	b.records = Normalize(records, limit)
	b.log.Debug("loaded %d score records", len(b.records))
	return b
}

// Record adds entry, persists the new list and returns a copy of it.
func (b *Book) Record(ctx context.Context, entry models.ScoreRecord) []models.ScoreRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = Merge(b.records, entry, b.limit)
	if b.repo != nil {
		if err := b.repo.Save(ctx, b.records); err != nil {
			b.log.Warn("%v", apperrors.NewStorageUnavailableError("save", err))
		}
	}
	return b.copyLocked()
}

// Records returns a copy of the current history.
func (b *Book) Records() []models.ScoreRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyLocked()
}

func (b *Book) Limit() int {
	return b.limit
}

func (b *Book) copyLocked() []models.ScoreRecord {
	out := make([]models.ScoreRecord, len(b.records))
	copy(out, b.records)
	return out
}
