package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
	"github.com/vytor/phishdefense/internal/repository"
)

const recordsTable = "kv_records"

type historyRepository struct {
	db  *sql.DB
	key string
}

// NewHistoryRepository stores the score history as one JSON value under key.
func NewHistoryRepository(db *sql.DB, key string) repository.HistoryRepository {
	return &historyRepository{db: db, key: key}
}

func (r *historyRepository) Load(ctx context.Context) ([]models.ScoreRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("loading score history: key=%s", r.key)

	query, args, err := sqlBuilder.
		Select("record_value").
		From(recordsTable).
		Where(squirrel.Eq{"record_key": r.key}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var raw string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no score history stored yet")
		return []models.ScoreRecord{}, nil
	}
	if err != nil {
		log.Error("failed to load score history: %v", err)
		return nil, err
	}

	records, err := decodeRecords(raw)
	if err != nil {
		log.Warn("stored score history is unreadable: %v", err)
		return nil, err
	}
	log.Debug("loaded %d score records", len(records))
	return records, nil
}

func (r *historyRepository) Save(ctx context.Context, records []models.ScoreRecord) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("saving %d score records: key=%s", len(records), r.key)

	value, err := encodeRecords(records)
	if err != nil {
		return err
	}

	query, args, err := sqlBuilder.
		Insert(recordsTable).
		Columns("record_key", "record_value", "updated_at").
		Values(r.key, value, time.Now().UTC()).
		Suffix("ON CONFLICT(record_key) DO UPDATE SET record_value = excluded.record_value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	err = inTx(ctx, r.db, "save score history", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Error("%v", err)
	}
	return err
}
