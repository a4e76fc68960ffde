package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/phishdefense/internal/logger"
	"github.com/vytor/phishdefense/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// inTx runs fn in a transaction named op and rolls back when fn fails.
func inTx(ctx context.Context, db *sql.DB, op string, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn("%s: rollback failed: %v", op, rbErr)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	log.Debug("%s committed", op)
	return nil
}

// encodeRecords never produces "null": an empty history is stored as "[]".
func encodeRecords(records []models.ScoreRecord) (string, error) {
	if records == nil {
		records = []models.ScoreRecord{}
	}
	value, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode score history: %w", err)
	}
	return string(value), nil
}

func decodeRecords(raw string) ([]models.ScoreRecord, error) {
	var records []models.ScoreRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode score history: %w", err)
	}
	if records == nil {
		records = []models.ScoreRecord{}
	}
	return records, nil
}
