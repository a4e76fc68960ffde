package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/phishdefense/internal/db"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	database, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer database.Close()

	var count int
	err = database.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM schema_migrations`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = database.ExecContext(context.Background(),
		`INSERT INTO kv_records (record_key, record_value) VALUES (?, ?)`, "k", "[]")
	assert.NoError(t, err)
	assert.NoError(t, database.Ping(context.Background()))
}

func TestOpen_IsIdempotentOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.db")

	first, err := db.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(context.Background(), path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	err = second.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM schema_migrations`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "migrations must not be re-applied")
}

func TestAppliedMigrations(t *testing.T) {
	database, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer database.Close()

	versions, err := database.AppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, versions)
}
