// Package db opens the sqlite store that holds the score history.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vytor/phishdefense/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsTable = "schema_migrations"

var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type DB struct {
	*sql.DB
	log *logger.Logger
}

type migration struct {
	version string
	body    string
}

// Open opens (or creates) the sqlite database at dsn and applies pending
// migrations. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, dsn string) (*DB, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Info("opening database: %s", dsn)

	sqlDB, err := sql.Open("sqlite3", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// One connection: a single writer, and ":memory:" stays one database.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, log: log}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		log.Error("migrations failed: %v", err)
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// withPragmas appends the driver options the history store relies on,
// keeping any the caller already set.
func withPragmas(dsn string) string {
	base, rawQuery, _ := strings.Cut(dsn, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}
	defaults := map[string]string{
		"_busy_timeout": "5000",
		"_foreign_keys": "on",
	}
	if base != ":memory:" {
		defaults["_journal_mode"] = "WAL"
		defaults["_synchronous"] = "NORMAL"
	}
	for k, v := range defaults {
		if !q.Has(k) {
			q.Set(k, v)
		}
	}
	return base + "?" + q.Encode()
}

func loadMigrations() ([]migration, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	slices.Sort(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, migration{version: path.Base(name), body: string(body)})
	}
	return out, nil
}

func (db *DB) migrate(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationsTable+
		` (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`)
	if err != nil {
		return fmt.Errorf("create %s: %w", migrationsTable, err)
	}

	applied, err := db.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	pending, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, m := range pending {
		if slices.Contains(applied, m.version) {
			continue
		}
		if err := db.apply(ctx, m); err != nil {
			return err
		}
		db.log.Info("applied migration %s", m.version)
	}
	return nil
}

// apply runs one migration and records it in the same transaction.
func (db *DB) apply(ctx context.Context, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.body); err != nil {
		return fmt.Errorf("apply migration %s: %w", m.version, err)
	}
	query, args, err := sq.Insert(migrationsTable).Columns("version").Values(m.version).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record migration %s: %w", m.version, err)
	}
	return tx.Commit()
}

// AppliedMigrations lists the migration versions already recorded, oldest first.
func (db *DB) AppliedMigrations(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("version").From(migrationsTable).OrderBy("version").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// Ping checks the connection; used by the readiness endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
