package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/gazetteer/pkg/gazetteer/internalerr"
	"github.com/cognicore/gazetteer/pkg/gazetteer/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS entities (
	rank INTEGER PRIMARY KEY,
	raw_value TEXT NOT NULL,
	resolved_value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stoplist (
	token TEXT PRIMARY KEY
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// AppendEntities adds entities after the existing ones in a single
// transaction. Ranks continue from the current maximum.
func (s *sqliteStore) AppendEntities(ctx context.Context, entities []store.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(rank) + 1, 0) FROM entities`).Scan(&next); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entities (rank, raw_value, resolved_value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entities {
		if _, err := stmt.ExecContext(ctx, next+i, e.RawValue, e.ResolvedValue); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Entities returns all entities ordered by rank.
func (s *sqliteStore) Entities(ctx context.Context) ([]store.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rank, raw_value, resolved_value FROM entities ORDER BY rank`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []store.Entity
	for rows.Next() {
		var e store.Entity
		if err := rows.Scan(&e.Rank, &e.RawValue, &e.ResolvedValue); err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

// Reset removes all entities.
func (s *sqliteStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entities`)
	return err
}

// StopWords returns the stored stop words in sorted order.
func (s *sqliteStore) StopWords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT token FROM stoplist ORDER BY token`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		stops = append(stops, tok)
	}
	return stops, rows.Err()
}

// UpsertStoplist replaces the stopword set in a single transaction.
func (s *sqliteStore) UpsertStoplist(ctx context.Context, tokens []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stoplist`); err != nil {
		return err
	}

	if len(tokens) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stoplist (token) VALUES (?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, tok := range tokens {
			if tok == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, tok); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
