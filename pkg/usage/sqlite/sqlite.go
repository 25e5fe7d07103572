// Package sqlite provides a SQLite-backed usage store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/chatgate/pkg/usage/sqlstore"
)

// Store implements usage.Store using SQLite.
type Store struct {
	*sqlstore.Store
}

// NewStore opens (and if needed creates) the SQLite database at dbPath.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	s, err := sqlstore.New(ctx, db, sqlstore.Dialect{
		Name:          "sqlite",
		Placeholder:   sqlstore.QuestionPlaceholder,
		TimestampType: "TIMESTAMP",
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{Store: s}, nil
}
